package utils

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBetReference(t *testing.T) {
	now := time.UnixMilli(1760000000123)

	ref, err := GenerateBetReference(now)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "BET-1760000000123-"), ref)

	suffix := strings.TrimPrefix(ref, "BET-1760000000123-")
	raw, err := base58.Decode(suffix)
	require.NoError(t, err)
	assert.Len(t, raw, 8)

	other, err := GenerateBetReference(now)
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
}

func TestGenerateTransactionReference(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateTransactionReference()
		assert.True(t, strings.HasPrefix(ref, "TXN-"))
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestGenerateWithdrawalReference(t *testing.T) {
	ref, err := GenerateWithdrawalReference()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^WD-[1-9A-HJ-NP-Za-km-z]+-\d{4}$`), ref)
}
