package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// GenerateBetReference creates a bet code in the format "BET-<unix ms>-<base58>"
// where the suffix is 8 random bytes
func GenerateBetReference(now time.Time) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate bet reference: %w", err)
	}
	return fmt.Sprintf("BET-%d-%s", now.UnixMilli(), base58.Encode(buf)), nil
}

// GenerateTransactionReference creates a unique transaction reference
func GenerateTransactionReference() string {
	return "TXN-" + uuid.NewString()
}

// GenerateWithdrawalReference creates a short human-readable payout code in the
// format "WD-XXXXXX-NNNN"
func GenerateWithdrawalReference() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate withdrawal reference: %w", err)
	}

	// Random 4-digit suffix
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}

	return fmt.Sprintf("WD-%s-%04d", base58.Encode(buf), suffix.Int64()), nil
}
