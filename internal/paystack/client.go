package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

// ErrUpstream marks failures of the Paystack API itself.
var ErrUpstream = errors.New("paystack request failed")

type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// Bank is a bank supported by Paystack transfers.
type Bank struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Code     string `json:"code"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Active   bool   `json:"active"`
}

// ResolvedAccount is the holder name Paystack returns for an account number.
type ResolvedAccount struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	BankID        int    `json:"bank_id"`
}

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func NewClient(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
	}
}

// addAuthHeaders adds authentication headers to the request
func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
}

// ListBanks fetches the Nigerian banks Paystack can pay out to
func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	var out envelope[[]Bank]
	if err := c.get(ctx, "/bank", url.Values{"country": {"nigeria"}}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ResolveAccount looks up the holder name of an account number at a bank
func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*ResolvedAccount, error) {
	query := url.Values{
		"account_number": {accountNumber},
		"bank_code":      {bankCode},
	}

	var out envelope[ResolvedAccount]
	if err := c.get(ctx, "/bank/resolve", query, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s: %d - %s", ErrUpstream, path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}
	return nil
}

// VerifySignature checks the x-paystack-signature header of a webhook body.
// Paystack signs the raw body with HMAC-SHA512 keyed by the secret key.
func VerifySignature(secretKey string, body []byte, signature string) bool {
	if secretKey == "" || signature == "" {
		return false
	}
	expected := Sign(secretKey, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Sign returns the signature Paystack would send for body.
func Sign(secretKey string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
