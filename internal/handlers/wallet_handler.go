package handlers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sportsbook/internal/paystack"
	"sportsbook/internal/services"
)

// SignatureHeader carries the payment provider's webhook signature.
const SignatureHeader = "X-Paystack-Signature"

// WalletHandler serves balance, deposit and withdrawal endpoints.
type WalletHandler struct {
	walletService *services.WalletService
	webhookSecret string
	logger        *zap.Logger
}

// NewWalletHandler creates a WalletHandler. When webhookSecret is set, deposit
// callbacks must carry a valid signature.
func NewWalletHandler(walletService *services.WalletService, webhookSecret string, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// GetWallet handles GET /user/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Wallet fetched successfully",
		"wallet":  wallet,
	})
}

type depositCallbackRequest struct {
	Reference string          `json:"reference" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Email     string          `json:"email" binding:"required"`
}

// DepositCallback handles POST /user/deposit/callback. Replays of a processed
// reference succeed without crediting again.
func (h *WalletHandler) DepositCallback(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		badRequest(c, "Failed to read request body")
		return
	}

	if h.webhookSecret != "" && !paystack.VerifySignature(h.webhookSecret, body, c.GetHeader(SignatureHeader)) {
		h.logger.Warn("deposit callback with invalid signature", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid signature",
		})
		return
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	var req depositCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Reference, amount and email are required")
		return
	}

	res, err := h.walletService.HandleDepositCallback(c.Request.Context(), services.DepositInput{
		Reference: req.Reference,
		Amount:    req.Amount,
		Email:     req.Email,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	message := "Deposit successful"
	if res.Duplicate {
		message = "Deposit already processed"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     message,
		"duplicate":   res.Duplicate,
		"transaction": res.Transaction,
		"newBalance":  res.NewBalance,
	})
}

type withdrawRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	BankAccountID uint            `json:"bankAccountId"`
}

// Withdraw handles POST /user/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Amount and bank account are required")
		return
	}

	res, err := h.walletService.RequestWithdrawal(c.Request.Context(), userID, services.WithdrawalInput{
		Amount:        req.Amount,
		BankAccountID: req.BankAccountID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Withdrawal request submitted",
		"transaction": res.Transaction,
		"newBalance":  res.NewBalance,
	})
}
