package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportsbook/internal/models"
	"sportsbook/internal/services"
)

// TransactionHandler serves transaction history and the withdrawal decisions.
type TransactionHandler struct {
	walletService *services.WalletService
	logger        *zap.Logger
}

func NewTransactionHandler(walletService *services.WalletService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// GetTransactions handles GET /transactions
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page := pageQuery(c)
	txns, total, err := h.walletService.ListTransactions(c.Request.Context(), services.TransactionQuery{
		UserID: &userID,
		Type:   models.TransactionType(c.Query("type")),
		Status: models.TransactionStatus(c.Query("status")),
		Page:   page,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listResponse("transactions", "Transactions fetched successfully", txns, total, page))
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "transaction")
	if !ok {
		return
	}

	txn, err := h.walletService.GetTransaction(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Transaction fetched successfully",
		"transaction": txn,
	})
}

// ApproveWithdrawal handles POST /transactions/:id/approve (admin)
func (h *TransactionHandler) ApproveWithdrawal(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "transaction")
	if !ok {
		return
	}

	res, err := h.walletService.ApproveWithdrawal(c.Request.Context(), adminID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Withdrawal approved",
		"transaction": res.Transaction,
		"newBalance":  res.NewBalance,
	})
}

// RejectWithdrawal handles POST /transactions/:id/cancel (admin)
func (h *TransactionHandler) RejectWithdrawal(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "transaction")
	if !ok {
		return
	}

	res, err := h.walletService.RejectWithdrawal(c.Request.Context(), adminID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Withdrawal cancelled and funds returned",
		"transaction": res.Transaction,
		"newBalance":  res.NewBalance,
	})
}
