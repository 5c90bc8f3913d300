package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportsbook/internal/services"
)

// BankHandler serves linked bank account endpoints.
type BankHandler struct {
	bankService *services.BankService
	logger      *zap.Logger
}

func NewBankHandler(bankService *services.BankService, logger *zap.Logger) *BankHandler {
	return &BankHandler{
		bankService: bankService,
		logger:      logger,
	}
}

// GetSupportedBanks handles GET /bank/supported
func (h *BankHandler) GetSupportedBanks(c *gin.Context) {
	banks, err := h.bankService.ListSupportedBanks(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Banks fetched successfully",
		"banks":   banks,
	})
}

type resolveAccountRequest struct {
	AccountNumber string `json:"accountNumber" binding:"required"`
	BankCode      string `json:"bankCode" binding:"required"`
}

// ResolveAccount handles POST /bank/resolve
func (h *BankHandler) ResolveAccount(c *gin.Context) {
	var req resolveAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Account number and bank code are required")
		return
	}

	account, err := h.bankService.ResolveAccount(c.Request.Context(), req.AccountNumber, req.BankCode)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Account resolved successfully",
		"accountName":   account.AccountName,
		"accountNumber": account.AccountNumber,
	})
}

// GetBankAccounts handles GET /bank
func (h *BankHandler) GetBankAccounts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	accounts, err := h.bankService.ListBankAccounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Bank accounts fetched successfully",
		"bankAccounts": accounts,
	})
}

type addBankAccountRequest struct {
	BankName      string `json:"bankName" binding:"required"`
	BankCode      string `json:"bankCode" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	AccountName   string `json:"accountName"`
}

// AddBankAccount handles POST /bank
func (h *BankHandler) AddBankAccount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req addBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Bank name, bank code and account number are required")
		return
	}

	account, err := h.bankService.AddBankAccount(c.Request.Context(), userID, services.BankAccountInput{
		BankName:      req.BankName,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Bank account added",
		"bankAccount": account,
	})
}

// DeleteBankAccount handles DELETE /bank/:id
func (h *BankHandler) DeleteBankAccount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "bank account")
	if !ok {
		return
	}

	if err := h.bankService.DeleteBankAccount(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bank account removed",
	})
}

// SetDefaultBankAccount handles PATCH /bank/:id/default
func (h *BankHandler) SetDefaultBankAccount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "bank account")
	if !ok {
		return
	}

	account, err := h.bankService.SetDefaultBankAccount(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Default bank account updated",
		"bankAccount": account,
	})
}
