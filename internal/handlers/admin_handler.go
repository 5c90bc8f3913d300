package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sportsbook/internal/models"
	"sportsbook/internal/repository"
	"sportsbook/internal/services"
)

// AdminHandler serves the back-office settlement and wallet endpoints.
type AdminHandler struct {
	adminService  *services.AdminService
	betService    *services.BetService
	walletService *services.WalletService
	logger        *zap.Logger
}

func NewAdminHandler(adminService *services.AdminService, betService *services.BetService, walletService *services.WalletService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		betService:    betService,
		walletService: walletService,
		logger:        logger,
	}
}

// AdminMiddleware checks if user is admin. The flag is read from the database
// so a revoked admin loses access before their token expires.
func (h *AdminHandler) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			c.Abort()
			return
		}

		isAdmin, err := h.adminService.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			respondError(c, h.logger, err)
			c.Abort()
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Not authorized as an admin",
			})
			return
		}

		c.Set("admin_id", userID)
		c.Next()
	}
}

// GetBets handles GET /admin/bets
func (h *AdminHandler) GetBets(c *gin.Context) {
	page := pageQuery(c)
	filter := repository.BetFilter{
		Status: models.BetStatus(c.Query("status")),
		Page:   page,
	}
	if userID, ok := queryUint(c, "userId"); ok {
		filter.UserID = &userID
	}

	bets, total, err := h.betService.ListAllBets(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listResponse("bets", "Bets fetched successfully", bets, total, page))
}

// SettleBet handles PATCH /admin/bets/:id/status
func (h *AdminHandler) SettleBet(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	betID, ok := paramID(c, "id", "bet")
	if !ok {
		return
	}

	var req betStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status is required")
		return
	}

	res, err := h.betService.SettleBet(c.Request.Context(), adminID, betID, req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Bet status updated to " + string(res.Bet.Status),
		"bet":        res.Bet,
		"newBalance": res.NewBalance,
	})
}

type bulkSettleRequest struct {
	BetIDs []uint           `json:"betIds" binding:"required"`
	Status models.BetStatus `json:"status" binding:"required"`
}

// SettleBets handles PATCH /admin/bets/status
func (h *AdminHandler) SettleBets(c *gin.Context) {
	adminID := c.GetUint("admin_id")

	var req bulkSettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Bet IDs and status are required")
		return
	}

	outcomes, err := h.betService.SettleBets(c.Request.Context(), adminID, req.BetIDs, req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	settled := 0
	for _, o := range outcomes {
		if o.Success {
			settled++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": strconv.Itoa(settled) + " of " + strconv.Itoa(len(outcomes)) + " bets updated",
		"results": outcomes,
	})
}

// GetTransactions handles GET /admin/transactions
func (h *AdminHandler) GetTransactions(c *gin.Context) {
	page := pageQuery(c)
	q := services.TransactionQuery{
		Type:   models.TransactionType(c.Query("type")),
		Status: models.TransactionStatus(c.Query("status")),
		Page:   page,
	}
	if userID, ok := queryUint(c, "userId"); ok {
		q.UserID = &userID
	}

	txns, total, err := h.walletService.ListTransactions(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listResponse("transactions", "Transactions fetched successfully", txns, total, page))
}

// GetWithdrawals handles GET /admin/withdrawals
func (h *AdminHandler) GetWithdrawals(c *gin.Context) {
	page := pageQuery(c)
	status := models.TransactionStatus(c.DefaultQuery("status", string(models.TxPending)))
	if status == "all" {
		status = ""
	}

	txns, total, err := h.walletService.ListWithdrawals(c.Request.Context(), status, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listResponse("withdrawals", "Withdrawals fetched successfully", txns, total, page))
}

type adjustWalletRequest struct {
	Amount      decimal.Decimal       `json:"amount"`
	Type        models.AdjustmentKind `json:"type" binding:"required"`
	Description string                `json:"description"`
}

// AdjustWallet handles PATCH /admin/users/:id/wallet
func (h *AdminHandler) AdjustWallet(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	var req adjustWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Amount and type are required")
		return
	}

	res, err := h.walletService.AdjustWallet(c.Request.Context(), adminID, userID, services.AdjustmentInput{
		Kind:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Wallet updated",
		"transaction": res.Transaction,
		"newBalance":  res.NewBalance,
	})
}

// GetAdminLogs handles GET /admin/logs
func (h *AdminHandler) GetAdminLogs(c *gin.Context) {
	page := pageQuery(c)

	logs, total, err := h.adminService.GetAdminLogs(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listResponse("logs", "Admin logs fetched successfully", logs, total, page))
}

func queryUint(c *gin.Context, key string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(key), 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
