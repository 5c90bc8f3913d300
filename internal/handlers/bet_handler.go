package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sportsbook/internal/apperr"
	"sportsbook/internal/models"
	"sportsbook/internal/services"
)

// BetHandler serves the bettor's slip and bet history endpoints.
type BetHandler struct {
	betService   *services.BetService
	adminService *services.AdminService
	logger       *zap.Logger
}

func NewBetHandler(betService *services.BetService, adminService *services.AdminService, logger *zap.Logger) *BetHandler {
	return &BetHandler{
		betService:   betService,
		adminService: adminService,
		logger:       logger,
	}
}

type selectionRequest struct {
	MatchID uint            `json:"matchId" binding:"required"`
	BetType models.BetType  `json:"betType" binding:"required"`
	Option  string          `json:"option" binding:"required"`
	Odds    decimal.Decimal `json:"odds"`
	Label   string          `json:"label"`
}

type placeBetRequest struct {
	Selections   []selectionRequest `json:"selections"`
	Stake        decimal.Decimal    `json:"stake"`
	TotalOdds    decimal.Decimal    `json:"totalOdds"`
	PotentialWin decimal.Decimal    `json:"potentialWin"`
}

// PlaceBet handles POST /bets
func (h *BetHandler) PlaceBet(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid bet slip: "+err.Error())
		return
	}

	in := services.PlaceBetInput{
		Stake:        req.Stake,
		TotalOdds:    req.TotalOdds,
		PotentialWin: req.PotentialWin,
	}
	for _, sel := range req.Selections {
		in.Selections = append(in.Selections, services.SelectionInput{
			MatchID: sel.MatchID,
			BetType: sel.BetType,
			Option:  sel.Option,
			Odds:    sel.Odds,
			Label:   sel.Label,
		})
	}

	res, err := h.betService.PlaceBet(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Bet placed successfully",
		"bet":        res.Bet,
		"newBalance": res.NewBalance,
	})
}

// GetBets handles GET /bets
func (h *BetHandler) GetBets(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page := pageQuery(c)
	bets, total, err := h.betService.ListBets(c.Request.Context(), userID, models.BetStatus(c.Query("status")), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, listResponse("bets", "Bets fetched successfully", bets, total, page))
}

// GetBet handles GET /bets/:id
func (h *BetHandler) GetBet(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	betID, ok := paramID(c, "id", "bet")
	if !ok {
		return
	}

	bet, err := h.betService.GetBet(c.Request.Context(), userID, betID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bet fetched successfully",
		"bet":     bet,
	})
}

// CancelBet handles POST /bets/:id/cancel
func (h *BetHandler) CancelBet(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	betID, ok := paramID(c, "id", "bet")
	if !ok {
		return
	}

	res, err := h.betService.CancelBet(c.Request.Context(), userID, betID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Bet cancelled and stake refunded",
		"bet":        res.Bet,
		"newBalance": res.NewBalance,
	})
}

type betStatusRequest struct {
	Status models.BetStatus `json:"status" binding:"required"`
}

// UpdateBetStatus handles PATCH /bets/:id/status. Bettors may only cancel
// their own bets; any other status requires an admin.
func (h *BetHandler) UpdateBetStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	betID, ok := paramID(c, "id", "bet")
	if !ok {
		return
	}

	var req betStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status is required")
		return
	}

	if req.Status == models.BetCancelled {
		h.CancelBet(c)
		return
	}

	isAdmin, err := h.adminService.IsAdmin(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !isAdmin {
		respondError(c, h.logger, apperr.New(apperr.CodeForbidden, "Only pending bets can be cancelled by their owner"))
		return
	}

	res, err := h.betService.SettleBet(c.Request.Context(), userID, betID, req.Status)
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
