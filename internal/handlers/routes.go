package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sportsbook/internal/auth"
)

// Router groups the handlers mounted under /v1.
type Router struct {
	Users        *UserHandler
	Bets         *BetHandler
	Wallet       *WalletHandler
	Transactions *TransactionHandler
	Banks        *BankHandler
	Admin        *AdminHandler

	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// Register mounts every route on engine.
func (r *Router) Register(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	if r.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(r.Metrics))
	}

	v1 := engine.Group("/v1")

	// Public routes
	v1.POST("/user/deposit/callback", r.Wallet.DepositCallback)
	v1.GET("/bank/supported", r.Banks.GetSupportedBanks)

	api := v1.Group("")
	api.Use(auth.AuthMiddleware())
	{
		bets := api.Group("/bets")
		{
			bets.POST("", r.Bets.PlaceBet)
			bets.GET("", r.Bets.GetBets)
			bets.GET("/:id", r.Bets.GetBet)
			bets.POST("/:id/cancel", r.Bets.CancelBet)
			bets.PATCH("/:id/status", r.Bets.UpdateBetStatus)
		}

		user := api.Group("/user")
		{
			user.GET("/profile", r.Users.GetProfile)
			user.PUT("/profile", r.Users.UpdateProfile)
			user.GET("/wallet", r.Wallet.GetWallet)
			user.POST("/withdraw", r.Wallet.Withdraw)
		}

		txns := api.Group("/transactions")
		{
			txns.GET("", r.Transactions.GetTransactions)
			txns.GET("/:id", r.Transactions.GetTransaction)
			txns.POST("/:id/approve", r.Admin.AdminMiddleware(), r.Transactions.ApproveWithdrawal)
			txns.POST("/:id/cancel", r.Admin.AdminMiddleware(), r.Transactions.RejectWithdrawal)
		}

		bank := api.Group("/bank")
		{
			bank.POST("/resolve", r.Banks.ResolveAccount)
			bank.GET("", r.Banks.GetBankAccounts)
			bank.POST("", r.Banks.AddBankAccount)
			bank.DELETE("/:id", r.Banks.DeleteBankAccount)
			bank.PATCH("/:id/default", r.Banks.SetDefaultBankAccount)
		}

		admin := api.Group("/admin")
		admin.Use(r.Admin.AdminMiddleware())
		{
			admin.GET("/bets", r.Admin.GetBets)
			admin.PATCH("/bets/status", r.Admin.SettleBets)
			admin.PATCH("/bets/:id/status", r.Admin.SettleBet)
			admin.GET("/transactions", r.Admin.GetTransactions)
			admin.GET("/withdrawals", r.Admin.GetWithdrawals)
			admin.GET("/users/:id", r.Users.GetUserOverview)
			admin.PATCH("/users/:id/wallet", r.Admin.AdjustWallet)
			admin.GET("/logs", r.Admin.GetAdminLogs)
		}
	}
}
