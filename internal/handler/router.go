package handler

import (
	"net/http"

	"cardbank/internal/infrastructure/sessionstore"
	"cardbank/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and routes. The gin mode is chosen by main.
func SetupRouter(bank *service.BankService, sessions sessionstore.Store) *gin.Engine {
	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(bank, sessions)

	api := r.Group("/api/v1")
	{
		cards := api.Group("/cards")
		{
			cards.POST("", h.CreateCard)
			cards.POST("/validate", h.ValidateCard)
		}

		api.POST("/session/login", h.Login)

		account := api.Group("/account", h.AuthMiddleware())
		{
			account.GET("/balance", h.GetBalance)
			account.POST("/deposit", h.Deposit)
			account.POST("/transfer", h.Transfer)
			account.POST("/logout", h.Logout)
			account.DELETE("", h.CloseAccount)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
