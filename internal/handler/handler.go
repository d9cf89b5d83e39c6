package handler

import (
	"errors"
	"log"

	"cardbank/internal/infrastructure/sessionstore"
	"cardbank/internal/service"
	"cardbank/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes the bank operations over JSON.
type Handler struct {
	bank     *service.BankService
	sessions sessionstore.Store
}

func NewHandler(bank *service.BankService, sessions sessionstore.Store) *Handler {
	return &Handler{
		bank:     bank,
		sessions: sessions,
	}
}

// ============================================================
// Cards
// ============================================================

// CreateCard issues a new card
// POST /api/v1/cards
func (h *Handler) CreateCard(c *gin.Context) {
	account, err := h.bank.CreateAccount(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"number": account.Number,
		"pin":    account.PIN,
	})
}

type ValidateCardRequest struct {
	Number string `json:"number" binding:"required"`
}

// ValidateCard checks a number's checksum without touching the store
// POST /api/v1/cards/validate
func (h *Handler) ValidateCard(c *gin.Context) {
	var req ValidateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid params: "+err.Error())
		return
	}

	response.Success(c, gin.H{
		"number": req.Number,
		"valid":  h.bank.ValidateNumber(req.Number),
	})
}

// ============================================================
// Session
// ============================================================

type LoginRequest struct {
	Number string `json:"number" binding:"required"`
	PIN    string `json:"pin" binding:"required"`
}

// Login
// POST /api/v1/session/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid params: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	sess, err := h.bank.Login(ctx, req.Number, req.PIN)
	if err != nil {
		writeError(c, err)
		return
	}

	token := uuid.NewString()
	if err := h.sessions.Save(ctx, token, sess.Number()); err != nil {
		log.Printf("[Handler] save session failed: %v", err)
		response.ServerError(c, "could not start session")
		return
	}

	response.Success(c, gin.H{
		"token":   token,
		"number":  sess.Number(),
		"balance": sess.Balance(),
	})
}

// Logout revokes the token; the card is untouched
// POST /api/v1/account/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.GetString(ctxToken)); err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "You have successfully logged out!"})
}

// ============================================================
// Account
// ============================================================

// GetBalance
// GET /api/v1/account/balance
func (h *Handler) GetBalance(c *gin.Context) {
	sess := currentSession(c)
	response.Success(c, gin.H{
		"number":  sess.Number(),
		"balance": sess.Balance(),
	})
}

type DepositRequest struct {
	Amount *int64 `json:"amount" binding:"required"`
}

// Deposit adds income to the card
// POST /api/v1/account/deposit
func (h *Handler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid params: "+err.Error())
		return
	}

	sess := currentSession(c)
	if err := sess.Deposit(c.Request.Context(), *req.Amount); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"message": "Income was added!",
		"balance": sess.Balance(),
	})
}

type TransferRequest struct {
	Receiver string `json:"receiver" binding:"required"`
	Amount   *int64 `json:"amount" binding:"required"`
}

// Transfer
// POST /api/v1/account/transfer
func (h *Handler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid params: "+err.Error())
		return
	}

	sess := currentSession(c)
	if err := sess.Transfer(c.Request.Context(), req.Receiver, *req.Amount); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"message": "Success!",
		"balance": sess.Balance(),
	})
}

// CloseAccount deletes the card and revokes the token
// DELETE /api/v1/account
func (h *Handler) CloseAccount(c *gin.Context) {
	ctx := c.Request.Context()
	sess := currentSession(c)
	if err := sess.Close(ctx); err != nil {
		writeError(c, err)
		return
	}
	if err := h.sessions.Delete(ctx, c.GetString(ctxToken)); err != nil {
		log.Printf("[Handler] revoke token after close failed: %v", err)
	}

	response.Success(c, gin.H{"message": "The account has been closed!"})
}

func currentSession(c *gin.Context) *service.Session {
	return c.MustGet(ctxSession).(*service.Session)
}

// writeError maps service errors onto envelope codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthentication):
		response.Error(c, response.CodeUnauthorized, err.Error())
	case errors.Is(err, service.ErrSameAccount):
		response.BusinessError(c, response.CodeSameAccount, err.Error())
	case errors.Is(err, service.ErrInvalidNumber):
		response.BusinessError(c, response.CodeInvalidCardNumber, err.Error())
	case errors.Is(err, service.ErrNoSuchReceiver):
		response.BusinessError(c, response.CodeNoSuchCard, err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		response.BusinessError(c, response.CodeInsufficientFunds, err.Error())
	case errors.Is(err, service.ErrInvalidAmount):
		response.BusinessError(c, response.CodeInvalidAmount, err.Error())
	case errors.Is(err, service.ErrSessionClosed):
		response.Error(c, response.CodeUnauthorized, err.Error())
	default:
		log.Printf("[Handler] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		response.ServerError(c, "storage error")
	}
}
