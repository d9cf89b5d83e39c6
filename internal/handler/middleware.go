package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"cardbank/internal/infrastructure/sessionstore"
	"cardbank/internal/service"
	"cardbank/pkg/idgen"
	"cardbank/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	headerRequestID = "X-Request-ID"

	ctxRequestID = "request_id"
	ctxSession   = "session"
	ctxToken     = "session_token"
)

// RequestIDMiddleware keeps the caller's X-Request-ID or issues one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = idgen.GenerateRequestID()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// LoggerMiddleware logs one line per request.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Printf("[HTTP] %d | %13v | %15s | %-7s %s | %s",
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			c.Request.Method,
			path,
			c.GetString(ctxRequestID),
		)
	}
}

// RecoveryMiddleware turns a panic into a 500 envelope.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] %v", err)
				abortServerError(c, "internal server error")
			}
		}()
		c.Next()
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// AuthMiddleware resolves the bearer token to a live session on the card.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, "missing session token")
			return
		}

		ctx := c.Request.Context()
		number, err := h.sessions.Lookup(ctx, token)
		if err != nil {
			if errors.Is(err, sessionstore.ErrNotFound) {
				response.Unauthorized(c, "session expired or unknown")
				return
			}
			log.Printf("[Auth] session lookup failed: %v", err)
			abortServerError(c, "session lookup failed")
			return
		}

		sess, err := h.bank.Resume(ctx, number)
		if err != nil {
			if errors.Is(err, service.ErrAuthentication) {
				_ = h.sessions.Delete(ctx, token)
				response.Unauthorized(c, "card no longer exists")
				return
			}
			log.Printf("[Auth] resume session failed: %v", err)
			abortServerError(c, "session lookup failed")
			return
		}

		c.Set(ctxToken, token)
		c.Set(ctxSession, sess)
		c.Next()
	}
}

// abortServerError stops the chain with a 500 and a fixed message; error
// details stay in the log.
func abortServerError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
		Code:    response.CodeServerError,
		Message: message,
	})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
