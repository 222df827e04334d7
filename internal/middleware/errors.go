package middleware

import (
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrTokenNotFound  = apperror.New(apperror.CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	ErrInvalidToken   = apperror.New(apperror.CodeUnauthorized, "Invalid token", http.StatusUnauthorized)
	ErrTokenExpired   = apperror.New(apperror.CodeUnauthorized, "Token expired", http.StatusUnauthorized)
	ErrInvalidClaims  = apperror.New(apperror.CodeUnauthorized, "Invalid token claims", http.StatusUnauthorized)
	ErrProcessing     = apperror.New(apperror.CodeConflict, "Request with this Idempotency-Key is still being processed", http.StatusConflict)
	ErrTooManyRequest = apperror.New("TOO_MANY_REQUESTS", "Too many requests", http.StatusTooManyRequests)
)

func abort(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}
