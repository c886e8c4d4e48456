package handlers

import (
	"errors"
	"net/http"

	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/auth"
	"github.com/cyphera/cyphera-vault/internal/middleware"
	"github.com/cyphera/cyphera-vault/internal/vault"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error         string `json:"error"`
	Code          string `json:"code,omitempty"`
	Number        uint32 `json:"number,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// sendError logs err and sends a JSON error response.
func sendError(c *gin.Context, statusCode int, message string, err error) {
	correlationID := middleware.GetCorrelationID(c)
	log := middleware.LogWithCorrelationID(c.Request.Context())
	fields := []zap.Field{
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	}
	if statusCode >= http.StatusInternalServerError {
		log.Error(message, fields...)
	} else {
		log.Debug(message, fields...)
	}

	c.JSON(statusCode, ErrorResponse{Error: message, CorrelationID: correlationID})
}

// handleVaultError maps a program error onto an HTTP status.
func handleVaultError(c *gin.Context, err error) {
	var programErr *vault.Error
	if !errors.As(err, &programErr) {
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(statusForKind(programErr.Kind), ErrorResponse{
		Error:         programErr.Message,
		Code:          programErr.Code,
		Number:        programErr.Number,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

func statusForKind(kind vault.Kind) int {
	switch kind {
	case vault.KindValidation:
		return http.StatusBadRequest
	case vault.KindAuthorization:
		return http.StatusForbidden
	case vault.KindNotFound:
		return http.StatusNotFound
	case vault.KindCapacity, vault.KindResource, vault.KindState:
		return http.StatusConflict
	case vault.KindArithmetic:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// identityParam parses a base58 identity path parameter. It writes the
// error response and returns false when the parameter is invalid.
func identityParam(c *gin.Context, name string) (address.Identity, bool) {
	id, err := address.ParseIdentity(c.Param(name))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid "+name+" address", err)
		return address.Zero, false
	}
	return id, true
}

// callerOf returns the authenticated caller or writes a 401.
func callerOf(c *gin.Context) (address.Identity, bool) {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Request is not signed", nil)
		return address.Zero, false
	}
	return caller, true
}

// bindJSON decodes the request body into req or writes a 400.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}
