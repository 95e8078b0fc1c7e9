package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	respondError(c, code, message, nil)
}

func respondError(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func HandleServiceError(c *gin.Context, err error) {
	var validationErrs ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		respondError(c, http.StatusUnprocessableEntity, "Invalid donation details", validationErrs)
	case errors.Is(err, ErrInvalidDonationToken):
		respondError(c, http.StatusBadRequest, "Invalid token", nil)
	case errors.Is(err, ErrInvalidAmount):
		respondError(c, http.StatusBadRequest, "Amount must be greater than 0", nil)
	case errors.Is(err, ErrDonationNotFound):
		respondError(c, http.StatusNotFound, "Donation not found", nil)
	case errors.Is(err, ErrDatabaseError):
		log.WithError(err).WithField("trace_id", traceID(c)).Error("Database error")
		respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	default:
		log.WithError(err).WithField("trace_id", traceID(c)).Error("Unknown error")
		respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
