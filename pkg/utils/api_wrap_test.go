package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", ValidationErrors{"email_address": "This value is not a valid email address."}, http.StatusUnprocessableEntity},
		{"token", fmt.Errorf("%w: undecodable", ErrInvalidDonationToken), http.StatusBadRequest},
		{"amount", ErrInvalidAmount, http.StatusBadRequest},
		{"not found", ErrDonationNotFound, http.StatusNotFound},
		{"database", fmt.Errorf("%w: insert", ErrDatabaseError), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set("trace_id", "trace-1")

			HandleServiceError(c, tt.err)

			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
			var resp APIResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if resp.Status != "error" || resp.TraceID != "trace-1" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{"phone": "bad", "country": "bad"}
	if got := err.Error(); got != "validation failed: country: bad; phone: bad" {
		t.Errorf("Error() = %q", got)
	}
}
