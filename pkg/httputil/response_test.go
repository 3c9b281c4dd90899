package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperrors.NotFound("appointment", nil), http.StatusNotFound, "appointment not found"},
		{"conflict", apperrors.Conflict("slot taken", nil), http.StatusConflict, "slot taken"},
		{"validation", apperrors.Validation("bad hour", nil), http.StatusBadRequest, "bad hour"},
		{"invalid range", apperrors.InvalidRange("start after end"), http.StatusBadRequest, "start after end"},
		{"transient", apperrors.Transient("try again", nil), http.StatusServiceUnavailable, "try again"},
		{"wrapped app error", fmt.Errorf("load: %w", apperrors.NotFound("provider", nil)), http.StatusNotFound, "provider not found"},
		{"internal", apperrors.Internal(errors.New("pq: password authentication failed")), http.StatusInternalServerError, "internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
		{"timeout", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "request timeout"},
		{"bad json", &json.SyntaxError{}, http.StatusBadRequest, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := ErrorResponse(tt.err)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, StatusError, resp.Status)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestRespondWithSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithSuccess(c, http.StatusCreated, map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, map[string]interface{}{"id": 1.0}, body["data"])
	assert.NotContains(t, body, "message")
}
