package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/live", h.LivenessCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/metrics", h.MetricsHandler())
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "clinic_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	r := newRouter(NewHandler(fakePinger{}, reg))

	assert.Equal(t, http.StatusOK, get(r, "/live").Code)
	assert.Equal(t, http.StatusOK, get(r, "/ready").Code)

	w := get(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "clinic_test_total 1")
}

func TestReadiness_DatabaseDown(t *testing.T) {
	r := newRouter(NewHandler(fakePinger{err: errors.New("connection refused")}, prometheus.NewRegistry()))

	w := get(r, "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database unavailable")
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, err := ParseID(c, "id")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"abc", "0", "-3", ""} {
		c.Params = gin.Params{{Key: "id", Value: bad}}
		_, err := ParseID(c, "id")
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation), bad)
	}
}
