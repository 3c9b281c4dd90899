package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartodonto/clinic-api/internal/model"
	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
	"github.com/smartodonto/clinic-api/pkg/httputil"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves health and metrics endpoints
type Handler struct {
	db       Pinger
	gatherer prometheus.Gatherer
}

func NewHandler(db Pinger, gatherer prometheus.Gatherer) *Handler {
	return &Handler{db: db, gatherer: gatherer}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck pings the database.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, httputil.NewErrorResponse("database unavailable"))
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().UTC(),
	})
}

func (h *Handler) MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid "+name, err)
	}
	return id, nil
}

// ParseDateRange parses optional YYYY-MM-DD bounds.
func ParseDateRange(from, to string) (model.DateRange, error) {
	var (
		r   model.DateRange
		err error
	)
	if from != "" {
		if r.From, err = model.ParseDate(from); err != nil {
			return r, apperrors.Validation("invalid from date "+from, err)
		}
	}
	if to != "" {
		if r.To, err = model.ParseDate(to); err != nil {
			return r, apperrors.Validation("invalid to date "+to, err)
		}
	}
	return r, nil
}
