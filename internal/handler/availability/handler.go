package availability

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartodonto/clinic-api/internal/handler"
	"github.com/smartodonto/clinic-api/internal/model"
	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
	"github.com/smartodonto/clinic-api/pkg/httputil"
)

type Service interface {
	CreateWindow(ctx context.Context, window *model.AvailabilityWindow) error
	GetWindow(ctx context.Context, id int64) (*model.AvailabilityWindow, error)
	UpdateWindow(ctx context.Context, window *model.AvailabilityWindow) error
	DeleteWindow(ctx context.Context, id int64) error
	ListWindows(ctx context.Context, filters *model.AvailabilityFilters) ([]*model.AvailabilityWindow, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type listQuery struct {
	ProviderID int64  `form:"provider_id" binding:"omitempty,gt=0"`
	From       string `form:"from" binding:"omitempty,isodate"`
	To         string `form:"to" binding:"omitempty,isodate"`
}

func windowFromRequest(req *model.AvailabilityWindowRequest) (*model.AvailabilityWindow, error) {
	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid date "+req.Date, err)
	}
	return &model.AvailabilityWindow{
		ProviderID: req.ProviderID,
		Date:       date,
		StartHour:  *req.StartHour,
		EndHour:    *req.EndHour,
	}, nil
}

func (h *Handler) CreateWindow(c *gin.Context) {
	var req model.AvailabilityWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	window, err := windowFromRequest(&req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.CreateWindow(c.Request.Context(), window); err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, window)
}

func (h *Handler) ListWindows(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	dates, err := handler.ParseDateRange(q.From, q.To)
	if err != nil {
		_ = c.Error(err)
		return
	}

	windows, err := h.service.ListWindows(c.Request.Context(), &model.AvailabilityFilters{
		ProviderID: q.ProviderID,
		Dates:      dates,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	if windows == nil {
		windows = []*model.AvailabilityWindow{}
	}

	httputil.RespondWithSuccess(c, http.StatusOK, windows)
}

func (h *Handler) UpdateWindow(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.AvailabilityWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	window, err := windowFromRequest(&req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	window.ID = id

	if err := h.service.UpdateWindow(c.Request.Context(), window); err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, window)
}

func (h *Handler) DeleteWindow(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteWindow(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	availability := rg.Group("/availability")
	{
		availability.POST("", h.CreateWindow)
		availability.GET("", h.ListWindows)
		availability.PUT("/:id", h.UpdateWindow)
		availability.DELETE("/:id", h.DeleteWindow)
	}
}
