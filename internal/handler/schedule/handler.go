package schedule

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartodonto/clinic-api/internal/model"
	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
	"github.com/smartodonto/clinic-api/pkg/httputil"
)

type Service interface {
	DaySchedule(ctx context.Context, date model.Date) ([]model.SlotView, error)
	RangeGrid(ctx context.Context, start, end model.Date) (*model.RangeGrid, error)
	AvailableHours(ctx context.Context, providerID int64, date model.Date) ([]int, error)
	BookableProviders(ctx context.Context) ([]*model.Provider, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type dayQuery struct {
	Date string `form:"date" binding:"required,isodate"`
}

type rangeQuery struct {
	Start string `form:"start" binding:"required,isodate"`
	End   string `form:"end" binding:"required,isodate"`
}

type availableHoursQuery struct {
	ProviderID int64  `form:"provider_id" binding:"required,gt=0"`
	Date       string `form:"date" binding:"required,isodate"`
}

type DayScheduleResponse struct {
	Date        model.Date       `json:"date"`
	DisplayDate string           `json:"display_date"`
	Slots       []model.SlotView `json:"slots"`
}

type AvailableHoursResponse struct {
	ProviderID int64      `json:"provider_id"`
	Date       model.Date `json:"date"`
	Hours      []int      `json:"hours"`
}

func (h *Handler) GetDaySchedule(c *gin.Context) {
	var q dayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	date, err := parseDate(q.Date)
	if err != nil {
		_ = c.Error(err)
		return
	}

	slots, err := h.service.DaySchedule(c.Request.Context(), date)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if slots == nil {
		slots = []model.SlotView{}
	}

	httputil.RespondWithSuccess(c, http.StatusOK, DayScheduleResponse{
		Date:        date,
		DisplayDate: date.Display(),
		Slots:       slots,
	})
}

func (h *Handler) GetRangeGrid(c *gin.Context) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	start, err := parseDate(q.Start)
	if err != nil {
		_ = c.Error(err)
		return
	}
	end, err := parseDate(q.End)
	if err != nil {
		_ = c.Error(err)
		return
	}

	grid, err := h.service.RangeGrid(c.Request.Context(), start, end)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, grid)
}

func (h *Handler) GetAvailableHours(c *gin.Context) {
	var q availableHoursQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	date, err := parseDate(q.Date)
	if err != nil {
		_ = c.Error(err)
		return
	}

	hours, err := h.service.AvailableHours(c.Request.Context(), q.ProviderID, date)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, AvailableHoursResponse{
		ProviderID: q.ProviderID,
		Date:       date,
		Hours:      hours,
	})
}

func (h *Handler) ListBookableProviders(c *gin.Context) {
	providers, err := h.service.BookableProviders(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if providers == nil {
		providers = []*model.Provider{}
	}

	httputil.RespondWithSuccess(c, http.StatusOK, providers)
}

func parseDate(s string) (model.Date, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, apperrors.Validation("invalid date "+s, err)
	}
	return d, nil
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	schedule := rg.Group("/schedule")
	{
		schedule.GET("/day", h.GetDaySchedule)
		schedule.GET("/range", h.GetRangeGrid)
		schedule.GET("/available-hours", h.GetAvailableHours)
		schedule.GET("/providers", h.ListBookableProviders)
	}
}
