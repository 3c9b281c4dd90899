package appointment

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
	CreateAppointment(ctx context.Context, apt *model.Appointment) error
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	ChangeStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type listQuery struct {
	ProviderID int64  `form:"provider_id" binding:"omitempty,gt=0"`
	PatientID  int64  `form:"patient_id" binding:"omitempty,gt=0"`
	Status     string `form:"status" binding:"omitempty,oneof=scheduled confirmed canceled completed"`
	From       string `form:"from" binding:"omitempty,isodate"`
	To         string `form:"to" binding:"omitempty,isodate"`
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		_ = c.Error(apperrors.Validation("invalid date "+req.Date, err))
		return
	}

	apt := &model.Appointment{
		PatientID:   req.PatientID,
		ProviderID:  req.ProviderID,
		ProcedureID: req.ProcedureID,
		InsuranceID: req.InsuranceID,
		Date:        date,
		Hour:        *req.Hour,
		TotalValue:  req.TotalValue,
	}
	if err := h.service.CreateAppointment(c.Request.Context(), apt); err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	filters := &model.AppointmentFilters{
		ProviderID: q.ProviderID,
		PatientID:  q.PatientID,
	}
	if q.Status != "" {
		status, err := model.ParseAppointmentStatus(q.Status)
		if err != nil {
			_ = c.Error(apperrors.Validation(err.Error(), err))
			return
		}
		filters.Status = status
	}
	dates, err := handler.ParseDateRange(q.From, q.To)
	if err != nil {
		_ = c.Error(err)
		return
	}
	filters.Dates = dates

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if appointments == nil {
		appointments = []*model.Appointment{}
	}

	httputil.RespondWithSuccess(c, http.StatusOK, appointments)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}
	status, err := model.ParseAppointmentStatus(req.Status)
	if err != nil {
		_ = c.Error(apperrors.Validation(err.Error(), err))
		return
	}

	apt, err := h.service.ChangeStatus(c.Request.Context(), id, status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	appointments := rg.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id/status", h.UpdateStatus)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}
