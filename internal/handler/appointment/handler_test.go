package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartodonto/clinic-api/internal/middleware"
	"github.com/smartodonto/clinic-api/internal/model"
	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
	"github.com/smartodonto/clinic-api/pkg/validator"
)

type fakeService struct {
	created *model.Appointment
	filters *model.AppointmentFilters
	status  model.AppointmentStatus
	deleted int64
	err     error
	booked  map[string]bool
}

func slot(a *model.Appointment) string {
	return fmt.Sprintf("%d/%s/%d", a.ProviderID, a.Date, a.Hour)
}

func (f *fakeService) CreateAppointment(_ context.Context, apt *model.Appointment) error {
	if f.err != nil {
		return f.err
	}
	if f.booked == nil {
		f.booked = map[string]bool{}
	}
	if f.booked[slot(apt)] {
		return apperrors.Conflict("provider is already booked on "+apt.Date.Display(), nil)
	}
	f.booked[slot(apt)] = true
	apt.ID = 11
	apt.Status = model.AppointmentStatusScheduled
	f.created = apt
	return nil
}

func (f *fakeService) GetAppointment(_ context.Context, id int64) (*model.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Appointment{Base: model.Base{ID: id}, Status: model.AppointmentStatusConfirmed, Date: model.MustParseDate("2024-03-05")}, nil
}

func (f *fakeService) ListAppointments(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	f.filters = filters
	return nil, f.err
}

func (f *fakeService) ChangeStatus(_ context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.status = status
	return &model.Appointment{Base: model.Base{ID: id}, Status: status, Date: model.MustParseDate("2024-03-05")}, nil
}

func (f *fakeService) DeleteAppointment(_ context.Context, id int64) error {
	f.deleted = id
	return f.err
}

func setup(t *testing.T, svc *fakeService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Register())

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewHandler(svc)
	r.POST("/appointments", h.CreateAppointment)
	r.GET("/appointments", h.ListAppointments)
	r.GET("/appointments/:id", h.GetAppointment)
	r.PUT("/appointments/:id/status", h.UpdateStatus)
	r.DELETE("/appointments/:id", h.DeleteAppointment)
	return r
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

const validBooking = `{"patient_id":10,"provider_id":1,"procedure_id":3,"date":"2024-03-05","hour":0}`

func TestCreateAppointment(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc)

	w, body := do(r, http.MethodPost, "/appointments", validBooking)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, 0, svc.created.Hour, "hour 0 is a valid slot")
	assert.Equal(t, "2024-03-05", svc.created.Date.String())
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 11.0, data["id"])
	assert.Equal(t, "scheduled", data["status"])
	assert.Equal(t, "2024-03-05", data["date"])
}

func TestCreateAppointment_SecondBookingConflicts(t *testing.T) {
	r := setup(t, &fakeService{})

	w, _ := do(r, http.MethodPost, "/appointments", validBooking)
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := do(r, http.MethodPost, "/appointments", validBooking)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "05/03/2024")
}

func TestCreateAppointment_Invalid(t *testing.T) {
	r := setup(t, &fakeService{})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing hour", `{"patient_id":10,"provider_id":1,"procedure_id":3,"date":"2024-03-05"}`, "hour"},
		{"hour out of range", `{"patient_id":10,"provider_id":1,"procedure_id":3,"date":"2024-03-05","hour":24}`, "hour"},
		{"display date", `{"patient_id":10,"provider_id":1,"procedure_id":3,"date":"05/03/2024","hour":9}`, "date"},
		{"missing patient", `{"provider_id":1,"procedure_id":3,"date":"2024-03-05","hour":9}`, "patient_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(r, http.MethodPost, "/appointments", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, body["errors"], tt.field)
		})
	}

	w, body := do(r, http.MethodPost, "/appointments", `{"hour":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", body["message"])
}

func TestCreateAppointment_ServiceValidation(t *testing.T) {
	r := setup(t, &fakeService{err: apperrors.Validation("patient 10 does not exist", nil)})

	w, body := do(r, http.MethodPost, "/appointments", validBooking)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "patient 10 does not exist", body["message"])
}

func TestGetAppointment(t *testing.T) {
	r := setup(t, &fakeService{})

	w, body := do(r, http.MethodGet, "/appointments/5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", body["data"].(map[string]interface{})["status"])

	w, _ = do(r, http.MethodGet, "/appointments/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAppointment_NotFound(t *testing.T) {
	r := setup(t, &fakeService{err: apperrors.NotFound("appointment", nil)})

	w, body := do(r, http.MethodGet, "/appointments/5", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "appointment not found", body["message"])
}

func TestListAppointments(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc)

	w, body := do(r, http.MethodGet, "/appointments?provider_id=1&status=canceled&from=2024-03-01&to=2024-03-31", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int64(1), svc.filters.ProviderID)
	assert.Equal(t, model.AppointmentStatusCanceled, svc.filters.Status)
	assert.Equal(t, "2024-03-31", svc.filters.Dates.To.String())
	assert.Equal(t, []interface{}{}, body["data"])

	w, _ = do(r, http.MethodGet, "/appointments?status=lost", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc)

	w, body := do(r, http.MethodPut, "/appointments/5/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.AppointmentStatusConfirmed, svc.status)
	assert.Equal(t, "confirmed", body["data"].(map[string]interface{})["status"])

	w, _ = do(r, http.MethodPut, "/appointments/5/status", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAppointment(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc)

	w, body := do(r, http.MethodDelete, "/appointments/8", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(8), svc.deleted)
	assert.Equal(t, "success", body["status"])
}
