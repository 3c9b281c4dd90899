package availability

import (
	"context"
	"encoding/json"
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
	saved   *model.AvailabilityWindow
	filters *model.AvailabilityFilters
	deleted int64
	err     error
}

func (f *fakeService) CreateWindow(_ context.Context, w *model.AvailabilityWindow) error {
	if f.err != nil {
		return f.err
	}
	w.ID = 4
	f.saved = w
	return nil
}

func (f *fakeService) GetWindow(_ context.Context, id int64) (*model.AvailabilityWindow, error) {
	return &model.AvailabilityWindow{Base: model.Base{ID: id}}, f.err
}

func (f *fakeService) UpdateWindow(_ context.Context, w *model.AvailabilityWindow) error {
	f.saved = w
	return f.err
}

func (f *fakeService) DeleteWindow(_ context.Context, id int64) error {
	f.deleted = id
	return f.err
}

func (f *fakeService) ListWindows(_ context.Context, filters *model.AvailabilityFilters) ([]*model.AvailabilityWindow, error) {
	f.filters = filters
	return []*model.AvailabilityWindow{{Base: model.Base{ID: 1}, ProviderID: 1, Date: model.MustParseDate("2024-03-05"), StartHour: 9, EndHour: 18}}, f.err
}

func setup(t *testing.T, svc *fakeService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Register())

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewHandler(svc)
	r.POST("/availability", h.CreateWindow)
	r.GET("/availability", h.ListWindows)
	r.PUT("/availability/:id", h.UpdateWindow)
	r.DELETE("/availability/:id", h.DeleteWindow)
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

func TestCreateWindow(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc)

	w, body := do(r, http.MethodPost, "/availability", `{"provider_id":1,"date":"2024-03-05","start_hour":9,"end_hour":18}`)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, 9, svc.saved.StartHour)
	assert.Equal(t, 18, svc.saved.EndHour)
	assert.Equal(t, 4.0, body["data"].(map[string]interface{})["id"])
}

func TestCreateWindow_Invalid(t *testing.T) {
	r := setup(t, &fakeService{})

	w, body := do(r, http.MethodPost, "/availability", `{"provider_id":1,"date":"2024-03-05","start_hour":14,"end_hour":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["errors"], "end_hour")

	w, _ = do(r, http.MethodPost, "/availability", `{"provider_id":1,"date":"2024-03-05","start_hour":9,"end_hour":24}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateWindow_UnknownProvider(t *testing.T) {
	r := setup(t, &fakeService{err: apperrors.Validation("provider 7 does not exist", nil)})

	w, body := do(r, http.MethodPost, "/availability", `{"provider_id":7,"date":"2024-03-05","start_hour":9,"end_hour":10}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "provider 7 does not exist", body["message"])
}

func TestListWindows(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc)

	w, body := do(r, http.MethodGet, "/availability?provider_id=1&from=2024-03-01", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int64(1), svc.filters.ProviderID)
	assert.Equal(t, "2024-03-01", svc.filters.Dates.From.String())
	assert.True(t, svc.filters.Dates.To.IsZero())
	assert.Len(t, body["data"], 1)
}

func TestUpdateWindow(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc)

	w, _ := do(r, http.MethodPut, "/availability/3", `{"provider_id":1,"date":"2024-03-05","start_hour":8,"end_hour":12}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), svc.saved.ID)

	svc.err = apperrors.NotFound("availability window", nil)
	w, _ = do(r, http.MethodPut, "/availability/3", `{"provider_id":1,"date":"2024-03-05","start_hour":8,"end_hour":12}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteWindow(t *testing.T) {
	svc := &fakeService{}
	r := setup(t, svc)

	w, _ := do(r, http.MethodDelete, "/availability/3", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), svc.deleted)
}
