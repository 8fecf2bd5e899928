package endpoints_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svitlo-tech/svitlo-tracker/internal/http/api"
	"github.com/svitlo-tech/svitlo-tracker/internal/http/api/schedule/endpoints"
	"github.com/svitlo-tech/svitlo-tracker/internal/model"
	"github.com/svitlo-tech/svitlo-tracker/internal/yasno"
)

type fakeSchedules struct {
	agg      yasno.Aggregate
	schedule *model.QueueSchedule
	err      error
}

func (f *fakeSchedules) FetchAll(context.Context) (yasno.Aggregate, error) {
	return f.agg, f.err
}

func (f *fakeSchedules) ResolveQueue(context.Context, string, string) (*model.QueueSchedule, bool, error) {
	return f.schedule, f.agg.NoOutages, f.err
}

func setupRouter(schedules endpoints.ScheduleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api"}, endpoints.ScheduleModule(schedules))
	return r
}

func TestGetScheduleAllOperators(t *testing.T) {
	router := setupRouter(&fakeSchedules{agg: yasno.Aggregate{
		Operators: []model.OperatorSchedule{{OperatorCode: "yasno-kyiv", Queues: map[string]model.QueueSchedule{}}},
		NoOutages: true,
	}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/schedule", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success   bool            `json:"success"`
		NoOutages bool            `json:"no_outages"`
		Data      json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.NoOutages)
}

func TestGetScheduleSingleQueue(t *testing.T) {
	router := setupRouter(&fakeSchedules{schedule: &model.QueueSchedule{QueueNumber: "3.2"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/schedule?operator=yasno-kyiv&queue=3.2", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"queue_number":"3.2"`)
}

func TestGetScheduleQueueNotFound(t *testing.T) {
	router := setupRouter(&fakeSchedules{schedule: nil})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/schedule?operator=yasno-kyiv&queue=9.9", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestGetScheduleUpstreamFailure(t *testing.T) {
	router := setupRouter(&fakeSchedules{err: errors.New("context deadline exceeded")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/schedule?operator=yasno-kyiv&queue=3.2", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	// localized user message plus a machine code, raw detail only under details
	assert.Contains(t, w.Body.String(), "FETCH_ERROR")
	assert.Contains(t, w.Body.String(), "Помилка завантаження графіку")
}
