package endpoints_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svitlo-tech/svitlo-tracker/internal/db"
	"github.com/svitlo-tech/svitlo-tracker/internal/http/api"
	"github.com/svitlo-tech/svitlo-tracker/internal/http/api/cron/endpoints"
	"github.com/svitlo-tech/svitlo-tracker/internal/model"
	"github.com/svitlo-tech/svitlo-tracker/internal/notify"
)

type emptySource struct{}

func (emptySource) ResolveQueue(context.Context, string, string) (*model.QueueSchedule, bool, error) {
	return nil, true, nil
}

func setupRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	notifier := notify.New(db.NewNoopStore(), emptySource{}, nil, nil)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api", Secret: secret}, endpoints.CronModule(notifier, time.UTC))
	return r
}

func TestCronTriggerRequiresSecret(t *testing.T) {
	router := setupRouter("supersecret")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/cron/notifications", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/cron/notifications", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/cron/notifications", nil)
	req.Header.Set("Authorization", "Bearer supersecret")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"sent":0`)
}

func TestCronTriggerManualPost(t *testing.T) {
	router := setupRouter("supersecret")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/cron/notifications", nil)
	req.Header.Set("Authorization", "Bearer supersecret")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"errors":0`)
}

func TestCronTriggerOpenWithoutConfiguredSecret(t *testing.T) {
	router := setupRouter("")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/cron/notifications", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
