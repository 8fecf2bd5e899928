package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/svitlo-tech/svitlo-tracker/internal/config"
	"github.com/svitlo-tech/svitlo-tracker/internal/http/api"
	cronapi "github.com/svitlo-tech/svitlo-tracker/internal/http/api/cron/endpoints"
	scheduleapi "github.com/svitlo-tech/svitlo-tracker/internal/http/api/schedule/endpoints"
	telegramapi "github.com/svitlo-tech/svitlo-tracker/internal/http/api/telegram/endpoints"
	"github.com/svitlo-tech/svitlo-tracker/internal/notify"
	"github.com/svitlo-tech/svitlo-tracker/internal/telegram"
	"github.com/svitlo-tech/svitlo-tracker/internal/yasno"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, schedules *yasno.Client, notifier *notify.Notifier, bot *telegram.Bot, router *telegram.Router) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"DELETE",
			"OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	// public read surface plus the Telegram push receiver
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		scheduleapi.ScheduleModule(schedules),
		telegramapi.WebhookModule(bot, router, cfg.WebhookURL),
	)

	// externally-triggered and administrative endpoints, shared-secret
	// protected when a secret is configured
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
		Secret: cfg.CronSecret,
	},
		cronapi.CronModule(notifier, cfg.Location),
		telegramapi.SetupModule(bot, router, cfg.WebhookURL),
	)
}
