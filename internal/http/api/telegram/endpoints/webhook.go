package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/svitlo-tech/svitlo-tracker/internal/http/api"
	"github.com/svitlo-tech/svitlo-tracker/internal/telegram"
)

var errBotNotConfigured = &api.Error{
	Code:    http.StatusServiceUnavailable,
	Message: "bot not configured - TELEGRAM_BOT_TOKEN missing",
}

type WebhookController struct {
	bot        *telegram.Bot
	router     *telegram.Router
	defaultURL string
}

func NewWebhookController(bot *telegram.Bot, router *telegram.Router, defaultURL string) *WebhookController {
	return &WebhookController{bot: bot, router: router, defaultURL: defaultURL}
}

// WebhookModule receives Telegram pushes. Unauthenticated: Telegram itself
// calls it, and a forged update can at most trigger a bot reply.
func WebhookModule(bot *telegram.Bot, router *telegram.Router, defaultURL string) api.Module {
	ctl := NewWebhookController(bot, router, defaultURL)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/telegram/webhook", api.ResolveEndpoint(ctl.receiveUpdate))
		c.GET("/telegram/webhook", api.ResolveEndpoint(ctl.webhookStatus))
	})
}

// SetupModule administers the webhook registration; mounted behind the
// shared secret.
func SetupModule(bot *telegram.Bot, router *telegram.Router, defaultURL string) api.Module {
	ctl := NewWebhookController(bot, router, defaultURL)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/telegram/setup", api.ResolveEndpoint(ctl.setWebhook))
		c.GET("/telegram/setup", api.ResolveEndpoint(ctl.webhookInfo))
		c.DELETE("/telegram/setup", api.ResolveEndpoint(ctl.deleteWebhook))
	})
}

func (w *WebhookController) receiveUpdate(ctx *gin.Context) (any, *api.Error) {
	if w.router == nil {
		return nil, errBotNotConfigured
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(ctx.Request.Body).Decode(&update); err != nil {
		log.Error().Err(err).Msg("failed to decode telegram update")
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid update payload"}
	}

	w.router.HandleUpdate(ctx.Request.Context(), update)
	return gin.H{"ok": true}, nil
}

func (w *WebhookController) webhookStatus(*gin.Context) (any, *api.Error) {
	return gin.H{"status": "telegram webhook endpoint"}, nil
}

func (w *WebhookController) setWebhook(ctx *gin.Context) (any, *api.Error) {
	if w.bot == nil {
		return nil, errBotNotConfigured
	}

	url := ctx.Query("url")
	if url == "" {
		var body struct {
			URL string `json:"url"`
		}
		_ = ctx.ShouldBindJSON(&body)
		url = body.URL
	}
	if url == "" {
		url = w.defaultURL
	}
	if url == "" {
		return nil, &api.Error{
			Code:    http.StatusBadRequest,
			Message: "webhook URL required: provide ?url= param or TELEGRAM_WEBHOOK_URL env var",
		}
	}

	if err := w.bot.SetWebhook(url); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "failed to set webhook", Details: err.Error()}
	}
	return gin.H{"success": true, "webhook": url}, nil
}

func (w *WebhookController) webhookInfo(*gin.Context) (any, *api.Error) {
	if w.bot == nil {
		return nil, errBotNotConfigured
	}
	info, err := w.bot.WebhookInfo()
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "failed to get webhook info", Details: err.Error()}
	}
	return info, nil
}

func (w *WebhookController) deleteWebhook(*gin.Context) (any, *api.Error) {
	if w.bot == nil {
		return nil, errBotNotConfigured
	}
	if err := w.bot.DeleteWebhook(); err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "failed to delete webhook", Details: err.Error()}
	}
	return gin.H{"success": true, "message": "webhook deleted"}, nil
}
