package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/svitlo-tech/svitlo-tracker/internal/http/api"
	"github.com/svitlo-tech/svitlo-tracker/internal/notify"
)

type CronController struct {
	notifier *notify.Notifier
	loc      *time.Location
}

func NewCronController(notifier *notify.Notifier, loc *time.Location) *CronController {
	return &CronController{notifier: notifier, loc: loc}
}

// CronModule exposes the externally-invoked notification trigger. GET for
// cron runners, POST for manual invocation; both run the same check and
// are safe to call on demand.
func CronModule(notifier *notify.Notifier, loc *time.Location) api.Module {
	ctl := NewCronController(notifier, loc)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/cron/notifications", api.ResolveEndpoint(ctl.runNotifications))
		c.POST("/cron/notifications", api.ResolveEndpoint(ctl.runNotifications))
	})
}

func (c *CronController) runNotifications(ctx *gin.Context) (any, *api.Error) {
	log.Info().Msg("starting notification check")
	result := c.notifier.CheckAndSend(ctx.Request.Context(), time.Now().In(c.loc))
	log.Info().
		Int("sent", result.Sent).
		Int("skipped", result.Skipped).
		Int("errors", result.Errors).
		Msg("notification check complete")

	return gin.H{
		"success":   true,
		"result":    result,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, nil
}
