package notify

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StartCron runs the notification check on the given cron schedule
// (default "*/5 * * * *") in-process. The HTTP trigger endpoint shares the
// same Notifier; overlap between the two is safe because every run
// re-reads current state. Both the cron expression and the check instant
// are evaluated in loc, the provider's wall-clock zone.
func StartCron(schedule string, notifier *Notifier, loc *time.Location) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(schedule, func() {
		result := notifier.CheckAndSend(context.Background(), time.Now().In(loc))
		log.Info().
			Int("sent", result.Sent).
			Int("skipped", result.Skipped).
			Int("errors", result.Errors).
			Msg("scheduled notification check complete")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("schedule", schedule).Msg("notification cron started")
	return c, nil
}
