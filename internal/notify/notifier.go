// Package notify decides, per subscription, whether a before-outage alert
// is due right now and sends it exactly once per
// (subscription, date, outage start, type) tuple.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/svitlo-tech/svitlo-tracker/internal/db"
	"github.com/svitlo-tech/svitlo-tracker/internal/model"
	"github.com/svitlo-tech/svitlo-tracker/internal/timeutil"
)

// ScheduleSource resolves one queue's schedule. *yasno.Client implements it.
type ScheduleSource interface {
	ResolveQueue(ctx context.Context, operatorCode, queueNumber string) (*model.QueueSchedule, bool, error)
}

// Sender delivers a text message to a Telegram identity.
// telegram.Bot implements it.
type Sender interface {
	SendMessage(telegramID string, text string) error
}

// Result aggregates one run for observability. This is the full contract
// surfaced to the external trigger.
type Result struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Notifier runs the periodic notification check. It keeps no state between
// runs; every invocation re-reads subscriptions, schedules and the log, so
// repeated or overlapping triggers stay safe.
type Notifier struct {
	store       db.Store
	schedules   ScheduleSource
	sender      Sender
	regionNames map[string]string
}

func New(store db.Store, schedules ScheduleSource, sender Sender, regionNames map[string]string) *Notifier {
	return &Notifier{
		store:       store,
		schedules:   schedules,
		sender:      sender,
		regionNames: regionNames,
	}
}

// CheckAndSend evaluates every active subscription against today's
// schedule at the given wall-clock instant. An alert is due iff the outage
// starts strictly in the future and within the subscription's lead window
// (0 < minutes-until-start <= notify_before). Failures on one subscription
// never abort the rest.
func (n *Notifier) CheckAndSend(ctx context.Context, now time.Time) Result {
	var result Result

	subscriptions, err := n.store.ListActiveSubscriptions()
	if err != nil {
		log.Error().Err(err).Msg("failed to list active subscriptions")
		result.Errors++
		return result
	}
	if len(subscriptions) == 0 {
		return result
	}
	log.Info().Int("subscriptions", len(subscriptions)).Msg("processing active subscriptions")

	currentMinutes := timeutil.MinutesOfDay(now)
	todayDate := timeutil.DateString(now)

	for _, sub := range subscriptions {
		n.processSubscription(ctx, sub, currentMinutes, todayDate, &result)
	}
	return result
}

func (n *Notifier) processSubscription(ctx context.Context, sub model.ActiveSubscription, currentMinutes int, todayDate string, result *Result) {
	schedule, _, err := n.schedules.ResolveQueue(ctx, sub.OperatorCode, sub.QueueNumber)
	if err != nil {
		log.Error().Err(err).Int("subscription_id", sub.ID).Msg("failed to resolve schedule for subscription")
		result.Errors++
		return
	}
	if schedule == nil || len(schedule.Today.Outages) == 0 {
		return
	}
	// Under emergency shutdowns the published slots are not authoritative.
	if schedule.Today.Status == model.EmergencyShutdowns {
		return
	}

	for _, outage := range schedule.Today.Outages {
		minutesUntil := timeutil.ClockToMinutes(outage.StartTime) - currentMinutes
		if minutesUntil <= 0 || minutesUntil > sub.NotifyBefore {
			continue
		}

		alreadySent, err := n.store.HasNotificationBeenSent(sub.ID, todayDate, outage.StartTime, model.NotificationBeforeOutage)
		if err != nil {
			result.Errors++
			continue
		}
		if alreadySent {
			result.Skipped++
			continue
		}

		if n.sender == nil {
			// No delivery channel configured; leave the alert unlogged so
			// it fires once a bot is available.
			result.Errors++
			continue
		}
		message := n.beforeOutageMessage(sub, outage, minutesUntil)
		if err := n.sender.SendMessage(sub.TelegramID, message); err != nil {
			// Unlogged, so a later run inside the window retries the send.
			log.Error().Err(err).Str("telegram_id", sub.TelegramID).Msg("failed to send notification")
			result.Errors++
			continue
		}
		result.Sent++
		log.Info().
			Str("telegram_id", sub.TelegramID).
			Str("outage_start", outage.StartTime).
			Msg("sent before-outage notification")

		if err := n.store.LogNotification(sub.ID, todayDate, outage.StartTime, model.NotificationBeforeOutage); err != nil {
			// The alert may be resent on a later run, preferable to losing it.
			result.Errors++
		}
	}
}

func (n *Notifier) beforeOutageMessage(sub model.ActiveSubscription, outage model.Outage, minutesUntil int) string {
	return fmt.Sprintf(`⚠️ *Увага! Скоро відключення*

🔢 Черга: %s (%s)
⏰ Відключення о *%s*
⏱ Через %s

Світло буде відсутнє до *%s*`,
		sub.QueueNumber,
		n.regionNames[sub.OperatorCode],
		outage.StartTime,
		timeutil.FormatDurationUK(minutesUntil),
		outage.EndTime,
	)
}
