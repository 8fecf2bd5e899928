package db

import (
	"github.com/rs/zerolog/log"
)

// reports whether an alert for the dedupe key
// (subscription, date, outage start, type) was already logged. This lookup
// is the sole duplicate-prevention mechanism across notifier runs.
func (s *pgStore) HasNotificationBeenSent(subscriptionID int, outageDate, outageTime, notificationType string) (bool, error) {
	var exists bool
	query := `
	SELECT EXISTS (
		SELECT 1 FROM notification_logs
		 WHERE subscription_id = $1
		   AND outage_date = $2
		   AND outage_time = $3
		   AND notification_type = $4
	);`
	if err := s.db.Get(&exists, query, subscriptionID, outageDate, outageTime, notificationType); err != nil {
		log.Error().Err(err).Msg("HasNotificationBeenSent failed")
		return false, err
	}
	return exists, nil
}

// appends one log row for a sent alert. Must be called only after the send
// succeeded; a failed send stays unlogged so a later run retries it.
func (s *pgStore) LogNotification(subscriptionID int, outageDate, outageTime, notificationType string) error {
	query := `
	INSERT INTO notification_logs (subscription_id, outage_date, outage_time, notification_type, sent_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT DO NOTHING;`
	if _, err := s.db.Exec(query, subscriptionID, outageDate, outageTime, notificationType); err != nil {
		log.Error().Err(err).Int("subscription_id", subscriptionID).Msg("LogNotification failed")
		return err
	}
	return nil
}
