package db

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/svitlo-tech/svitlo-tracker/internal/model"
)

const subscriptionColumns = `id, user_id, operator_code, queue_number, notify_before, is_active, created_at, updated_at`

// lists a user's active subscriptions.
func (s *pgStore) ListUserSubscriptions(userID int) ([]model.Subscription, error) {
	var out []model.Subscription
	query := `
	SELECT ` + subscriptionColumns + `
	  FROM subscriptions
	 WHERE user_id = $1 AND is_active = true
	 ORDER BY id;`
	if err := s.db.Select(&out, query, userID); err != nil {
		log.Error().Err(err).Msg("ListUserSubscriptions failed")
		return nil, err
	}
	return out, nil
}

// upserts the single subscription row for (user, operator, queue):
// an existing row is reactivated with the new lead time, otherwise a new
// row is inserted. Repeat subscribes never create duplicates.
func (s *pgStore) CreateOrUpdateSubscription(userID int, operatorCode, queueNumber string, notifyBefore int) (*model.Subscription, error) {
	var sub model.Subscription
	query := `
	INSERT INTO subscriptions (user_id, operator_code, queue_number, notify_before, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, true, now(), now())
	ON CONFLICT (user_id, operator_code, queue_number)
	DO UPDATE SET notify_before = EXCLUDED.notify_before, is_active = true, updated_at = now()
	RETURNING ` + subscriptionColumns + `;`
	if err := s.db.Get(&sub, query, userID, operatorCode, queueNumber, notifyBefore); err != nil {
		log.Error().Err(err).Msg("CreateOrUpdateSubscription failed")
		return nil, err
	}
	return &sub, nil
}

// soft-deletes a subscription. Rows are never removed.
func (s *pgStore) DeactivateSubscription(subscriptionID int) error {
	res, err := s.db.Exec(`
	UPDATE subscriptions
	   SET is_active = false, updated_at = now()
	 WHERE id = $1;`, subscriptionID)
	if err != nil {
		log.Error().Err(err).Int("subscription_id", subscriptionID).Msg("DeactivateSubscription failed")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// returns every active subscription joined with its owner's Telegram
// identity, the working set of one notification run.
func (s *pgStore) ListActiveSubscriptions() ([]model.ActiveSubscription, error) {
	var out []model.ActiveSubscription
	query := `
	SELECT s.id, s.user_id, s.operator_code, s.queue_number, s.notify_before,
	       s.is_active, s.created_at, s.updated_at, u.telegram_id
	  FROM subscriptions s
	  JOIN users u ON u.id = s.user_id
	 WHERE s.is_active = true
	 ORDER BY s.id;`
	if err := s.db.Select(&out, query); err != nil {
		log.Error().Err(err).Msg("ListActiveSubscriptions failed")
		return nil, err
	}
	return out, nil
}
