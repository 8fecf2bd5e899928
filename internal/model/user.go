package model

import "time"

// User caches a Telegram identity locally. TelegramID is the natural key,
// the numeric ID owns subscriptions.
type User struct {
	ID           int       `db:"id" json:"id"`
	TelegramID   string    `db:"telegram_id" json:"telegram_id"`
	Username     *string   `db:"username" json:"username"`
	FirstName    *string   `db:"first_name" json:"first_name"`
	LastName     *string   `db:"last_name" json:"last_name"`
	LanguageCode string    `db:"language_code" json:"language_code"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Subscription maps a user to one outage queue. At most one active row per
// (user, operator, queue); soft-deleted via IsActive, never removed.
type Subscription struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	OperatorCode string    `db:"operator_code" json:"operator_code"`
	QueueNumber  string    `db:"queue_number" json:"queue_number"`
	NotifyBefore int       `db:"notify_before" json:"notify_before"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ActiveSubscription is a subscription joined with the owner's Telegram
// identity, the shape the notification run iterates over.
type ActiveSubscription struct {
	Subscription
	TelegramID string `db:"telegram_id" json:"telegram_id"`
}

// NotificationBeforeOutage is the only alert type currently sent; start and
// restore alerts would get their own constants here.
const NotificationBeforeOutage = "before_outage"

// NotificationLog records one sent alert. The
// (SubscriptionID, OutageDate, OutageTime, NotificationType) tuple is the
// dedupe key; rows are append-only.
type NotificationLog struct {
	ID               int       `db:"id" json:"id"`
	SubscriptionID   int       `db:"subscription_id" json:"subscription_id"`
	OutageDate       string    `db:"outage_date" json:"outage_date"`
	OutageTime       string    `db:"outage_time" json:"outage_time"`
	NotificationType string    `db:"notification_type" json:"notification_type"`
	SentAt           time.Time `db:"sent_at" json:"sent_at"`
}
