package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/svitlo-tech/svitlo-tracker/internal/model"
)

// Store is passed to the notifier, the bot and the API modules; pgStore is
// the Postgres implementation, NewNoopStore covers deployments without a
// database.
type Store interface {
	// user functions
	GetUserByTelegramID(telegramID string) (*model.User, error)
	GetOrCreateUser(telegramID string, username, firstName, lastName *string, languageCode string) (*model.User, error)

	// subscription functions
	ListUserSubscriptions(userID int) ([]model.Subscription, error)
	CreateOrUpdateSubscription(userID int, operatorCode, queueNumber string, notifyBefore int) (*model.Subscription, error)
	DeactivateSubscription(subscriptionID int) error
	ListActiveSubscriptions() ([]model.ActiveSubscription, error)

	// notification log functions
	HasNotificationBeenSent(subscriptionID int, outageDate, outageTime, notificationType string) (bool, error)
	LogNotification(subscriptionID int, outageDate, outageTime, notificationType string) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}
