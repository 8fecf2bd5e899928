package db

import (
	"github.com/svitlo-tech/svitlo-tracker/internal/model"
)

// noopStore is used when no DATABASE_URL is configured. Every operation
// returns an empty result and no error, so the product keeps working as an
// anonymous schedule viewer with notifications off.
type noopStore struct{}

var _ Store = (*noopStore)(nil)

func NewNoopStore() Store {
	return &noopStore{}
}

func (noopStore) GetUserByTelegramID(string) (*model.User, error) { return nil, nil }

func (noopStore) GetOrCreateUser(string, *string, *string, *string, string) (*model.User, error) {
	return nil, nil
}

func (noopStore) ListUserSubscriptions(int) ([]model.Subscription, error) { return nil, nil }

func (noopStore) CreateOrUpdateSubscription(int, string, string, int) (*model.Subscription, error) {
	return nil, nil
}

func (noopStore) DeactivateSubscription(int) error { return nil }

func (noopStore) ListActiveSubscriptions() ([]model.ActiveSubscription, error) { return nil, nil }

func (noopStore) HasNotificationBeenSent(int, string, string, string) (bool, error) {
	return false, nil
}

func (noopStore) LogNotification(int, string, string, string) error { return nil }
