package db

import (
	"database/sql"
	"sync"
	"time"

	"github.com/svitlo-tech/svitlo-tracker/internal/model"
)

// MemoryStore is an in-memory Store used by tests. It mirrors the Postgres
// semantics, including the (user, operator, queue) upsert and the dedupe
// key on notification logs.
type MemoryStore struct {
	mu            sync.Mutex
	users         []model.User
	subscriptions []model.Subscription
	logs          []model.NotificationLog
	nextUserID    int
	nextSubID     int
	nextLogID     int
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextUserID: 1, nextSubID: 1, nextLogID: 1}
}

func (m *MemoryStore) GetUserByTelegramID(telegramID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].TelegramID == telegramID {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MemoryStore) GetOrCreateUser(telegramID string, username, firstName, lastName *string, languageCode string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].TelegramID == telegramID {
			u := m.users[i]
			return &u, nil
		}
	}
	if languageCode == "" {
		languageCode = "uk"
	}
	now := time.Now()
	u := model.User{
		ID:           m.nextUserID,
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.nextUserID++
	m.users = append(m.users, u)
	return &u, nil
}

func (m *MemoryStore) ListUserSubscriptions(userID int) ([]model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Subscription
	for _, s := range m.subscriptions {
		if s.UserID == userID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateOrUpdateSubscription(userID int, operatorCode, queueNumber string, notifyBefore int) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.subscriptions {
		s := &m.subscriptions[i]
		if s.UserID == userID && s.OperatorCode == operatorCode && s.QueueNumber == queueNumber {
			s.NotifyBefore = notifyBefore
			s.IsActive = true
			s.UpdatedAt = time.Now()
			out := *s
			return &out, nil
		}
	}
	now := time.Now()
	s := model.Subscription{
		ID:           m.nextSubID,
		UserID:       userID,
		OperatorCode: operatorCode,
		QueueNumber:  queueNumber,
		NotifyBefore: notifyBefore,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.nextSubID++
	m.subscriptions = append(m.subscriptions, s)
	return &s, nil
}

func (m *MemoryStore) DeactivateSubscription(subscriptionID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.subscriptions {
		if m.subscriptions[i].ID == subscriptionID {
			m.subscriptions[i].IsActive = false
			m.subscriptions[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *MemoryStore) ListActiveSubscriptions() ([]model.ActiveSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ActiveSubscription
	for _, s := range m.subscriptions {
		if !s.IsActive {
			continue
		}
		var telegramID string
		for _, u := range m.users {
			if u.ID == s.UserID {
				telegramID = u.TelegramID
				break
			}
		}
		out = append(out, model.ActiveSubscription{Subscription: s, TelegramID: telegramID})
	}
	return out, nil
}

func (m *MemoryStore) HasNotificationBeenSent(subscriptionID int, outageDate, outageTime, notificationType string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.logs {
		if l.SubscriptionID == subscriptionID &&
			l.OutageDate == outageDate &&
			l.OutageTime == outageTime &&
			l.NotificationType == notificationType {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) LogNotification(subscriptionID int, outageDate, outageTime, notificationType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, model.NotificationLog{
		ID:               m.nextLogID,
		SubscriptionID:   subscriptionID,
		OutageDate:       outageDate,
		OutageTime:       outageTime,
		NotificationType: notificationType,
		SentAt:           time.Now(),
	})
	m.nextLogID++
	return nil
}

// Logs returns a copy of the appended notification log rows.
func (m *MemoryStore) Logs() []model.NotificationLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.NotificationLog, len(m.logs))
	copy(out, m.logs)
	return out
}
