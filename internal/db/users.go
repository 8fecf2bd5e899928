package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/svitlo-tech/svitlo-tracker/internal/model"
)

// fetches a user by Telegram identity. returns nil, sql.ErrNoRows if not found.
func (s *pgStore) GetUserByTelegramID(telegramID string) (*model.User, error) {
	var u model.User
	query := `
	SELECT id, telegram_id, username, first_name, last_name, language_code, created_at, updated_at
	FROM users
	WHERE telegram_id = $1;
	`
	err := s.db.Get(&u, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("failed to get user by telegram id")
		return nil, err
	}
	return &u, nil
}

// returns the existing user for telegramID or inserts a new row. A single
// upsert keyed on telegram_id, so concurrent first contact from the same
// user resolves to one row instead of a unique violation.
func (s *pgStore) GetOrCreateUser(telegramID string, username, firstName, lastName *string, languageCode string) (*model.User, error) {
	if languageCode == "" {
		languageCode = "uk"
	}

	var u model.User
	query := `
	INSERT INTO users (telegram_id, username, first_name, last_name, language_code, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, now(), now())
	ON CONFLICT (telegram_id) DO UPDATE SET updated_at = now()
	RETURNING id, telegram_id, username, first_name, last_name, language_code, created_at, updated_at;
	`
	if err := s.db.Get(&u, query, telegramID, username, firstName, lastName, languageCode); err != nil {
		log.Error().Err(err).Msg("failed to get or create user")
		return nil, err
	}
	return &u, nil
}
