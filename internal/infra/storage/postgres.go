package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS client_storage (
	chat_id    BIGINT      NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chat_id, key)
)`

// PostgresStore хранит состояние чатов в таблице client_storage
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore создает хранилище и при необходимости таблицу
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := db.Exec(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create client_storage table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, chatID int64, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(ctx, "SELECT value FROM client_storage WHERE chat_id=$1 AND key=$2", chatID, key).
		Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, chatID int64, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO client_storage (chat_id, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (chat_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		chatID, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, chatID int64, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, "DELETE FROM client_storage WHERE chat_id=$1 AND key = ANY($2)", chatID, keys)
	if err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
