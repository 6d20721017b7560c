package storage

import "context"

// Ключи клиентского состояния чата
const (
	KeyUser  = "user"
	KeyToken = "token"
	KeyRole  = "role"
)

// Store хранит строковые значения по ключу в пределах одного чата.
// Один чат соответствует одной вкладке браузера в веб-клиенте.
type Store interface {
	Get(ctx context.Context, chatID int64, key string) (string, bool, error)
	Set(ctx context.Context, chatID int64, key, value string) error
	Delete(ctx context.Context, chatID int64, keys ...string) error
	Close() error
}
