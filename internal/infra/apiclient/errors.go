package apiclient

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated возвращается до сетевого запроса, если нет токена
var ErrNotAuthenticated = errors.New("not authenticated")

// Error ответ сервера с кодом вне 2xx
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

// ServerMessage возвращает текст ошибки сервера или fallback, если ошибка не серверная
func ServerMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsServerError сообщает, дошел ли запрос до сервера
func IsServerError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}
