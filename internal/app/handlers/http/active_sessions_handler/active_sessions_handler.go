package active_sessions_handler

import (
	"net/http"

	"github.com/IT-Nick/veritasbot/internal/domain/session"
	httpResponse "github.com/IT-Nick/veritasbot/pkg/http"
)

// ActiveSessionsHandler структура для обработчика
type ActiveSessionsHandler struct {
	registry *session.Registry
}

// NewActiveSessionsHandler создает новый экземпляр обработчика
func NewActiveSessionsHandler(registry *session.Registry) *ActiveSessionsHandler {
	return &ActiveSessionsHandler{registry: registry}
}

// ServeHTTP отдает отчет по сессиям в процессе прохождения
func (h *ActiveSessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpResponse.JSONResponse(w, h.registry.ActiveReport())
}
