package session_report_handler

import (
	"net/http"
	"strconv"

	"github.com/IT-Nick/veritasbot/internal/domain/session"
	httpResponse "github.com/IT-Nick/veritasbot/pkg/http"
)

// SessionReportHandler структура для обработчика GET /sessions/{chat_id}
type SessionReportHandler struct {
	registry *session.Registry
}

// NewSessionReportHandler создает новый экземпляр обработчика
func NewSessionReportHandler(registry *session.Registry) *SessionReportHandler {
	return &SessionReportHandler{registry: registry}
}

// ServeHTTP метод для обработки запроса
func (h *SessionReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(r.PathValue("chat_id"), 10, 64)
	if err != nil {
		httpResponse.ErrorResponse(w, http.StatusBadRequest, "Invalid chat_id")
		return
	}

	info, ok := h.registry.Report(chatID)
	if !ok {
		httpResponse.ErrorResponse(w, http.StatusNotFound, "No session for chat")
		return
	}

	httpResponse.JSONResponse(w, info)
}
