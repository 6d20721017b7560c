package health_handler

import (
	"net/http"

	httpResponse "github.com/IT-Nick/veritasbot/pkg/http"
)

// HealthResponse ответ проверки живости
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler структура для обработчика
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpResponse.JSONResponse(w, HealthResponse{Status: "ok"})
}
