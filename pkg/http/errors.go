package http

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse отправляет JSON-ответ вида {"error": "..."} с указанным статусом
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONResponse отправляет v как JSON со статусом 200
func JSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ErrorResponse(w, http.StatusInternalServerError, "Failed to encode response")
	}
}
