package session_report_handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/domain/session"
	"go.uber.org/zap"
)

func TestSessionReportHandler(t *testing.T) {
	s := session.New(model.Test{ID: "7", Title: "Алгебра", Duration: 2},
		[]model.Question{{ID: "1", Type: model.QuestionSingle, Points: 1}},
		session.Owner{}, nil, zap.NewNop(), session.WithTickInterval(time.Hour))
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start вернул ошибку: %v", err)
	}
	registry := session.NewRegistry()
	registry.Put(42, s)
	defer registry.DiscardAll()

	h := NewSessionReportHandler(registry)

	cases := []struct {
		chatID string
		status int
	}{
		{"42", http.StatusOK},
		{"43", http.StatusNotFound},
		{"abc", http.StatusBadRequest},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/sessions/"+tc.chatID, nil)
		r.SetPathValue("chat_id", tc.chatID)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		if w.Code != tc.status {
			t.Errorf("chat_id=%s: ожидался статус %d, получено %d", tc.chatID, tc.status, w.Code)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/sessions/42", nil)
	r.SetPathValue("chat_id", "42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var info dto.ActiveSessionInfo
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatalf("Не удалось разобрать ответ: %v", err)
	}
	if info.TestID != "7" || info.RemainingTime != "02:00" || info.TotalQuestions != 1 {
		t.Errorf("Неверный отчет: %+v", info)
	}
}
