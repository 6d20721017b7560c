package analytics_handler

import (
	"context"
	"strings"
	"time"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/command"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	"github.com/IT-Nick/veritasbot/internal/domain/analytics"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	resultsService "github.com/IT-Nick/veritasbot/internal/domain/results/service"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
)

// AnalyticsHandler структура для обработки команды /analytics [предмет] [группа] и кнопки "Аналітика"
type AnalyticsHandler struct {
	resultService  *resultsService.ResultService
	messageService *messageService.MessageService
	loc            *time.Location
	logger         *zap.Logger
}

// NewAnalyticsHandler возвращает структуру обработчика
func NewAnalyticsHandler(resultService *resultsService.ResultService, messageService *messageService.MessageService, loc *time.Location, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		resultService:  resultService,
		messageService: messageService,
		loc:            loc,
		logger:         logger,
	}
}

func (h *AnalyticsHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	sess := middleware.Session(c)

	results, err := h.resultService.Analytics(ctx, sess)
	if err != nil {
		h.logger.Warn("failed to load analytics", zap.Int64("chat_id", sess.ChatID()), zap.Error(err))
		return middleware.Reply(c, h.messageService.Text(ctx, "results_load_failed"))
	}

	subject, group := ParseFilters(command.Payload(c))
	return c.Send(Render(ctx, h.messageService, results, subject, group, sess.IsTeacher(), h.loc))
}

// ParseFilters разбирает "предмет | группа" или два слова через пробел. Пустое значение - all.
func ParseFilters(payload string) (subject, group string) {
	var parts []string
	if strings.Contains(payload, "|") {
		parts = strings.Split(payload, "|")
	} else {
		parts = strings.Fields(payload)
	}

	subject, group = analytics.All, analytics.All
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		subject = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		group = strings.TrimSpace(parts[1])
	}
	return subject, group
}

// Render текст аналитики: предметы, для преподавателя группы и распределение оценок,
// для студента прогресс, затем итоги и подсказка по фильтрам
func Render(ctx context.Context, messages *messageService.MessageService, results []model.TestResult, subject, group string, isTeacher bool, loc *time.Location) string {
	var sb strings.Builder
	line := func(key string, args ...any) {
		sb.WriteString("\n")
		sb.WriteString(messages.Text(ctx, key, args...))
	}

	shownGroup := group
	if !isTeacher {
		shownGroup = analytics.All
	}
	sb.WriteString(messages.Text(ctx, "analytics_header", subject, shownGroup))

	filtered := analytics.Filter(results, subject, group, isTeacher)
	if len(filtered) == 0 {
		line("analytics_empty")
	} else {
		sb.WriteString("\n")
		line("analytics_subjects")
		for _, s := range analytics.BySubject(filtered) {
			line("analytics_subject_row", s.Subject, s.AverageScore, s.MaxScore, s.Percentage, s.TotalAttempts)
		}

		if isTeacher {
			sb.WriteString("\n")
			line("analytics_groups")
			for _, g := range analytics.ByGroup(filtered) {
				line("analytics_group_row", g.Group, g.AverageScore, g.StudentsPassed, g.TotalStudents, g.PassRate)
			}
			sb.WriteString("\n")
			line("analytics_grades")
			for _, d := range analytics.Grades(filtered) {
				line("analytics_grade_row", d.Group, d.AveragePercent, d.Excellent, d.Good, d.Satisfactory, d.Poor)
			}
		} else {
			sb.WriteString("\n")
			line("analytics_progress")
			for _, p := range analytics.Progress(filtered, loc) {
				line("analytics_progress_row", p.Attempt, p.Date, p.Title, p.Percentage)
			}
		}

		summary := analytics.Summarize(filtered, isTeacher)
		sb.WriteString("\n")
		line("analytics_summary", summary.Attempts, summary.AverageScore, summary.BestScore)
		if isTeacher {
			sb.WriteString(messages.Text(ctx, "analytics_active_groups", summary.ActiveGroups))
		}
	}

	sb.WriteString("\n")
	line("analytics_filters", strings.Join(analytics.Subjects(results), ", "))
	return sb.String()
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AnalyticsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
