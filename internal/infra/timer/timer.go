package timer

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/telebot.v4"
)

// Editor часть telebot.Bot, нужная для обновления сообщений
type Editor interface {
	Edit(msg telebot.Editable, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Updater обновляет сообщения с таймером. Частота правок ограничена для каждого чата отдельно:
// лишние правки пропускаются, следующая секунда все равно принесет свежий текст.
type Updater struct {
	editor Editor
	logger *zap.Logger

	perSecond rate.Limit
	burst     int

	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
}

func NewTimerUpdater(editor Editor, perSecond float64, burst int, logger *zap.Logger) *Updater {
	return &Updater{
		editor:    editor,
		logger:    logger,
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		limiters:  make(map[int64]*rate.Limiter),
	}
}

func (u *Updater) limiter(chatID int64) *rate.Limiter {
	u.mu.Lock()
	defer u.mu.Unlock()
	l, ok := u.limiters[chatID]
	if !ok {
		l = rate.NewLimiter(u.perSecond, u.burst)
		u.limiters[chatID] = l
	}
	return l
}

// UpdateTimer правит сообщение с таймером, если лимит чата позволяет
func (u *Updater) UpdateTimer(msg *telebot.Message, text string) {
	if msg == nil || msg.Chat == nil {
		return
	}
	if !u.limiter(msg.Chat.ID).Allow() {
		return
	}
	u.edit(msg, text)
}

// Finish правит сообщение без учета лимита и забывает лимитер чата
func (u *Updater) Finish(msg *telebot.Message, text string) {
	if msg == nil || msg.Chat == nil {
		return
	}
	u.edit(msg, text)
	u.Forget(msg.Chat.ID)
}

// Forget забывает лимитер чата, когда сессия отброшена без Finish
func (u *Updater) Forget(chatID int64) {
	u.mu.Lock()
	delete(u.limiters, chatID)
	u.mu.Unlock()
}

func (u *Updater) edit(msg *telebot.Message, text string) {
	_, err := u.editor.Edit(msg, text)
	if err != nil && !strings.Contains(err.Error(), "message is not modified") {
		u.logger.Warn("failed to update timer message", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

// FormatRemaining форматирует секунды как ММ:СС
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
