package middleware

import (
	"context"

	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	messageService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	rolesService "github.com/IT-Nick/veritasbot/internal/domain/roles/service"
	"gopkg.in/telebot.v4"
)

const sessionKey = "auth_session"

// RequireAuth пропускает дальше только авторизованные чаты и кладет сессию в контекст
func RequireAuth(auth *authService.AuthService, messages *messageService.MessageService) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if c.Chat() == nil {
				return nil
			}
			ctx := context.Background()
			sess := auth.Session(ctx, c.Chat().ID)
			if !sess.IsAuthenticated() {
				return Reply(c, messages.Text(ctx, "not_authenticated"))
			}
			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// RequirePermission пропускает роли с правом permission. Ставится после RequireAuth.
func RequirePermission(roles *rolesService.RoleService, messages *messageService.MessageService, permission string) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			ctx := context.Background()
			sess := Session(c)
			if sess == nil {
				return Reply(c, messages.Text(ctx, "teacher_only"))
			}
			user, ok := sess.User()
			if !ok || !roles.HasPermission(ctx, user.Role, permission) {
				return Reply(c, messages.Text(ctx, "teacher_only"))
			}
			return next(c)
		}
	}
}

// Session сессия, положенная RequireAuth
func Session(c telebot.Context) *authService.Session {
	sess, _ := c.Get(sessionKey).(*authService.Session)
	return sess
}

// Reply отвечает всплывающим уведомлением на callback или сообщением на команду
func Reply(c telebot.Context, text string) error {
	if c.Callback() != nil {
		return c.Respond(&telebot.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}
