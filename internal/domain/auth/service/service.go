package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/IT-Nick/veritasbot/internal/domain/dto"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient/paths"
	"github.com/IT-Nick/veritasbot/internal/infra/storage"
	"go.uber.org/zap"
)

const (
	MinPasswordLength = 6
	// TeacherGroupID группа, которую сервер ожидает для преподавателей при регистрации
	TeacherGroupID = 6

	serverRoleTeacher = "admin"
	serverRoleStudent = "student"

	msgLoginFailed      = "Помилка авторизації"
	msgRegisterFailed   = "Помилка реєстрації"
	msgConnection       = "Помилка підключення до сервера"
	msgInvalidEmail     = "Невірна адреса електронної пошти"
	msgPasswordMismatch = "Паролі не збігаються"
	msgPasswordShort    = "Пароль має містити принаймні 6 символів"
	defaultLastName     = "Користувач"
)

// RegisterForm данные формы регистрации
type RegisterForm struct {
	UserName        string
	Email           string
	Password        string
	ConfirmPassword string
	GroupID         int
	Teacher         bool
}

// AuthService управляет сессиями авторизации чатов
type AuthService struct {
	api    *apiclient.Client
	store  storage.Store
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewAuthService создает новый экземпляр AuthService
func NewAuthService(api *apiclient.Client, store storage.Store, logger *zap.Logger) *AuthService {
	return &AuthService{
		api:      api,
		store:    store,
		logger:   logger,
		sessions: make(map[int64]*Session),
	}
}

// Session возвращает сессию чата. При первом обращении восстанавливает ее из хранилища.
func (s *AuthService) Session(ctx context.Context, chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		return sess
	}

	sess := newSession(chatID)
	s.restore(ctx, sess)
	s.sessions[chatID] = sess
	return sess
}

// restore загружает user и token, только если есть оба. Свежесть токена не проверяется.
func (s *AuthService) restore(ctx context.Context, sess *Session) {
	rawUser, okUser, err := s.store.Get(ctx, sess.chatID, storage.KeyUser)
	if err != nil {
		s.logger.Error("failed to restore user", zap.Int64("chat_id", sess.chatID), zap.Error(err))
		return
	}
	token, okToken, err := s.store.Get(ctx, sess.chatID, storage.KeyToken)
	if err != nil {
		s.logger.Error("failed to restore token", zap.Int64("chat_id", sess.chatID), zap.Error(err))
		return
	}
	if !okUser || !okToken || token == "" {
		return
	}

	var user model.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.logger.Warn("stored user record is corrupt", zap.Int64("chat_id", sess.chatID), zap.Error(err))
		return
	}
	user.Token = token
	sess.set(user, token)
}

// Login выполняет вход. Ошибка имеет тип *model.AuthError, прежняя сессия при ошибке не меняется.
func (s *AuthService) Login(ctx context.Context, sess *Session, email, password string) error {
	var resp dto.AuthResponse
	err := s.api.PostPublic(ctx, "login", paths.Login, dto.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return s.authFailure(sess, model.AuthErrorLogin, err, msgLoginFailed)
	}
	if resp.Token == "" {
		return sess.fail(model.AuthErrorLogin, firstNonEmpty(resp.Error, msgLoginFailed))
	}

	user := userFromResponse(resp)
	if user.Email == "" {
		user.Email = email
	}
	s.persist(ctx, sess, user, resp.Token, resp.Role)
	s.logger.Info("user logged in", zap.Int64("chat_id", sess.chatID), zap.String("role", string(user.Role)))
	return nil
}

// Register проверяет форму локально и регистрирует пользователя. Успешная регистрация авторизует чат.
func (s *AuthService) Register(ctx context.Context, sess *Session, form RegisterForm) error {
	if err := ValidateRegistration(form); err != nil {
		return sess.fail(model.AuthErrorRegister, err.Error())
	}

	role := serverRoleStudent
	groupID := form.GroupID
	if form.Teacher {
		role = serverRoleTeacher
		groupID = TeacherGroupID
	}

	req := dto.RegisterRequest{
		UserName: strings.TrimSpace(form.UserName),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		GroupID:  groupID,
		Role:     role,
	}

	var resp dto.AuthResponse
	if err := s.api.PostPublic(ctx, "register", paths.Register, req, &resp); err != nil {
		return s.authFailure(sess, model.AuthErrorRegister, err, msgRegisterFailed)
	}
	if resp.Token == "" {
		return sess.fail(model.AuthErrorRegister, firstNonEmpty(resp.Error, msgRegisterFailed))
	}

	lastName, firstName := splitUserName(req.UserName)
	user := model.User{
		ID:          firstNonEmpty(resp.UserID.Value, UserIDFromToken(resp.Token)),
		FirstName:   firstName,
		LastName:    lastName,
		Email:       req.Email,
		Role:        mapRole(role),
		GroupNumber: strconv.Itoa(groupID),
		Profile:     profileLabel(role),
		Token:       resp.Token,
	}
	s.persist(ctx, sess, user, resp.Token, firstNonEmpty(resp.Role, role))
	s.logger.Info("user registered", zap.Int64("chat_id", sess.chatID), zap.String("role", string(user.Role)))
	return nil
}

// Logout очищает сессию и ключи user, token, role
func (s *AuthService) Logout(ctx context.Context, sess *Session) error {
	sess.clear()
	if err := s.store.Delete(ctx, sess.chatID, storage.KeyUser, storage.KeyToken, storage.KeyRole); err != nil {
		return err
	}
	return nil
}

var (
	ErrInvalidEmail     = errors.New(msgInvalidEmail)
	ErrPasswordMismatch = errors.New(msgPasswordMismatch)
	ErrPasswordShort    = errors.New(msgPasswordShort)
)

// ValidateRegistration проверяет email, совпадение паролей и длину пароля именно в этом порядке
func ValidateRegistration(form RegisterForm) error {
	if !strings.Contains(form.Email, "@") {
		return ErrInvalidEmail
	}
	if form.Password != form.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len([]rune(form.Password)) < MinPasswordLength {
		return ErrPasswordShort
	}
	return nil
}

// ValidatePasswordChange проверяет новый пароль перед отправкой на сервер
func ValidatePasswordChange(newPassword, confirm string) error {
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if len([]rune(newPassword)) < MinPasswordLength {
		return ErrPasswordShort
	}
	return nil
}

func (s *AuthService) authFailure(sess *Session, kind model.AuthErrorKind, err error, fallback string) error {
	if apiclient.IsServerError(err) {
		return sess.fail(kind, apiclient.ServerMessage(err, fallback))
	}
	s.logger.Warn("auth request failed", zap.String("kind", string(kind)), zap.Error(err))
	return sess.fail(kind, msgConnection)
}

func (s *AuthService) persist(ctx context.Context, sess *Session, user model.User, token, serverRole string) {
	sess.set(user, token)

	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Error("failed to encode user", zap.Error(err))
		return
	}
	for key, value := range map[string]string{
		storage.KeyUser:  string(data),
		storage.KeyToken: token,
		storage.KeyRole:  serverRole,
	} {
		if err := s.store.Set(ctx, sess.chatID, key, value); err != nil {
			s.logger.Error("failed to persist auth state", zap.String("key", key), zap.Error(err))
		}
	}
}

func userFromResponse(resp dto.AuthResponse) model.User {
	lastName, firstName := splitUserName(resp.UserName)
	return model.User{
		ID:          firstNonEmpty(resp.UserID.Value, UserIDFromToken(resp.Token)),
		FirstName:   firstName,
		LastName:    lastName,
		Email:       resp.Email,
		Role:        mapRole(resp.Role),
		GroupNumber: resp.GroupID.Value,
		Profile:     profileLabel(resp.Role),
		Token:       resp.Token,
	}
}

// splitUserName разбирает "Фамилия Имя"
func splitUserName(name string) (lastName, firstName string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return defaultLastName, ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[1]
	}
}

func mapRole(serverRole string) model.Role {
	if serverRole == serverRoleTeacher {
		return model.RoleTeacher
	}
	return model.RoleStudent
}

func profileLabel(serverRole string) string {
	if serverRole == serverRoleTeacher {
		return "Викладач"
	}
	return "Студент"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
