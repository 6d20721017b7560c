package model

type AuthErrorKind string

const (
	AuthErrorLogin    AuthErrorKind = "login"
	AuthErrorRegister AuthErrorKind = "register"
	AuthErrorAccount  AuthErrorKind = "account"
)

// AuthError ошибка авторизации с видом операции и сообщением для пользователя
type AuthError struct {
	Kind    AuthErrorKind
	Message string
}

func (e *AuthError) Error() string {
	return string(e.Kind) + ": " + e.Message
}
