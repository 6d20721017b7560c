package model

import "strings"

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// User авторизованный пользователь. Хранится в клиентском хранилище под ключом user.
type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	GroupNumber string `json:"groupNumber"`
	GroupCode   string `json:"groupCode"`
	Profile     string `json:"profile"`
	Token       string `json:"token"`
}

// FullName возвращает "Фамилия Имя" без лишних пробелов
func (u *User) FullName() string {
	return strings.TrimSpace(u.LastName + " " + u.FirstName)
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
