package dto

// LoginRequest тело POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest тело POST /register
type RegisterRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	GroupID  int    `json:"group_id,omitempty"`
	Role     string `json:"role"`
}

// AuthResponse ответ на логин и регистрацию
type AuthResponse struct {
	Token    string     `json:"token"`
	Role     string     `json:"role"`
	UserName string     `json:"user_name"`
	UserID   FlexString `json:"userId"`
	Email    string     `json:"email"`
	GroupID  FlexString `json:"group_id"`
	Error    string     `json:"error"`
}

// ChangePasswordRequest тело POST /student/change-password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// MessageResponse общий ответ вида {"message": "..."}
type MessageResponse struct {
	Message string `json:"message"`
}
