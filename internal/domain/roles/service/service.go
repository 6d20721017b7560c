package service

import (
	"context"
	"fmt"

	"github.com/IT-Nick/veritasbot/internal/domain/model"
	"github.com/IT-Nick/veritasbot/internal/domain/roles/repository"
	"gopkg.in/telebot.v4"
)

// RoleService для работы с ролями и правами
type RoleService struct {
	rolePermissionRepo *repository.RolePermissionRepository
}

// NewRoleService создает новый экземпляр RoleService
func NewRoleService(rolePermissionRepo *repository.RolePermissionRepository) *RoleService {
	return &RoleService{rolePermissionRepo: rolePermissionRepo}
}

// HasPermission проверяет право роли
func (s *RoleService) HasPermission(ctx context.Context, role model.Role, permission string) bool {
	permissions, err := s.rolePermissionRepo.GetPermissionsByRole(ctx, role)
	if err != nil {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetRoleBasedKeyboard генерирует клавиатуру главного меню на основе прав роли
func (s *RoleService) GetRoleBasedKeyboard(ctx context.Context, role model.Role, buttonsMessages map[string]string) ([][]telebot.InlineButton, error) {
	permissions, err := s.rolePermissionRepo.GetPermissionsByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions for role: %w", err)
	}

	// Формируем клавиатуру
	var keyboard []telebot.InlineButton
	for _, permission := range permissions {
		var key string
		switch permission {
		case repository.PermissionViewTests:
			key = model.MyTestsKey
		case repository.PermissionViewResults:
			key = model.MyResultsKey
		case repository.PermissionAnalytics:
			key = model.AnalyticsKey
		case repository.PermissionCreateTest:
			key = model.NewTestKey
		case repository.PermissionSettings:
			key = model.SettingsKey
		default:
			continue
		}
		keyboard = append(keyboard, telebot.InlineButton{
			Text:   buttonsMessages[key],
			Unique: key,
		})
	}

	var keyboardInColumns [][]telebot.InlineButton
	for _, button := range keyboard {
		keyboardInColumns = append(keyboardInColumns, []telebot.InlineButton{button})
	}

	return keyboardInColumns, nil
}
