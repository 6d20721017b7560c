package repository

import (
	"context"
	"fmt"

	"github.com/IT-Nick/veritasbot/internal/domain/model"
)

// Права ролей. Большая часть отображается в кнопки главного меню.
const (
	PermissionViewTests     = "view_tests"
	PermissionViewResults   = "view_results"
	PermissionAnalytics     = "analytics"
	PermissionCreateTest    = "create_test"
	PermissionSettings      = "settings"
	PermissionReviewResults = "review_results"
)

// RolePermissionRepository права ролей. Роли определяет сервер, поэтому таблица прав
// задается в коде.
type RolePermissionRepository struct {
	permissions map[model.Role][]string
}

// NewRolePermissionRepository создает новый экземпляр RolePermissionRepository
func NewRolePermissionRepository() *RolePermissionRepository {
	return &RolePermissionRepository{
		permissions: map[model.Role][]string{
			model.RoleStudent: {PermissionViewTests, PermissionViewResults, PermissionAnalytics, PermissionSettings},
			model.RoleTeacher: {PermissionViewTests, PermissionCreateTest, PermissionAnalytics, PermissionSettings, PermissionReviewResults},
		},
	}
}

// GetPermissionsByRole получает все права для роли
func (r *RolePermissionRepository) GetPermissionsByRole(_ context.Context, role model.Role) ([]string, error) {
	permissions, ok := r.permissions[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return append([]string(nil), permissions...), nil
}
