package dto

import "github.com/jhoicas/Supermercado-api/internal/domain/entity"

// UserPermissionsResponse permisos efectivos de un usuario (los de su rol).
type UserPermissionsResponse struct {
	UserID      int64                     `json:"user_id"`
	Role        entity.Role               `json:"role"`
	Permissions []entity.PermissionRecord `json:"permissions"`
}

// FeaturesResponse catálogo de funciones.
type FeaturesResponse struct {
	Features []entity.Feature `json:"features"`
}

// RolePermissionsResponse permisos agrupados por rol.
type RolePermissionsResponse struct {
	RolePermissions map[entity.Role][]entity.RolePermission `json:"role_permissions"`
}

// UpdateRolePermissionRequest nuevos flags para (role, feature_id).
type UpdateRolePermissionRequest struct {
	CanView   bool `json:"can_view"`
	CanCreate bool `json:"can_create"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// UpdateRolePermissionResponse confirmación de la actualización.
type UpdateRolePermissionResponse struct {
	Message     string                      `json:"message"`
	Role        entity.Role                 `json:"role"`
	FeatureID   int64                       `json:"feature_id"`
	Permissions UpdateRolePermissionRequest `json:"permissions"`
}

// CheckPermissionRequest consulta puntual de una capacidad del usuario actual.
type CheckPermissionRequest struct {
	FeatureCode string `json:"feature_code" validate:"required"`
	Action      string `json:"action,omitempty" validate:"omitempty,oneof=view create edit delete"`
}

// CheckPermissionResponse resultado de la consulta.
type CheckPermissionResponse struct {
	UserID        int64              `json:"user_id"`
	Role          entity.Role        `json:"role"`
	FeatureCode   entity.FeatureCode `json:"feature_code"`
	Action        entity.Action      `json:"action"`
	HasPermission bool               `json:"has_permission"`
}
