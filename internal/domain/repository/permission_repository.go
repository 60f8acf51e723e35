package repository

import (
	"context"

	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// PermissionRepository puerto de persistencia del catálogo de funciones y de los permisos por rol.
type PermissionRepository interface {
	// ListFeatures devuelve todo el catálogo ordenado por módulo y nombre.
	ListFeatures(ctx context.Context) ([]entity.Feature, error)
	// GetFeatureByID devuelve (nil, nil) si la función no existe.
	GetFeatureByID(ctx context.Context, id int64) (*entity.Feature, error)
	// ListByRole devuelve los permisos del rol sobre funciones activas.
	ListByRole(ctx context.Context, role entity.Role) ([]entity.PermissionRecord, error)
	// ListAll devuelve los permisos de todos los roles sobre funciones activas.
	ListAll(ctx context.Context) ([]entity.RolePermission, error)
	// Upsert crea o actualiza la fila (role, feature_id).
	Upsert(ctx context.Context, rp entity.RolePermission) error
}
