package repository

import (
	"context"

	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// UserFilter criterio de listado. Los campos vacíos no filtran.
// AlsoUserID añade ese usuario al resultado aunque no cumpla el resto del filtro.
type UserFilter struct {
	StoreID    *int64
	Roles      []entity.Role
	AlsoUserID int64
}

// UserAdminRepository amplía UserRepository con la administración de cuentas.
type UserAdminRepository interface {
	UserRepository
	// List devuelve los usuarios ordenados del más reciente al más antiguo, con StoreName.
	List(ctx context.Context, f UserFilter) ([]*entity.User, error)
	// Update guarda username, role y store_id; si PasswordHash no está vacío también la contraseña.
	Update(ctx context.Context, user *entity.User) error
	// Delete devuelve domain.ErrNotFound si no existe y domain.ErrInUse si tiene datos asociados.
	Delete(ctx context.Context, id int64) error
}
