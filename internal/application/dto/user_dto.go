package dto

import (
	"time"

	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// RegisterRequest entrada para registro: username, password, role (opcional, cashier por defecto) y store_id.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=system_admin store_manager cashier"`
	StoreID  *int64 `json:"store_id,omitempty"`
}

// RegisterResponse salida del registro.
type RegisterResponse struct {
	Message  string      `json:"message"`
	UserID   int64       `json:"user_id"`
	Username string      `json:"username"`
	Role     entity.Role `json:"role"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	UserID    int64       `json:"user_id"`
	Username  string      `json:"username"`
	Role      entity.Role `json:"role"`
	StoreID   *int64      `json:"store_id,omitempty"`
	StoreName string      `json:"store_name,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// CreateUserRequest alta de una cuenta por un administrador o gerente. Role es cashier por defecto.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=system_admin store_manager cashier"`
	StoreID  *int64 `json:"store_id,omitempty"`
}

// UpdateUserRequest modificación de una cuenta. Password vacío conserva la actual.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Role     string `json:"role" validate:"required,oneof=system_admin store_manager cashier"`
	StoreID  *int64 `json:"store_id,omitempty"`
	Password string `json:"password,omitempty"`
}

// UserListResponse usuarios visibles para quien consulta.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT y el usuario autenticado.
type LoginResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// ToUserResponse convierte la entidad en su representación pública.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		Role:      u.Role,
		StoreID:   u.StoreID,
		StoreName: u.StoreName,
		CreatedAt: u.CreatedAt,
	}
}
