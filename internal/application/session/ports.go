package session

import (
	"context"
	"errors"

	"github.com/jhoicas/Supermercado-api/internal/application/notice"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// LoginResult respuesta de un login correcto en la API remota.
type LoginResult struct {
	Token string
	User  entity.User
}

// RegisterInput datos de alta de un usuario.
type RegisterInput struct {
	Username string
	Password string
	Role     entity.Role
	StoreID  *int64
}

// AuthAPI puerto hacia la API remota de autenticación y permisos.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) error
	UserPermissions(ctx context.Context, token string, userID int64) ([]entity.PermissionRecord, error)
}

// Key clave del estado persistido del cliente.
type Key string

const (
	KeyToken       Key = "token"
	KeyUser        Key = "user"
	KeyPermissions Key = "permissions"
)

// AllKeys claves que se borran juntas al cerrar sesión.
func AllKeys() []Key {
	return []Key{KeyToken, KeyUser, KeyPermissions}
}

// LocalState almacenamiento persistente de un solo cliente. ok=false si la clave no existe.
type LocalState interface {
	Get(ctx context.Context, key Key) (value string, ok bool, err error)
	Set(ctx context.Context, key Key, value string) error
	Delete(ctx context.Context, keys ...Key) error
}

// Notifier muestra avisos transitorios al usuario.
type Notifier interface {
	Notify(ctx context.Context, n notice.Notice)
}

// PublicError lo implementan los errores que traen un mensaje apto para el usuario
// (por ejemplo el campo "message" del cuerpo de error de la API).
type PublicError interface {
	error
	PublicMessage() string
}

// UserMessage devuelve el mensaje público de err o fallback si no tiene.
func UserMessage(err error, fallback string) string {
	var pe PublicError
	if errors.As(err, &pe) && pe.PublicMessage() != "" {
		return pe.PublicMessage()
	}
	return fallback
}
