package entity

import "time"

// Role rol de un usuario del supermercado.
type Role string

// Roles válidos para User.
const (
	RoleSystemAdmin  Role = "system_admin"
	RoleStoreManager Role = "store_manager"
	RoleCashier      Role = "cashier"
)

// Roles lista ordenada de todos los roles conocidos.
func Roles() []Role {
	return []Role{RoleSystemAdmin, RoleStoreManager, RoleCashier}
}

// Valid informa si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleStoreManager, RoleCashier:
		return true
	}
	return false
}

// ParseRole convierte un string en Role; ok=false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// HeadquartersStoreID tienda a la que se asignan los administradores y, por defecto, el personal sin tienda.
const HeadquartersStoreID int64 = 1

// User representa un usuario del sistema. StoreID es nil para usuarios sin tienda asignada.
type User struct {
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // bcrypt hash, nunca se serializa
	Role         Role      `json:"role"`
	StoreID      *int64    `json:"store_id,omitempty"`
	StoreName    string    `json:"store_name,omitempty"` // solo en listados
	CreatedAt    time.Time `json:"created_at"`
}

// InStore informa si el usuario pertenece a la tienda indicada. Sin tienda nunca coincide.
func (u *User) InStore(storeID *int64) bool {
	return u.StoreID != nil && storeID != nil && *u.StoreID == *storeID
}
