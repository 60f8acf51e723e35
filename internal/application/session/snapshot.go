package session

import "github.com/jhoicas/Supermercado-api/internal/domain/entity"

// Snapshot estado de sesión en un instante. Nunca se modifica después de publicarse.
type Snapshot struct {
	User        *entity.User  `json:"user"`
	Token       string        `json:"-"`
	Permissions PermissionSet `json:"permissions"`
}

// Authenticated token y usuario presentes.
func (s Snapshot) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Role rol del usuario actual o "" sin sesión.
func (s Snapshot) Role() entity.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
