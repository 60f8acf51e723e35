package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrUsernameTaken       = errors.New("el nombre de usuario ya existe")
	ErrDuplicate           = errors.New("registro duplicado")
	ErrInUse               = errors.New("el registro tiene datos asociados")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidRole         = errors.New("rol inválido")
	ErrUnknownFeature      = errors.New("función desconocida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrSelfDelete          = errors.New("no puede eliminar su propia cuenta")
	ErrProtectedPermission = errors.New("no se puede modificar el permiso de gestión de permisos del administrador")
)
