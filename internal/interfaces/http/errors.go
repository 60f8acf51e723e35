package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
// Los errores de dominio llevan el detalle en el texto (fmt.Errorf("%w: ...")), que se muestra tal cual;
// cualquier otro error es interno y su texto no sale al cliente.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", "error interno"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrInvalidRole):
		status, code, msg = fiber.StatusBadRequest, "INVALID_ROLE", "rol inválido"
	case errors.Is(err, domain.ErrSelfDelete):
		status, code, msg = fiber.StatusBadRequest, "SELF_DELETE", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status, code, msg = fiber.StatusUnauthorized, "UNAUTHORIZED", "usuario o contraseña incorrectos"
	case errors.Is(err, domain.ErrProtectedPermission):
		status, code, msg = fiber.StatusForbidden, "PROTECTED_PERMISSION", "no se puede modificar la gestión de permisos del administrador"
	case errors.Is(err, domain.ErrForbidden):
		status, code, msg = fiber.StatusForbidden, "FORBIDDEN", err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		status, code, msg = fiber.StatusNotFound, "USER_NOT_FOUND", "usuario no encontrado"
	case errors.Is(err, domain.ErrUnknownFeature):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", "función no encontrada"
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrUsernameTaken):
		status, code, msg = fiber.StatusConflict, "USERNAME_EXISTS", "el nombre de usuario ya existe"
	case errors.Is(err, domain.ErrDuplicate):
		status, code, msg = fiber.StatusConflict, "DUPLICATE", err.Error()
	case errors.Is(err, domain.ErrInUse):
		status, code, msg = fiber.StatusConflict, "IN_USE", err.Error()
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// paramID lee un parámetro de ruta numérico positivo.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	return id, err == nil && id > 0
}

func invalidID(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: name + " inválido"})
}
