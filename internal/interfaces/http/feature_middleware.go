package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// featureChecker contrato mínimo para verificar permisos de rol.
// Lo implementa *permission.UseCase.
type featureChecker interface {
	RoleAllows(ctx context.Context, role entity.Role, code entity.FeatureCode, action entity.Action) (bool, error)
}

// RequireFeature verifica que el rol del token tenga la acción sobre la función.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalRole).
//
// Comportamiento:
//   - 401 si no hay rol en el contexto.
//   - 403 Forbidden si el rol no tiene la capacidad (o no hay fila para la función).
//   - 503 Service Unavailable si falla la consulta a la DB.
func RequireFeature(code entity.FeatureCode, action entity.Action, checker featureChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "el token no incluye rol",
			})
		}

		allowed, err := checker.RoleAllows(c.UserContext(), role, code, action)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_CHECK_FAILED",
				Message: "no se pudo verificar el permiso, intente más tarde",
			})
		}

		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "sin permiso '" + string(action) + "' sobre '" + string(code) + "'",
			})
		}

		return c.Next()
	}
}
