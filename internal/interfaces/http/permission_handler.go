package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/application/permission"
)

// PermissionHandler consultas y administración de permisos.
type PermissionHandler struct {
	uc *permission.UseCase
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(uc *permission.UseCase) *PermissionHandler {
	return &PermissionHandler{uc: uc}
}

// UserPermissions godoc
// @Summary      Permisos efectivos de un usuario
// @Description  Solo el propio usuario o un system_admin.
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  int  true  "ID del usuario"
// @Success      200  {object}  dto.UserPermissionsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permissions/user/{user_id} [get]
func (h *PermissionHandler) UserPermissions(c *fiber.Ctx) error {
	target, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil || target <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "user_id inválido"})
	}
	out, err := h.uc.UserPermissions(c.UserContext(), GetUserID(c), target)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Features godoc
// @Summary      Catálogo de funciones
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.FeaturesResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/permissions/features [get]
func (h *PermissionHandler) Features(c *fiber.Ctx) error {
	out, err := h.uc.Features(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RolePermissions godoc
// @Summary      Permisos agrupados por rol
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.RolePermissionsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/permissions/roles [get]
func (h *PermissionHandler) RolePermissions(c *fiber.Ctx) error {
	out, err := h.uc.RolePermissions(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateRolePermission godoc
// @Summary      Actualizar permisos de un rol sobre una función
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        role        path  string  true  "system_admin | store_manager | cashier"
// @Param        feature_id  path  int     true  "ID de la función"
// @Param        body        body  dto.UpdateRolePermissionRequest  true  "flags"
// @Success      200  {object}  dto.UpdateRolePermissionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permissions/roles/{role}/features/{feature_id} [put]
func (h *PermissionHandler) UpdateRolePermission(c *fiber.Ctx) error {
	featureID, err := strconv.ParseInt(c.Params("feature_id"), 10, 64)
	if err != nil || featureID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "feature_id inválido"})
	}
	var in dto.UpdateRolePermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateRolePermission(c.UserContext(), c.Params("role"), featureID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Check godoc
// @Summary      Verificar una capacidad del usuario actual
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CheckPermissionRequest  true  "feature_code, action (view por defecto)"
// @Success      200  {object}  dto.CheckPermissionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/permissions/check [post]
func (h *PermissionHandler) Check(c *fiber.Ctx) error {
	var in dto.CheckPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Check(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MatrixPDF godoc
// @Summary      Matriz de permisos en PDF
// @Tags         permissions
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/permissions/roles/report.pdf [get]
func (h *PermissionHandler) MatrixPDF(c *fiber.Ctx) error {
	doc, err := h.uc.ExportPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="matriz-permisos.pdf"`)
	return c.Send(doc)
}
