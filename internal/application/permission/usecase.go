package permission

import (
	"context"
	"fmt"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

// Matrix permisos de todos los roles sobre todas las funciones activas, lista para exportar.
type Matrix struct {
	Features []entity.Feature
	ByRole   map[entity.Role]map[entity.FeatureCode]entity.PermissionRecord
}

// MatrixRenderer puerto de salida para exportar la matriz (PDF).
type MatrixRenderer interface {
	RenderPermissionMatrix(ctx context.Context, m Matrix) ([]byte, error)
}

// UseCase consultas y administración de permisos por rol.
type UseCase struct {
	users    repository.UserRepository
	perms    repository.PermissionRepository
	renderer MatrixRenderer
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. renderer puede ser nil si no se exporta PDF.
func NewUseCase(users repository.UserRepository, perms repository.PermissionRepository, renderer MatrixRenderer, log *logger.Logger) *UseCase {
	return &UseCase{users: users, perms: perms, renderer: renderer, log: log}
}

// UserPermissions permisos efectivos del usuario targetID.
// Solo el propio usuario o un system_admin pueden consultarlos.
func (uc *UseCase) UserPermissions(ctx context.Context, requesterID, targetID int64) (*dto.UserPermissionsResponse, error) {
	requester, err := uc.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, fmt.Errorf("usuario actual: %w", domain.ErrUserNotFound)
	}
	if requesterID != targetID && requester.Role != entity.RoleSystemAdmin {
		return nil, fmt.Errorf("%w: solo puede consultar sus propios permisos", domain.ErrForbidden)
	}

	target := requester
	if requesterID != targetID {
		target, err = uc.users.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, domain.ErrUserNotFound
		}
	}

	records, err := uc.perms.ListByRole(ctx, target.Role)
	if err != nil {
		return nil, err
	}
	return &dto.UserPermissionsResponse{UserID: target.UserID, Role: target.Role, Permissions: records}, nil
}

// Features catálogo completo de funciones.
func (uc *UseCase) Features(ctx context.Context) (*dto.FeaturesResponse, error) {
	features, err := uc.perms.ListFeatures(ctx)
	if err != nil {
		return nil, err
	}
	if features == nil {
		features = []entity.Feature{}
	}
	return &dto.FeaturesResponse{Features: features}, nil
}

// RolePermissions permisos de todos los roles agrupados por rol.
func (uc *UseCase) RolePermissions(ctx context.Context) (*dto.RolePermissionsResponse, error) {
	all, err := uc.perms.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	grouped := make(map[entity.Role][]entity.RolePermission)
	for _, rp := range all {
		grouped[rp.Role] = append(grouped[rp.Role], rp)
	}
	return &dto.RolePermissionsResponse{RolePermissions: grouped}, nil
}

// UpdateRolePermission reemplaza los cuatro flags de (role, featureID).
// El permiso permission_management de system_admin no se puede modificar.
func (uc *UseCase) UpdateRolePermission(ctx context.Context, role string, featureID int64, in dto.UpdateRolePermissionRequest) (*dto.UpdateRolePermissionResponse, error) {
	r, ok := entity.ParseRole(role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	feature, err := uc.perms.GetFeatureByID(ctx, featureID)
	if err != nil {
		return nil, err
	}
	if feature == nil {
		return nil, domain.ErrUnknownFeature
	}
	if r == entity.RoleSystemAdmin && feature.Code == entity.FeaturePermissionManagement {
		return nil, domain.ErrProtectedPermission
	}

	err = uc.perms.Upsert(ctx, entity.RolePermission{
		Role:      r,
		FeatureID: featureID,
		PermissionRecord: entity.PermissionRecord{
			FeatureCode: feature.Code,
			FeatureName: feature.Name,
			Module:      feature.Module,
			CanView:     in.CanView,
			CanCreate:   in.CanCreate,
			CanEdit:     in.CanEdit,
			CanDelete:   in.CanDelete,
		},
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("role", string(r)).
		Str("feature", string(feature.Code)).
		Bool("view", in.CanView).Bool("create", in.CanCreate).
		Bool("edit", in.CanEdit).Bool("delete", in.CanDelete).
		Msg("permiso de rol actualizado")

	return &dto.UpdateRolePermissionResponse{
		Message:     "permiso actualizado",
		Role:        r,
		FeatureID:   featureID,
		Permissions: in,
	}, nil
}

// Check informa si el usuario tiene la capacidad indicada. Acción vacía equivale a view;
// una función sin fila para el rol devuelve false.
func (uc *UseCase) Check(ctx context.Context, userID int64, in dto.CheckPermissionRequest) (*dto.CheckPermissionResponse, error) {
	if in.FeatureCode == "" {
		return nil, domain.ErrInvalidInput
	}
	action := entity.ActionView
	if in.Action != "" {
		a, ok := entity.ParseAction(in.Action)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		action = a
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	records, err := uc.perms.ListByRole(ctx, user.Role)
	if err != nil {
		return nil, err
	}

	code := entity.FeatureCode(in.FeatureCode)
	has := false
	for _, rec := range records {
		if rec.FeatureCode == code {
			has = rec.Allows(action)
			break
		}
	}
	return &dto.CheckPermissionResponse{
		UserID:        userID,
		Role:          user.Role,
		FeatureCode:   code,
		Action:        action,
		HasPermission: has,
	}, nil
}

// RoleAllows informa si el rol tiene la acción sobre la función (false si no hay fila).
func (uc *UseCase) RoleAllows(ctx context.Context, role entity.Role, code entity.FeatureCode, action entity.Action) (bool, error) {
	records, err := uc.perms.ListByRole(ctx, role)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.FeatureCode == code {
			return rec.Allows(action), nil
		}
	}
	return false, nil
}

// BuildMatrix arma la matriz de permisos de todos los roles.
func (uc *UseCase) BuildMatrix(ctx context.Context) (Matrix, error) {
	features, err := uc.perms.ListFeatures(ctx)
	if err != nil {
		return Matrix{}, err
	}
	all, err := uc.perms.ListAll(ctx)
	if err != nil {
		return Matrix{}, err
	}
	m := Matrix{ByRole: make(map[entity.Role]map[entity.FeatureCode]entity.PermissionRecord)}
	for _, f := range features {
		if f.IsActive {
			m.Features = append(m.Features, f)
		}
	}
	for _, r := range entity.Roles() {
		m.ByRole[r] = make(map[entity.FeatureCode]entity.PermissionRecord)
	}
	for _, rp := range all {
		if _, ok := m.ByRole[rp.Role]; !ok {
			continue
		}
		m.ByRole[rp.Role][rp.FeatureCode] = rp.PermissionRecord
	}
	return m, nil
}

// ExportPDF genera el PDF de la matriz de permisos.
func (uc *UseCase) ExportPDF(ctx context.Context) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("permission: exportación PDF no configurada")
	}
	m, err := uc.BuildMatrix(ctx)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderPermissionMatrix(ctx, m)
}
