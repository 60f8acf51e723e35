package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo implementación de PermissionRepository sobre las tablas
// system_features y role_permissions.
type PermissionRepo struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository construye el adaptador.
func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepo {
	return &PermissionRepo{pool: pool}
}

// ListFeatures devuelve el catálogo completo (activas e inactivas).
func (r *PermissionRepo) ListFeatures(ctx context.Context) ([]entity.Feature, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT feature_id, feature_code, feature_name, COALESCE(description, ''), module, is_active, created_at
		FROM system_features
		ORDER BY module, feature_name`)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	defer rows.Close()

	var list []entity.Feature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		list = append(list, *f)
	}
	return list, rows.Err()
}

// GetFeatureByID obtiene una función por ID.
func (r *PermissionRepo) GetFeatureByID(ctx context.Context, id int64) (*entity.Feature, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT feature_id, feature_code, feature_name, COALESCE(description, ''), module, is_active, created_at
		FROM system_features WHERE feature_id = $1`, id)
	f, err := scanFeature(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get feature: %w", err)
	}
	return f, nil
}

// ListByRole permisos del rol sobre funciones activas, ordenados por módulo y nombre.
func (r *PermissionRepo) ListByRole(ctx context.Context, role entity.Role) ([]entity.PermissionRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sf.feature_code, sf.feature_name, sf.module,
		       rp.can_view, rp.can_create, rp.can_edit, rp.can_delete
		FROM role_permissions rp
		JOIN system_features sf ON rp.feature_id = sf.feature_id
		WHERE rp.role = $1 AND sf.is_active = TRUE
		ORDER BY sf.module, sf.feature_name`, string(role))
	if err != nil {
		return nil, fmt.Errorf("list permissions by role: %w", err)
	}
	defer rows.Close()

	list := make([]entity.PermissionRecord, 0)
	for rows.Next() {
		var (
			p            entity.PermissionRecord
			code, module string
		)
		if err := rows.Scan(&code, &p.FeatureName, &module, &p.CanView, &p.CanCreate, &p.CanEdit, &p.CanDelete); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		p.FeatureCode = entity.FeatureCode(code)
		p.Module = entity.Module(module)
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListAll permisos de todos los roles sobre funciones activas.
func (r *PermissionRepo) ListAll(ctx context.Context) ([]entity.RolePermission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rp.role, sf.feature_id, sf.feature_code, sf.feature_name, sf.module,
		       rp.can_view, rp.can_create, rp.can_edit, rp.can_delete
		FROM role_permissions rp
		JOIN system_features sf ON rp.feature_id = sf.feature_id
		WHERE sf.is_active = TRUE
		ORDER BY rp.role, sf.module, sf.feature_name`)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	defer rows.Close()

	var list []entity.RolePermission
	for rows.Next() {
		var (
			rp                 entity.RolePermission
			role, code, module string
		)
		if err := rows.Scan(&role, &rp.FeatureID, &code, &rp.FeatureName, &module,
			&rp.CanView, &rp.CanCreate, &rp.CanEdit, &rp.CanDelete); err != nil {
			return nil, fmt.Errorf("scan role permission: %w", err)
		}
		rp.Role = entity.Role(role)
		rp.FeatureCode = entity.FeatureCode(code)
		rp.Module = entity.Module(module)
		list = append(list, rp)
	}
	return list, rows.Err()
}

// Upsert crea o actualiza el permiso (role, feature_id).
func (r *PermissionRepo) Upsert(ctx context.Context, rp entity.RolePermission) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO role_permissions (role, feature_id, can_view, can_create, can_edit, can_delete)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (role, feature_id) DO UPDATE
		SET can_view = EXCLUDED.can_view,
		    can_create = EXCLUDED.can_create,
		    can_edit = EXCLUDED.can_edit,
		    can_delete = EXCLUDED.can_delete,
		    updated_at = CURRENT_TIMESTAMP`,
		string(rp.Role), rp.FeatureID, rp.CanView, rp.CanCreate, rp.CanEdit, rp.CanDelete,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUnknownFeature
		}
		return fmt.Errorf("upsert role permission: %w", err)
	}
	return nil
}

func scanFeature(row pgx.Row) (*entity.Feature, error) {
	var (
		f            entity.Feature
		code, module string
	)
	if err := row.Scan(&f.FeatureID, &code, &f.Name, &f.Description, &module, &f.IsActive, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Code = entity.FeatureCode(code)
	f.Module = entity.Module(module)
	return &f, nil
}
