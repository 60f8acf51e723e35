package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	db querier
}

// NewStoreRepository construye el adaptador de persistencia para tiendas.
func NewStoreRepository(db querier) *StoreRepo {
	return &StoreRepo{db: db}
}

// Create persiste una tienda y rellena ID y fechas.
func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO stores (name, address) VALUES ($1, $2) RETURNING store_id, created_at, updated_at`,
		s.Name, s.Address,
	).Scan(&s.StoreID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(ctx context.Context, id int64) (*entity.Store, error) {
	var s entity.Store
	err := r.db.QueryRow(ctx,
		`SELECT store_id, name, COALESCE(address, ''), created_at, updated_at FROM stores WHERE store_id = $1`, id,
	).Scan(&s.StoreID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return &s, nil
}

// List lista todas las tiendas por ID.
func (r *StoreRepo) List(ctx context.Context) ([]*entity.Store, error) {
	rows, err := r.db.Query(ctx,
		`SELECT store_id, name, COALESCE(address, ''), created_at, updated_at FROM stores ORDER BY store_id`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.StoreID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update actualiza nombre y dirección.
func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	err := r.db.QueryRow(ctx,
		`UPDATE stores SET name = $2, address = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE store_id = $1 RETURNING created_at, updated_at`,
		s.StoreID, s.Name, s.Address,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("tienda %d: %w", s.StoreID, domain.ErrNotFound)
		}
		return fmt.Errorf("update store: %w", err)
	}
	return nil
}

// Delete elimina una tienda sin usuarios ni existencias.
func (r *StoreRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stores WHERE store_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("tienda %d tiene usuarios o existencias: %w", id, domain.ErrInUse)
		}
		return fmt.Errorf("delete store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tienda %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
