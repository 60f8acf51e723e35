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

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const inventorySelect = `
	SELECT i.inventory_id, i.product_id, i.store_id, i.quantity, i.price,
	       p.name, p.sku, s.name, i.created_at, i.updated_at
	FROM inventory i
	JOIN products p ON p.product_id = i.product_id
	JOIN stores s ON s.store_id = i.store_id`

// InventoryRepo existencias por tienda sobre la tabla inventory.
type InventoryRepo struct {
	db querier
}

// NewInventoryRepository construye el repositorio de existencias.
func NewInventoryRepository(db querier) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// Upsert crea la fila (product_id, store_id) o reemplaza cantidad y precio.
func (r *InventoryRepo) Upsert(ctx context.Context, item *entity.InventoryItem) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO inventory (product_id, store_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, store_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, price = EXCLUDED.price, updated_at = CURRENT_TIMESTAMP
		RETURNING inventory_id, created_at, updated_at`,
		item.ProductID, item.StoreID, item.Quantity, item.Price,
	).Scan(&item.InventoryID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return fmt.Errorf("producto %d o tienda %d: %w", item.ProductID, item.StoreID, domain.ErrNotFound)
		case isCheckViolation(err):
			return fmt.Errorf("cantidad o precio negativos: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}

// GetByID obtiene una fila de existencias.
func (r *InventoryRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	item, err := scanInventory(r.db.QueryRow(ctx, inventorySelect+` WHERE i.inventory_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return item, nil
}

// List lista existencias de una tienda, o de todas si storeID es nil.
func (r *InventoryRepo) List(ctx context.Context, storeID *int64) ([]*entity.InventoryItem, error) {
	rows, err := r.db.Query(ctx,
		inventorySelect+` WHERE ($1::bigint IS NULL OR i.store_id = $1) ORDER BY i.store_id, p.name`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Delete elimina una fila de existencias.
func (r *InventoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE inventory_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("existencia %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanInventory(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(&it.InventoryID, &it.ProductID, &it.StoreID, &it.Quantity, &it.Price,
		&it.ProductName, &it.SKU, &it.StoreName, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
