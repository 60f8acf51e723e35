package repository

import (
	"context"

	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// InventoryRepository puerto de persistencia de existencias por tienda.
type InventoryRepository interface {
	// Upsert crea o reemplaza la fila (product_id, store_id) y rellena InventoryID y fechas.
	Upsert(ctx context.Context, item *entity.InventoryItem) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error)
	// List devuelve las existencias de una tienda, o de todas si storeID es nil.
	List(ctx context.Context, storeID *int64) ([]*entity.InventoryItem, error)
	Delete(ctx context.Context, id int64) error
}
