package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertInventoryRequest fija cantidad y precio de un producto en una tienda.
// StoreID es obligatorio para system_admin; el resto del personal solo opera su propia tienda.
type UpsertInventoryRequest struct {
	StoreID   *int64           `json:"store_id,omitempty"`
	ProductID int64            `json:"product_id" validate:"required"`
	Quantity  *int             `json:"quantity" validate:"required,min=0"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
}

// InventoryResponse salida de una fila de existencias.
type InventoryResponse struct {
	InventoryID int64           `json:"inventory_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	StoreID     int64           `json:"store_id"`
	StoreName   string          `json:"store_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// InventoryListResponse existencias visibles para el usuario.
type InventoryListResponse struct {
	Items []InventoryResponse `json:"items"`
}
