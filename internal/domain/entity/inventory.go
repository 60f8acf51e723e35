package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem existencias y precio de venta de un producto en una tienda.
// Hay como máximo una fila por (ProductID, StoreID); Quantity nunca es negativa.
type InventoryItem struct {
	InventoryID int64
	ProductID   int64
	StoreID     int64
	Quantity    int
	Price       decimal.Decimal
	ProductName string
	SKU         string
	StoreName   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
