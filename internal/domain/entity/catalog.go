package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category categoría de productos; el nombre es único.
type Category struct {
	CategoryID int64
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Supplier proveedor de productos.
type Supplier struct {
	SupplierID  int64
	Name        string
	ContactInfo string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product artículo del catálogo. Price es el precio de lista; cada tienda fija el suyo en InventoryItem.
// CategoryName y SupplierName solo se rellenan en lecturas.
type Product struct {
	ProductID    int64
	SKU          string // único en todo el catálogo
	Name         string
	Description  string
	CategoryID   *int64
	SupplierID   *int64
	CategoryName string
	SupplierName string
	Price        decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
