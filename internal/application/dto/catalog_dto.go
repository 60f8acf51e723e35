package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest entrada para crear o renombrar una categoría.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CategoryListResponse lista de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}

// SupplierRequest entrada para crear o actualizar un proveedor.
type SupplierRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	ContactInfo string `json:"contact_info"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	SupplierID  int64     `json:"supplier_id"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contact_info"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SupplierListResponse lista de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
}

// CreateProductRequest entrada para crear un producto. Price admite número o string ("5.99").
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,max=50"`
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description"`
	CategoryID  *int64          `json:"category_id,omitempty"`
	SupplierID  *int64          `json:"supplier_id,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateProductRequest cambios parciales de un producto; el SKU no se modifica.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	SupplierID  *int64           `json:"supplier_id,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ProductID    int64           `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	SupplierID   *int64          `json:"supplier_id,omitempty"`
	SupplierName string          `json:"supplier_name,omitempty"`
	Price        decimal.Decimal `json:"price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
