package dto

import "time"

// StoreRequest entrada para crear o actualizar una tienda.
type StoreRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"max=255"`
}

// StoreResponse salida de una tienda.
type StoreResponse struct {
	StoreID   int64     `json:"store_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreListResponse lista de tiendas.
type StoreListResponse struct {
	Items []StoreResponse `json:"items"`
}
