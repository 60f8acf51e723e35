package entity

import "time"

// Store tienda física de la cadena.
type Store struct {
	StoreID   int64
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
