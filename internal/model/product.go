package model

import "time"

// Product represents an item in the catalogue.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	Stock     int       `json:"stock" db:"stock"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateProductRequest represents the request payload for adding a product.
// Price is a pointer so that an omitted price can be told apart from zero.
type CreateProductRequest struct {
	Name  string   `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"required"`
	Stock *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

// MatchRequest represents the request payload for bulk name matching.
type MatchRequest struct {
	Names []string `json:"names"`
}

// ProductLink is a matched product with the URL it can be fetched from.
type ProductLink struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	URL  string `json:"url"`
}

// Envelope is the response body shared by the catalogue endpoints.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Product *Product `json:"product,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// MessageResponse is the bare message body used by the single product lookup
// and the bulk match input check.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
