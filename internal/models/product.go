package models

import "github.com/google/uuid"

// Product is a catalog entry. Order items copy a snapshot of the product
// at checkout, so later edits never change historical orders.
type Product struct {
	BaseModel
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Category    string           `gorm:"index" json:"category"`
	ImageURL    string           `json:"imageUrl"`
	Stock       int              `json:"stock"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

// ProductVariant is a purchasable variation of a product (finish, size).
type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	ImageURL  string    `json:"imageUrl"`
}
