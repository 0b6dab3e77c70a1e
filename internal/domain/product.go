package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategory is assigned to products created without a category.
const DefaultCategory = "General"

// Product represents a product in the catalog. CreatedAt is set once at
// creation and preserved across updates.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
