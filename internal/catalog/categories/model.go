package categories

import "time"

// Category groups products, optionally under a single parent level.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ProductCount is computed at read time, never stored.
	ProductCount int `json:"product_count"`
}
