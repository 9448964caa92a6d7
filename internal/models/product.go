package models

// MasterProduct is a catalog-level product shared across events.
type MasterProduct struct {
	ID           int64   `json:"id"`
	ProductCode  string  `json:"product_code"`
	Name         string  `json:"name"`
	DefaultPrice float64 `json:"default_price"`
	ImageURL     string  `json:"image_url,omitempty"`
	Category     string  `json:"category,omitempty"`
	IsActive     bool    `json:"is_active"`
}

// EventProduct is a master product listed at a specific event with its own
// price and stock counters.
type EventProduct struct {
	ID              int64   `json:"id"`
	EventID         int64   `json:"event_id"`
	MasterProductID int64   `json:"master_product_id"`
	ProductCode     string  `json:"product_code"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	InitialStock    int64   `json:"initial_stock"`
	CurrentStock    int64   `json:"current_stock"`
	ImageURL        string  `json:"image_url,omitempty"`
	Category        string  `json:"category,omitempty"`
}

type AddEventProductRequest struct {
	MasterProductID int64   `json:"master_product_id"`
	Price           float64 `json:"price"`
	InitialStock    int64   `json:"initial_stock"`
}

type UpdateEventProductRequest struct {
	Price        *float64 `json:"price,omitempty"`
	CurrentStock *int64   `json:"current_stock,omitempty"`
}

type ToggleProductStatusRequest struct {
	IsActive bool `json:"is_active"`
}
