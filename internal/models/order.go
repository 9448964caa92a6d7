package models

// Order statuses as reported by the backend.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// OrderItem is a denormalized product snapshot taken at order time. It belongs
// to the order, not the live catalog: later catalog edits do not touch it.
type OrderItem struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name"`
	ProductPrice    float64 `json:"product_price"`
	ProductImageURL string  `json:"product_image_url,omitempty"`
	Quantity        int64   `json:"quantity"`
}

type Order struct {
	ID          int64       `json:"id"`
	EventID     int64       `json:"event_id"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
	CreatedAt   Timestamp   `json:"timestamp"`
	Items       []OrderItem `json:"items"`
}

// CreateOrderItem is one line of a checkout request.
type CreateOrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
