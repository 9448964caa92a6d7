package models

// SummaryStats are the per-event aggregates on the stats dashboard.
type SummaryStats struct {
	TotalRevenue         float64 `json:"total_revenue"`
	CompletedOrdersCount int64   `json:"completed_orders_count"`
	TotalItemsSold       int64   `json:"total_items_sold"`
}

type ProductSalesItem struct {
	ProductID           int64   `json:"product_id"`
	ProductCode         string  `json:"product_code"`
	ProductName         string  `json:"product_name"`
	UnitPrice           float64 `json:"unit_price"`
	InitialStock        int64   `json:"initial_stock"`
	TotalQuantity       int64   `json:"total_quantity"`
	TotalRevenuePerItem float64 `json:"total_revenue_per_item"`
}

type EventStats struct {
	EventInfo      Event              `json:"event_info"`
	Summary        SummaryStats       `json:"summary"`
	ProductDetails []ProductSalesItem `json:"product_details"`
}

// StatsFilter narrows a sales summary query. Zero values are omitted.
type StatsFilter struct {
	ProductCode     string
	StartDate       string
	EndDate         string
	IntervalMinutes int
}
