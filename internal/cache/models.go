package cache

import (
	"time"

	"github.com/uptrace/bun"
)

// CachedOrder is an order snapshot row. Line items are kept denormalized as
// JSON, the same shape the wire carries, since the cache only ever replays
// them whole.
type CachedOrder struct {
	bun.BaseModel `bun:"table:cached_orders"`

	ID          int64     `bun:"id,pk"`
	EventID     int64     `bun:"event_id,notnull"`
	TotalAmount float64   `bun:"total_amount"`
	Status      string    `bun:"status,notnull"`
	CreatedAt   time.Time `bun:"created_at"`
	ItemsJSON   []byte    `bun:"items_json"`
	CachedAt    time.Time `bun:"cached_at,notnull"`
}

type CachedProduct struct {
	bun.BaseModel `bun:"table:cached_products"`

	ID           int64     `bun:"id,pk"`
	ProductCode  string    `bun:"product_code,notnull"`
	Name         string    `bun:"name,notnull"`
	DefaultPrice float64   `bun:"default_price"`
	ImageURL     string    `bun:"image_url"`
	Category     string    `bun:"category"`
	IsActive     bool      `bun:"is_active"`
	CachedAt     time.Time `bun:"cached_at,notnull"`
}

// SyncLogEntry is one export/import audit row.
type SyncLogEntry struct {
	bun.BaseModel `bun:"table:sync_log"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Direction string    `bun:"direction,notnull"`
	Filename  string    `bun:"filename,notnull"`
	Size      int       `bun:"size"`
	Outcome   string    `bun:"outcome,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}
