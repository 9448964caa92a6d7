package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"booth-client/internal/logger"
	"booth-client/internal/models"
)

// DB is the local snapshot cache. It keeps the last known catalog and order
// state in a sqlite file so a booth terminal still has something to show
// when the backend is unreachable, plus an audit trail of sync runs.
type DB struct {
	Bun    *bun.DB
	logger *logger.Logger
}

func Open(path string, log *logger.Logger) (*DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}
	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	return &DB{Bun: bunDB, logger: log}, nil
}

// Init creates the cache tables when missing.
func (d *DB) Init(ctx context.Context) error {
	tables := []interface{}{
		(*CachedOrder)(nil),
		(*CachedProduct)(nil),
		(*SyncLogEntry)(nil),
	}
	for _, model := range tables {
		if _, err := d.Bun.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create cache table: %w", err)
		}
	}
	return nil
}

func (d *DB) Close() error {
	return d.Bun.Close()
}

// SaveOrders upserts an order snapshot.
func (d *DB) SaveOrders(ctx context.Context, eventID int64, orders []models.Order) error {
	now := time.Now()
	for i := range orders {
		items, err := json.Marshal(orders[i].Items)
		if err != nil {
			return fmt.Errorf("failed to encode order items: %w", err)
		}
		row := &CachedOrder{
			ID:          orders[i].ID,
			EventID:     eventID,
			TotalAmount: orders[i].TotalAmount,
			Status:      orders[i].Status,
			CreatedAt:   orders[i].CreatedAt.Time,
			ItemsJSON:   items,
			CachedAt:    now,
		}
		_, err = d.Bun.NewInsert().
			Model(row).
			On("CONFLICT (id) DO UPDATE").
			Set("status = EXCLUDED.status").
			Set("total_amount = EXCLUDED.total_amount").
			Set("items_json = EXCLUDED.items_json").
			Set("cached_at = EXCLUDED.cached_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert order %d: %w", orders[i].ID, err)
		}
	}
	return nil
}

// LoadOrders returns the cached orders for an event, optionally filtered by
// status, newest first.
func (d *DB) LoadOrders(ctx context.Context, eventID int64, status string) ([]models.Order, error) {
	var rows []CachedOrder
	q := d.Bun.NewSelect().
		Model(&rows).
		Where("event_id = ?", eventID).
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(rows))
	for i := range rows {
		var items []models.OrderItem
		if len(rows[i].ItemsJSON) > 0 {
			if err := json.Unmarshal(rows[i].ItemsJSON, &items); err != nil {
				return nil, fmt.Errorf("corrupt items for cached order %d: %w", rows[i].ID, err)
			}
		}
		orders = append(orders, models.Order{
			ID:          rows[i].ID,
			EventID:     rows[i].EventID,
			TotalAmount: rows[i].TotalAmount,
			Status:      rows[i].Status,
			CreatedAt:   models.Timestamp{Time: rows[i].CreatedAt},
			Items:       items,
		})
	}
	return orders, nil
}

// SaveProducts replaces the cached master catalog.
func (d *DB) SaveProducts(ctx context.Context, products []models.MasterProduct) error {
	if _, err := d.Bun.NewDelete().Model((*CachedProduct)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear cached catalog: %w", err)
	}
	now := time.Now()
	for i := range products {
		row := &CachedProduct{
			ID:           products[i].ID,
			ProductCode:  products[i].ProductCode,
			Name:         products[i].Name,
			DefaultPrice: products[i].DefaultPrice,
			ImageURL:     products[i].ImageURL,
			Category:     products[i].Category,
			IsActive:     products[i].IsActive,
			CachedAt:     now,
		}
		if _, err := d.Bun.NewInsert().Model(row).Exec(ctx); err != nil {
			return fmt.Errorf("failed to cache product %d: %w", products[i].ID, err)
		}
	}
	d.logger.LogCache("save", "cached_products", fmt.Sprintf("%d products", len(products)))
	return nil
}

func (d *DB) LoadProducts(ctx context.Context) ([]models.MasterProduct, error) {
	var rows []CachedProduct
	if err := d.Bun.NewSelect().Model(&rows).Order("name").Scan(ctx); err != nil {
		return nil, err
	}
	products := make([]models.MasterProduct, 0, len(rows))
	for i := range rows {
		products = append(products, models.MasterProduct{
			ID:           rows[i].ID,
			ProductCode:  rows[i].ProductCode,
			Name:         rows[i].Name,
			DefaultPrice: rows[i].DefaultPrice,
			ImageURL:     rows[i].ImageURL,
			Category:     rows[i].Category,
			IsActive:     rows[i].IsActive,
		})
	}
	return products, nil
}

// RecordSync appends an export/import audit row.
func (d *DB) RecordSync(ctx context.Context, direction, filename string, size int, outcome string) error {
	row := &SyncLogEntry{
		Direction: direction,
		Filename:  filename,
		Size:      size,
		Outcome:   outcome,
		CreatedAt: time.Now(),
	}
	_, err := d.Bun.NewInsert().Model(row).Exec(ctx)
	return err
}

// RecentSyncLog returns the newest audit rows, most recent first.
func (d *DB) RecentSyncLog(ctx context.Context, limit int) ([]SyncLogEntry, error) {
	var rows []SyncLogEntry
	err := d.Bun.NewSelect().
		Model(&rows).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
