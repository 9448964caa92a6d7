// Package booth manages one event's listings and full order history, the
// view an administrator works with when staging a booth.
package booth

import (
	"context"
	"fmt"
	"sync"

	"booth-client/internal/api"
	"booth-client/internal/logger"
	"booth-client/internal/models"
)

type Backend interface {
	GetJSON(ctx context.Context, path string, out interface{}) error
	PostJSON(ctx context.Context, path string, body, out interface{}) error
	PutJSON(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string) error
}

type Store struct {
	backend Backend
	logger  *logger.Logger

	mu        sync.Mutex
	products  []models.EventProduct
	allOrders []models.Order
}

func NewStore(backend Backend, log *logger.Logger) *Store {
	return &Store{backend: backend, logger: log}
}

func (s *Store) FetchProducts(ctx context.Context, eventID int64) ([]models.EventProduct, error) {
	var products []models.EventProduct
	path := fmt.Sprintf("/events/%d/products", eventID)
	if err := s.backend.GetJSON(ctx, path, &products); err != nil {
		return nil, api.Normalize(err, "could not load the event's products")
	}
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	return products, nil
}

// AddProduct lists a master product at the event; the new listing goes to
// the head of the local list.
func (s *Store) AddProduct(ctx context.Context, eventID int64, req models.AddEventProductRequest) (*models.EventProduct, error) {
	var created models.EventProduct
	path := fmt.Sprintf("/events/%d/products", eventID)
	if err := s.backend.PostJSON(ctx, path, req, &created); err != nil {
		return nil, api.Normalize(err, "could not list the product at this event")
	}
	s.mu.Lock()
	s.products = append([]models.EventProduct{created}, s.products...)
	s.mu.Unlock()
	return &created, nil
}

// UpdateProduct changes a listing's price or stock.
func (s *Store) UpdateProduct(ctx context.Context, productID int64, req models.UpdateEventProductRequest) (*models.EventProduct, error) {
	var updated models.EventProduct
	path := fmt.Sprintf("/products/%d", productID)
	if err := s.backend.PutJSON(ctx, path, req, &updated); err != nil {
		return nil, api.Normalize(err, "could not update the listing")
	}
	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == productID {
			s.products[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return &updated, nil
}

// RemoveProduct delists a product from the event.
func (s *Store) RemoveProduct(ctx context.Context, productID int64) error {
	path := fmt.Sprintf("/products/%d", productID)
	if err := s.backend.Delete(ctx, path); err != nil {
		return api.Normalize(err, "could not delist the product")
	}
	s.mu.Lock()
	kept := make([]models.EventProduct, 0, len(s.products))
	for i := range s.products {
		if s.products[i].ID != productID {
			kept = append(kept, s.products[i])
		}
	}
	s.products = kept
	s.mu.Unlock()
	return nil
}

// FetchAllOrders loads every order for the event regardless of status.
func (s *Store) FetchAllOrders(ctx context.Context, eventID int64) ([]models.Order, error) {
	var orders []models.Order
	path := fmt.Sprintf("/events/%d/orders", eventID)
	if err := s.backend.GetJSON(ctx, path, &orders); err != nil {
		return nil, api.Normalize(err, "could not load the order history")
	}
	s.mu.Lock()
	s.allOrders = orders
	s.mu.Unlock()
	return orders, nil
}

// UpdateOrderStatus is the administrative override: any order, any status.
func (s *Store) UpdateOrderStatus(ctx context.Context, eventID, orderID int64, status string) (*models.Order, error) {
	var updated models.Order
	path := fmt.Sprintf("/events/%d/orders/%d/status", eventID, orderID)
	if err := s.backend.PutJSON(ctx, path, models.UpdateOrderStatusRequest{Status: status}, &updated); err != nil {
		return nil, api.Normalize(err, "could not update the order status")
	}
	s.mu.Lock()
	for i := range s.allOrders {
		if s.allOrders[i].ID == orderID {
			s.allOrders[i] = updated
			break
		}
	}
	s.mu.Unlock()
	s.logger.LogOrder("admin-status", orderID, fmt.Sprintf("set to %s", status))
	return &updated, nil
}

// Reset clears local state when switching to another event's detail view.
func (s *Store) Reset() {
	s.mu.Lock()
	s.products = nil
	s.allOrders = nil
	s.mu.Unlock()
}

func (s *Store) Products() []models.EventProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products
}

func (s *Store) AllOrders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allOrders
}
