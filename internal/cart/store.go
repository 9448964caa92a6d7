// Package cart is the customer-facing side of the booth: browse an event's
// products, build a cart, hand it in as an order.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"booth-client/internal/api"
	"booth-client/internal/logger"
	"booth-client/internal/models"
)

type Backend interface {
	GetJSON(ctx context.Context, path string, out interface{}) error
	PostJSON(ctx context.Context, path string, body, out interface{}) error
}

var ErrEmptyCart = errors.New("the cart is empty")

// Line is one cart entry: a listed product and how many of it.
type Line struct {
	Product  models.EventProduct
	Quantity int64
}

type Store struct {
	backend Backend
	logger  *logger.Logger

	mu            sync.Mutex
	activeEventID int64
	activeEvent   *models.Event
	products      []models.EventProduct
	lines         []Line
}

func NewStore(backend Backend, log *logger.Logger) *Store {
	return &Store{backend: backend, logger: log}
}

// SetupForEvent points the store at an event and loads its products and
// info. The cart is flushed.
func (s *Store) SetupForEvent(ctx context.Context, eventID int64) error {
	if eventID == 0 {
		return errors.New("no event id provided")
	}

	s.mu.Lock()
	s.activeEventID = eventID
	s.lines = nil
	s.mu.Unlock()

	if err := s.fetchProducts(ctx, eventID); err != nil {
		return err
	}
	return s.fetchEventInfo(ctx, eventID)
}

func (s *Store) fetchProducts(ctx context.Context, eventID int64) error {
	var products []models.EventProduct
	path := fmt.Sprintf("/events/%d/products", eventID)
	if err := s.backend.GetJSON(ctx, path, &products); err != nil {
		return api.Normalize(err, "could not load the menu, ask the vendor")
	}
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	return nil
}

func (s *Store) fetchEventInfo(ctx context.Context, eventID int64) error {
	var event models.Event
	path := fmt.Sprintf("/events/%d", eventID)
	if err := s.backend.GetJSON(ctx, path, &event); err != nil {
		return api.Normalize(err, "could not load the event info")
	}
	s.mu.Lock()
	s.activeEvent = &event
	s.mu.Unlock()
	return nil
}

// Add puts a listed product in the cart, merging with an existing line.
func (s *Store) Add(productID int64, quantity int64) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			s.lines[i].Quantity += quantity
			return nil
		}
	}
	for i := range s.products {
		if s.products[i].ID == productID {
			s.lines = append(s.lines, Line{Product: s.products[i], Quantity: quantity})
			return nil
		}
	}
	return fmt.Errorf("product %d is not listed at this event", productID)
}

// Remove drops a line from the cart.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]Line, 0, len(s.lines))
	for i := range s.lines {
		if s.lines[i].Product.ID != productID {
			kept = append(kept, s.lines[i])
		}
	}
	s.lines = kept
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

// Total is the cart value at listed prices.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for i := range s.lines {
		total += s.lines[i].Product.Price * float64(s.lines[i].Quantity)
	}
	return total
}

func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

// Checkout submits the cart as an order. The reference id tags the request
// for tracing; the backend assigns the real order id. On success the cart
// is cleared.
func (s *Store) Checkout(ctx context.Context) (*models.Order, error) {
	s.mu.Lock()
	eventID := s.activeEventID
	lines := s.lines
	s.mu.Unlock()

	if eventID == 0 {
		return nil, errors.New("no event selected")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	req := models.CreateOrderRequest{Items: make([]models.CreateOrderItem, 0, len(lines))}
	for i := range lines {
		req.Items = append(req.Items, models.CreateOrderItem{
			ProductID: lines[i].Product.ID,
			Quantity:  lines[i].Quantity,
		})
	}

	reference := uuid.New().String()
	var created models.Order
	path := fmt.Sprintf("/events/%d/orders", eventID)
	if err := s.backend.PostJSON(api.WithRequestID(ctx, reference), path, req, &created); err != nil {
		return nil, api.Normalize(err, "checkout failed, please retry")
	}

	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	s.logger.LogOrder("checkout", created.ID, fmt.Sprintf("ref %s, %d lines", reference, len(req.Items)))
	return &created, nil
}

func (s *Store) ActiveEvent() *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeEvent
}
