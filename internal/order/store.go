package order

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"booth-client/internal/logger"
	"booth-client/internal/models"
)

// Backend is the slice of the HTTP client the store needs.
type Backend interface {
	GetJSON(ctx context.Context, path string, out interface{}) error
	PutJSON(ctx context.Context, path string, body, out interface{}) error
}

// ClaimLock marks an order as being handled by this terminal so two
// operators working the same booth do not fulfill it twice. A nil lock
// disables claiming.
type ClaimLock interface {
	ClaimOrder(ctx context.Context, orderID int64) (bool, error)
	ReleaseOrder(ctx context.Context, orderID int64) error
}

// SnapshotCache persists order snapshots for offline viewing and hands them
// back when the backend is unreachable. Optional.
type SnapshotCache interface {
	SaveOrders(ctx context.Context, eventID int64, orders []models.Order) error
	LoadOrders(ctx context.Context, eventID int64, status string) ([]models.Order, error)
}

var (
	ErrNoActiveEvent = errors.New("no active event selected")
	ErrOrderClaimed  = errors.New("order is being handled by another terminal")
	ErrOrderNotFound = errors.New("order not in the pending list")
)

// Store holds the client-side order state for the active event: the single
// canonical pending bucket and the completed bucket. All mutation goes
// through the store's lock; the poller and operator actions interleave
// freely between ticks, so a completed order may still show up in one more
// poll response before the backend catches up.
type Store struct {
	backend Backend
	claims  ClaimLock
	cache   SnapshotCache
	logger  *logger.Logger
	poller  *Poller

	mu            sync.Mutex
	activeEventID int64
	pending       []models.Order
	completed     []models.Order

	// generation counts issued polls, lastApplied the poll whose result
	// was last written. Today every response is applied on arrival, which
	// means a slow response can overwrite newer local state; the counters
	// are the seam for closing that race.
	generation  uint64
	lastApplied uint64
}

func NewStore(backend Backend, claims ClaimLock, cache SnapshotCache, interval time.Duration, log *logger.Logger) *Store {
	s := &Store{
		backend: backend,
		claims:  claims,
		cache:   cache,
		logger:  log,
	}
	s.poller = NewPoller(interval, log, s.PollPending)
	return s
}

// SetActiveEvent switches the event the store tracks. The previous polling
// loop is always stopped and the pending bucket flushed before anything
// else happens; polling restarts only for a non-zero id.
func (s *Store) SetActiveEvent(ctx context.Context, eventID int64) {
	s.poller.Stop()

	s.mu.Lock()
	s.activeEventID = eventID
	s.pending = nil
	s.mu.Unlock()

	if eventID != 0 {
		s.poller.Start(ctx)
	}
}

// TrackEvent points the store at an event without starting the poll loop,
// for serving cached state while the backend is unreachable.
func (s *Store) TrackEvent(eventID int64) {
	s.poller.Stop()

	s.mu.Lock()
	s.activeEventID = eventID
	s.pending = nil
	s.mu.Unlock()
}

// LoadCached replaces both buckets with the last snapshots the cache holds
// for the active event.
func (s *Store) LoadCached(ctx context.Context) error {
	if s.cache == nil {
		return errors.New("no snapshot cache configured")
	}

	s.mu.Lock()
	eventID := s.activeEventID
	s.mu.Unlock()
	if eventID == 0 {
		return ErrNoActiveEvent
	}

	pending, err := s.cache.LoadOrders(ctx, eventID, models.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to load cached pending orders: %w", err)
	}
	completed, err := s.cache.LoadOrders(ctx, eventID, models.StatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to load cached completed orders: %w", err)
	}

	s.mu.Lock()
	if s.activeEventID == eventID {
		s.pending = pending
		s.completed = completed
	}
	s.mu.Unlock()

	s.logger.LogPoll(eventID, fmt.Sprintf("restored %d pending and %d completed orders from cache", len(pending), len(completed)))
	return nil
}

// StartPolling (re)starts the poll loop for the active event. Any loop
// already running is stopped first, so at most one is ever active.
func (s *Store) StartPolling(ctx context.Context) {
	s.poller.Start(ctx)
}

func (s *Store) StopPolling() {
	s.poller.Stop()
}

func (s *Store) Polling() bool {
	return s.poller.Running()
}

// PollPending fetches the pending orders for the active event and replaces
// the local snapshot only when it structurally differs, keeping the exposed
// slice stable across no-change polls.
func (s *Store) PollPending(ctx context.Context) error {
	s.mu.Lock()
	eventID := s.activeEventID
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	if eventID == 0 {
		return nil
	}

	var fetched []models.Order
	path := fmt.Sprintf("/events/%d/orders?status=pending", eventID)
	if err := s.backend.GetJSON(ctx, path, &fetched); err != nil {
		return err
	}

	changed := false
	s.mu.Lock()
	if s.activeEventID == eventID {
		s.lastApplied = gen
		if !reflect.DeepEqual(s.pending, fetched) {
			s.pending = fetched
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.logger.LogPoll(eventID, fmt.Sprintf("pending snapshot replaced, %d orders", len(fetched)))
		s.saveSnapshot(ctx, eventID, fetched)
	}
	return nil
}

// MarkCompleted transitions a pending order to completed. On success the
// order moves from the pending bucket to the head of the completed bucket
// without a re-fetch; on failure no local state changes. An id missing from
// the pending bucket yields ErrOrderNotFound.
func (s *Store) MarkCompleted(ctx context.Context, orderID int64) error {
	s.mu.Lock()
	eventID := s.activeEventID
	s.mu.Unlock()
	if eventID == 0 {
		return ErrNoActiveEvent
	}

	if s.claims != nil {
		ok, err := s.claims.ClaimOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("claim check failed: %w", err)
		}
		if !ok {
			return ErrOrderClaimed
		}
	}

	var updated models.Order
	path := fmt.Sprintf("/events/%d/orders/%d/status", eventID, orderID)
	body := models.UpdateOrderStatusRequest{Status: models.StatusCompleted}
	if err := s.backend.PutJSON(ctx, path, body, &updated); err != nil {
		if s.claims != nil {
			_ = s.claims.ReleaseOrder(ctx, orderID)
		}
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.mu.Lock()
	var moved *models.Order
	kept := make([]models.Order, 0, len(s.pending))
	for i := range s.pending {
		if s.pending[i].ID == orderID {
			o := s.pending[i]
			moved = &o
			continue
		}
		kept = append(kept, s.pending[i])
	}
	s.pending = kept
	if moved != nil {
		moved.Status = models.StatusCompleted
		s.completed = append([]models.Order{*moved}, s.completed...)
	}
	completed := s.completed
	s.mu.Unlock()

	// The backend accepted the transition, but the id was not in the local
	// pending snapshot - the operator was acting on a stale list.
	if moved == nil {
		return ErrOrderNotFound
	}

	s.logger.LogOrder("complete", orderID, "moved to completed bucket")
	s.saveSnapshot(ctx, eventID, completed)
	return nil
}

// Cancel transitions a pending order to cancelled and drops it from the
// pending bucket. Cancelled orders are not retained in any bucket.
func (s *Store) Cancel(ctx context.Context, orderID int64) error {
	s.mu.Lock()
	eventID := s.activeEventID
	s.mu.Unlock()
	if eventID == 0 {
		return ErrNoActiveEvent
	}

	if s.claims != nil {
		ok, err := s.claims.ClaimOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("claim check failed: %w", err)
		}
		if !ok {
			return ErrOrderClaimed
		}
	}

	path := fmt.Sprintf("/events/%d/orders/%d/status", eventID, orderID)
	body := models.UpdateOrderStatusRequest{Status: models.StatusCancelled}
	if err := s.backend.PutJSON(ctx, path, body, nil); err != nil {
		if s.claims != nil {
			_ = s.claims.ReleaseOrder(ctx, orderID)
		}
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	s.mu.Lock()
	kept := make([]models.Order, 0, len(s.pending))
	for i := range s.pending {
		if s.pending[i].ID != orderID {
			kept = append(kept, s.pending[i])
		}
	}
	s.pending = kept
	s.mu.Unlock()

	s.logger.LogOrder("cancel", orderID, "removed from pending bucket")
	return nil
}

// FetchCompleted refreshes the completed bucket from the backend.
func (s *Store) FetchCompleted(ctx context.Context) error {
	s.mu.Lock()
	eventID := s.activeEventID
	s.mu.Unlock()
	if eventID == 0 {
		return ErrNoActiveEvent
	}

	var fetched []models.Order
	path := fmt.Sprintf("/events/%d/orders?status=completed", eventID)
	if err := s.backend.GetJSON(ctx, path, &fetched); err != nil {
		return fmt.Errorf("failed to fetch completed orders: %w", err)
	}

	s.mu.Lock()
	s.completed = fetched
	s.mu.Unlock()

	s.saveSnapshot(ctx, eventID, fetched)
	return nil
}

// Pending returns the current pending snapshot. Callers must treat it as
// read-only; the slice is replaced wholesale, never mutated in place.
func (s *Store) Pending() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Store) Completed() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

func (s *Store) ActiveEventID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeEventID
}

// TotalRevenue sums the completed bucket.
func (s *Store) TotalRevenue() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for i := range s.completed {
		total += s.completed[i].TotalAmount
	}
	return total
}

// Generations exposes the poll counters: how many polls were issued and
// which one last wrote state.
func (s *Store) Generations() (issued, applied uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation, s.lastApplied
}

func (s *Store) saveSnapshot(ctx context.Context, eventID int64, orders []models.Order) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveOrders(ctx, eventID, orders); err != nil {
		s.logger.Warn("CACHE", fmt.Sprintf("failed to save order snapshot: %v", err))
	}
}
