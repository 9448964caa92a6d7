package stats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"booth-client/internal/api"
	"booth-client/internal/logger"
	"booth-client/internal/models"
)

type Backend interface {
	GetJSON(ctx context.Context, path string, out interface{}) error
	BaseURL() string
}

// Store fetches per-event sales statistics.
type Store struct {
	backend Backend
	logger  *logger.Logger

	mu            sync.Mutex
	activeEventID int64
	stats         *models.EventStats
}

func NewStore(backend Backend, log *logger.Logger) *Store {
	return &Store{backend: backend, logger: log}
}

// SetActiveEvent scopes the store to an event and loads its stats. Setting
// the same event again is a no-op unless force is set.
func (s *Store) SetActiveEvent(ctx context.Context, eventID int64, force bool) error {
	s.mu.Lock()
	if s.activeEventID == eventID && !force {
		s.mu.Unlock()
		return nil
	}
	s.activeEventID = eventID
	s.stats = nil
	s.mu.Unlock()

	if eventID == 0 {
		return nil
	}
	return s.Fetch(ctx, models.StatsFilter{})
}

func (s *Store) Fetch(ctx context.Context, filter models.StatsFilter) error {
	s.mu.Lock()
	eventID := s.activeEventID
	s.mu.Unlock()
	if eventID == 0 {
		return errors.New("no event id provided")
	}

	path := fmt.Sprintf("/events/%d/sales_summary", eventID)
	if query := buildQuery(filter); query != "" {
		path += "?" + query
	}

	var stats models.EventStats
	if err := s.backend.GetJSON(ctx, path, &stats); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("no sales data for this event yet: %w", err)
		}
		return api.Normalize(err, "could not load the sales summary")
	}

	s.mu.Lock()
	s.stats = &stats
	s.mu.Unlock()
	return nil
}

func buildQuery(filter models.StatsFilter) string {
	values := url.Values{}
	if filter.ProductCode != "" {
		values.Set("product_code", filter.ProductCode)
	}
	if filter.StartDate != "" {
		values.Set("start_date", filter.StartDate)
	}
	if filter.EndDate != "" {
		values.Set("end_date", filter.EndDate)
	}
	if filter.IntervalMinutes > 0 {
		values.Set("interval_minutes", strconv.Itoa(filter.IntervalMinutes))
	}
	return values.Encode()
}

// DownloadURL is where the sales summary spreadsheet can be fetched for the
// active event. Empty when no event is active.
func (s *Store) DownloadURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeEventID == 0 {
		return ""
	}
	return fmt.Sprintf("%s/events/%d/sales_summary/download", s.backend.BaseURL(), s.activeEventID)
}

func (s *Store) Stats() *models.EventStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Store) ActiveEventID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeEventID
}
