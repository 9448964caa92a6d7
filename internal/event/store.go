package event

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

// Store manages the event list: plain CRUD over the backend with the
// fetched list mirrored locally.
type Store struct {
	backend Backend
	logger  *logger.Logger

	mu     sync.Mutex
	events []models.Event
}

func NewStore(backend Backend, log *logger.Logger) *Store {
	return &Store{backend: backend, logger: log}
}

func (s *Store) Fetch(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.backend.GetJSON(ctx, "/events", &events); err != nil {
		return nil, api.Normalize(err, "could not load the event list")
	}
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
	return events, nil
}

// Create adds an event; the new event goes to the head of the local list.
func (s *Store) Create(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	var created models.Event
	if err := s.backend.PostJSON(ctx, "/events", req, &created); err != nil {
		return nil, api.Normalize(err, "could not create the event")
	}
	s.mu.Lock()
	s.events = append([]models.Event{created}, s.events...)
	s.mu.Unlock()
	s.logger.Info("EVENT", fmt.Sprintf("created event %d (%s)", created.ID, created.Name))
	return &created, nil
}

func (s *Store) UpdateStatus(ctx context.Context, eventID int64, status string) (*models.Event, error) {
	var updated models.Event
	path := fmt.Sprintf("/events/%d/status", eventID)
	if err := s.backend.PutJSON(ctx, path, models.UpdateEventStatusRequest{Status: status}, &updated); err != nil {
		return nil, api.Normalize(err, "could not update the event status")
	}
	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i].Status = updated.Status
			break
		}
	}
	s.mu.Unlock()
	return &updated, nil
}

func (s *Store) Update(ctx context.Context, eventID int64, req models.CreateEventRequest) (*models.Event, error) {
	var updated models.Event
	path := fmt.Sprintf("/events/%d", eventID)
	if err := s.backend.PostJSON(ctx, path, req, &updated); err != nil {
		return nil, api.Normalize(err, "could not update the event")
	}
	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return &updated, nil
}

func (s *Store) Delete(ctx context.Context, eventID int64) error {
	path := fmt.Sprintf("/events/%d", eventID)
	if err := s.backend.Delete(ctx, path); err != nil {
		return api.Normalize(err, "could not delete the event")
	}
	s.mu.Lock()
	kept := make([]models.Event, 0, len(s.events))
	for i := range s.events {
		if s.events[i].ID != eventID {
			kept = append(kept, s.events[i])
		}
	}
	s.events = kept
	s.mu.Unlock()
	return nil
}

func (s *Store) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}
