package event

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booth-client/internal/api"
	"booth-client/internal/logger"
	"booth-client/internal/models"
)

func setupStore(t *testing.T, handler http.HandlerFunc) *Store {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL, 5*time.Second, logger.NewDiscardLogger())
	return NewStore(client, logger.NewDiscardLogger())
}

func TestFetchMirrorsEventList(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Event{
			{ID: 1, Name: "Summer Fest", Status: "active"},
			{ID: 2, Name: "Winter Market", Status: "archived"},
		})
	})

	events, err := store.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, events, store.Events())
}

func TestCreatePrependsNewEvent(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode([]models.Event{{ID: 1, Name: "Summer Fest"}})
		case http.MethodPost:
			var req models.CreateEventRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode(models.Event{ID: 2, Name: req.Name, Date: req.Date, Status: "staging"})
		}
	})

	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	created, err := store.Create(context.Background(), models.CreateEventRequest{Name: "Autumn Con", Date: "2026-10-03"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)

	events := store.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "Autumn Con", events[0].Name, "the newest event leads the list")
}

func TestUpdateStatusPatchesLocalMirror(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]models.Event{{ID: 1, Name: "Summer Fest", Status: "staging"}})
		case r.Method == http.MethodPut && r.URL.Path == "/events/1/status":
			json.NewEncoder(w).Encode(models.Event{ID: 1, Name: "Summer Fest", Status: "active"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	updated, err := store.UpdateStatus(context.Background(), 1, "active")
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Status)
	assert.Equal(t, "active", store.Events()[0].Status)
}

func TestDeleteRemovesFromMirror(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode([]models.Event{{ID: 1}, {ID: 2}})
		case http.MethodDelete:
			assert.Equal(t, "/events/1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), 1))
	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].ID)
}

func TestServerErrorSurfacesMessage(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "event has completed orders"}`))
	})

	err := store.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event has completed orders")
}
