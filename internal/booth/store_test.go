package booth

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

func listings() []models.EventProduct {
	return []models.EventProduct{
		{ID: 1, EventID: 7, Name: "Lemonade", Price: 2.50, InitialStock: 50, CurrentStock: 35},
		{ID: 2, EventID: 7, Name: "Pretzel", Price: 4.00, InitialStock: 30, CurrentStock: 30},
	}
}

func TestAddProductPrependsListing(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(listings())
		case http.MethodPost:
			var req models.AddEventProductRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode(models.EventProduct{
				ID: 3, EventID: 7, MasterProductID: req.MasterProductID,
				Price: req.Price, InitialStock: req.InitialStock, CurrentStock: req.InitialStock,
			})
		}
	})

	_, err := store.FetchProducts(context.Background(), 7)
	require.NoError(t, err)

	created, err := store.AddProduct(context.Background(), 7, models.AddEventProductRequest{
		MasterProductID: 12, Price: 3.00, InitialStock: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40), created.CurrentStock, "stock starts at the initial count")

	products := store.Products()
	require.Len(t, products, 3)
	assert.Equal(t, int64(3), products[0].ID)
}

func TestUpdateProductPatchesListing(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(listings())
		case r.Method == http.MethodPut && r.URL.Path == "/products/1":
			var req models.UpdateEventProductRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.NotNil(t, req.Price)
			json.NewEncoder(w).Encode(models.EventProduct{ID: 1, EventID: 7, Name: "Lemonade", Price: *req.Price, CurrentStock: 35})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	_, err := store.FetchProducts(context.Background(), 7)
	require.NoError(t, err)

	price := 2.75
	updated, err := store.UpdateProduct(context.Background(), 1, models.UpdateEventProductRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 2.75, updated.Price)
	assert.Equal(t, 2.75, store.Products()[0].Price)
}

func TestRemoveProductDelists(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(listings())
		case http.MethodDelete:
			assert.Equal(t, "/products/1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	_, err := store.FetchProducts(context.Background(), 7)
	require.NoError(t, err)

	require.NoError(t, store.RemoveProduct(context.Background(), 1))
	products := store.Products()
	require.Len(t, products, 1)
	assert.Equal(t, int64(2), products[0].ID)
}

func TestFetchAllOrdersOmitsStatusFilter(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/7/orders", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery, "the admin view loads every status")
		json.NewEncoder(w).Encode([]models.Order{
			{ID: 1, Status: models.StatusPending},
			{ID: 2, Status: models.StatusCompleted},
			{ID: 3, Status: models.StatusCancelled},
		})
	})

	orders, err := store.FetchAllOrders(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.Equal(t, orders, store.AllOrders())
}

func TestUpdateOrderStatusPatchesHistory(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]models.Order{{ID: 1, Status: models.StatusCancelled}})
		case r.Method == http.MethodPut && r.URL.Path == "/events/7/orders/1/status":
			json.NewEncoder(w).Encode(models.Order{ID: 1, Status: models.StatusPending})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	_, err := store.FetchAllOrders(context.Background(), 7)
	require.NoError(t, err)

	updated, err := store.UpdateOrderStatus(context.Background(), 7, 1, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, models.StatusPending, store.AllOrders()[0].Status)
}

func TestResetClearsState(t *testing.T) {
	store := setupStore(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(listings())
	})

	_, err := store.FetchProducts(context.Background(), 7)
	require.NoError(t, err)
	require.NotEmpty(t, store.Products())

	store.Reset()
	assert.Empty(t, store.Products())
	assert.Empty(t, store.AllOrders())
}
