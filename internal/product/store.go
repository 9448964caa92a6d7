package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"booth-client/internal/api"
	"booth-client/internal/logger"
	"booth-client/internal/models"
)

type Backend interface {
	GetJSON(ctx context.Context, path string, out interface{}) error
	PutJSON(ctx context.Context, path string, body, out interface{}) error
	PostForm(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, out interface{}) error
}

// CatalogCache stores the fetched catalog locally and serves it back when
// the backend cannot be reached. Optional.
type CatalogCache interface {
	SaveProducts(ctx context.Context, products []models.MasterProduct) error
	LoadProducts(ctx context.Context) ([]models.MasterProduct, error)
}

// Form carries the multipart payload for creating or updating a master
// product. Image is optional.
type Form struct {
	ProductCode  string
	Name         string
	DefaultPrice float64
	Category     string
	Image        io.Reader
	ImageName    string
}

func (f Form) fields() map[string]string {
	fields := map[string]string{
		"product_code":  f.ProductCode,
		"name":          f.Name,
		"default_price": strconv.FormatFloat(f.DefaultPrice, 'f', -1, 64),
	}
	if f.Category != "" {
		fields["category"] = f.Category
	}
	return fields
}

// Store manages the master product catalog.
type Store struct {
	backend Backend
	cache   CatalogCache
	logger  *logger.Logger

	mu       sync.Mutex
	products []models.MasterProduct
}

func NewStore(backend Backend, cache CatalogCache, log *logger.Logger) *Store {
	return &Store{backend: backend, cache: cache, logger: log}
}

// Fetch loads the catalog. With includeInactive, disabled products are
// returned as well.
func (s *Store) Fetch(ctx context.Context, includeInactive bool) ([]models.MasterProduct, error) {
	path := "/master-products"
	if includeInactive {
		path += "?all=true"
	}
	var products []models.MasterProduct
	if err := s.backend.GetJSON(ctx, path, &products); err != nil {
		if cached, cacheErr := s.loadCached(ctx); cacheErr == nil {
			return cached, nil
		}
		return nil, api.Normalize(err, "could not load the product catalog")
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.SaveProducts(ctx, products); err != nil {
			s.logger.Warn("CACHE", fmt.Sprintf("failed to cache catalog: %v", err))
		}
	}
	return products, nil
}

// loadCached falls back to the last catalog the cache holds. An empty cache
// is treated as a miss so the original fetch error surfaces instead.
func (s *Store) loadCached(ctx context.Context) ([]models.MasterProduct, error) {
	if s.cache == nil {
		return nil, errors.New("no catalog cache configured")
	}
	products, err := s.cache.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, errors.New("catalog cache is empty")
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	s.logger.Warn("PRODUCT", fmt.Sprintf("backend unreachable, serving %d cached products", len(products)))
	return products, nil
}

// Create adds a catalog product; the new product goes to the head of the
// local list.
func (s *Store) Create(ctx context.Context, form Form) (*models.MasterProduct, error) {
	var created models.MasterProduct
	if err := s.backend.PostForm(ctx, "/master-products", form.fields(), "image", form.ImageName, form.Image, &created); err != nil {
		return nil, api.Normalize(err, "could not create the product")
	}
	s.mu.Lock()
	s.products = append([]models.MasterProduct{created}, s.products...)
	s.mu.Unlock()
	s.logger.Info("PRODUCT", fmt.Sprintf("created product %d (%s)", created.ID, created.ProductCode))
	return &created, nil
}

func (s *Store) Update(ctx context.Context, productID int64, form Form) (*models.MasterProduct, error) {
	var updated models.MasterProduct
	path := fmt.Sprintf("/master-products/%d", productID)
	if err := s.backend.PostForm(ctx, path, form.fields(), "image", form.ImageName, form.Image, &updated); err != nil {
		return nil, api.Normalize(err, "could not update the product")
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

// ToggleStatus flips a product's active flag.
func (s *Store) ToggleStatus(ctx context.Context, productID int64, active bool) (*models.MasterProduct, error) {
	var updated models.MasterProduct
	path := fmt.Sprintf("/master-products/%d/status", productID)
	if err := s.backend.PutJSON(ctx, path, models.ToggleProductStatusRequest{IsActive: active}, &updated); err != nil {
		return nil, api.Normalize(err, "could not update the product status")
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

// Filter returns the products whose name or code contains the search term,
// case-insensitive. An empty term returns everything.
func (s *Store) Filter(term string) []models.MasterProduct {
	s.mu.Lock()
	defer s.mu.Unlock()

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.products
	}
	var matched []models.MasterProduct
	for i := range s.products {
		name := strings.ToLower(s.products[i].Name)
		code := strings.ToLower(s.products[i].ProductCode)
		if strings.Contains(name, term) || strings.Contains(code, term) {
			matched = append(matched, s.products[i])
		}
	}
	return matched
}

func (s *Store) Products() []models.MasterProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products
}
