// Package web exposes the booth's local status over the LAN: a health
// check, a live status snapshot and the customer menu QR code. It serves
// the booth's own network, not the public internet.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"booth-client/internal/config"
	"booth-client/internal/logger"
	"booth-client/internal/models"
	"booth-client/internal/qr"
)

// OrderView is the read-only slice of the order store the server publishes.
type OrderView interface {
	ActiveEventID() int64
	Pending() []models.Order
	Completed() []models.Order
	TotalRevenue() float64
	Polling() bool
}

type Server struct {
	orders      OrderView
	menuBaseURL string
	logger      *logger.Logger
	http        *http.Server
}

func NewServer(cfg config.WebConfig, orders OrderView, log *logger.Logger) *Server {
	s := &Server{
		orders:      orders,
		menuBaseURL: cfg.MenuBaseURL,
		logger:      log,
	}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/booth/status", s.handleStatus)
	r.Get("/booth/menu-qr.png", s.handleMenuQR)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type statusView struct {
	ActiveEventID  int64   `json:"active_event_id"`
	Polling        bool    `json:"polling"`
	PendingCount   int     `json:"pending_count"`
	CompletedCount int     `json:"completed_count"`
	TotalRevenue   float64 `json:"total_revenue"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	view := statusView{
		ActiveEventID:  s.orders.ActiveEventID(),
		Polling:        s.orders.Polling(),
		PendingCount:   len(s.orders.Pending()),
		CompletedCount: len(s.orders.Completed()),
		TotalRevenue:   s.orders.TotalRevenue(),
	}
	writeJSON(w, http.StatusOK, SuccessResponse("booth status", view))
}

func (s *Server) handleMenuQR(w http.ResponseWriter, r *http.Request) {
	eventID := s.orders.ActiveEventID()
	if eventID == 0 {
		writeJSON(w, http.StatusNotFound, ErrorResponse("no active event", "select an event before sharing the menu"))
		return
	}

	png, err := qr.EncodePNG(qr.MenuURL(s.menuBaseURL, eventID), 0)
	if err != nil {
		s.logger.Error("WEB", fmt.Sprintf("failed to render menu QR: %v", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse("could not render the QR code", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func writeJSON(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Start blocks serving until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("WEB", fmt.Sprintf("booth status server on %s", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
