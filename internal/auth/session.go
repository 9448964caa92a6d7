package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"booth-client/internal/api"
	"booth-client/internal/logger"
	"booth-client/internal/models"
)

// TokenExpiryBuffer is how long before the actual expiry a session is
// already treated as stale, so a request never rides a token that dies
// mid-flight.
const TokenExpiryBuffer = 60 * time.Second

type Backend interface {
	PostJSON(ctx context.Context, path string, body, out interface{}) error
}

// TokenSink receives the bearer token after a successful login. The HTTP
// client implements it.
type TokenSink interface {
	SetToken(token string)
}

// Session is the logged-in identity: role, access scope and the token the
// backend issued.
type Session struct {
	Role              string
	Access            string
	AuthorizedEventID *int64
	Token             string
	ExpiresAt         time.Time
}

// Valid reports whether the session can still back requests, with a buffer
// before the real expiry.
func (s *Session) Valid() bool {
	if s == nil || s.Token == "" {
		return false
	}
	if s.ExpiresAt.IsZero() {
		return true
	}
	return time.Now().Add(TokenExpiryBuffer).Before(s.ExpiresAt)
}

type Store struct {
	backend Backend
	tokens  TokenSink
	logger  *logger.Logger

	mu      sync.Mutex
	session *Session
}

func NewStore(backend Backend, tokens TokenSink, log *logger.Logger) *Store {
	return &Store{backend: backend, tokens: tokens, logger: log}
}

// Login authenticates with a role password. For vendor logins an event id
// may scope the session to a single event.
func (s *Store) Login(ctx context.Context, password, role string, eventID *int64) (*Session, error) {
	payload := models.LoginRequest{Role: role, Password: password, EventID: eventID}

	var resp models.LoginResponse
	if err := s.backend.PostJSON(ctx, "/auth/login", payload, &resp); err != nil {
		return nil, api.Normalize(err, "login failed, check the password")
	}

	session := &Session{
		Role:      resp.Role,
		Access:    resp.Access,
		Token:     resp.Token,
		ExpiresAt: tokenExpiry(resp.Token),
	}
	if session.Access == "" {
		session.Access = models.AccessAll
	}
	if resp.Role == models.RoleVendor && resp.Access == models.AccessEvent {
		session.AuthorizedEventID = resp.EventID
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	if s.tokens != nil {
		s.tokens.SetToken(resp.Token)
	}
	s.logger.Info("AUTH", fmt.Sprintf("logged in as %s (%s access)", session.Role, session.Access))
	return session, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client only needs to know when to prompt for a fresh login, validation
// is the server's job.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Logout drops the session and clears the client token.
func (s *Store) Logout() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	if s.tokens != nil {
		s.tokens.SetToken("")
	}
}

func (s *Store) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil && s.session.Role == models.RoleAdmin
}

// CanAccessVendorPage applies the vendor scoping rule: full-access vendors
// reach every event, event-scoped vendors only their own.
func (s *Store) CanAccessVendorPage(eventID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.Role != models.RoleVendor {
		return false
	}
	if s.session.Access == models.AccessAll {
		return true
	}
	return s.session.AuthorizedEventID != nil && *s.session.AuthorizedEventID == eventID
}
