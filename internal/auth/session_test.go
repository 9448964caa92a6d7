package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booth-client/internal/logger"
	"booth-client/internal/models"
)

type fakeBackend struct {
	response models.LoginResponse
	err      error
	lastBody interface{}
}

func (b *fakeBackend) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	b.lastBody = body
	if b.err != nil {
		return b.err
	}
	*(out.(*models.LoginResponse)) = b.response
	return nil
}

type fakeTokens struct {
	token string
	sets  int
}

func (t *fakeTokens) SetToken(token string) {
	t.token = token
	t.sets++
}

func signedToken(t *testing.T, exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "vendor",
		"exp":  exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestLoginInstallsTokenAndSession(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	eventID := int64(7)
	backend := &fakeBackend{response: models.LoginResponse{
		Role:    models.RoleVendor,
		Access:  models.AccessEvent,
		EventID: &eventID,
		Token:   token,
	}}
	tokens := &fakeTokens{}
	store := NewStore(backend, tokens, logger.NewDiscardLogger())

	session, err := store.Login(context.Background(), "hunter2", models.RoleVendor, &eventID)
	require.NoError(t, err)

	assert.Equal(t, models.RoleVendor, session.Role)
	assert.Equal(t, models.AccessEvent, session.Access)
	require.NotNil(t, session.AuthorizedEventID)
	assert.Equal(t, eventID, *session.AuthorizedEventID)
	assert.True(t, session.Valid())

	assert.Equal(t, token, tokens.token)
	assert.Same(t, session, store.Session())
}

func TestLoginExpiryReadFromToken(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	backend := &fakeBackend{response: models.LoginResponse{
		Role:   models.RoleAdmin,
		Access: models.AccessAll,
		Token:  signedToken(t, exp),
	}}
	store := NewStore(backend, nil, logger.NewDiscardLogger())

	session, err := store.Login(context.Background(), "pw", models.RoleAdmin, nil)
	require.NoError(t, err)
	assert.True(t, session.ExpiresAt.Equal(exp))
}

func TestSessionValidRespectsExpiryBuffer(t *testing.T) {
	inside := &Session{Token: "t", ExpiresAt: time.Now().Add(30 * time.Second)}
	assert.False(t, inside.Valid(), "a token inside the expiry buffer is already stale")

	outside := &Session{Token: "t", ExpiresAt: time.Now().Add(5 * time.Minute)}
	assert.True(t, outside.Valid())

	var nilSession *Session
	assert.False(t, nilSession.Valid())

	noExpiry := &Session{Token: "t"}
	assert.True(t, noExpiry.Valid(), "tokens without an exp claim do not age out locally")
}

func TestLoginFailureKeepsNoSession(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	tokens := &fakeTokens{}
	store := NewStore(backend, tokens, logger.NewDiscardLogger())

	_, err := store.Login(context.Background(), "bad", models.RoleAdmin, nil)
	require.Error(t, err)
	assert.Nil(t, store.Session())
	assert.Zero(t, tokens.sets)
}

func TestLogoutClearsToken(t *testing.T) {
	backend := &fakeBackend{response: models.LoginResponse{
		Role:   models.RoleAdmin,
		Access: models.AccessAll,
		Token:  signedToken(t, time.Now().Add(time.Hour)),
	}}
	tokens := &fakeTokens{}
	store := NewStore(backend, tokens, logger.NewDiscardLogger())

	_, err := store.Login(context.Background(), "pw", models.RoleAdmin, nil)
	require.NoError(t, err)
	require.True(t, store.IsAdmin())

	store.Logout()
	assert.Nil(t, store.Session())
	assert.False(t, store.IsAdmin())
	assert.Empty(t, tokens.token)
}

func TestCanAccessVendorPage(t *testing.T) {
	store := NewStore(&fakeBackend{}, nil, logger.NewDiscardLogger())
	assert.False(t, store.CanAccessVendorPage(1), "no session means no access")

	eventID := int64(7)
	store.session = &Session{Role: models.RoleVendor, Access: models.AccessEvent, AuthorizedEventID: &eventID}
	assert.True(t, store.CanAccessVendorPage(7))
	assert.False(t, store.CanAccessVendorPage(8))

	store.session = &Session{Role: models.RoleVendor, Access: models.AccessAll}
	assert.True(t, store.CanAccessVendorPage(7))
	assert.True(t, store.CanAccessVendorPage(8))

	store.session = &Session{Role: models.RoleAdmin, Access: models.AccessAll}
	assert.False(t, store.CanAccessVendorPage(7), "vendor pages are scoped to vendor sessions")
}
