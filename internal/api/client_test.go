package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booth-client/internal/logger"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, 5*time.Second, logger.NewDiscardLogger())
	return client, server
}

func TestGetJSONDecodesBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "name": "Summer Fest"}]`))
	})
	defer server.Close()

	var events []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, client.GetJSON(context.Background(), "/events", &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Summer Fest", events[0].Name)
}

func TestBearerTokenAttachedAfterSetToken(t *testing.T) {
	var gotAuth string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	require.NoError(t, client.GetJSON(context.Background(), "/x", nil))
	assert.Empty(t, gotAuth)

	client.SetToken("tok-123")
	require.NoError(t, client.GetJSON(context.Background(), "/x", nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestRequestIDHeaderFromContext(t *testing.T) {
	var gotID string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	require.NoError(t, client.GetJSON(context.Background(), "/x", nil))
	assert.Empty(t, gotID)

	ctx := WithRequestID(context.Background(), "ref-42")
	require.NoError(t, client.PostJSON(ctx, "/x", map[string]string{}, nil))
	assert.Equal(t, "ref-42", gotID)
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "order already completed"}`))
	})
	defer server.Close()

	err := client.PutJSON(context.Background(), "/orders/1/status", map[string]string{"status": "completed"}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "order already completed", apiErr.Message)
	assert.False(t, apiErr.AuthFailure())
}

func TestMessageFieldAlsoUnderstood(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid password"}`))
	})
	defer server.Close()

	err := client.GetJSON(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid password", apiErr.Message)
	assert.True(t, apiErr.AuthFailure())
}

func TestUnstructuredErrorBodyIsTruncated(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(long)
	})
	defer server.Close()

	err := client.GetJSON(context.Background(), "/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, apiErr.Message, 200)
}

func TestDownloadReturnsBodyAndHeaders(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="catalog.zip"`)
		w.Write([]byte("zipbytes"))
	})
	defer server.Close()

	data, header, err := client.Download(context.Background(), "/sync/export-products")
	require.NoError(t, err)
	assert.Equal(t, []byte("zipbytes"), data)
	assert.Equal(t, `attachment; filename="catalog.zip"`, header.Get("Content-Disposition"))
}

func TestUploadMultipartSendsFilePart(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		body, _ := io.ReadAll(file)
		assert.Equal(t, "catalog.boothpack", fh.Filename)
		assert.Equal(t, []byte("archive"), body)
		w.Write([]byte(`{"imported": 2}`))
	})
	defer server.Close()

	var out struct {
		Imported int `json:"imported"`
	}
	err := client.UploadMultipart(context.Background(), "/sync/import-products", "file", "catalog.boothpack",
		bytes.NewReader([]byte("archive")), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Imported)
}

func TestPostFormSendsFieldsAndFile(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "LEMONADE", r.FormValue("product_code"))
		assert.Equal(t, "Lemonade", r.FormValue("name"))
		_, fh, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "lemonade.png", fh.Filename)
		w.Write([]byte(`{"id": 9}`))
	})
	defer server.Close()

	fields := map[string]string{"product_code": "LEMONADE", "name": "Lemonade"}
	var out struct {
		ID int64 `json:"id"`
	}
	err := client.PostForm(context.Background(), "/master-products", fields, "image", "lemonade.png",
		bytes.NewReader([]byte("png")), &out)
	require.NoError(t, err)
	assert.Equal(t, int64(9), out.ID)
}

func TestNormalizeKeepsServerMessage(t *testing.T) {
	serverErr := &APIError{StatusCode: 400, Message: "stock cannot be negative"}
	assert.Equal(t, serverErr, Normalize(serverErr, "could not save the product"))

	plain := errors.New("connection refused")
	normalized := Normalize(plain, "could not save the product")
	assert.ErrorIs(t, normalized, plain)
	assert.Contains(t, normalized.Error(), "could not save the product")
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "stock cannot be negative",
		UserMessage(&APIError{StatusCode: 400, Message: "stock cannot be negative"}, "fallback"))
	assert.Equal(t, "fallback", UserMessage(errors.New("dial tcp: refused"), "fallback"))
	assert.Equal(t, "fallback", UserMessage(&APIError{StatusCode: 500}, "fallback"))
}
