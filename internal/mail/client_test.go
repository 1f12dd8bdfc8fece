package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/queue/messages", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "token123", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token123", "noreply@example.com")
	err := c.Send(context.Background(), "a@x.com", "Hello", "Body text")
	require.NoError(t, err)

	assert.Equal(t, "noreply@example.com", got["from"])
	assert.Equal(t, []any{"a@x.com"}, got["to"])
	assert.Equal(t, "Hello", got["subject"])
	assert.Equal(t, "Body text", got["text"])
}

func TestClientSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token123", "noreply@example.com")
	err := c.Send(context.Background(), "a@x.com", "Hello", "Body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestClientSendConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "token", "noreply@example.com")
	err := c.Send(context.Background(), "a@x.com", "Hello", "Body")
	require.Error(t, err)
}
