package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio/internal/fetch"
	"github.com/jonathan/portfolio/internal/types"
)

func TestClient_SendPostsExactlyThreeFields(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/contact", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"message": "¡Gracias por tu mensaje!"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/contact", nil)
	resp, err := client.Send(context.Background(), types.ContactRequest{
		Name:    "  Ana ",
		Email:   "ana@example.com",
		Message: "Hola",
	})
	require.NoError(t, err)

	assert.Equal(t, "¡Gracias por tu mensaje!", resp.Message)
	assert.Equal(t, map[string]any{
		"name":    "Ana",
		"email":   "ana@example.com",
		"message": "Hola",
	}, body)
}

func TestClient_ValidationSkipsBackend(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)

	tests := []struct {
		name   string
		req    types.ContactRequest
		fields []string
	}{
		{"all empty", types.ContactRequest{}, []string{"email", "message", "name"}},
		{"bad email", types.ContactRequest{Name: "A", Email: "not-an-email", Message: "hi"}, []string{"email"}},
		{"whitespace only", types.ContactRequest{Name: "   ", Email: "a@b.co", Message: "hi"}, []string{"name"}},
		{"message too long", types.ContactRequest{Name: "A", Email: "a@b.co", Message: strings.Repeat("x", 5001)}, []string{"message"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Send(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.fields, InvalidFields(err))
		})
	}
	assert.Zero(t, calls.Load())
}

func TestClient_MaxLengthMessageAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message": "ok"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Send(context.Background(), types.ContactRequest{
		Name: "A", Email: "a@b.co", Message: strings.Repeat("x", 5000),
	})
	assert.NoError(t, err)
}

func TestClient_BackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Send(context.Background(), types.ContactRequest{
		Name: "A", Email: "a@b.co", Message: "hi",
	})
	var fe *fetch.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Nil(t, InvalidFields(err))
}
