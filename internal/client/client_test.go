package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/sudo-init-do/ecosync/internal/alerts"
	"github.com/sudo-init-do/ecosync/internal/marketplace"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"id":"u1","name":"Ann","email":"ann@example.com"}}`))
	})
	mux.HandleFunc("GET /api/transactions/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"missing bearer token"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"o1","lenderId":"` + r.PathValue("id") + `","status":"requested",
			"borrower":{"id":"u2","name":"Ben"},"item":{"id":"i9","title":"Ladder"},"createdAt":"2026-05-01T09:00:00Z"}]`))
	})
	mux.HandleFunc("GET /api/requests", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"r1","itemName":"Drill","status":"active","createdAt":"2026-05-01T10:00:00Z"}]`))
	})
	mux.HandleFunc("GET /api/items", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"i1","title":"Cordless Power Drill","status":"available"}]`))
	})
	mux.HandleFunc("GET /api/notifications", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"order:o1","kind":"pending_order","message":"Ben wants to borrow Ladder","reference":"o1"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin_StoresToken(t *testing.T) {
	c := New(newServer(t).URL + "/")

	_, err := c.Login(context.Background(), "ann@example.com", "wrong")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.Empty(t, c.Token())

	u, err := c.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, "tok-1", c.Token())
}

func TestUserTransactions_RequiresToken(t *testing.T) {
	c := New(newServer(t).URL)
	_, err := c.UserTransactions(context.Background(), "u1")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)

	c.SetToken("tok-1")
	orders, err := c.UserTransactions(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, marketplace.StatusRequested, orders[0].Status)
	require.Equal(t, "Ladder", orders[0].Item.Title)
}

func TestClient_FeedsAlertsCollect(t *testing.T) {
	c := New(newServer(t).URL)
	c.SetToken("tok-1")

	got, err := alerts.Collect(context.Background(), c, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "match:r1", got[0].ID)
	require.Equal(t, "order:o1", got[1].ID)
	require.Equal(t, "Ben wants to borrow Ladder", got[1].Message)
}

func TestNotifications(t *testing.T) {
	c := New(newServer(t).URL)
	got, err := c.Notifications(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, alerts.KindPendingOrder, got[0].Kind)
}
