package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-insights-go/internal/types"
)

func newTestREST(url string) *REST {
	r := NewREST(url, "secret", 2*time.Second, nil)
	r.MaxRetryTime = 2 * time.Second
	return r
}

func TestREST_FetchCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calls", r.URL.Path)
		assert.Equal(t, "eq.acme", r.URL.Query().Get("client_id"))
		assert.Equal(t, "(occurred_at.is.null,occurred_at.gte.2025-06-01T00:00:00Z)", r.URL.Query().Get("or"))
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"c1","occurred_at":"2025-06-03T09:30:00Z","status":"answered","outcome":"Interested","duration_seconds":95,"estimated_value":120.5},
			{"id":"c2","occurred_at":null,"status":"missed","outcome":null,"duration_seconds":null,"estimated_value":null}
		]`))
	}))
	defer srv.Close()

	got, err := newTestREST(srv.URL).FetchCalls(context.Background(), "acme", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, types.CallAnswered, got[0].Status)
	assert.Equal(t, 95, got[0].Duration)
	assert.Equal(t, 120.5, got[0].EstimatedValue)
	assert.True(t, got[1].Timestamp.IsZero())
	assert.Equal(t, "", got[1].Outcome)
}

func TestREST_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"id":"e1","occurred_at":"2025-06-03T09:30:00Z","status":"escalated","category":"Urgent"}]`))
	}))
	defer srv.Close()

	got, err := newTestREST(srv.URL).FetchEmails(context.Background(), "acme", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Urgent", got[0].Category)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestREST_ClientErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "missing table is a configuration error", status: http.StatusNotFound, wantErr: ErrMisconfigured},
		{name: "bad request", status: http.StatusBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestREST(srv.URL).FetchCalls(context.Background(), "acme", time.Time{})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.NotErrorIs(t, err, ErrUnknownClient)
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
		})
	}
}

func TestREST_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"`))
	}))
	defer srv.Close()

	_, err := newTestREST(srv.URL).FetchCalls(context.Background(), "acme", time.Time{})
	assert.ErrorContains(t, err, "json decode error")
}

func TestREST_NotConfigured(t *testing.T) {
	_, err := NewREST("", "", time.Second, nil).FetchEmails(context.Background(), "acme", time.Time{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
