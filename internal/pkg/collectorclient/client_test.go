package collectorclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
)

func TestFetchAndSync(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fetch-and-sync-data", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","groups":{"count":3,"results":[]},"rooms":{"count":2},"users":{"count":5},"subjects":{"count":7}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL + "/", Timeout: time.Second})
	out, err := c.FetchAndSync(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 3, out.Groups.Count)
	assert.Equal(t, 7, out.Subjects.Count)
}

func TestFetchAndSync_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusBadGateway) }},
		{"body", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not json")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := New(Config{BaseURL: srv.URL, Timeout: time.Second}).FetchAndSync(context.Background())
			assert.ErrorIs(t, err, apperrors.ErrExternalService)
		})
	}
}
