package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServe_StopsOnCancel(t *testing.T) {
	srv := &http.Server{Addr: freeAddr(t), Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())

	cleaned := false
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, zerolog.Nop(), func() { cleaned = true }) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.True(t, cleaned)
}

func TestServe_ListenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	srv := &http.Server{Addr: l.Addr().String(), Handler: http.NotFoundHandler()}
	err = Serve(context.Background(), srv, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error starting server")
}
