package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/testutil"
)

func TestNewServer_AppliesConfig(t *testing.T) {
	cfg := config.NewDefaultConfig().Server
	cfg.Port = 9191
	mux := http.NewServeMux()

	s := NewServer(cfg, mux, nil)

	assert.Equal(t, ":9191", s.srv.Addr)
	assert.Equal(t, cfg.ReadTimeout, s.srv.ReadTimeout)
	assert.Equal(t, cfg.WriteTimeout, s.srv.WriteTimeout)
	assert.Equal(t, cfg.ShutdownTimeout, s.shutdownTimeout)
	assert.Same(t, mux, s.Handler().(*http.ServeMux))
}

func TestServer_ServeAndStop(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "pong") })
	logger := testutil.NewMockLogger()
	s := NewServer(config.ServerConfig{ShutdownTimeout: time.Second}, mux, logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	require.NoError(t, s.Stop(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, logger.HasMessage("info", "HTTP server stopped"))
}

func TestServer_StopBeforeStart(t *testing.T) {
	s := NewServer(config.ServerConfig{}, http.NewServeMux(), nil)
	assert.NoError(t, s.Stop(context.Background()))
}

//Personal.AI order the ending
