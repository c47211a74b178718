package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/desertthunder/tdx/internal/shared"
	"github.com/desertthunder/tdx/internal/store"
)

func TestGateway(t *testing.T) {
	t.Run("Server uses config", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Server.Host = "0.0.0.0"
		config.Server.Port = 8081
		config.Server.ReadHeaderTimeout = 7

		srv := NewGateway(config, store.NewMemoryStore(), shared.NewLogger(io.Discard)).Server()

		if srv.Addr != "0.0.0.0:8081" {
			t.Errorf("expected addr 0.0.0.0:8081, got %s", srv.Addr)
		}
		if srv.ReadHeaderTimeout != 7*time.Second {
			t.Errorf("expected read header timeout 7s, got %v", srv.ReadHeaderTimeout)
		}
	})

	t.Run("nil config and logger use defaults", func(t *testing.T) {
		g := NewGateway(nil, store.NewMemoryStore(), nil)
		if g.config == nil || g.logger == nil {
			t.Error("expected defaults to be set")
		}
	})

	t.Run("Serve stops when context is cancelled", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}

		g := NewGateway(shared.DefaultConfig(), store.NewMemoryStore(), shared.NewLogger(io.Discard))
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- g.Serve(ctx, ln) }()

		req, err := http.NewRequest(http.MethodGet, "http://"+ln.Addr().String()+"/api/todos", nil)
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}
		req.Header.Set("x-user-id", "demo-user")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}

		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve returned %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Serve did not return after cancel")
		}
	})
}
