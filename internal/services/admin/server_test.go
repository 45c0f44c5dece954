package admin

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestNewServerRequiresAddressAndHandler(t *testing.T) {
	if _, err := NewServer(" ", http.NotFoundHandler()); err == nil {
		t.Fatal("expected error for empty address")
	}
	if _, err := NewServer(":0", nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	server, err := NewServer("127.0.0.1:0", http.NotFoundHandler())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestListenAndServeNilServer(t *testing.T) {
	var server *Server
	if err := server.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
}
