package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/vanshika/campusmap/internal/config"
)

func TestServerServeAndShutdown(t *testing.T) {
	router := newTestRouter(t, true)
	srv := New(discardLogger(), config.HTTPConfig{Host: "127.0.0.1", Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second}, router)
	if got := srv.Addr(); got != "127.0.0.1:0" {
		t.Fatalf("expected configured addr before listening, got %q", got)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	addr := ln.Addr().String()
	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() != addr {
		if time.Now().After(deadline) {
			t.Fatalf("server never reported bound addr %s, got %s", addr, srv.Addr())
		}
		time.Sleep(5 * time.Millisecond)
	}

	resp, err := http.Get("http://" + addr + "/api/v1/route?from=LIB&to=GYM")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-served:
		if err != nil {
			t.Fatalf("serve returned %v after shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after shutdown")
	}
}

func TestServerStartFailsOnBadAddress(t *testing.T) {
	srv := New(discardLogger(), config.HTTPConfig{Host: "127.0.0.1", Port: 70000}, http.NotFoundHandler())
	if err := srv.Start(); err == nil {
		t.Fatal("expected listen error")
	}
}
