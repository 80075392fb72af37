package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestServer(handler http.Handler) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(handler, Options{
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, logger)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	srv := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"first", "second"} {
		name := name
		srv.OnShutdown(name, func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		})
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("expected body ok, got %q", body)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	if strings.Join(order, ",") != "second,first" {
		t.Errorf("expected LIFO shutdown order, got %v", order)
	}
}

func TestServer_ShutdownErrorsJoined(t *testing.T) {
	srv := newTestServer(http.NotFoundHandler())

	errA := errors.New("pool close failed")
	srv.OnShutdown("postgres", func(ctx context.Context) error { return errA })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, ln)
	if !errors.Is(err, errA) {
		t.Fatalf("expected component error, got %v", err)
	}
	if !strings.Contains(err.Error(), "postgres") {
		t.Errorf("expected component name in error, got %v", err)
	}
}

func TestNew_Addr(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{Port: 3000}, slog.Default())
	if srv.Addr() != ":3000" {
		t.Errorf("expected :3000, got %s", srv.Addr())
	}
}
