package engine

import (
	"context"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"testing"
)

func newDockerStub(t *testing.T, handler http.Handler) *DockerEngine {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "docker.sock")
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen unix: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })

	return NewDockerEngine(socketPath)
}

func TestDockerEngineStartOutcomes(t *testing.T) {
	eng := newDockerStub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/containers/running/start":
			w.WriteHeader(http.StatusNotModified)
		case "/containers/web/start":
			w.WriteHeader(http.StatusNoContent)
		case "/containers/web/stop":
			w.WriteHeader(http.StatusNoContent)
		case "/containers/missing/start":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))

	ctx := context.Background()
	if err := eng.Start(ctx, "web"); err != nil {
		t.Fatalf("start web: %v", err)
	}
	if err := eng.Stop(ctx, "web"); err != nil {
		t.Fatalf("stop web: %v", err)
	}
	if err := eng.Start(ctx, "running"); err != nil {
		t.Fatalf("start already-running: %v", err)
	}
	if err := eng.Start(ctx, "missing"); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
	if err := eng.Start(ctx, "broken"); !errors.Is(err, ErrEngineUnknown) {
		t.Fatalf("expected ErrEngineUnknown, got %v", err)
	}
}

func TestDockerEngineUnreachableSocket(t *testing.T) {
	eng := NewDockerEngine(filepath.Join(t.TempDir(), "absent.sock"))
	if err := eng.Start(context.Background(), "web"); !errors.Is(err, ErrEngineUnreachable) {
		t.Fatalf("expected ErrEngineUnreachable, got %v", err)
	}
}
