package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type stubRunner struct {
	calls    [][]string
	stderr   []byte
	exitCode int32
	err      error
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, int32, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	return nil, s.stderr, s.exitCode, s.err
}

func TestPodmanEngineStartSuccess(t *testing.T) {
	runner := &stubRunner{}
	eng := NewPodmanEngine("podman", runner)

	if err := eng.Start(context.Background(), "web"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(runner.calls))
	}
	got := runner.calls[0]
	want := []string{"podman", "start", "web"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("argv mismatch: got=%v want=%v", got, want)
		}
	}
}

func TestPodmanEngineStopMissingContainer(t *testing.T) {
	runner := &stubRunner{
		stderr:   []byte(`Error: no such container "web"`),
		exitCode: 125,
		err:      errors.New("exit status 125"),
	}
	eng := NewPodmanEngine("podman", runner)

	if err := eng.Stop(context.Background(), "web"); !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestPodmanEngineBinaryMissing(t *testing.T) {
	runner := &stubRunner{
		exitCode: commandNotFoundExit,
		err:      fmt.Errorf("exec: %q: executable file not found", "podman"),
	}
	eng := NewPodmanEngine("podman", runner)

	if err := eng.Start(context.Background(), "web"); !errors.Is(err, ErrEngineUnreachable) {
		t.Fatalf("expected ErrEngineUnreachable, got %v", err)
	}
}

func TestPodmanEngineUnknownFailure(t *testing.T) {
	runner := &stubRunner{
		stderr:   []byte("some engine failure"),
		exitCode: 1,
		err:      errors.New("exit status 1"),
	}
	eng := NewPodmanEngine("podman", runner)

	if err := eng.Start(context.Background(), "web"); !errors.Is(err, ErrEngineUnknown) {
		t.Fatalf("expected ErrEngineUnknown, got %v", err)
	}
}
