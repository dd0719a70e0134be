package engine

import (
	"bytes"
	"context"
	"fmt"
)

const commandNotFoundExit = 127

// PodmanEngine drives containers by invoking the podman CLI through a
// CommandRunner, which may execute locally or on a remote host.
type PodmanEngine struct {
	bin    string
	runner CommandRunner
}

func NewPodmanEngine(bin string, runner CommandRunner) *PodmanEngine {
	if bin == "" {
		bin = "podman"
	}
	return &PodmanEngine{bin: bin, runner: runner}
}

func (e *PodmanEngine) Name() string { return "podman" }

func (e *PodmanEngine) Start(ctx context.Context, resourceID string) error {
	return e.run(ctx, "start", resourceID)
}

func (e *PodmanEngine) Stop(ctx context.Context, resourceID string) error {
	return e.run(ctx, "stop", resourceID)
}

func (e *PodmanEngine) run(ctx context.Context, op, resourceID string) error {
	_, stderr, exitCode, err := e.runner.Run(ctx, e.bin, op, resourceID)
	if err != nil && exitCode == commandNotFoundExit {
		return fmt.Errorf("%w: %v", ErrEngineUnreachable, err)
	}
	if exitCode == 0 && err == nil {
		return nil
	}
	if bytes.Contains(bytes.ToLower(stderr), []byte("no such container")) {
		return ErrResourceNotFound
	}
	if exitCode == commandNotFoundExit {
		return ErrEngineUnreachable
	}
	return fmt.Errorf("%w: podman %s exited %d: %s", ErrEngineUnknown, op, exitCode, bytes.TrimSpace(stderr))
}
