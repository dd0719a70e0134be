package engine

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

var (
	ErrResourceNotFound  = errors.New("engine: requested resource was not found")
	ErrEngineUnreachable = errors.New("engine: container engine could not be reached")
	ErrEngineUnknown     = errors.New("engine: unknown engine error")
	ErrNoEngine          = errors.New("engine: no container engine detected")
)

// Engine is one container runtime the target can drive.
type Engine interface {
	Name() string
	Start(ctx context.Context, resourceID string) error
	Stop(ctx context.Context, resourceID string) error
}

// Detect probes for an available container engine on this host: the Docker
// control socket first, then a podman binary on PATH.
func Detect() (Engine, error) {
	if _, err := os.Stat(DefaultDockerSocket); err == nil {
		return NewDockerEngine(DefaultDockerSocket), nil
	}
	if path, err := exec.LookPath("podman"); err == nil {
		return NewPodmanEngine(path, ExecRunner{}), nil
	}
	return nil, ErrNoEngine
}
