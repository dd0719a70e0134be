package engine

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// DefaultDockerSocket is the conventional Docker control socket path.
const DefaultDockerSocket = "/var/run/docker.sock"

// DockerEngine drives containers through the Docker Engine API over the
// local control socket.
type DockerEngine struct {
	client *http.Client
}

func NewDockerEngine(socketPath string) *DockerEngine {
	if socketPath == "" {
		socketPath = DefaultDockerSocket
	}
	dialer := net.Dialer{Timeout: 5 * time.Second}
	return &DockerEngine{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					return dialer.DialContext(ctx, "unix", socketPath)
				},
			},
		},
	}
}

func (e *DockerEngine) Name() string { return "docker" }

func (e *DockerEngine) Start(ctx context.Context, resourceID string) error {
	return e.post(ctx, fmt.Sprintf("/containers/%s/start", url.PathEscape(resourceID)))
}

func (e *DockerEngine) Stop(ctx context.Context, resourceID string) error {
	return e.post(ctx, fmt.Sprintf("/containers/%s/stop", url.PathEscape(resourceID)))
}

func (e *DockerEngine) post(ctx context.Context, path string) error {
	// Host is ignored by the unix-socket dialer but required by the URL.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://docker"+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnknown, err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotModified:
		// Already in the requested state.
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrResourceNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrEngineUnknown, resp.StatusCode)
	}
}
