package target

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/corral/internal/engine"
	"github.com/danmuck/corral/internal/observability"
	"github.com/danmuck/corral/internal/transport"
	"github.com/danmuck/corral/internal/wire"
)

// Server accepts control-channel connections and drives the container engine
// from decoded messages. The acceptor is shared read-only across handler
// goroutines; every session is owned by exactly one goroutine.
type Server struct {
	cfg       Config
	acceptor  *transport.Acceptor
	engine    engine.Engine
	log       zerolog.Logger
	startedAt time.Time
}

func NewServer(cfg Config, acceptor *transport.Acceptor, eng engine.Engine) *Server {
	return &Server{
		cfg:       cfg,
		acceptor:  acceptor,
		engine:    eng,
		log:       log.With().Str("component", "target").Logger(),
		startedAt: time.Now(),
	}
}

// BuildEngine constructs the container engine selected by the config,
// probing the host when the engine is set to auto.
func BuildEngine(cfg Config) (engine.Engine, error) {
	switch cfg.Engine {
	case EngineDocker:
		return engine.NewDockerEngine(cfg.DockerSocket), nil
	case EnginePodman:
		var runner engine.CommandRunner = engine.ExecRunner{}
		if cfg.SSH != nil {
			runner = engine.SSHRunner{
				Host:                        cfg.SSH.Host,
				Port:                        cfg.SSH.Port,
				User:                        cfg.SSH.User,
				KeyPath:                     cfg.SSH.KeyFile,
				KnownHostsPath:              cfg.SSH.KnownHostsFile,
				InsecureSkipHostKeyChecking: cfg.SSH.InsecureSkipHostKeyChecking,
			}
		}
		return engine.NewPodmanEngine(cfg.PodmanBin, runner), nil
	default:
		return engine.Detect()
	}
}

// Run listens on the configured address and serves until the listener fails.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	if s.cfg.AdminAddr != "" {
		go s.runAdmin()
	}
	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("engine", s.engine.Name()).
		Msg("target listening")
	return s.Serve(ln)
}

// Serve runs the accept loop on ln, one handler goroutine per connection.
// It returns nil once ln is closed.
func (s *Server) Serve(ln net.Listener) error {
	for {
		raw, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn().Err(err).Msg("accept failed")
			continue
		}
		go s.handleConn(raw)
	}
}

func (s *Server) handleConn(raw net.Conn) {
	logger := s.log.With().
		Str("conn_id", xid.New().String()).
		Str("remote", raw.RemoteAddr().String()).
		Logger()

	sess, err := s.acceptor.Accept(raw)
	if err != nil {
		observability.RecordSession("handshake_failed")
		logger.Warn().Err(err).Msg("handshake failed")
		return
	}
	defer sess.Close()
	observability.RecordSession("accepted")
	logger.Debug().Msg("session established")

	ctx := context.Background()
	for {
		msg, err := sess.Receive()
		if errors.Is(err, io.EOF) {
			logger.Debug().Msg("session closed by peer")
			return
		}
		if err != nil {
			// Any decode or read failure is terminal for this connection;
			// a malformed frame is never reinterpreted.
			logger.Warn().Err(err).Msg("receive failed")
			return
		}
		s.dispatch(ctx, logger, msg)
	}
}

func (s *Server) dispatch(ctx context.Context, logger zerolog.Logger, msg wire.Message) {
	var (
		operation string
		resource  string
		err       error
	)

	start := time.Now()
	switch m := msg.(type) {
	case wire.StartMessage:
		operation, resource = "start", m.ResourceName
		observability.RecordMessage("start")
		err = s.engine.Start(ctx, m.ResourceName)
	case wire.StopMessage:
		operation, resource = "stop", m.ResourceName
		observability.RecordMessage("stop")
		err = s.engine.Stop(ctx, m.ResourceName)
	default:
		logger.Error().Type("message", msg).Msg("no dispatch for message variant")
		return
	}
	observability.RecordEngineAction(s.engine.Name(), operation, outcomeLabel(err), time.Since(start))

	if err != nil {
		logger.Warn().
			Err(err).
			Str("operation", operation).
			Str("resource", resource).
			Msg("engine action failed")
		return
	}
	logger.Info().
		Str("operation", operation).
		Str("resource", resource).
		Msg("engine action complete")
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, engine.ErrResourceNotFound):
		return "not_found"
	case errors.Is(err, engine.ErrEngineUnreachable):
		return "unreachable"
	default:
		return "unknown"
	}
}
