package server

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/danielawaser/devops-project/internal/pkg/logger"
	"github.com/danielawaser/devops-project/internal/pkg/version"
	"github.com/danielawaser/devops-project/internal/server/http"
	"github.com/danielawaser/devops-project/internal/server/state"
	stateImpl "github.com/danielawaser/devops-project/internal/state"
)

type Server struct {
	baseLogger   *zap.Logger
	serverLogger *zap.Logger

	state state.State

	httpServer *http.Server
}

func NewServer(cfg *Config) (*Server, error) {

	zapLogger, err := logger.NewZap(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	zapLogger.Info("starting server", zap.String("version", version.Get()))

	server := Server{
		baseLogger:   zapLogger,
		serverLogger: zapLogger.Named(logger.ComponentNameServer),
	}

	stateBackend, err := stateImpl.NewBackend(cfg.State, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create state backend: %w", err)
	}
	server.state = stateBackend

	httpServerReq := http.ServerReq{
		Logger:             zapLogger,
		HTTPAddr:           cfg.HTTP.Addr,
		HTTPAccessLogLevel: cfg.HTTP.AccessLogLevel,
		State:              server.state,
	}

	httpServer, err := http.NewServer(&httpServerReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}
	server.httpServer = httpServer

	return &server, nil
}

func (s *Server) Start() {
	s.httpServer.Start()
}

func (s *Server) Stop() {
	s.httpServer.Stop()
}

func (s *Server) WaitForSignals() {

	signalCh := make(chan os.Signal, 3)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	// Wait to receive a signal. This blocks until we are notified.
	for {
		s.serverLogger.Debug("wait for signal handler started")

		sig := <-signalCh
		s.serverLogger.Info("received signal", zap.String("signal", sig.String()))

		// Check the signal we received. If it was a SIGHUP when the
		// functionality is added, we perform the reload tasks and then
		// continue to wait for another signal. Everything else means exit.
		switch sig {
		case syscall.SIGHUP:
		default:
			s.Stop()
			return
		}
	}
}
