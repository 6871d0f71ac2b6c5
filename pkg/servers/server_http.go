package servers

import (
	"context"
	"errors"
	"net/http"

	"github.com/qmdx00/lifecycle"
	"github.com/rs/zerolog/log"
)

type httpServer struct {
	name     string
	internal *http.Server
}

// NewHTTPServer wraps an http.Server as a lifecycle server with graceful
// shutdown.
func NewHTTPServer(name string, server *http.Server) lifecycle.Server {
	return &httpServer{name: name, internal: server}
}

func (s *httpServer) Run(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "startup").Str("component", s.name).Str("addr", s.internal.Addr).Msg("starting up")

	err := s.internal.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Ctx(ctx).Error().Str("stage", "startup").Str("component", s.name).Err(err).Msg("failed to listen or serve")
		return ErrServerFailedToStart(s.name, err)
	}

	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", s.name).Msg("stopping")
	defer log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", s.name).Msg("stopped")

	err := s.internal.Shutdown(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Str("stage", "shut down").Str("component", s.name).Err(err).Msg("failed to stop")
		return ErrServerFailedToStop(s.name, err)
	}

	return nil
}
