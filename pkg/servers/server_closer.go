package servers

import (
	"context"
	"io"

	"github.com/qmdx00/lifecycle"
	"github.com/rs/zerolog/log"
)

type closerServer struct {
	name         string
	closeChannel chan struct{}
	closers      []io.Closer
}

// NewCloserServer holds process-scoped resources (database handles, pools)
// open for the application's lifetime and closes them at shutdown, after the
// HTTP surface has drained.
func NewCloserServer(closers ...io.Closer) lifecycle.Server {
	return &closerServer{
		name:         "closer-server",
		closeChannel: make(chan struct{}),
		closers:      closers,
	}
}

func (s *closerServer) Run(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "startup").Str("component", s.name).Msg("starting up")

	<-s.closeChannel

	return nil
}

func (s *closerServer) Stop(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", s.name).Msg("stopping")
	defer log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", s.name).Msg("stopped")

	for _, closer := range s.closers {
		if err := closer.Close(); err != nil {
			log.Ctx(ctx).Error().Str("component", s.name).Err(err).Msg("failed to close resource")
		}
	}

	close(s.closeChannel)

	return nil
}
