package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qmdx00/lifecycle"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"calendar-engine/core"
	"calendar-engine/pkg/ics"
	"calendar-engine/pkg/resources"
	"calendar-engine/pkg/servers"
)

const (
	appName    = "calendar-engine"
	appVersion = "1.0.0"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the calendar HTTP server",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(rootOpts)
		},
	}
}

func runServe(opts *RootOptions) error {
	cfg, err := resources.LoadConfig(opts.ConfigFile)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", appName).Logger()
	log.Logger = logger
	ctx := logger.WithContext(context.Background())

	log.Ctx(ctx).Info().Str("stage", "startup").Str("component", "main").Msg("starting up")

	if cfg.Telemetry.Enabled {
		stopTracer, err := resources.CreateTracer(ctx, cfg.Telemetry.Endpoint)
		if err != nil {
			return err
		}
		defer func() { _ = stopTracer(context.Background()) }()

		stopMeter, err := resources.CreateMeter(ctx, cfg.Telemetry.Endpoint)
		if err != nil {
			return err
		}
		defer func() { _ = stopMeter(context.Background()) }()
	}

	port, closers, err := openPort(ctx, cfg)
	if err != nil {
		return err
	}

	store := core.NewStore(ctx, port)
	handlers := core.NewHandlers(store)

	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware(appName))
	engine.Use(resources.NewRequestMetrics(appName).Handler())
	engine.Use(func(gctx *gin.Context) {
		gctx.Request = gctx.Request.WithContext(logger.WithContext(gctx.Request.Context()))
		gctx.Next()
	})

	engine.POST("/events", handlers.PostEvents)
	engine.GET("/events", handlers.GetEvents)
	engine.GET("/events/:id", handlers.GetEvent)
	engine.PUT("/events/:id", handlers.PutEvent)
	engine.DELETE("/events/:id", handlers.DeleteEvent)
	engine.POST("/events/:id/move", handlers.MoveEvent)
	engine.GET("/days/:date", handlers.GetDay)
	engine.GET("/months/:year/:month", handlers.GetMonth)
	engine.GET("/calendar.ics", func(gctx *gin.Context) {
		gctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics.Export(store.List(), time.Now())))
	})

	app := lifecycle.NewApp(
		lifecycle.WithName(appName),
		lifecycle.WithVersion(appVersion),
		lifecycle.WithSignal(syscall.SIGINT, syscall.SIGTERM),
	)

	app.Attach("rest-server", servers.NewHTTPServer("rest-server", &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}))
	app.Attach("closer-server", servers.NewCloserServer(closers...))

	return app.Run()
}
