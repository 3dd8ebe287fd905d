// Command parkd is the parking dashboard backend: vehicle entry and exit,
// area occupancy, the realtime notification stream and reports, behind a
// role-gated HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eparking/parkd/core"
	"github.com/eparking/parkd/modules/access"
	"github.com/eparking/parkd/modules/parking"
	"github.com/eparking/parkd/modules/realtime"
	"github.com/eparking/parkd/modules/reports"
	"github.com/eparking/parkd/pkg/broadcast"
	"github.com/eparking/parkd/pkg/config"
	"github.com/eparking/parkd/pkg/httpserver"
	"github.com/eparking/parkd/pkg/logger"
	"github.com/eparking/parkd/pkg/pg"
	"github.com/eparking/parkd/pkg/redis"
)

type appConfig struct {
	Logger logger.Config
	HTTP   httpserver.Config
	PG     pg.Config
	Redis  redis.Config

	// BroadcastDriver selects the change stream transport: "memory" for a
	// single node, "redis" to fan out across nodes.
	BroadcastDriver  string        `env:"BROADCAST_DRIVER" envDefault:"memory"`
	BroadcastChannel string        `env:"BROADCAST_CHANNEL" envDefault:"parkd:transactions"`
	BroadcastBuffer  int           `env:"BROADCAST_BUFFER" envDefault:"64"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger, logger.WithAttr(logger.Component("parkd")))

	if err := run(context.Background(), cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("parkd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	healthchecks := []func(context.Context) error{pg.Healthcheck(pool)}

	var events broadcast.Broadcaster[parking.ChangeEvent]
	if cfg.BroadcastDriver == "redis" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close() //nolint:errcheck
		healthchecks = append(healthchecks, redis.Healthcheck(client))
		events = broadcast.NewRedisBroadcaster[parking.ChangeEvent](client, cfg.BroadcastChannel, log)
	} else {
		events = broadcast.NewMemoryBroadcaster[parking.ChangeEvent](cfg.BroadcastBuffer)
	}
	defer events.Close() //nolint:errcheck

	parkingStorage := parking.NewPostgresStorage(pool, events)
	parkingSvc := parking.NewService(parkingStorage, parking.WithLogger(log))

	accessSvc := access.NewService(access.NewPostgresStorage(pool), access.WithLogger(log))
	sessions := access.NewSessionStore(cfg.SessionTTL)

	reportsSvc := reports.NewService(parkingStorage, reports.WithLogger(log))

	agg := realtime.NewAggregator(events, parkingStorage, realtime.WithLogger(log))
	defer agg.Close() //nolint:errcheck
	go func() {
		if err := agg.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.ErrorContext(ctx, "aggregator stopped", logger.Error(err))
		}
	}()

	router := newRouter(ctx, log, healthchecks, routerDeps{
		parking:  parkingSvc,
		access:   accessSvc,
		sessions: sessions,
		reports:  reportsSvc,
		agg:      agg,
	})

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) { l.Info("parkd listening", "addr", cfg.HTTP.Addr) }),
	)
	return srv.Run(ctx, router)
}

type routerDeps struct {
	parking  *parking.Service
	access   *access.Service
	sessions *access.SessionStore
	reports  *reports.Service
	agg      *realtime.Aggregator
}

func newRouter(ctx context.Context, log *slog.Logger, healthchecks []func(context.Context) error, deps routerDeps) http.Handler {
	anyRole := access.RequireRole(access.RoleAdmin, access.RoleOwner, access.RolePetugas)

	parkingRouter := parking.NewRouter(deps.parking,
		parking.WithOperatorResolver(access.UserID),
		parking.WithReceiptHandler(reports.ReceiptHandler(deps.reports)),
		parking.WithGuards(parking.RouteGuards{
			Entry:            access.RequirePermission(access.PermRecordEntry),
			Exit:             access.RequirePermission(access.PermRecordExit),
			ViewTransactions: anyRole,
			ViewAreas:        access.RequirePermission(access.PermViewAreas),
			ManageAreas:      access.RequirePermission(access.PermManageAreas),
		}),
	)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, healthchecks...))

	r.Route("/api", func(r chi.Router) {
		r.Use(access.Authenticator(deps.sessions, deps.access))

		r.Mount("/access", access.NewRouter(deps.access, deps.sessions))
		r.With(anyRole).Mount("/realtime", realtime.NewRouter(deps.agg))
		r.With(access.RequirePermission(access.PermViewReports)).Mount("/reports", reports.NewRouter(deps.reports))
		r.Mount("/", parkingRouter)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		core.WriteError(w, core.ErrNotFound)
	})
	return r
}
