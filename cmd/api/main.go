package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/timesheet-go/internal/config"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/request"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	appHTTP "github.com/cmlabs-hris/timesheet-go/internal/handler/http"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/backend"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/timesheet-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/timesheet-go/internal/repository/upstream"
	serviceAuth "github.com/cmlabs-hris/timesheet-go/internal/service/auth"
	requestService "github.com/cmlabs-hris/timesheet-go/internal/service/request"
	timesheetService "github.com/cmlabs-hris/timesheet-go/internal/service/timesheet"
)

const version = "v1.0.0"

// sources bundles the repositories of one data source.
type sources struct {
	users         timesheet.UserRepository
	punches       timesheet.PunchRepository
	vacations     request.VacationRepository
	corrections   request.CorrectionRepository
	authenticator auth.Authenticator
	runInTx       timesheetService.TxRunner
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "timesheet"),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSources(ctx, cfg)
	if err != nil {
		slog.Error("failed to open data source", "source", cfg.Timesheet.DataSource, "error", err)
		os.Exit(1)
	}
	defer src.close()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	snapshots := timesheetService.NewSnapshotStore(cfg.Timesheet.SnapshotRetention)

	authService := serviceAuth.NewAuthService(src.authenticator, JWTService)
	tsService := timesheetService.NewTimesheetService(
		src.users,
		src.punches,
		src.vacations,
		snapshots,
		src.runInTx,
		timesheetService.Config{
			Location:      cfg.Location(),
			FallbackHours: cfg.Timesheet.DefaultExpectedHours,
			Policy:        timecalc.ParseOvernightPolicy(cfg.Timesheet.OvernightPolicy),
		},
	)
	reqService := requestService.NewRequestService(src.vacations, src.corrections)

	scheduler := cron.NewScheduler()
	cron.NewMaintenanceJobs(snapshots, JWTService, cfg.Cron.SnapshotPruneInterval, cfg.Cron.TokenPurgeInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:         cfg.App.Env,
			Version:     version,
			LogLevel:    level,
			CORSOrigins: cfg.App.CORSOrigins,
		},
		JWTService,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewTimesheetHandler(tsService),
		appHTTP.NewRequestHandler(reqService),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "addr", server.Addr, "data_source", cfg.Timesheet.DataSource)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func openSources(ctx context.Context, cfg *config.Config) (*sources, error) {
	switch cfg.Timesheet.DataSource {
	case config.DataSourcePostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &sources{
			users:         postgresql.NewUserRepository(db),
			punches:       postgresql.NewPunchRepository(db),
			vacations:     postgresql.NewVacationRepository(db),
			corrections:   postgresql.NewCorrectionRepository(db),
			authenticator: serviceAuth.NewLocalAuthenticator(postgresql.NewAccountRepository(db)),
			runInTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
				return postgresql.WithTransaction(ctx, db, fn)
			},
			close: db.Close,
		}, nil

	case config.DataSourceBackend:
		client := backend.NewClient(backend.Config{
			BaseURL:            cfg.Backend.URL,
			Timeout:            cfg.Backend.Timeout,
			BreakerMaxRequests: cfg.Backend.BreakerMaxRequests,
			BreakerInterval:    cfg.Backend.BreakerInterval,
			BreakerTimeout:     cfg.Backend.BreakerTimeout,
		})
		repo := upstream.NewRepository(client)
		return &sources{
			users:         repo,
			punches:       repo,
			vacations:     repo,
			corrections:   repo,
			authenticator: serviceAuth.NewUpstreamAuthenticator(client),
			runInTx:       timesheetService.NoTx,
			close:         func() {},
		}, nil
	}
	return nil, fmt.Errorf("unsupported data source %q", cfg.Timesheet.DataSource)
}
