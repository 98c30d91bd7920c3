// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"toy-admin/internal/config"
	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/adapter"
	"toy-admin/internal/domain/ports/repository"
	tele "toy-admin/internal/infra/adapters/telegram"
	"toy-admin/internal/infra/db/migrations"
	pg "toy-admin/internal/infra/db/postgres"
	"toy-admin/internal/infra/logging"
	"toy-admin/internal/infra/metrics"
	red "toy-admin/internal/infra/redis"
	"toy-admin/internal/infra/sched"
	"toy-admin/internal/infra/security"
	"toy-admin/internal/infra/web"
	"toy-admin/internal/infra/worker"
	"toy-admin/internal/usecase"
)

// set with -ldflags at build time
var (
	version = "dev"
	commit  = "none"
)

var (
	migrateOnly = flag.Bool("migrate", false, "apply database migrations and exit")
	rollback    = flag.Bool("migrate-down", false, "roll back every migration and exit")
)

func main() {
	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Migrations ----
	if *rollback {
		if err := migrations.Down(cfg.Database.URL); err != nil {
			logger.Fatal().Err(err).Msg("rollback failed")
		}
		logger.Warn().Msg("schema rolled back")
		return
	}
	if *migrateOnly || cfg.Database.AutoMigrate {
		v, err := migrations.Up(cfg.Database.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}
		logger.Info().Uint("version", v).Msg("schema is up to date")
		if *migrateOnly {
			return
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second, logger)

	// ---- Repositories ----
	var deviceRepo repository.DeviceCredentialRepository = pg.NewPostgresDeviceCredentialRepo(pool)
	toyRepo := pg.NewPostgresToyRepo(pool)
	parentRepo := pg.NewPostgresParentProfileRepo(pool)
	loginRepo := pg.NewPostgresLoginHistoryRepo(pool)
	bugRepo := pg.NewPostgresBugReportRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Redis (optional) ----
	var reserver usecase.CodeReserver = usecase.NewMemoryCodeReserver()
	var limiter web.LoginLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		reserver = red.NewCodeReservations(redisClient)
		limiter = red.NewRateLimiter(redisClient)
		deviceRepo = pg.NewDeviceRepoCacheDecorator(deviceRepo, redisClient, cfg.Redis.TTL, logger)
		logger.Info().Msg("redis enabled: code reservations, device cache, login rate limit")
	} else {
		logger.Warn().Msg("redis.url not set: reservations are process-local and login is not rate limited")
	}

	// ---- Background jobs ----
	jobs := worker.NewPool(2, logger)
	jobs.Start(ctx)
	defer jobs.Stop()

	notifier := newBugNotifier(cfg, logger)

	// ---- Use cases ----
	hasher := security.NewHasher(bcrypt.DefaultCost)
	issuer := usecase.NewActivationCodeIssuer(deviceRepo, usecase.IssuerOptions{
		MaxAttempts:    cfg.Issuance.MaxAttempts,
		Timeout:        cfg.Issuance.Timeout,
		ReservationTTL: cfg.Issuance.ReservationTTL,
		Reserver:       reserver,
	}, logger)
	deviceUC := usecase.NewDeviceCredentialUseCase(deviceRepo, issuer, hasher, logger)
	toyUC := usecase.NewToyUseCase(toyRepo, txManager, logger)
	parentUC := usecase.NewParentProfileUseCase(parentRepo, toyRepo, txManager, logger)
	loginUC := usecase.NewLoginHistoryUseCase(loginRepo, logger)
	bugUC := usecase.NewBugReportUseCase(bugRepo, txManager, notifier, jobs, model.BugSeverity(cfg.Telegram.MinSeverity), logger)
	statsUC := usecase.NewStatsUseCase(deviceRepo, toyRepo, parentRepo, loginRepo, bugRepo, logger)

	// ---- Schedulers ----
	capacity := sched.NewCapacityWorker(cfg.Capacity.Interval, cfg.Capacity.WarnRatio, statsUC, logger)
	go func() {
		if err := capacity.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("capacity worker stopped")
		}
	}()

	// ---- HTTP ----
	api := web.NewServer(web.Deps{
		Devices: deviceUC,
		Toys:    toyUC,
		Parents: parentUC,
		Logins:  loginUC,
		Bugs:    bugUC,
		Stats:   statsUC,
		Auth:    web.NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.SecureCookie, "", cfg.Admin.SessionTTL),
		Account: web.AdminAccount{
			Username:     cfg.Admin.Username,
			PasswordHash: cfg.Admin.PasswordHash,
			LoginLimit:   cfg.Admin.LoginLimit,
			LoginWindow:  cfg.Admin.LoginWindow,
		},
		Passwords: hasher,
		Limiter:   limiter,
		Ping:      pool.Ping,

		TrustedProxies: cfg.HTTP.ProxyPrefixes(),
	}, cfg.HTTP.RequestTimeout, logger)
	srv := web.NewHTTPServer(cfg.HTTP, api.Routes())

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("version", version).Msg("admin API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}

func newBugNotifier(cfg *config.Config, logger *zerolog.Logger) adapter.BugNotifier {
	if cfg.Telegram.Token == "" {
		if cfg.Runtime.Dev {
			return tele.NewNoopBugNotifier(logger)
		}
		return nil
	}
	n, err := tele.NewBugNotifier(cfg.Telegram.Token, cfg.Telegram.AdminChatIDs, logger)
	if err != nil {
		logger.Error().Err(err).Msg("telegram notifier disabled")
		return nil
	}
	return n
}
