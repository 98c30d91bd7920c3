// File: cmd/seed/main.go
//
// seed bulk-provisions device credentials for the factory line and prints
// mac_id,secret,activation_code as CSV on stdout. Logs go to stderr.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/crypto/bcrypt"

	"toy-admin/internal/config"
	pg "toy-admin/internal/infra/db/postgres"
	"toy-admin/internal/infra/logging"
	red "toy-admin/internal/infra/redis"
	"toy-admin/internal/infra/security"
	"toy-admin/internal/infra/worker"
	"toy-admin/internal/usecase"
)

var (
	count  = flag.Int("n", 10, "number of device credentials to create")
	active = flag.Bool("active", false, "create devices as active")
)

func main() {
	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.NewWithWriter(cfg.Log, cfg.Runtime.Dev, os.Stderr)
	if *count <= 0 {
		logger.Fatal().Int("n", *count).Msg("-n must be positive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	var reserver usecase.CodeReserver = usecase.NewMemoryCodeReserver()
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		// share reservations with running admin instances
		reserver = red.NewCodeReservations(redisClient)
	}

	deviceRepo := pg.NewPostgresDeviceCredentialRepo(pool)
	issuer := usecase.NewActivationCodeIssuer(deviceRepo, usecase.IssuerOptions{
		MaxAttempts:    cfg.Issuance.MaxAttempts,
		Timeout:        cfg.Issuance.Timeout,
		ReservationTTL: cfg.Issuance.ReservationTTL,
		Reserver:       reserver,
	}, logger)
	deviceUC := usecase.NewDeviceCredentialUseCase(deviceRepo, issuer, security.NewHasher(bcrypt.DefaultCost), logger)

	// The pool outlives ctx so Stop drains every queued registration; each
	// registration still observes ctx and fails fast on interrupt.
	jobs := worker.NewPool(cfg.Seed.Workers, logger)
	jobs.Start(context.Background())

	var (
		mu      sync.Mutex
		created []*usecase.DeviceWithSecret
		failed  int
	)
	for i := 0; i < *count; i++ {
		err := jobs.SubmitWait(ctx, func(context.Context) error {
			out, err := deviceUC.Register(ctx, usecase.RegisterDeviceRequest{IsActive: *active})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				return err
			}
			created = append(created, out)
			logger.Debug().
				Str("mac_id", out.Device.MacID).
				Str("secret", logging.Redact(out.Secret, cfg.Runtime.Dev)).
				Msg("device provisioned")
			return nil
		})
		if err != nil {
			logger.Error().Err(err).Int("submitted", i).Msg("stopped submitting")
			break
		}
	}
	jobs.Stop()

	w := csv.NewWriter(os.Stdout)
	_ = w.Write([]string{"mac_id", "secret", "activation_code"})
	for _, d := range created {
		_ = w.Write([]string{d.Device.MacID, d.Secret, d.Device.ActivationCode})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Fatal().Err(err).Msg("write csv")
	}

	logger.Info().Int("created", len(created)).Int("failed", failed).Msg("seed finished")
	if failed > 0 {
		os.Exit(1)
	}
}
