package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"ayursutra-backend/internal/api/router"
	"ayursutra-backend/internal/config"
	"ayursutra-backend/internal/consultation"
	"ayursutra-backend/internal/doctor"
	"ayursutra-backend/internal/matching"
	"ayursutra-backend/internal/observability/metrics"
	"ayursutra-backend/internal/platform/telegram"
	"ayursutra-backend/internal/report"
	"ayursutra-backend/internal/user"
	appmigrations "ayursutra-backend/migrations"
	"ayursutra-backend/pkg/logging"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// 1. Infrastructure
	var (
		db          *sql.DB
		doctorRepo  doctor.Repository
		userRepo    user.Repository
		consultRepo consultation.Repository
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = connectDB(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("could not connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if cfg.RunMigrations {
			if err := runMigrations(db); err != nil {
				logger.Error("migrations failed", "error", err)
				os.Exit(1)
			}
			logger.Info("migrations applied")
		}

		doctorRepo = doctor.NewPostgresRepository(db)
		userRepo = user.NewPostgresRepository(db)
		consultRepo = consultation.NewRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		doctorRepo = doctor.NewInMemoryRepository()
		userRepo = user.NewInMemoryRepository()
		consultRepo = consultation.NewInMemoryRepository()
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer redisClient.Close()
		doctorRepo = doctor.NewCachedRepository(doctorRepo, redisClient, cfg.RosterCacheTTL, logger)
		logger.Info("roster cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.RosterCacheTTL)
	}

	// 2. Clients
	var tgClient report.TelegramClient
	if cfg.TelegramBotToken != "" {
		tgClient = telegram.NewClient(cfg.TelegramBotToken)
		if cfg.ClinicChatID == 0 {
			logger.Warn("CLINIC_CHAT_ID is not set, appointment slips will not be delivered")
		}
	}

	// 3. Services
	tokens := user.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if !tokens.Enabled() {
		logger.Warn("JWT_SECRET not set, login will not issue tokens and protected routes reject all requests")
	}

	userSvc := user.NewService(userRepo, 0, logger)
	if cfg.AdminUsername != "" {
		if _, _, err := userSvc.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logger.Error("could not ensure admin account", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("ADMIN_USERNAME not set, doctor and admin accounts can only be created by an existing admin")
	}

	matchingMetrics := metrics.NewMatchingMetrics(prometheus.DefaultRegisterer)
	reportSvc := report.NewService(tgClient, cfg.ClinicChatID, cfg.ReportFontPaths, cfg.Location(), logger)
	consultationSvc := consultation.NewService(consultation.Deps{
		Roster:  doctorRepo,
		Repo:    consultRepo,
		Reports: reportSvc,
		Clock:   matching.SystemClock{Location: cfg.Location()},
		Rand:    matching.GlobalRand{},
		Metrics: matchingMetrics,
		Logger:  logger,
	})

	// 4. Router
	handler := router.New(&router.Config{
		Logger:              logger,
		UserHandler:         user.NewHandler(userSvc, tokens, logger),
		DoctorHandler:       doctor.NewHandler(doctorRepo, logger),
		ConsultationHandler: consultation.NewHandler(consultationSvc, logger),
		Tokens:              tokens,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// connectDB opens the pool and retries the first ping while the database starts.
func connectDB(url string, logger *logging.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			logger.Info("connected to database")
			return db, nil
		}
		logger.Warn("waiting for database", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	_ = db.Close()
	return nil, err
}

func runMigrations(db *sql.DB) error {
	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}
	srcDriver, err := iofs.New(appmigrations.FS, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
