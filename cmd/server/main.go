package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	opsgrpc "github.com/huyhqq/Student-Club-Management-System/internal/api/grpc"
	httpapi "github.com/huyhqq/Student-Club-Management-System/internal/api/http"
	"github.com/huyhqq/Student-Club-Management-System/internal/config"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/notify"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository/postgres"
	"github.com/huyhqq/Student-Club-Management-System/internal/security"
	"github.com/huyhqq/Student-Club-Management-System/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Student Club lifecycle service...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "ops_address", cfg.GetOpsAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetMaxIdleConns(cfg.Database.MaxConns / 2)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	m := metrics.New()

	// Initialize notification dispatcher
	dispatcher, err := notify.NewFromConfig(ctx, cfg.Notifications, store.UserRepository, store.NotificationRepository, m)
	if err != nil {
		log.Fatalf("Failed to initialize notifications: %v", err)
	}
	// Workers outlive the signal context so queued notifications drain on shutdown.
	dispatcher.Start(context.Background())

	// Initialize Services
	services := httpapi.Services{
		Clubs: service.NewClubService(
			store.TxManager,
			store.ClubRepository,
			store.ClubMemberRepository,
			store.FeeScheduleRepository,
			store.UserRepository,
			dispatcher,
			m,
		),
		JoinRequests: service.NewJoinRequestService(
			store.TxManager,
			store.ClubRepository,
			store.ClubMemberRepository,
			store.JoinRequestRepository,
			dispatcher,
			m,
		),
		Memberships:   service.NewMembershipService(store.ClubRepository, store.ClubMemberRepository, store.JoinRequestRepository, dispatcher, m),
		Notifications: service.NewNotificationService(store.NotificationRepository, m),
		Posts:         service.NewPostService(store.ClubRepository, store.ClubMemberRepository, store.PostRepository, dispatcher, m),
	}

	// Initialize Security
	verifier := security.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.Issuer)

	router := httpapi.NewRouter(services, httpapi.RouterOptions{
		Verifier:  verifier,
		Metrics:   m,
		RateLimit: cfg.RateLimit,
	})
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Set up ops gRPC server (health + reflection)
	opsLis, err := net.Listen("tcp", cfg.GetOpsAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetOpsAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	ops := opsgrpc.NewOpsServer(store, 10*time.Second)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP API listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return ops.Serve(opsLis)
	})

	g.Go(func() error {
		ops.Watch(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		ops.Stop()
		dispatcher.Stop()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped. Goodbye!")
}
