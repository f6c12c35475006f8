package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/huyhqq/Student-Club-Management-System/internal/config"
	"github.com/huyhqq/Student-Club-Management-System/internal/jobs"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/notify"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository/postgres"
	"github.com/huyhqq/Student-Club-Management-System/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('remind_pending_join_requests', 'purge_read_notifications' or 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting club cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	m := metrics.New()

	dispatcher, err := notify.NewFromConfig(context.Background(), cfg.Notifications, store.UserRepository, store.NotificationRepository, m)
	if err != nil {
		log.Fatalf("Failed to initialize notifications: %v", err)
	}
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store.JoinRequestRepository, store.NotificationRepository, dispatcher, m, jobs.SettingsFrom(cfg))

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := runJobOnce(jobRunner, *runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			dispatcher.Stop()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to register jobs: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) error {
	if jobName == "all" {
		return jobRunner.RunAll()
	}
	if err := jobRunner.Run(jobName); err != nil {
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - %s\n", jobs.JobRemindPendingJoinRequests)
		fmt.Printf("  - %s\n", jobs.JobPurgeReadNotifications)
		fmt.Printf("  - all\n")
		return err
	}
	return nil
}
