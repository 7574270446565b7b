package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"canteen/internal/api"
	"canteen/internal/config"
	"canteen/internal/database"
	"canteen/internal/models"
	"canteen/internal/monitoring"
	"canteen/internal/schedule"
	"canteen/internal/service"
	"canteen/internal/store"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *metricsPort != 0 {
		cfg.MetricsPort = *metricsPort
	}

	log := newLogger(cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to resolve timezone %q: %v", cfg.Canteen.Timezone, err)
	}

	db, err := database.InitDB(cfg.Database.Dialect, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	created, err := database.SeedRoster(db, cfg.Roster)
	if err != nil {
		log.Fatalf("Failed to seed roster: %v", err)
	}
	if created > 0 {
		log.Infof("Provisioned %d staff members from config", created)
	}

	rules := schedule.NewRules(cfg.Canteen.CutoffHour, loc)
	orderStore := store.New(db, rules, models.MealStatus(cfg.Canteen.DefaultStatus), cfg.Canteen.DefaultExtra, nil)
	monitor := monitoring.NewMonitor()
	svc := service.New(orderStore, monitor, log, nil)
	auth := api.NewAuthenticator(cfg.Auth.Secret, cfg.Auth.TokenTTLHours)

	mealAPI := api.New(svc, monitor, auth, log)

	go startMetricsServer(cfg.MetricsPort, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mealAPI.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("API server shutdown error: %v", err)
		}
	}()

	log.Infof("Starting API server on port %d", cfg.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	if lvl < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	return log
}

func startMetricsServer(port int, log *logrus.Logger) {
	metricsRouter := gin.New()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Infof("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Errorf("Metrics server error: %v", err)
	}
}
