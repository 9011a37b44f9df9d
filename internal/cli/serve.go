package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"campus-coffee/internal/config"
	apphttp "campus-coffee/internal/http"
	"campus-coffee/internal/repository"
	"campus-coffee/internal/repository/cache"
	"campus-coffee/internal/repository/sqlite"
	"campus-coffee/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadServeConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	// persistent so that the bare root command, which also serves, accepts it
	rootCmd.PersistentFlags().String("addr", "", "listen address, overrides server.addr")
}

// loadServeConfig loads the configuration and applies command line overrides.
func loadServeConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return config.Config{}, fmt.Errorf("read addr flag: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	return cfg, nil
}

func serve(parent context.Context, cfg config.Config, logger *logrus.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var userRepo repository.UserRepository = sqlite.NewUserRepository(db)
	if cfg.Cache.TTL > 0 {
		userRepo = cache.NewUserRepository(userRepo, cfg.Cache.TTL)
		logger.Infof("user cache enabled, ttl %s", cfg.Cache.TTL)
	}
	if err := userRepo.Init(ctx); err != nil {
		return fmt.Errorf("init user repository: %w", err)
	}

	userService := service.NewUserService(userRepo, logger)

	var metrics *apphttp.Metrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = apphttp.NewMetrics(registry)
	}

	gin.SetMode(gin.ReleaseMode)
	router := apphttp.NewRouter(apphttp.NewHandler(userService, logger, metrics))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
	return nil
}
