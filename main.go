package main

import (
	"auction-site/internal/config"
	"auction-site/internal/realtime"
	"auction-site/internal/repository"
	"auction-site/internal/server"
	"auction-site/internal/session"
	"auction-site/utils"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "auction-site"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		utils.Fatal("auction-site exited with error", map[string]any{"error": err.Error()})
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	serve := func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd, configPath, logLevel)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Online auction site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and serve HTTP",
		RunE:  serve,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, configPath, logLevel)
			if err != nil {
				return err
			}
			store, err := repository.Open(cfg.Database.Path, cfg.Database.LogLevel)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			version, err := store.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			utils.Info("Migration completed", map[string]any{"db": cfg.Database.Path, "schema_version": version})
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// setup loads configuration and applies the log level
func setup(cmd *cobra.Command, configPath, logLevel string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := utils.SetLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	gin.SetMode(cfg.Server.Mode)

	store, err := repository.Open(cfg.Database.Path, cfg.Database.LogLevel)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	sessions, err := newSessions(cfg.Session)
	if err != nil {
		return err
	}

	router, err := server.SetupRouter(server.Dependencies{
		Store:      store,
		Sessions:   sessions,
		Hub:        realtime.NewHub(),
		SendBuffer: cfg.WebSocket.SendBuffer,
		ReadLimit:  cfg.WebSocket.ReadLimit,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		utils.Info("Starting auction server", map[string]any{"addr": cfg.Server.Addr, "db": cfg.Database.Path})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	utils.Info("Shutting down auction server", map[string]any{"timeout": cfg.Server.ShutdownTimeout.String()})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newSessions builds the session manager, generating a throwaway secret when none is configured
func newSessions(cfg config.SessionConfig) (*session.Manager, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		utils.Warn("No session secret configured; sessions will not survive a restart", nil)
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, errors.New("generate session secret: no randomness available")
		}
	}
	return session.NewManager(secret, cfg.MaxAge)
}
