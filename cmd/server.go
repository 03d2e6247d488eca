package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/lucky-universe/internal/chat"
	"github.com/ziadkadry99/lucky-universe/internal/config"
	"github.com/ziadkadry99/lucky-universe/internal/db"
	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/llm"
	"github.com/ziadkadry99/lucky-universe/internal/server"
	"github.com/ziadkadry99/lucky-universe/internal/session"
	"github.com/ziadkadry99/lucky-universe/internal/share"
	"github.com/ziadkadry99/lucky-universe/internal/slot"
	"github.com/ziadkadry99/lucky-universe/internal/talisman"
)

const shutdownTimeout = 10 * time.Second

var (
	serverPort     int
	serverAllowAll bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Lucky Universe HTTP server",
	Long:  `Starts the HTTP API used by the web client: sessions, fortune and talisman generation, the lucky slot, companion chat and share pages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if cmd.Flags().Changed("allow-all-origins") {
			cfg.Server.AllowAllOrigins = serverAllowAll
		}

		provider, status := buildProvider(cfg, logger)
		if status.Warning != "" {
			logger.Warn(status.Warning)
		}

		database, err := db.Open(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
			Status:   status,
		}, logger.Named("http"))

		sessions := registerAllRoutes(srv, database, provider, cfg)

		janitor, err := session.NewJanitor(sessions.Store(), cfg.Session.TTL, cfg.Session.SweepCron, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("lucky server starting",
			zap.String("version", Version),
			zap.Int("port", cfg.Server.Port),
			zap.String("database", database.Path()),
			zap.String("provider", status.Provider),
			zap.String("model", status.Model),
			zap.Bool("api_key_configured", status.APIKeyConfigured),
		)

		return run(ctx, srv, janitor)
	},
}

// run serves until ctx is cancelled, then shuts down the HTTP server and
// the janitor.
func run(ctx context.Context, srv *server.Server, janitor *session.Janitor) error {
	g, gctx := errgroup.WithContext(ctx)

	janitor.Start()

	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		janitor.Stop()
		return err
	})

	return g.Wait()
}

// registerAllRoutes wires up all feature routes and returns the session
// service they share.
func registerAllRoutes(srv *server.Server, database *db.DB, provider llm.Provider, cfg *config.Config) *session.Service {
	r := srv.Router()

	slots := slot.NewMachine(nil)
	store := session.NewStore(database)

	// Fortune + talisman flow
	fortunes := fortune.NewGenerator(provider, cfg.Model, logger)
	talismans := talisman.NewGenerator(provider, cfg.Model, cfg.ImageModel, logger)
	sessions := session.NewService(store, fortunes, talismans, slots, logger)
	session.RegisterRoutes(r, sessions)

	// Companion chat
	companion := chat.NewCompanion(store, provider, cfg.Model, logger).
		WithHistoryBudget(cfg.Chat.HistoryBudget)
	chat.RegisterRoutes(r, companion)

	// Share page
	share.RegisterRoutes(r, sessions)

	return sessions
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides server.port)")
	serverCmd.Flags().BoolVar(&serverAllowAll, "allow-all-origins", false, "Allow all CORS origins (overrides server.allow_all_origins)")
	rootCmd.AddCommand(serverCmd)
}
