package commands

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/zeu5/gridnav/config"
	"github.com/zeu5/gridnav/server"
)

// newStore picks redis when an address is configured, memory otherwise.
func newStore(cfg config.RedisConfig, logger *slog.Logger) server.ResultStore {
	if cfg.Addr == "" {
		logger.Info("using in-memory result store")
		return server.NewMemoryStore()
	}
	logger.Info("using redis result store", "addr", cfg.Addr, "db", cfg.DB)
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return server.NewRedisStore(client, cfg.TTL, cfg.Prefix)
}

func ServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve planning and simulation runs over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; it only feeds GRIDNAV_* overrides
			envErr := godotenv.Load()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			if envErr != nil {
				logger.Debug(".env file not loaded", "err", envErr)
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			gin.SetMode(cfg.Server.Mode)

			srv := server.New(server.Config{
				Addr:           cfg.Server.Addr,
				Store:          newStore(cfg.Redis, logger),
				Logger:         logger,
				RequestTimeout: cfg.Server.RequestTimeout,
				MaxCells:       cfg.Server.MaxCells,
			})
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
