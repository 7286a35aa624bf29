package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/palace-cards/palace-engine/internal/game"
	"github.com/palace-cards/palace-engine/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a round behind the websocket renderer bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}

			logger, err := initLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer logger.Sync()

			logger.Info("starting palace",
				zap.String("version", version),
				zap.String("config", opts.configPath),
			)

			round, err := game.NewRound(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bridge := server.NewBridge(round, cfg.Server, logger)
			if err := bridge.ListenAndServe(ctx); err != nil {
				return err
			}
			logger.Info("palace stopped")
			return nil
		},
	}
	cmd.Flags().StringVarP(&address, "address", "a", "", "listen address (overrides server.address)")
	return cmd
}
