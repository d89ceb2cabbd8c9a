package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contrastboard/infrastructure/di"
	"contrastboard/interfaces/http/server"
)

func newServeCommand(opts Options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the board API server until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ServerAddress = addr
			}

			container, cleanup, err := di.InitializeContainer(cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			defer func() { _ = container.Logger.Sync() }()

			container.Logger.Info("Configuration loaded",
				zap.String("environment", cfg.Environment),
				zap.Float64("contrastThreshold", cfg.Domain.ContrastThreshold),
				zap.Bool("metrics", cfg.EnableMetrics),
			)

			srvCfg := server.DefaultConfig(cfg.ServerAddress)
			srvCfg.ShutdownTimeout = cfg.ShutdownTimeout
			return server.Run(cmd.Context(), srvCfg, container.Handler, container.Logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from SERVER_ADDRESS)")
	return cmd
}
