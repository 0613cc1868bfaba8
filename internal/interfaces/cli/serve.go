package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/ChemDraw-AI/internal/app"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
)

// NewServeCmd creates the serve command, which runs the API server and the
// HTML page until interrupted.
func NewServeCmd(appOpts []app.Option) *cobra.Command {
	var (
		port         int
		metricsPort  int
		secureCookie bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("metrics-port") {
				cfg.Metrics.Port = metricsPort
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts := append([]app.Option{app.WithVersion(Version), app.WithSecureCookie(secureCookie)}, appOpts...)
			a, err := app.New(cmd.Context(), cfg, cliCtx.Logger, opts...)
			if err != nil {
				return err
			}
			defer a.Close()

			cliCtx.Logger.Info("starting ChemDraw AI server",
				logging.String("version", Version),
				logging.Int("port", cfg.Server.Port),
				logging.String("config", cliCtx.ConfigPath),
			)
			return a.Run(cmd.Context(), cliCtx.ConfigPath)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides server.port)")
	cmd.Flags().IntVar(&metricsPort, "metrics-port", 0, "separate metrics port (overrides metrics.port)")
	cmd.Flags().BoolVar(&secureCookie, "secure-cookie", false, "mark the page session cookie Secure")
	return cmd
}

//Personal.AI order the ending
