package cli

import (
	"context"
	"time"

	"github.com/shandysiswandi/goeda/internal/app"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			application := app.New(configPath)
			wait := application.Start()
			<-wait

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			application.Stop(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default $GOEDA_CONFIG or "+app.DefaultConfigPath+")")

	return cmd
}
