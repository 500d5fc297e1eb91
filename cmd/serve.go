package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/arcanaland/seer/internal/deck"
	"github.com/arcanaland/seer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and Prometheus metrics",
	Long: `Serve exposes the deck, the reading ledger and the theme settings over
HTTP, with Prometheus metrics on /metrics. Draws and ledger writes are
rate limited.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = app.cfg.ListenAddr
		}
		rps, _ := cmd.Flags().GetFloat64("rate")
		burst, _ := cmd.Flags().GetInt("burst")

		client, err := app.Ledger(cmd.Context())
		if err != nil {
			return err
		}
		m, err := app.Settings(cmd.Context())
		if err != nil {
			return err
		}

		handler := server.NewRouter(server.Deps{
			Engine:   deck.NewDefaultEngine(),
			Ledger:   client,
			Settings: m,
			Metrics:  app.metrics,
			Gatherer: app.registry,
			Logger:   app.logger.Named("http"),
			Limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.Serve(ctx, addr, handler, app.logger)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", "", "address to listen on (default listen_addr from the config)")
	serveCmd.Flags().Float64("rate", server.DefaultRate, "sustained draws and ledger writes per second")
	serveCmd.Flags().Int("burst", server.DefaultBurst, "burst of draws and ledger writes")
}
