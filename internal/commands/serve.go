package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/compliancespectre/internal/server"
)

const defaultListen = ":8080"

var serveFlags struct {
	source sourceFlags
	listen string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the aggregation API over HTTP",
	Long: `Load the exports once and serve the aggregation API:

  GET /api/v1/frameworks
  GET /api/v1/dates
  GET /api/v1/summary?framework=...&account=...&region=...&date=...
  GET /api/v1/skipped
  GET /healthz
  GET /metrics`,
	RunE: runServe,
}

func init() {
	serveFlags.source.register(serveCmd)
	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", defaultListen, "Listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveFlags.listen == defaultListen && cfg.Listen != "" {
		serveFlags.listen = cfg.Listen
	}

	engine, skipped, err := serveFlags.source.loadEngine(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(engine, skipped, server.Info{Tool: "compliancespectre", Version: version})
	return srv.Start(ctx, serveFlags.listen)
}
