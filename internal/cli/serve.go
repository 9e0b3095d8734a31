package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nathfavour/pippin/internal/web"
	"github.com/nathfavour/pippin/pkg/connect"
	"github.com/nathfavour/pippin/pkg/metrics"
)

func init() {
	serveCmd.Flags().String("addr", "", "address for the web chat (default :3000)")
	serveCmd.Flags().String("ws-addr", "", "address for the websocket channel, disabled when empty")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web chat widget",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	srv, err := web.New(settings, selector, web.WithLogger(logger))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(ctx) })

	if settings.WSAddr != "" {
		ws := connect.NewWebSocketChannel(
			settings.WSAddr,
			metrics.NewResponder(selector, srv.Recorder(), "websocket"),
			connect.WithLogger(logger),
			connect.WithDelay(settings.Delay),
		)
		g.Go(func() error { return ws.Start(ctx) })
	}

	logger.Info("pippin is serving", zap.String("addr", settings.ServerAddr), zap.String("ws_addr", settings.WSAddr))
	return g.Wait()
}
