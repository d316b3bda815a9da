package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lookup API over HTTP",
	Long: `Start an HTTP API exposing single and bulk lookups, file upload,
summaries and exports.

Endpoints:
  POST /api/lookup    {"number": "..."}
  POST /api/batch     {"numbers": [...]} or {"text": "..."}
  POST /api/upload    multipart form, field "file" (.txt, up to 5MB)
  POST /api/summary   {"records": [...]}
  POST /api/export    ?format=csv|json|text&scope=all|summary, {"records": [...]}
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&offline, "offline", false, "resolve from bundled numbering-plan metadata instead of the remote api")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache")
}

func runServe(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd, func(cfg *model.Config) {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}
	})
	if err != nil {
		return err
	}
	defer sess.close()

	notices := notify.NewCollector()
	logNotifier := notify.NewLogNotifier(sess.logger.Named("notice"))
	if err := sess.start(notify.Multi{notices, logNotifier}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(sess.cfg.Server, sess.service, notices, sess.logger.Named("http"))
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ numinfo API listening on %s\n", sess.cfg.Server.Addr)
	return srv.Run(ctx, sess.cfg.Server.Addr)
}
