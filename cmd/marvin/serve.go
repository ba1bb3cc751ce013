package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/internal/log"
	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/web"
)

var (
	staticDir string
	noCamera  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard, perception loops and command router",
	Long: `Serve the browser dashboard. Commands arrive on POST /api/command or the
/ws/command websocket; responses, status changes and UI actions are pushed
to /ws/conversation, /ws/status and /ws/actions.

Examples:
  marvin serve
  marvin serve --listen :9000 --static ./web
  MARVIN_LLM_MODE=direct GROQ_API_KEY=... marvin serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&staticDir, "static", "", "directory with the browser UI")
	serveCmd.Flags().BoolVar(&noCamera, "no-camera", false, "run without the webcam and detector")
}

func serve(ctx context.Context) error {
	logger := log.Component("marvin.serve")

	srv := web.NewServer(
		web.WithListen(cfg.Listen),
		web.WithStaticDir(staticDir),
		web.WithLogger(log.L()),
	)

	a, err := newAssistant(ctx, cfg, hooks{
		Display:  srv,
		Actions:  srv,
		Changed:  srv.PublishStatus,
		NoCamera: noCamera,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}()

	srv.Attach(web.Backend{
		Commands:   a.router,
		Perception: a.perception,
		Session:    a.session,
	})
	a.router.Welcome()

	logger.Info("marvin ready", "listen", cfg.Listen, "pro_mode", a.session.ProMode())
	return srv.Run(ctx)
}
