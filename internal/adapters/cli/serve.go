package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/yt2transcript/internal/adapters/web"
)

var addrFlag string

// NewServeCmd creates the serve subcommand
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transcript form in a browser",
		Long: `Serve a local web page with the transcript form.

The SearchAPI key stays in this process; the page only receives
transcript text.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := appFactory(appOptions(cmd))
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = app.Logger.Sync() }()

	addr := addrFlag
	if addr == "" {
		addr = app.Config.Serve.Addr
	}

	srv := &web.Server{
		Addr:    addr,
		Service: app.TranscriptSvc,
		Logger:  app.Logger,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s listening on http://%s (Ctrl+C to stop)\n", web.Title, addr)
	return srv.ListenAndServe(cmd.Context())
}
