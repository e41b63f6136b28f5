package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/devbush/yt2transcript/internal/adapters/cli/tui"
	"github.com/devbush/yt2transcript/internal/application"
	"github.com/devbush/yt2transcript/internal/config"
	"github.com/devbush/yt2transcript/internal/domain"
	"github.com/devbush/yt2transcript/internal/logging"
)

var (
	// Global flags
	formatFlag      string
	outputFlag      string
	copyFlag        bool
	apiKeyFlag      string
	impersonateFlag bool
	debugFlag       bool
	quietFlag       bool
	configFlag      string
)

// appFS backs the config file and --output
var appFS afero.Fs = afero.NewOsFs()

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "yt2transcript [youtube-link]",
		Short: "Fetch YouTube video transcripts",
		Long: `yt2transcript fetches the transcript of a YouTube video through SearchAPI.

Provide a video link to print its transcript, or run without arguments
for an interactive form.`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runRoot,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "SearchAPI key (overrides "+config.EnvAPIKey+" and the config file)")
	rootCmd.PersistentFlags().BoolVar(&impersonateFlag, "impersonate", false, "Send requests with a browser TLS fingerprint")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file path (default "+config.ConfigPath()+")")

	rootCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: text, srt, json")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path")
	rootCmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the transcript to the clipboard")
	rootCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")

	// Add subcommands
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	return config.ConfigPath()
}

func appOptions(cmd *cobra.Command) AppOptions {
	return AppOptions{
		FS:          appFS,
		ConfigPath:  configPath(),
		APIKey:      apiKeyFlag,
		Impersonate: impersonateFlag,
		Debug:       debugFlag,
		Terminal:    cmd.ErrOrStderr(),
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		// No arguments - show interactive form
		return runInteractive(cmd)
	}

	opts := appOptions(cmd)
	app, err := appFactory(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = app.Logger.Sync() }()

	ctx := logging.WithLogger(cmd.Context(), app.Logger)
	return runFetch(ctx, app, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func runInteractive(cmd *cobra.Command) error {
	// The form owns the terminal, so logs go to a file
	if err := config.EnsureDirs(appFS); err != nil {
		return err
	}

	opts := appOptions(cmd)
	opts.LogPath = config.LogPath()
	app, err := appFactory(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = app.Logger.Sync() }()

	ctx := logging.WithLogger(cmd.Context(), app.Logger)
	session := application.NewSession(app.TranscriptSvc)
	return tui.RunForm(ctx, session, app.Clipboard)
}

// runFetch retrieves one transcript and writes it to stdout or --output.
// Progress and confirmations go to stderr.
func runFetch(ctx context.Context, app *App, link string, stdout, stderr io.Writer) error {
	format := formatFlag
	if format == "" {
		format = app.Config.Defaults.Format
	}
	if !isFormat(format) {
		return fmt.Errorf("unknown format: %s", format)
	}

	progress := tui.NewProgressDisplay(stderr, []string{"Fetching transcript"}, quietFlag)

	stopSpinner := progress.StartSpinner()
	progress.StartStep(0)

	result, err := app.TranscriptSvc.Retrieve(ctx, link)
	stopSpinner()
	if err != nil {
		progress.FailStep(0, domain.UserMessage(err))
		if errors.Is(err, domain.ErrMissingAPIKey) {
			return fmt.Errorf("%w (set %s or run: yt2transcript config set api.key <key>)", err, config.EnvAPIKey)
		}
		return err
	}
	progress.CompleteStep(0)

	outputs := make(map[string]string)
	if err := outputResult(app.FS, result, format, stdout); err != nil {
		return err
	}
	if outputFlag != "" {
		outputs["Transcript"] = outputFlag
	}

	if copyFlag {
		copied, err := application.CopyText(ctx, app.Clipboard, result.Text)
		if copied {
			fmt.Fprintln(stderr, application.CopyConfirmation)
		} else if err == nil {
			fmt.Fprintln(stderr, "Transcript is empty, nothing copied")
		}
	}

	if len(outputs) > 0 {
		progress.Complete(outputs)
	}

	return nil
}

func isFormat(format string) bool {
	for _, f := range config.Formats {
		if f == format {
			return true
		}
	}
	return false
}

func formatResult(result *application.RetrieveResult, format string) (string, error) {
	switch format {
	case "text":
		return result.Text, nil
	case "srt":
		return result.Transcript.ToSRT(), nil
	case "json":
		data := map[string]interface{}{
			"video":      result.Video,
			"transcript": result.Transcript,
			"text":       result.Text,
		}
		jsonBytes, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(jsonBytes), nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

func outputResult(fs afero.Fs, result *application.RetrieveResult, format string, stdout io.Writer) error {
	output, err := formatResult(result, format)
	if err != nil {
		return err
	}

	if outputFlag != "" {
		return writeOutput(fs, outputFlag, output)
	}

	_, err = fmt.Fprintln(stdout, output)
	return err
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
