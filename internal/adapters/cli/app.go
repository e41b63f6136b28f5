package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/devbush/yt2transcript/internal/adapters/clipboard"
	"github.com/devbush/yt2transcript/internal/adapters/httpclient"
	"github.com/devbush/yt2transcript/internal/adapters/searchapi"
	"github.com/devbush/yt2transcript/internal/application"
	"github.com/devbush/yt2transcript/internal/config"
	"github.com/devbush/yt2transcript/internal/logging"
	"github.com/devbush/yt2transcript/internal/ports"
)

// App holds all application dependencies
type App struct {
	Config    *config.Config
	FS        afero.Fs
	Logger    *zap.Logger
	KeySource config.KeySource
	Clipboard ports.Clipboard

	TranscriptSvc *application.TranscriptService
}

// AppOptions carries command-line overrides into NewApp
type AppOptions struct {
	FS          afero.Fs
	ConfigPath  string
	APIKey      string
	Impersonate bool
	Debug       bool
	LogPath     string              // empty logs to stderr
	Getenv      func(string) string // defaults to os.Getenv
	Terminal    io.Writer           // receives OSC 52 clipboard sequences
}

// NewApp creates and wires up all dependencies
func NewApp(opts AppOptions) (*App, error) {
	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	path := opts.ConfigPath
	if path == "" {
		path = config.ConfigPath()
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	terminal := opts.Terminal
	if terminal == nil {
		terminal = os.Stderr
	}

	cfg, err := config.Load(fs, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logger, err := logging.New(logging.Options{Debug: opts.Debug, Path: opts.LogPath})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	apiKey, source := cfg.ResolveAPIKey(opts.APIKey, getenv)
	if source == config.KeySourceBuild {
		logger.Warn("using the API key embedded in this binary; anyone holding the binary can read it")
	}
	logger.Debug("resolved API key", zap.String("source", string(source)))

	transport := cfg.Defaults.Transport
	if opts.Impersonate {
		transport = httpclient.KindBrowser
	}
	httpClient, err := httpclient.New(transport)
	if err != nil {
		return nil, err
	}

	fetcher := searchapi.NewClient(httpClient, apiKey,
		searchapi.WithBaseURL(cfg.API.BaseURL),
		searchapi.WithOrigin(cfg.API.Origin),
	)

	cb, err := clipboard.New(cfg.Defaults.Clipboard, terminal)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:        cfg,
		FS:            fs,
		Logger:        logger,
		KeySource:     source,
		Clipboard:     cb,
		TranscriptSvc: application.NewTranscriptService(fetcher),
	}, nil
}

// appFactory builds the App for a command run
var appFactory = NewApp
