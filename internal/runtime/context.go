package runtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"gitscope.dev/gitscope/internal/agent"
	"gitscope.dev/gitscope/internal/auth"
	"gitscope.dev/gitscope/internal/backend"
	"gitscope.dev/gitscope/internal/config"
	"gitscope.dev/gitscope/internal/logging"
	"gitscope.dev/gitscope/internal/ops"
	"gitscope.dev/gitscope/internal/output"
	"gitscope.dev/gitscope/internal/repo"
	"gitscope.dev/gitscope/internal/tui"
)

// ErrNoContext is returned when a command runs without an initialized context
var ErrNoContext = errors.New("runtime context not initialized")

// Options configures New. Zero values use the real environment.
type Options struct {
	ConfigPath string
	// RepoPath is the local repository; ignored when GitHub is set
	RepoPath string
	// GitHub is an owner/name slug
	GitHub string
	Output string

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Storage replaces the OS keyring
	Storage auth.Storage
	// Tokens replaces the default token chain
	Tokens auth.TokenSource
	// NewClient replaces the GitHub client constructor
	NewClient backend.ClientFunc
}

// Context provides access to shared dependencies for commands
type Context struct {
	Config  *config.Config
	Loader  *config.Loader
	Logger  *slog.Logger
	Storage auth.Storage
	Tokens  auth.TokenSource
	Factory *backend.Factory
	Service *ops.Service
	Limits  agent.Limits
	Printer *output.Printer

	In  io.Reader
	Out io.Writer
	// TTY is true when both ends of the session are an interactive terminal
	TTY bool

	repoPath string
	github   string
	log      *logging.Logger
}

// New loads configuration and wires every dependency
func New(opts Options) (*Context, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	format, err := output.ParseFormat(opts.Output)
	if err != nil {
		return nil, err
	}

	loader, err := config.NewLoader(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{
		Console:    opts.Err,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err != nil {
		return nil, err
	}
	logger := log.Logger

	storage := opts.Storage
	if storage == nil {
		if ring, err := auth.OpenKeyring(); err != nil {
			logger.Debug("keyring unavailable", "error", err)
		} else {
			storage = ring
		}
	}

	tokens := opts.Tokens
	if tokens == nil {
		tokens = auth.NewChain(cfg.GitHub.Token, storage)
	}

	factory := backend.NewFactory(backend.Options{
		Policy:        backend.PolicyFromConfig(cfg),
		Tokens:        tokens,
		GitHubBaseURL: cfg.GitHub.BaseURL,
		MaxScan:       cfg.GitHub.MaxScan,
		NewClient:     opts.NewClient,
		Logger:        logger,
	})

	file, isFile := opts.Out.(*os.File)
	color := isFile && format == output.FormatText && tui.IsColorTerminal(file)

	return &Context{
		Config:   cfg,
		Loader:   loader,
		Logger:   logger,
		Storage:  storage,
		Tokens:   tokens,
		Factory:  factory,
		Service:  ops.New(cfg.History.MaxCount, logger),
		Limits:   agent.LimitsFromConfig(cfg.Agent),
		Printer:  output.NewPrinter(opts.Out, format, color),
		In:       opts.In,
		Out:      opts.Out,
		TTY:      isFile && file == os.Stdout && tui.IsTTY(),
		repoPath: opts.RepoPath,
		github:   opts.GitHub,
		log:      log,
	}, nil
}

// Target is the repository selected by --repo or --github
func (c *Context) Target() (backend.Identity, error) {
	if c.github != "" {
		return backend.ParseSlug(c.github)
	}
	path := c.repoPath
	if path == "" {
		path = "."
	}
	return backend.ParseIdentity(path, "", "")
}

// Backend resolves the selected repository
func (c *Context) Backend(ctx context.Context) (repo.Backend, error) {
	id, err := c.Target()
	if err != nil {
		return nil, err
	}
	return c.Factory.Resolve(ctx, id)
}

// Close releases the log file
func (c *Context) Close() error {
	if c.log == nil {
		return nil
	}
	return c.log.Close()
}

type ctxKey struct{}

// WithContext stores rt in ctx
func WithContext(ctx context.Context, rt *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, rt)
}

// GetContext returns the Context stored by WithContext
func GetContext(ctx context.Context) (*Context, error) {
	if ctx == nil {
		return nil, ErrNoContext
	}
	rt, ok := ctx.Value(ctxKey{}).(*Context)
	if !ok || rt == nil {
		return nil, ErrNoContext
	}
	return rt, nil
}
