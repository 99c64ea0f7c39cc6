// Package cli wires the payform commands: the interactive terminal flow, the
// web shell and a few helpers for operators.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-payform"
	"github.com/goliatone/go-payform/internal/config"
	"github.com/goliatone/go-payform/internal/logging"
	"github.com/goliatone/go-payform/internal/metrics"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	LogFormat  string
	Theme      string
	BackendURL string
}

// Runtime carries what PersistentPreRunE built down to the subcommands.
type Runtime struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Collector

	app *payform.App
}

// App builds the facade on first use so commands that never talk to the
// backend do not pay for it.
func (r *Runtime) App() (*payform.App, error) {
	if r.app != nil {
		return r.app, nil
	}
	app, err := payform.New(r.Config,
		payform.WithLogger(r.Logger),
		payform.WithMetrics(r.Metrics),
	)
	if err != nil {
		return nil, err
	}
	r.app = app
	return app, nil
}

type runtimeKey struct{}

// RuntimeFrom extracts the runtime set up by the root command.
func RuntimeFrom(cmd *cobra.Command) (*Runtime, error) {
	if rt, ok := cmd.Context().Value(runtimeKey{}).(*Runtime); ok && rt != nil {
		return rt, nil
	}
	return nil, fmt.Errorf("cli: runtime not initialised")
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "payform",
		Short:   "Payment entry, invoice and notification client",
		Long:    "payform takes a payment, shows the invoice with tax, and sends the\nresult by email, SMS, push or WhatsApp through the payment backend.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindRootFlags(cmd, opts)

	cmd.AddCommand(
		newRunCommand(),
		newWebCommand(),
		newTaxCommand(),
		newSchemaCommand(),
		newStubBackendCommand(),
		newVersionCommand(),
	)
	return cmd
}

// NewWebRootCommand is the standalone web shell binary: the root flags plus
// the serve behaviour of "payform web".
func NewWebRootCommand() *cobra.Command {
	opts := &RootOptions{}
	web := newWebCommand()
	cmd := &cobra.Command{
		Use:     "payform-web",
		Short:   "Serve payment sessions as HTML",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		RunE:          web.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindRootFlags(cmd, opts)
	cmd.Flags().AddFlagSet(web.Flags())
	return cmd
}

func bindRootFlags(cmd *cobra.Command, opts *RootOptions) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (yaml)")
	pf.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before the config")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.LogFormat, "log-format", "", "log format (console, json)")
	pf.StringVar(&opts.Theme, "theme", "", "presentation variant (light, dark)")
	pf.StringVar(&opts.BackendURL, "backend-url", "", "payment backend base URL")
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	collector, err := metrics.New()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, runtimeKey{}, &Runtime{
		Config:  cfg,
		Logger:  logger,
		Metrics: collector,
	}))
	return nil
}

// applyOverrides lets explicit flags win over file and environment values.
func applyOverrides(cfg *config.Config, opts *RootOptions) error {
	changed := false
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
			changed = true
		}
	}
	set(&cfg.Log.Level, opts.LogLevel)
	set(&cfg.Log.Format, opts.LogFormat)
	set(&cfg.UI.Theme, opts.Theme)
	set(&cfg.Backend.BaseURL, opts.BackendURL)
	if !changed {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "payform %s\ncommit: %s\nbuilt: %s\n", Version, GitCommit, BuildDate)
			return err
		},
	}
}

// Execute runs cmd and exits non-zero on failure.
func Execute(cmd *cobra.Command) {
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second
