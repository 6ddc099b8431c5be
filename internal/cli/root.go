// Package cli implements the paginate command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pagination/internal/di"
	"github.com/goliatone/go-pagination/internal/logging"
	"github.com/goliatone/go-pagination/internal/logging/gologger"
	"github.com/goliatone/go-pagination/internal/runtimeconfig"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// Option customises the root command.
type Option func(*app)

// WithContainerOptions forwards options to every container the commands build.
func WithContainerOptions(opts ...di.Option) Option {
	return func(a *app) {
		a.containerOpts = append(a.containerOpts, opts...)
	}
}

// WithLoggerProvider replaces the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(a *app) {
		a.loggerProvider = provider
	}
}

type app struct {
	containerOpts  []di.Option
	loggerProvider interfaces.LoggerProvider

	configPath  string
	logLevel    string
	logFormat   string
	logProvider string
}

// NewRootCmd creates the root paginate command.
func NewRootCmd(version string, opts ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	cmd := &cobra.Command{
		Use:           "paginate",
		Short:         "Paginate dated collections into one page per year",
		Long:          "paginate loads Markdown content, groups collection items by year and writes one linked page per year.",
		Version:       version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (console, json, pretty)")
	flags.StringVar(&a.logProvider, "log-provider", "", "logging provider (gologger, none)")

	cmd.AddCommand(newBuildCmd(a), newInspectCmd(a))
	return cmd
}

const rootCmdExample = `  # Build the site under ./content into ./dist
  paginate build --content content --out dist

  # Name year pages after their collection
  paginate build --path ":collection/page"

  # Rebuild on every content change
  paginate build --watch

  # Print the year chains without writing anything
  paginate inspect --content content`

// loadConfig resolves the configuration file and applies the persistent
// logging flags on top of it.
func (a *app) loadConfig(cmd *cobra.Command) (runtimeconfig.Config, error) {
	cfg := runtimeconfig.DefaultConfig()
	if a.configPath != "" {
		loaded, err := runtimeconfig.LoadFile(a.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if flags.Changed("log-provider") {
		cfg.Logging.Provider = a.logProvider
	}
	return cfg, nil
}

// services resolves the logger provider once per invocation so the command
// logger and every container share it.
func (a *app) services(cfg runtimeconfig.Config) (interfaces.Logger, []di.Option, error) {
	provider := a.loggerProvider
	if provider == nil {
		built, err := gologger.FromConfig(cfg.Logging)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: %w", err)
		}
		provider = built
	}

	opts := make([]di.Option, 0, len(a.containerOpts)+1)
	opts = append(opts, di.WithLoggerProvider(provider))
	opts = append(opts, a.containerOpts...)
	return logging.CLILogger(provider), opts, nil
}
