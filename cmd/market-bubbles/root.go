package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/market-bubbles/config"
)

// rootOptions holds global flags, each one overrides the config file only when set
type rootOptions struct {
	ConfigPath  string
	LogLevel    string
	Provider    string
	File        string
	MetricsAddr string
	NoSound     bool
	Seed        uint64
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market-bubbles",
		Short: "Prediction markets as colliding bubbles in the terminal",
		Long: "market-bubbles polls prediction markets, groups them by category and draws each one\n" +
			"as a bubble sized by volume. Click a bubble for details, Esc to dismiss, q to quit.",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), cfg, opts.Seed)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	pf.StringVar(&opts.Provider, "provider", "", "market source (gamma, file)")
	pf.StringVar(&opts.File, "file", "", "market YAML file, implies --provider=file")
	pf.StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	f := cmd.Flags()
	f.BoolVar(&opts.NoSound, "no-sound", false, "disable interface sounds")
	f.Uint64Var(&opts.Seed, "seed", 0, "layout seed, 0 picks one from the clock")

	cmd.AddCommand(newSnapshotCommand(opts), newVersionCommand())
	return cmd
}

// loadConfig reads the config file and applies explicitly set flags on top
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("log-level") {
		cfg.Log.Level = opts.LogLevel
	}
	if changed("provider") {
		cfg.Provider.Kind = opts.Provider
	}
	if changed("file") {
		cfg.Provider.File = opts.File
		if !changed("provider") {
			cfg.Provider.Kind = config.ProviderFile
		}
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = opts.MetricsAddr
	}
	if changed("no-sound") && opts.NoSound {
		cfg.Audio.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate flags: %w", err)
	}
	return cfg, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "market-bubbles %s (commit: %s)\n", Version, GitCommit)
		},
	}
}
