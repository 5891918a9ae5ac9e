package main

import (
	"github.com/spf13/cobra"

	"github.com/lixenwraith/market-bubbles/provider"
)

// newSnapshotCommand fetches once and prints the categorized snapshot, no terminal needed
func newSnapshotCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch markets once and print the categorized snapshot as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			refresher := provider.NewRefresher(cfg.Provider.Refresher(), cfg.Provider.Source(), nil)
			snap, err := refresher.Refresh(cmd.Context())
			if err != nil {
				return err
			}

			out, err := provider.MarshalSnapshot(snap)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
