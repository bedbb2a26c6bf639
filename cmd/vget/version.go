package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show vget and yt-dlp versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "vget %s\n", Version)

			ctx := cmd.Context()
			cfg, err := a.loadConfig(ctx)
			if err != nil {
				return err
			}
			manager, err := a.newManager(ctx, cfg)
			if err != nil {
				return err
			}

			loc, err := manager.Locate(ctx)
			if err != nil {
				fmt.Fprintln(a.stdout, "yt-dlp not installed")
				a.logger.Debug("locate yt-dlp", "error", err)
				return nil
			}

			version := loc.Version
			if version == "" {
				if version, err = a.newRunner(loc.Path).Version(ctx); err != nil {
					version = "unknown"
				}
			}
			fmt.Fprintf(a.stdout, "yt-dlp %s (%s: %s)\n", version, loc.Source, loc.Path)
			return nil
		},
	}
}
