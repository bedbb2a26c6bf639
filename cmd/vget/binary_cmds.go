package main

import (
	"fmt"

	"github.com/ZebulonRouseFrantzich/vget/internal/binary"
	"github.com/spf13/cobra"
)

func newInstallCmd(a *app) *cobra.Command {
	var (
		version string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download, verify, and cache yt-dlp",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := a.loadConfig(ctx)
			if err != nil {
				return err
			}
			manager, err := a.newManager(ctx, cfg)
			if err != nil {
				return err
			}

			opts := installOptions(cfg)
			if cmd.Flags().Changed("version") {
				opts.Version = version
			}
			opts.Force = force

			result, err := manager.Install(ctx, opts)
			if err != nil {
				return fmt.Errorf("install yt-dlp: %w", err)
			}

			if result.Skipped {
				fmt.Fprintf(a.stdout, "yt-dlp is already installed at %s (use --force to reinstall)\n", result.Location.Path)
				return nil
			}
			green.Fprintf(a.stdout, "✓ Installed yt-dlp %s to %s\n", result.Version, result.Location.Path)
			fmt.Fprintf(a.stdout, "  asset: %s\n  verified: %s\n", result.Asset, result.Verified)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", binary.VersionLatest, "release tag to install")
	cmd.Flags().BoolVar(&force, "force", false, "reinstall even if yt-dlp is cached")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update yt-dlp",
		Long: `Update yt-dlp. A yt-dlp found on PATH updates itself with yt-dlp -U;
otherwise vget's cached copy is reinstalled from the configured release.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := a.loadConfig(ctx)
			if err != nil {
				return err
			}
			manager, err := a.newManager(ctx, cfg)
			if err != nil {
				return err
			}

			loc, err := manager.Update(ctx, installOptions(cfg))
			if err != nil {
				return fmt.Errorf("update yt-dlp: %w", err)
			}
			green.Fprintf(a.stdout, "✓ yt-dlp updated (%s: %s)\n", loc.Source, loc.Path)
			return nil
		},
	}
}

func newLocateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Show which yt-dlp vget would run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
				return err
			}

			fmt.Fprintln(a.stdout, loc.Path)
			if a.verbose {
				fmt.Fprintf(a.stderr, "source: %s\n", loc.Source)
				if loc.Version != "" {
					fmt.Fprintf(a.stderr, "version: %s\n", loc.Version)
				}
			}
			return nil
		},
	}
}
