package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ZebulonRouseFrantzich/vget/internal/binary"
	"github.com/ZebulonRouseFrantzich/vget/internal/command"
	"github.com/ZebulonRouseFrantzich/vget/internal/config"
	"github.com/ZebulonRouseFrantzich/vget/internal/service"
	"github.com/ZebulonRouseFrantzich/vget/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cookiesDisabled turns off --cookies-from-browser.
const cookiesDisabled = "none"

// downloadFlags holds the root command's flag values.
type downloadFlags struct {
	batch       string
	output      string
	audioOnly   bool
	audioFormat string
	quality     string
	cookies     string
	playlist    bool
	platform    string
	dryRun      bool
	preferCache bool
	offline     bool
}

func newRootCmd(a *app) *cobra.Command {
	flags := &downloadFlags{}

	cmd := &cobra.Command{
		Use:   "vget [flags] [URL]",
		Short: "Download videos with yt-dlp, tuned per site",
		Long: `vget downloads a video with yt-dlp using arguments tuned for the site it
comes from (Twitch, YouTube, Twitter/X, or anything else yt-dlp supports).

yt-dlp is taken from PATH, or downloaded, verified, and cached in the vget
directory ($VGET_DIR, default ~/.config/vget) on first use.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd.Context(), a, cmd.Flags(), flags, args)
		},
	}

	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default $VGET_DIR/vget.lua)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	f := cmd.Flags()
	f.StringVarP(&flags.batch, "batch", "b", "", "file with one URL per line (- reads stdin)")
	f.StringVarP(&flags.output, "output", "o", "", "output directory")
	f.BoolVarP(&flags.audioOnly, "audio-only", "a", false, "extract audio only")
	f.StringVar(&flags.audioFormat, "audio-format", "", "audio codec for --audio-only (mp3, m4a, opus, ...)")
	f.StringVarP(&flags.quality, "quality", "q", "", "best, worst, a height such as 720, or a yt-dlp format spec")
	f.StringVar(&flags.cookies, "cookies-from-browser", "", "browser to read cookies from (none disables)")
	f.BoolVar(&flags.playlist, "playlist", false, "download every entry of a playlist")
	f.StringVar(&flags.platform, "platform", "", "skip URL detection (twitch, youtube, twitter, generic)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "print the yt-dlp command instead of running it")
	f.BoolVar(&flags.preferCache, "prefer-cache", false, "use vget's own yt-dlp even when one is on PATH")
	f.BoolVar(&flags.offline, "offline", false, "never download yt-dlp")

	cmd.AddCommand(
		newInstallCmd(a),
		newUpdateCmd(a),
		newLocateCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)

	return cmd
}

func runDownload(ctx context.Context, a *app, fs *pflag.FlagSet, flags *downloadFlags, args []string) error {
	if flags.batch != "" && len(args) > 0 {
		return fmt.Errorf("--batch cannot be combined with a URL argument")
	}
	if flags.batch == "" && len(args) == 0 {
		return usageHelp(a.stdout)
	}

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}

	opts, err := applyFlags(cfg.Download, fs, flags)
	if err != nil {
		return err
	}

	var override *source.Platform
	if flags.platform != "" {
		p, err := source.Parse(flags.platform)
		if err != nil {
			return err
		}
		override = &p
	}

	var urls []string
	if flags.batch != "" {
		urls, err = readBatch(a, flags.batch)
		if err != nil {
			return err
		}
	}

	bin, err := resolveBinary(ctx, a, cfg, fs, flags)
	if err != nil {
		return err
	}

	downloader, err := service.NewDownloader(service.Config{
		Runner:   a.newRunner(bin),
		Bin:      bin,
		Options:  opts,
		Platform: override,
		DryRun:   flags.dryRun,
		Reporter: newColorReporter(a.stdout, a.stderr, flags.dryRun),
		Logger:   a.logger,
	})
	if err != nil {
		return err
	}

	if flags.batch == "" {
		job, err := downloader.Single(ctx, args[0])
		if err != nil && job != nil && job.Status == service.StatusFailed {
			return &reportedError{summary: "download failed", err: err}
		}
		return err
	}

	summary, err := downloader.Batch(ctx, urls)
	if summary == nil {
		return err
	}
	if !flags.dryRun {
		printSummary(a.stdout, summary)
	}
	if err != nil {
		stoppedAt := summary.Completed + summary.Failed
		return &reportedError{
			summary: fmt.Sprintf("batch stopped at entry %d of %d", stoppedAt, summary.Total()),
			err:     err,
		}
	}
	return nil
}

// reportedError is a download failure the reporter has already printed in
// full. Only the summary is repeated on the final error line.
type reportedError struct {
	summary string
	err     error
}

func (e *reportedError) Error() string { return e.summary }

func (e *reportedError) Unwrap() error { return e.err }

// applyFlags overlays explicitly set flags on the configured options.
func applyFlags(opts command.Options, fs *pflag.FlagSet, flags *downloadFlags) (command.Options, error) {
	if fs.Changed("output") {
		dir, err := config.ExpandPath(flags.output)
		if err != nil {
			return opts, err
		}
		opts.OutputDir = dir
	}
	if fs.Changed("audio-only") {
		opts.AudioOnly = flags.audioOnly
	}
	if fs.Changed("audio-format") {
		opts.AudioFormat = flags.audioFormat
	}
	if fs.Changed("quality") {
		opts.Quality = flags.quality
	}
	if fs.Changed("cookies-from-browser") {
		opts.CookiesFromBrowser = flags.cookies
		if flags.cookies == cookiesDisabled {
			opts.CookiesFromBrowser = ""
		}
	}
	if fs.Changed("playlist") {
		opts.Playlist = flags.playlist
	}

	if err := command.Validate(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

func readBatch(a *app, path string) ([]string, error) {
	if path == "-" {
		return service.ReadBatchFile(a.stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	return service.ReadBatchFile(f)
}

// resolveBinary finds the yt-dlp to run, honouring prefer-cache. Dry runs
// never download and fall back to the bare executable name.
func resolveBinary(ctx context.Context, a *app, cfg *config.Config, fs *pflag.FlagSet, flags *downloadFlags) (string, error) {
	manager, err := a.newManager(ctx, cfg)
	if err != nil {
		return "", err
	}

	preferCache := cfg.Binary.PreferCache
	if fs.Changed("prefer-cache") {
		preferCache = flags.preferCache
	}

	if flags.dryRun {
		loc, err := manager.Ensure(ctx, binary.EnsureOptions{
			PreferCache: preferCache,
			Offline:     true,
		})
		if errors.Is(err, binary.ErrNotFound) {
			return binary.Name, nil
		}
		if err != nil {
			return "", err
		}
		return loc.Path, nil
	}

	loc, err := manager.Ensure(ctx, binary.EnsureOptions{
		PreferCache: preferCache,
		Offline:     flags.offline,
		Install:     installOptions(cfg),
	})
	if err != nil {
		return "", err
	}
	a.logger.Debug("using yt-dlp", "path", loc.Path, "source", loc.Source.String())
	return loc.Path, nil
}

func usageHelp(w io.Writer) error {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  vget [flags] URL            Download one video")
	fmt.Fprintln(w, "  vget -b FILE                Download every URL in FILE (- for stdin)")
	fmt.Fprintln(w, "  vget install                Download and verify yt-dlp")
	fmt.Fprintln(w, "  vget update                 Update yt-dlp")
	fmt.Fprintln(w, "  vget locate                 Show which yt-dlp would be used")
	fmt.Fprintln(w, "  vget config init|show       Create or print vget.lua")
	fmt.Fprintln(w, "  vget version                Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'vget --help' for all flags.")
	return nil
}
