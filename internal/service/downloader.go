package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZebulonRouseFrantzich/vget/internal/command"
	"github.com/ZebulonRouseFrantzich/vget/internal/logging"
	"github.com/ZebulonRouseFrantzich/vget/internal/source"
	"github.com/ZebulonRouseFrantzich/vget/internal/ytdlp"
	"github.com/google/uuid"
)

var (
	// ErrEmptyURL is returned for a blank URL.
	ErrEmptyURL = errors.New("empty URL")
	// ErrNoURLs is returned by Batch when there is nothing to download.
	ErrNoURLs = errors.New("no URLs to download")
)

// bestEffortWarning is reported for sites without a tuned profile.
const bestEffortWarning = "no dedicated profile for this site; the highest quality may not be available"

// Config configures a Downloader.
type Config struct {
	// Runner executes yt-dlp. Required.
	Runner ytdlp.Runner
	// Bin is the yt-dlp path shown in dry-run output.
	Bin string
	// Options shape every job's argument list.
	Options command.Options
	// Platform, when set, skips URL detection.
	Platform *source.Platform
	// DryRun reports commands instead of running them.
	DryRun bool

	Reporter Reporter
	Clock    Clock
	Logger   logging.Logger
}

// Downloader turns URLs into jobs and runs them through yt-dlp.
type Downloader struct {
	runner   ytdlp.Runner
	bin      string
	options  command.Options
	platform *source.Platform
	dryRun   bool
	reporter Reporter
	clock    Clock
	logger   logging.Logger
	newID    func() string
}

// NewDownloader validates cfg and returns a Downloader.
func NewDownloader(cfg Config) (*Downloader, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if err := command.Validate(cfg.Options); err != nil {
		return nil, err
	}

	d := &Downloader{
		runner:   cfg.Runner,
		bin:      cfg.Bin,
		options:  cfg.Options,
		platform: cfg.Platform,
		dryRun:   cfg.DryRun,
		reporter: cfg.Reporter,
		clock:    cfg.Clock,
		logger:   logging.OrNop(cfg.Logger),
		newID:    uuid.NewString,
	}
	if d.bin == "" {
		d.bin = "yt-dlp"
	}
	if d.reporter == nil {
		d.reporter = nopReporter{}
	}
	if d.clock == nil {
		d.clock = RealClock{}
	}
	return d, nil
}

// NewJob prepares a pending job for rawURL.
func (d *Downloader) NewJob(rawURL string) (*Job, error) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return nil, ErrEmptyURL
	}

	p := source.Detect(u)
	if d.platform != nil {
		p = *d.platform
	}

	return &Job{
		ID:       d.newID(),
		URL:      u,
		Platform: p,
		Args:     command.Build(p, u, d.options),
		Status:   StatusPending,
	}, nil
}

// Single downloads one URL.
func (d *Downloader) Single(ctx context.Context, rawURL string) (*Job, error) {
	job, err := d.NewJob(rawURL)
	if err != nil {
		return nil, err
	}
	if err := d.execute(ctx, job); err != nil {
		return job, err
	}
	return job, nil
}

// Batch downloads urls in order. The first failure stops the batch; the
// remaining jobs are marked skipped and the failure is returned.
func (d *Downloader) Batch(ctx context.Context, urls []string) (*Summary, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}

	summary := &Summary{}
	var firstErr error

	for i, rawURL := range urls {
		job, err := d.NewJob(rawURL)
		if err != nil {
			job = &Job{ID: d.newID(), URL: rawURL, Status: StatusPending, Err: err}
		}

		if firstErr != nil {
			job.Status = StatusSkipped
			d.reporter.JobFinished(job)
			summary.add(job)
			continue
		}

		if job.Err != nil {
			_ = d.finish(job, StatusFailed, job.Err)
		} else {
			_ = d.execute(ctx, job)
		}
		summary.add(job)

		if job.Status == StatusFailed {
			firstErr = fmt.Errorf("batch stopped at entry %d of %d: %w", i+1, len(urls), job.Err)
			d.logger.Warn("batch stopped", "entry", i+1, "url", job.URL, "error", job.Err)
		}
	}

	return summary, firstErr
}

// execute runs a pending job to a final status.
func (d *Downloader) execute(ctx context.Context, job *Job) error {
	if err := ctx.Err(); err != nil {
		return d.finish(job, StatusFailed, err)
	}

	job.Status = StatusRunning
	job.StartedAt = d.clock.Now()
	d.reporter.JobStarted(job)

	if job.Platform.BestEffort() {
		d.reporter.Warn(job, bestEffortWarning)
	}

	cmdline := ytdlp.QuoteCommand(d.bin, job.Args)
	log := logging.With(d.logger, "job", job.ID, "platform", job.Platform.String())

	if d.dryRun {
		log.Debug("dry run", "command", cmdline)
		d.reporter.DryRun(job, cmdline)
		return d.finish(job, StatusCompleted, nil)
	}

	log.Debug("running yt-dlp", "command", cmdline)
	if err := d.runner.Run(ctx, job.Args); err != nil {
		log.Debug("yt-dlp failed", "error", err)
		_ = d.finish(job, StatusFailed, err)
		return fmt.Errorf("download %s: %w", job.URL, err)
	}

	log.Debug("yt-dlp finished")
	return d.finish(job, StatusCompleted, nil)
}

func (d *Downloader) finish(job *Job, status Status, err error) error {
	job.Status = status
	job.Err = err
	job.FinishedAt = d.clock.Now()
	d.reporter.JobFinished(job)
	return err
}
