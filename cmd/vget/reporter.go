package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ZebulonRouseFrantzich/vget/internal/service"
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	faint  = color.New(color.Faint)
)

// colorReporter prints job status lines. Status goes to out, warnings and
// failures to errOut so they stay visible when stdout is redirected.
// In dry-run mode only the commands themselves are written to out.
type colorReporter struct {
	out    io.Writer
	errOut io.Writer
	dryRun bool
}

func newColorReporter(out, errOut io.Writer, dryRun bool) *colorReporter {
	return &colorReporter{out: out, errOut: errOut, dryRun: dryRun}
}

func (r *colorReporter) JobStarted(job *service.Job) {
	if r.dryRun {
		return
	}
	faint.Fprintf(r.out, "→ %s [%s]\n", job.URL, job.Platform)
}

func (r *colorReporter) Warn(job *service.Job, message string) {
	yellow.Fprintf(r.errOut, "⚠ %s: %s\n", job.URL, message)
}

func (r *colorReporter) DryRun(job *service.Job, command string) {
	fmt.Fprintln(r.out, command)
}

func (r *colorReporter) JobFinished(job *service.Job) {
	switch job.Status {
	case service.StatusCompleted:
		if r.dryRun {
			return
		}
		green.Fprintf(r.out, "✓ %s (%s)\n", job.URL, job.Duration().Round(100*time.Millisecond))
	case service.StatusFailed:
		red.Fprintf(r.errOut, "✗ %s: %v\n", job.URL, job.Err)
	case service.StatusSkipped:
		faint.Fprintf(r.out, "- %s (skipped)\n", job.URL)
	}
}

func printSummary(w io.Writer, summary *service.Summary) {
	fmt.Fprintf(w, "\n%d of %d downloaded", summary.Completed, summary.Total())
	if summary.Failed > 0 {
		red.Fprintf(w, ", %d failed", summary.Failed)
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(w, ", %d skipped", summary.Skipped)
	}
	fmt.Fprintln(w)
}
