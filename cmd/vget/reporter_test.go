package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/vget/internal/service"
	"github.com/ZebulonRouseFrantzich/vget/internal/source"
	"github.com/fatih/color"
)

func disableColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestColorReporter(t *testing.T) {
	disableColor(t)

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		dryRun  bool
		report  func(r *colorReporter, job *service.Job)
		job     service.Job
		wantOut string
		wantErr string
	}{
		{
			name:    "started",
			report:  func(r *colorReporter, job *service.Job) { r.JobStarted(job) },
			job:     service.Job{URL: "https://youtu.be/x", Platform: source.YouTube},
			wantOut: "→ https://youtu.be/x [youtube]\n",
		},
		{
			name:    "warning",
			report:  func(r *colorReporter, job *service.Job) { r.Warn(job, "best effort") },
			job:     service.Job{URL: "https://vimeo.com/1"},
			wantErr: "⚠ https://vimeo.com/1: best effort\n",
		},
		{
			name:   "completed",
			report: func(r *colorReporter, job *service.Job) { r.JobFinished(job) },
			job: service.Job{
				URL:        "https://youtu.be/x",
				Status:     service.StatusCompleted,
				StartedAt:  start,
				FinishedAt: start.Add(1500 * time.Millisecond),
			},
			wantOut: "✓ https://youtu.be/x (1.5s)\n",
		},
		{
			name:    "failed",
			report:  func(r *colorReporter, job *service.Job) { r.JobFinished(job) },
			job:     service.Job{URL: "https://x.com/a", Status: service.StatusFailed, Err: errors.New("boom")},
			wantErr: "✗ https://x.com/a: boom\n",
		},
		{
			name:    "skipped",
			report:  func(r *colorReporter, job *service.Job) { r.JobFinished(job) },
			job:     service.Job{URL: "https://x.com/b", Status: service.StatusSkipped},
			wantOut: "- https://x.com/b (skipped)\n",
		},
		{
			name:    "dry run prints command only",
			dryRun:  true,
			report:  func(r *colorReporter, job *service.Job) { r.JobStarted(job); r.DryRun(job, "yt-dlp x"); r.JobFinished(job) },
			job:     service.Job{URL: "https://x.com/c", Status: service.StatusCompleted},
			wantOut: "yt-dlp x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			r := newColorReporter(&out, &errOut, tt.dryRun)
			job := tt.job
			tt.report(r, &job)

			if out.String() != tt.wantOut {
				t.Errorf("stdout = %q, want %q", out.String(), tt.wantOut)
			}
			if errOut.String() != tt.wantErr {
				t.Errorf("stderr = %q, want %q", errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestPrintSummary(t *testing.T) {
	disableColor(t)

	var buf bytes.Buffer
	printSummary(&buf, &service.Summary{
		Jobs:      make([]*service.Job, 4),
		Completed: 2,
		Failed:    1,
		Skipped:   1,
	})

	want := "2 of 4 downloaded, 1 failed, 1 skipped"
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}
