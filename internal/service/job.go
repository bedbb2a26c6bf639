// Package service runs yt-dlp for one URL or a batch of URLs.
package service

import (
	"time"

	"github.com/ZebulonRouseFrantzich/vget/internal/source"
)

// Status is the lifecycle state of a Job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Job is one URL handed to yt-dlp.
type Job struct {
	ID         string
	URL        string
	Platform   source.Platform
	Args       []string
	Status     Status
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration reports how long the job ran, or zero if it never finished.
func (j *Job) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

// Summary tallies a batch run.
type Summary struct {
	Jobs      []*Job
	Completed int
	Failed    int
	Skipped   int
}

// Total is the number of jobs in the batch.
func (s *Summary) Total() int {
	return len(s.Jobs)
}

func (s *Summary) add(job *Job) {
	s.Jobs = append(s.Jobs, job)
	switch job.Status {
	case StatusCompleted:
		s.Completed++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
}

// Reporter receives job progress. Implementations must not retain the
// job past the call.
type Reporter interface {
	// JobStarted is called before yt-dlp runs.
	JobStarted(job *Job)
	// Warn reports a non-fatal condition for a job.
	Warn(job *Job, msg string)
	// DryRun receives the command a job would have run.
	DryRun(job *Job, command string)
	// JobFinished is called once the job reaches a final status.
	JobFinished(job *Job)
}

type nopReporter struct{}

func (nopReporter) JobStarted(*Job)     {}
func (nopReporter) Warn(*Job, string)   {}
func (nopReporter) DryRun(*Job, string) {}
func (nopReporter) JobFinished(*Job)    {}
