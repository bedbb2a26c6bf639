// Package ytdlp wraps invocations of the yt-dlp executable.
//
// The client never interprets yt-dlp's output: stdout and stderr are streamed
// to the caller's writers and only the exit status is translated into Go
// errors.
package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"
)

// ErrInvocation is returned when yt-dlp could not be started at all.
var ErrInvocation = errors.New("failed to run yt-dlp")

// ExitError reports a yt-dlp process that ran and exited non-zero.
type ExitError struct {
	Code   int
	Stderr string // tail of stderr, only populated by Version
	err    error
}

// Error returns a message naming the exit code.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("yt-dlp exited with code %d", e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap returns the underlying *exec.ExitError.
func (e *ExitError) Unwrap() error {
	return e.err
}

// Runner is the interface for yt-dlp operations.
type Runner interface {
	Run(ctx context.Context, args []string) error
	Version(ctx context.Context) (string, error)
	SelfUpdate(ctx context.Context) error
}

// Client implements Runner for one yt-dlp executable.
type Client struct {
	bin    string
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// Option configures a Client.
type Option func(*Client)

// WithOutput sets the writers yt-dlp's stdout and stderr are streamed to.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Client) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithStdin sets the reader connected to yt-dlp's stdin.
func WithStdin(r io.Reader) Option {
	return func(c *Client) {
		c.stdin = r
	}
}

// NewClient creates a client for the executable at bin. Output goes to the
// process's own stdout and stderr unless overridden.
func NewClient(bin string, opts ...Option) *Client {
	c := &Client{
		bin:    bin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bin returns the executable path the client runs.
func (c *Client) Bin() string {
	return c.bin
}

// Run executes yt-dlp with args, streaming its output.
func (c *Client) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	cmd.Stdin = c.stdin

	return translateError(ctx, cmd.Run(), "")
}

// Version returns the output of yt-dlp --version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.bin, "--version")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", translateError(ctx, err, lastLine(stderr.String()))
	}

	version := strings.TrimSpace(stdout.String())
	if version == "" {
		return "", fmt.Errorf("%w: empty version output", ErrInvocation)
	}
	return version, nil
}

// SelfUpdate runs yt-dlp -U, letting yt-dlp replace itself in place.
func (c *Client) SelfUpdate(ctx context.Context) error {
	return c.Run(ctx, []string{"-U"})
}

// translateError maps exec errors to ExitError or ErrInvocation.
func translateError(ctx context.Context, err error, stderrTail string) error {
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("yt-dlp interrupted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Code:   exitErr.ExitCode(),
			Stderr: stderrTail,
			err:    err,
		}
	}

	return fmt.Errorf("%w: %v", ErrInvocation, err)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// QuoteCommand renders bin and args as a single shell-safe command line.
func QuoteCommand(bin string, args []string) string {
	return shellescape.QuoteCommand(append([]string{bin}, args...))
}
