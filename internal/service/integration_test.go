package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/vget/internal/command"
	"github.com/ZebulonRouseFrantzich/vget/internal/testutil"
	"github.com/ZebulonRouseFrantzich/vget/internal/ytdlp"
)

// stubScript prints the URL it was given and fails for URLs containing
// "fail-<code>" with that exit code.
const stubScript = `for last; do :; done
case "$last" in
  *fail-2*) echo "ERROR: bad option" >&2; exit 2 ;;
  *fail*) echo "ERROR: Unsupported URL: $last" >&2; exit 1 ;;
esac
echo "[download] Destination: $last"`

func TestIntegration_StubExecutable(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	bin := testutil.WriteStub(t, env.PathDir, "yt-dlp", stubScript)

	tests := []struct {
		name     string
		url      string
		wantCode int
		wantOut  string
	}{
		{name: "success", url: "https://www.twitch.tv/videos/1", wantCode: 0, wantOut: "Destination: https://www.twitch.tv/videos/1"},
		{name: "download error", url: "https://example.com/fail", wantCode: 1},
		{name: "usage error", url: "https://example.com/fail-2", wantCode: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			client := ytdlp.NewClient(bin, ytdlp.WithOutput(&stdout, &stderr))

			d, err := NewDownloader(Config{
				Runner:  client,
				Bin:     bin,
				Options: command.DefaultOptions(),
			})
			if err != nil {
				t.Fatalf("NewDownloader: %v", err)
			}

			job, err := d.Single(context.Background(), tt.url)

			if tt.wantCode == 0 {
				if err != nil {
					t.Fatalf("Single: %v (stderr: %s)", err, stderr.String())
				}
				if !strings.Contains(stdout.String(), tt.wantOut) {
					t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantOut)
				}
				return
			}

			var exitErr *ytdlp.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("expected ExitError, got %v", err)
			}
			if exitErr.Code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", exitErr.Code, tt.wantCode)
			}
			if job.Status != StatusFailed {
				t.Errorf("Status = %v, want failed", job.Status)
			}
			if !strings.Contains(stderr.String(), "ERROR:") {
				t.Errorf("stderr not streamed: %q", stderr.String())
			}
		})
	}
}

func TestIntegration_BatchStopsOnExitCode(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	bin := testutil.WriteStub(t, env.PathDir, "yt-dlp", stubScript)

	var stdout bytes.Buffer
	d, err := NewDownloader(Config{
		Runner:  ytdlp.NewClient(bin, ytdlp.WithOutput(&stdout, &bytes.Buffer{})),
		Options: command.DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("NewDownloader: %v", err)
	}

	urls := []string{"https://youtu.be/one", "https://example.com/fail", "https://youtu.be/three"}
	summary, err := d.Batch(context.Background(), urls)

	var exitErr *ytdlp.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("expected ExitError code 1, got %v", err)
	}
	if summary.Completed != 1 || summary.Failed != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if strings.Contains(stdout.String(), "three") {
		t.Error("entry after the failure was downloaded")
	}
}
