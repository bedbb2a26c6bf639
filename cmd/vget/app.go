package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/vget/internal/binary"
	"github.com/ZebulonRouseFrantzich/vget/internal/config"
	"github.com/ZebulonRouseFrantzich/vget/internal/logging"
	"github.com/ZebulonRouseFrantzich/vget/internal/platform"
	"github.com/ZebulonRouseFrantzich/vget/internal/ytdlp"
)

// app carries the process-wide state shared by every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// set by persistent flags
	configPath string
	verbose    bool

	detector platform.Detector
	logger   logging.Logger
	sync     func() error
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		detector: platform.NewDetector(),
		logger:   logging.Nop(),
		sync:     func() error { return nil },
	}
}

// setupLogger replaces the no-op logger once --verbose has been parsed.
func (a *app) setupLogger() {
	a.logger, a.sync = logging.New(logging.Options{
		Verbose: a.verbose,
		Output:  a.stderr,
	})
}

// resolveConfigPath returns --config or the default location.
func (a *app) resolveConfigPath() (string, error) {
	if a.configPath != "" {
		return config.ExpandPath(a.configPath)
	}
	return config.Path()
}

// loadConfig parses vget.lua. A missing file yields the defaults.
func (a *app) loadConfig(ctx context.Context) (*config.Config, error) {
	path, err := a.resolveConfigPath()
	if err != nil {
		return nil, err
	}

	parser := config.NewParser(a.detector).WithLogger(a.logger)
	cfg, err := parser.ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %s", path, config.FormatError(err, a.verbose))
	}
	return cfg, nil
}

// newRunner builds a yt-dlp client streaming to the app's terminal.
func (a *app) newRunner(bin string) ytdlp.Runner {
	return ytdlp.NewClient(bin, ytdlp.WithOutput(a.stdout, a.stderr), ytdlp.WithStdin(a.stdin))
}

// newManager creates the binary manager for the vget directory.
func (a *app) newManager(ctx context.Context, cfg *config.Config) (*binary.Manager, error) {
	vgetDir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	info, err := a.detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}
	a.logger.Debug("detected platform", "platform", info.String())

	keyring := cfg.Binary.Keyring
	if keyring != "" && !filepath.IsAbs(keyring) {
		keyring = filepath.Join(vgetDir, "keyrings", keyring)
	}

	return binary.NewManager(binary.Config{
		VgetDir:      vgetDir,
		PlatformInfo: info,
		BaseURL:      cfg.Binary.BaseURL,
		KeyringPath:  keyring,
		Logger:       logging.With(a.logger, "component", "binary"),
		NewRunner:    a.newRunner,
	})
}

// installOptions maps the binary settings from vget.lua.
func installOptions(cfg *config.Config) binary.InstallOptions {
	return binary.InstallOptions{
		Version:    cfg.Binary.Version,
		SkipVerify: cfg.Binary.SkipVerify,
	}
}
