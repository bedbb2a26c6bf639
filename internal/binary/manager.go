package binary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/ZebulonRouseFrantzich/vget/internal/lockfile"
	"github.com/ZebulonRouseFrantzich/vget/internal/logging"
	"github.com/ZebulonRouseFrantzich/vget/internal/platform"
	"github.com/ZebulonRouseFrantzich/vget/internal/ytdlp"
)

// installLockName is the lock file taken in the vget directory during Install.
const installLockName = "install.lock"

// Manager locates, downloads, verifies and installs yt-dlp
type Manager struct {
	vgetDir      string
	binDir       string
	cacheDir     string
	baseURL      string
	platformInfo *platform.Info
	downloader   *Downloader
	verifier     *Verifier
	logger       logging.Logger

	lookPath  func(file string) (string, error)
	newRunner func(bin string) ytdlp.Runner
}

// Config holds configuration for the binary manager
type Config struct {
	// VgetDir is the root vget directory (default: ~/.config/vget)
	VgetDir string
	// PlatformInfo contains OS and architecture information
	PlatformInfo *platform.Info
	// BaseURL overrides the GitHub releases root (mirrors, tests)
	BaseURL string
	// KeyringPath enables OpenPGP verification of SHA2-256SUMS
	KeyringPath string
	// Logger receives progress messages; nil discards them
	Logger logging.Logger
	// NewRunner builds the client used to probe and self-update yt-dlp.
	// Defaults to ytdlp.NewClient.
	NewRunner func(bin string) ytdlp.Runner
}

// NewManager creates a new binary manager
func NewManager(config Config) (*Manager, error) {
	if config.VgetDir == "" {
		return nil, fmt.Errorf("VgetDir is required")
	}

	if config.PlatformInfo == nil {
		return nil, fmt.Errorf("PlatformInfo is required")
	}

	cacheDir := filepath.Join(config.VgetDir, "cache", "downloads")

	newRunner := config.NewRunner
	if newRunner == nil {
		newRunner = func(bin string) ytdlp.Runner { return ytdlp.NewClient(bin) }
	}

	return &Manager{
		vgetDir:      config.VgetDir,
		binDir:       filepath.Join(config.VgetDir, "bin"),
		cacheDir:     cacheDir,
		baseURL:      config.BaseURL,
		platformInfo: config.PlatformInfo,
		downloader:   NewDownloader(cacheDir),
		verifier:     NewVerifier(config.KeyringPath),
		logger:       logging.OrNop(config.Logger),
		lookPath:     exec.LookPath,
		newRunner:    newRunner,
	}, nil
}

// BinaryPath returns the path of vget's cached yt-dlp executable
func (m *Manager) BinaryPath() string {
	return filepath.Join(m.binDir, m.platformInfo.ExecutableName(Name))
}

// IsInstalled checks if the cached executable exists and is executable
func (m *Manager) IsInstalled() (bool, error) {
	return isExecutable(m.BinaryPath())
}

// Locate resolves yt-dlp from PATH, then from the cache.
func (m *Manager) Locate(ctx context.Context) (*Location, error) {
	loc, err := m.locateOnPath(ctx)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		return loc, nil
	}
	return m.locateCached()
}

// locateOnPath returns nil without error when PATH has no working yt-dlp.
func (m *Manager) locateOnPath(ctx context.Context) (*Location, error) {
	path, err := m.lookPath(Name)
	if err != nil {
		m.logger.Debug("yt-dlp not on PATH", "error", err)
		return nil, nil
	}

	version, err := m.newRunner(path).Version(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		m.logger.Warn("ignoring yt-dlp on PATH", "path", path, "error", err)
		return nil, nil
	}

	m.logger.Debug("found yt-dlp on PATH", "path", path, "version", version)
	return &Location{Path: path, Source: SourcePath, Version: version}, nil
}

func (m *Manager) locateCached() (*Location, error) {
	installed, err := m.IsInstalled()
	if err != nil {
		return nil, err
	}
	if !installed {
		return nil, ErrNotFound
	}

	m.logger.Debug("using cached yt-dlp", "path", m.BinaryPath())
	return &Location{Path: m.BinaryPath(), Source: SourceCache}, nil
}

// Ensure returns a usable yt-dlp, installing one when none is found.
func (m *Manager) Ensure(ctx context.Context, opts EnsureOptions) (*Location, error) {
	if !opts.PreferCache {
		loc, err := m.locateOnPath(ctx)
		if err != nil {
			return nil, err
		}
		if loc != nil {
			return loc, nil
		}
	}

	loc, err := m.locateCached()
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if opts.Offline {
		return nil, fmt.Errorf("%w (offline mode, not downloading)", ErrNotFound)
	}

	result, err := m.Install(ctx, opts.Install)
	if err != nil {
		return nil, err
	}
	return &result.Location, nil
}

// Install downloads, verifies, and installs yt-dlp into the bin directory.
// An existing executable is kept unless opts.Force is set.
func (m *Manager) Install(ctx context.Context, opts InstallOptions) (*InstallResult, error) {
	startTime := time.Now()

	if err := ValidateVersion(opts.Version); err != nil {
		return nil, err
	}

	lock, err := lockfile.Acquire(ctx, m.vgetDir, installLockName)
	if err != nil {
		return nil, fmt.Errorf("install yt-dlp: %w", err)
	}
	defer lock.Release()

	dest := m.BinaryPath()

	if !opts.Force {
		installed, err := m.IsInstalled()
		if err != nil {
			return nil, fmt.Errorf("check if installed: %w", err)
		}
		if installed {
			m.logger.Debug("yt-dlp already installed", "path", dest)
			return &InstallResult{
				Location: Location{Path: dest, Source: SourceCache},
				Version:  opts.Version,
				Skipped:  true,
			}, nil
		}
	}

	info, err := constructDownloadInfo(opts.Version, m.baseURL, m.platformInfo)
	if err != nil {
		return nil, fmt.Errorf("construct download info: %w", err)
	}

	m.logger.Info("downloading yt-dlp", "version", info.Version, "asset", info.Asset, "url", info.URL)

	// "latest" moves with every release, so its cached asset and sums are
	// only valid together and both are fetched again.
	refresh := opts.Force || info.Version == VersionLatest

	assetPath, err := m.downloader.DownloadAsset(ctx, info, refresh)
	if err != nil {
		return nil, err
	}

	verified := VerificationNone
	if opts.SkipVerify {
		m.logger.Warn("skipping verification of yt-dlp download", "asset", info.Asset)
	} else {
		verified, err = m.verify(ctx, info, assetPath, refresh)
		if err != nil {
			// Never serve a rejected asset from the cache again
			os.Remove(assetPath)
			return nil, err
		}
	}

	if err := installFile(assetPath, dest); err != nil {
		return nil, fmt.Errorf("install binary: %w", err)
	}

	m.logger.Info("installed yt-dlp", "path", dest, "verified", verified.String())

	return &InstallResult{
		Location:     Location{Path: dest, Source: SourceDownload, Version: info.Version},
		Version:      info.Version,
		Asset:        info.Asset,
		URL:          info.URL,
		Verified:     verified,
		DownloadTime: time.Since(startTime),
	}, nil
}

func (m *Manager) verify(ctx context.Context, info *DownloadInfo, assetPath string, refresh bool) (VerificationMethod, error) {
	method := VerificationSHA256
	if m.verifier.RequiresSignature() {
		method = VerificationGPG
	}

	fail := func(err error) (VerificationMethod, error) {
		return VerificationNone, &VerificationError{Asset: info.Asset, Method: method, Err: err}
	}

	checksumPath, err := m.downloader.DownloadChecksums(ctx, info, refresh)
	if err != nil {
		return fail(err)
	}

	var signaturePath string
	if m.verifier.RequiresSignature() {
		signaturePath, err = m.downloader.DownloadSignature(ctx, info, refresh)
		if err != nil {
			return fail(err)
		}
	}

	result, err := m.verifier.VerifyFile(assetPath, info.Asset, checksumPath, signaturePath)
	if err != nil {
		return fail(err)
	}
	return result.Method, nil
}

// Update brings yt-dlp up to date. A cached copy is reinstalled from the
// release; a copy on PATH updates itself with yt-dlp -U.
func (m *Manager) Update(ctx context.Context, opts InstallOptions) (*Location, error) {
	loc, err := m.Locate(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if loc != nil && loc.Source == SourcePath {
		m.logger.Info("self-updating yt-dlp", "path", loc.Path)
		if err := m.newRunner(loc.Path).SelfUpdate(ctx); err != nil {
			return nil, fmt.Errorf("self-update %s: %w", loc.Path, err)
		}
		return loc, nil
	}

	opts.Force = true
	result, err := m.Install(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &result.Location, nil
}
