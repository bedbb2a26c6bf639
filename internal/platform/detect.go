package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// muslLoaderGlob matches the musl dynamic loader on Linux.
const muslLoaderGlob = "/lib/ld-musl-*.so.1"

// RealDetector implements Detector using actual platform detection.
type RealDetector struct {
	goos   string
	goarch string
	// hasMuslLoader is swapped in tests.
	hasMuslLoader func() bool
}

// NewDetector creates a detector for the running host.
func NewDetector() Detector {
	return &RealDetector{
		goos:          runtime.GOOS,
		goarch:        runtime.GOARCH,
		hasMuslLoader: muslLoaderPresent,
	}
}

// Detect performs platform detection and returns platform information.
// OS and architecture come from the Go runtime. On Linux, gopsutil supplies
// distribution details; if that fails the distro fields stay empty and
// detection still succeeds, unless ctx was cancelled.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      d.goos,
		ArchRaw: d.goarch,
	}

	// Hosts without a published yt-dlp build keep their raw arch; only
	// installing a release fails there, a yt-dlp on PATH still works.
	arch, err := normalizeArch(d.goarch)
	if err != nil {
		arch = strings.ToLower(strings.TrimSpace(d.goarch))
	}
	info.Arch = arch

	if d.goos != "linux" {
		return info, nil
	}

	musl := d.hasMuslLoader != nil && d.hasMuslLoader()

	platform, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		info.Libc = detectLibc("", "", musl)
		return info, nil
	}

	platform = normalizePlatform(platform)
	if platform != "" {
		info.Platform = platform
		info.Family = mapFamily(family)
		if info.Family == FamilyUnknown {
			info.Family = mapFamily(platform)
		}
		info.Version = normalizePlatform(version)
	}
	info.Libc = detectLibc(info.Platform, info.Family, musl)

	return info, nil
}

func muslLoaderPresent() bool {
	matches, err := filepath.Glob(muslLoaderGlob)
	return err == nil && len(matches) > 0
}

// StaticDetector returns a fixed Info. Tests in other packages use it, and
// callers can wrap an Info they already detected.
type StaticDetector struct {
	Info *Info
	Err  error
}

// Detect returns the configured Info and error.
func (s *StaticDetector) Detect(ctx context.Context) (*Info, error) {
	return s.Info, s.Err
}
