package binary

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ZebulonRouseFrantzich/vget/internal/platform"
)

// DefaultBaseURL is the yt-dlp GitHub releases root.
const DefaultBaseURL = "https://github.com/yt-dlp/yt-dlp/releases"

// Release metadata files published next to every yt-dlp asset.
const (
	ChecksumFile  = "SHA2-256SUMS"
	SignatureFile = "SHA2-256SUMS.sig"
)

// ErrInvalidVersion is returned for a version that is neither "latest" nor
// a yt-dlp release tag.
var ErrInvalidVersion = errors.New("invalid yt-dlp version")

// versionPattern matches yt-dlp release tags such as 2025.09.26 or 2025.09.26.232603
var versionPattern = regexp.MustCompile(`^[0-9]{4}\.[0-9]{2}\.[0-9]{2}(\.[0-9]+)?$`)

// ValidateVersion accepts "", "latest" or a release tag. The version becomes
// a URL path segment and a cache directory name, so nothing else is allowed.
func ValidateVersion(version string) error {
	if version == "" || version == VersionLatest || versionPattern.MatchString(version) {
		return nil
	}
	return fmt.Errorf("%w %q (expected: latest or YYYY.MM.DD)", ErrInvalidVersion, version)
}

// constructDownloadInfo builds download URLs for the asset matching the host.
//
//	latest:  {base}/latest/download/{asset}
//	tagged:  {base}/download/{version}/{asset}
func constructDownloadInfo(version, baseURL string, platformInfo *platform.Info) (*DownloadInfo, error) {
	if platformInfo == nil {
		return nil, fmt.Errorf("platform info is required")
	}

	if err := ValidateVersion(version); err != nil {
		return nil, err
	}
	if version == "" {
		version = VersionLatest
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	asset, err := assetName(platformInfo)
	if err != nil {
		return nil, err
	}

	var dir string
	if version == VersionLatest {
		dir = baseURL + "/latest/download"
	} else {
		dir = fmt.Sprintf("%s/download/%s", baseURL, version)
	}

	return &DownloadInfo{
		Version:      version,
		OS:           platformInfo.OS,
		Arch:         platformInfo.Arch,
		Asset:        asset,
		URL:          dir + "/" + asset,
		ChecksumURL:  dir + "/" + ChecksumFile,
		SignatureURL: dir + "/" + SignatureFile,
	}, nil
}

// assetName maps the host to the standalone yt-dlp build published for it.
func assetName(info *platform.Info) (string, error) {
	switch info.OS {
	case "windows":
		switch info.Arch {
		case "amd64":
			return "yt-dlp.exe", nil
		case "386":
			return "yt-dlp_x86.exe", nil
		case "arm64":
			return "yt-dlp_arm64.exe", nil
		}
	case "darwin":
		// Universal binary covers Intel and Apple Silicon.
		if info.Arch == "amd64" || info.Arch == "arm64" {
			return "yt-dlp_macos", nil
		}
	case "linux":
		switch info.Arch {
		case "amd64":
			if info.IsMusl() {
				return "yt-dlp_musllinux", nil
			}
			return "yt-dlp_linux", nil
		case "arm64":
			if info.IsMusl() {
				return "yt-dlp_musllinux_aarch64", nil
			}
			return "yt-dlp_linux_aarch64", nil
		case "arm":
			return "yt-dlp_linux_armv7l", nil
		}
	}

	return "", fmt.Errorf("no yt-dlp build for %s/%s", info.OS, info.Arch)
}
