package platform

import (
	"fmt"
	"strings"
)

// familyMap maps distribution names to their canonical family names.
// gopsutil reports the family for most distributions, but a few report
// the distro ID instead.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

// normalizeArch converts GOARCH values (and their uname spellings) to the
// architectures yt-dlp publishes binaries for.
func normalizeArch(arch string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arch)) {
	case "amd64", "x86_64":
		return "amd64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	case "arm", "armv7l", "armv7":
		return "arm", nil
	case "386", "i386", "i686", "x86":
		return "386", nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", arch)
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}

// detectLibc decides the C library from distro details and whether a musl
// dynamic loader is present.
func detectLibc(platform, family string, muslLoader bool) string {
	if family == FamilyAlpine || platform == "alpine" || muslLoader {
		return LibcMusl
	}
	return LibcGlibc
}
