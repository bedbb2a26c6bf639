// Package platform detects the host vget runs on.
//
// The detected OS, architecture and C library decide which yt-dlp release
// asset gets installed, and the same information is exposed to Lua
// configurations as a read-only table. Linux distribution details come from
// gopsutil; detection falls back to OS/arch only when they are unavailable.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// C library flavours relevant to Linux binaries.
const (
	LibcGlibc = "glibc"
	LibcMusl  = "musl"
)

// Info contains host detection results.
type Info struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // "amd64", "arm64", "arm", "386" (normalized), else lowercase GOARCH
	ArchRaw  string // original GOARCH
	Platform string // distro ID (Linux only, e.g. "ubuntu", "alpine")
	Family   string // canonical family (e.g. "debian", "alpine")
	Version  string // distro version (Linux only)
	Libc     string // "glibc" or "musl" on Linux, empty elsewhere
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information, or nil off Linux or when distro
// detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsUnix returns true for platforms where executables need the exec bit.
func (i *Info) IsUnix() bool {
	return !i.IsWindows()
}

// IsMusl returns true on Linux hosts linked against musl libc.
func (i *Info) IsMusl() bool {
	return i.IsLinux() && i.Libc == LibcMusl
}

// ExecutableName appends the platform's executable suffix to name.
func (i *Info) ExecutableName(name string) string {
	if i.IsWindows() {
		return name + ".exe"
	}
	return name
}

// String renders the info for status output, e.g. "linux/amd64 (ubuntu 22.04)".
func (i *Info) String() string {
	s := i.OS + "/" + i.Arch
	if d := i.GetDistro(); d != nil {
		s += " (" + d.ID
		if d.Version != "" {
			s += " " + d.Version
		}
		s += ")"
	}
	return s
}

// Detector is the interface for host detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
