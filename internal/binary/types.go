package binary

import (
	"errors"
	"time"
)

// Name is the executable name vget manages.
const Name = "yt-dlp"

// VersionLatest selects the newest release.
const VersionLatest = "latest"

// ErrNotFound is returned when yt-dlp is neither on PATH nor cached.
var ErrNotFound = errors.New("yt-dlp not found on PATH or in the local cache")

// Source describes where a located executable came from.
type Source string

const (
	// SourcePath means the executable was found on PATH.
	SourcePath Source = "path"
	// SourceCache means the executable is vget's cached copy.
	SourceCache Source = "cache"
	// SourceDownload means the executable was installed by this run.
	SourceDownload Source = "download"
)

// String returns the string representation of the source.
func (s Source) String() string {
	return string(s)
}

// Location is a resolved yt-dlp executable.
type Location struct {
	Path    string
	Source  Source
	Version string // empty when not probed
}

// EnsureOptions configures Manager.Ensure.
type EnsureOptions struct {
	// PreferCache skips the PATH lookup so vget's own copy is used.
	PreferCache bool
	// Offline fails instead of downloading when nothing is found.
	Offline bool
	// Install configures the download when one is needed.
	Install InstallOptions
}

// InstallOptions configures Manager.Install.
type InstallOptions struct {
	// Version is a release tag such as "2025.09.26", or "latest" (default).
	Version string
	// Force reinstalls even when a cached executable exists and bypasses
	// the download cache.
	Force bool
	// SkipVerify installs without checksum or signature verification.
	SkipVerify bool
}

// VerificationMethod indicates how a download was verified.
type VerificationMethod int

const (
	// VerificationNone indicates verification was skipped.
	VerificationNone VerificationMethod = iota
	// VerificationSHA256 indicates the SHA-256 checksum matched SHA2-256SUMS.
	VerificationSHA256
	// VerificationGPG indicates the checksum matched and SHA2-256SUMS carried
	// a valid OpenPGP signature.
	VerificationGPG
)

// String returns the string representation of the verification method.
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG+SHA256"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// InstallResult describes a completed installation.
type InstallResult struct {
	Location     Location
	Version      string
	Asset        string
	URL          string
	Verified     VerificationMethod
	DownloadTime time.Duration
	// Skipped is true when a cached executable satisfied the request.
	Skipped bool
}

// DownloadInfo contains the URLs needed to fetch one release asset.
type DownloadInfo struct {
	Version      string
	OS           string
	Arch         string
	Asset        string // release asset name, e.g. "yt-dlp_linux"
	URL          string
	ChecksumURL  string // SHA2-256SUMS
	SignatureURL string // SHA2-256SUMS.sig
}

// VerificationResult contains the outcome of a verification attempt.
type VerificationResult struct {
	Method  VerificationMethod
	Success bool
	Error   error
}

// VerificationError reports a download that failed verification.
type VerificationError struct {
	Asset  string
	Method VerificationMethod
	Err    error
}

func (e *VerificationError) Error() string {
	return "verification of " + e.Asset + " failed (" + e.Method.String() + "): " + e.Err.Error()
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}
