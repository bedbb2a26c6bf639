// Package command builds yt-dlp argument lists.
//
// Each source platform has a profile that fixes the order and default values
// of the flags it receives. User options adjust those values without changing
// the order, so the same (platform, URL, options) triple always yields the
// same argument list.
package command

import (
	"fmt"
	"regexp"
	"strings"
)

// Defaults applied by DefaultOptions.
const (
	DefaultOutputDir        = "."
	DefaultOutputTemplate   = "%(title)s.%(ext)s"
	PlaylistOutputTemplate  = "%(playlist_title)s/%(playlist_index)03d - %(title)s.%(ext)s"
	DefaultContainer        = "mp4"
	DefaultAudioFormat      = "mp3"
	DefaultCookiesBrowser   = "firefox"
	DefaultGeoBypassCountry = "JP"
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/95.0.4638.74 Safari/537.36"
)

// Quality keywords accepted in Options.Quality.
const (
	QualityBest  = "best"
	QualityWorst = "worst"
)

// Options is the flat record of user choices that shape a yt-dlp invocation.
type Options struct {
	// OutputDir is the directory downloads are written to.
	OutputDir string
	// OutputTemplate is the yt-dlp filename template inside OutputDir.
	// Ignored when Playlist is set.
	OutputTemplate string

	// AudioOnly extracts the audio track instead of merging video and audio.
	AudioOnly bool
	// AudioFormat is the codec passed to --audio-format when AudioOnly is set.
	AudioFormat string

	// Quality overrides the platform's format selection. It may be empty
	// (platform default), "best", "worst", a height such as "720" or "1080p",
	// or a raw yt-dlp format spec.
	Quality string
	// Container is the merge output format for video downloads.
	Container string

	// CookiesFromBrowser names the browser yt-dlp reads cookies from.
	// Empty disables cookie loading.
	CookiesFromBrowser string
	// GeoBypassCountry is the country code used for geo bypass. Empty disables it.
	GeoBypassCountry string
	// UserAgent is sent for generic sites.
	UserAgent string

	// Playlist downloads every entry of a playlist URL.
	Playlist bool
	// Subtitles downloads and converts all subtitles on generic sites.
	Subtitles bool

	// ExtraArgs are passed to yt-dlp verbatim, just before the URL.
	ExtraArgs []string
}

// DefaultOptions returns the options that reproduce the stock profiles.
func DefaultOptions() Options {
	return Options{
		OutputDir:          DefaultOutputDir,
		OutputTemplate:     DefaultOutputTemplate,
		AudioFormat:        DefaultAudioFormat,
		Container:          DefaultContainer,
		CookiesFromBrowser: DefaultCookiesBrowser,
		GeoBypassCountry:   DefaultGeoBypassCountry,
		UserAgent:          DefaultUserAgent,
		Subtitles:          true,
	}
}

// supportedContainers are the values yt-dlp accepts for --merge-output-format.
var supportedContainers = map[string]bool{
	"avi": true, "flv": true, "mkv": true, "mov": true, "mp4": true, "webm": true,
}

// supportedAudioFormats are the values yt-dlp accepts for --audio-format.
var supportedAudioFormats = map[string]bool{
	"best": true, "aac": true, "alac": true, "flac": true, "m4a": true,
	"mp3": true, "opus": true, "vorbis": true, "wav": true,
}

var (
	heightPattern     = regexp.MustCompile(`^([0-9]{3,4})p?$`)
	formatSpecPattern = regexp.MustCompile(`^[A-Za-z0-9_+/\[\]<>=!*?.:,~^$-]+$`)
	browserPattern    = regexp.MustCompile(`^[a-z][a-z0-9_-]*(:[^\s]+)?$`)
	countryPattern    = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// ValidationError reports an option that cannot be turned into arguments.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

// Validate checks that the options can be rendered into a yt-dlp invocation.
func Validate(o Options) error {
	if strings.TrimSpace(o.OutputDir) == "" {
		return &ValidationError{Field: "output directory", Message: "cannot be empty"}
	}
	if !o.Playlist && strings.TrimSpace(o.OutputTemplate) == "" {
		return &ValidationError{Field: "output template", Message: "cannot be empty"}
	}
	if !supportedContainers[o.Container] {
		return &ValidationError{Field: "container", Message: fmt.Sprintf("unsupported format %q", o.Container)}
	}
	if !supportedAudioFormats[o.AudioFormat] {
		return &ValidationError{Field: "audio format", Message: fmt.Sprintf("unsupported format %q", o.AudioFormat)}
	}
	if o.Quality != "" && !formatSpecPattern.MatchString(o.Quality) {
		return &ValidationError{Field: "quality", Message: fmt.Sprintf("%q is not a height, keyword or format spec", o.Quality)}
	}
	if o.CookiesFromBrowser != "" && !browserPattern.MatchString(o.CookiesFromBrowser) {
		return &ValidationError{Field: "cookie browser", Message: fmt.Sprintf("malformed browser %q", o.CookiesFromBrowser)}
	}
	if o.GeoBypassCountry != "" && !countryPattern.MatchString(o.GeoBypassCountry) {
		return &ValidationError{Field: "geo bypass country", Message: fmt.Sprintf("%q is not a two-letter country code", o.GeoBypassCountry)}
	}
	return nil
}

// resolveQuality turns a Quality value into a format spec.
// raw is true when the value was passed through unchanged.
func resolveQuality(quality string) (spec string, raw bool) {
	q := strings.TrimSpace(quality)
	switch strings.ToLower(q) {
	case QualityBest:
		return "bestvideo+bestaudio/best", false
	case QualityWorst:
		return "worstvideo+worstaudio/worst", false
	}
	if m := heightPattern.FindStringSubmatch(strings.ToLower(q)); m != nil {
		h := m[1]
		return fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best[height<=%s]", h, h), false
	}
	return q, true
}
