// Package source classifies media URLs by the site that hosts them.
//
// The classification drives which yt-dlp arguments vget builds for a URL.
// It is a pure function of the URL string: no network access is performed.
package source

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform identifies the site a media URL belongs to.
type Platform int

const (
	// Generic is any site without a dedicated profile.
	Generic Platform = iota
	// Twitch covers twitch.tv VODs, clips and live streams.
	Twitch
	// YouTube covers youtube.com, youtu.be and the no-cookie embed domain.
	YouTube
	// Twitter covers twitter.com and x.com.
	Twitter
)

// String returns the lowercase name of the platform.
func (p Platform) String() string {
	switch p {
	case Twitch:
		return "twitch"
	case YouTube:
		return "youtube"
	case Twitter:
		return "twitter"
	case Generic:
		return "generic"
	default:
		return "unknown"
	}
}

// BestEffort reports whether downloads from this platform may not reach the
// highest available quality.
func (p Platform) BestEffort() bool {
	return p == Generic
}

// Platforms returns every platform in detection priority order, Generic last.
func Platforms() []Platform {
	return []Platform{Twitch, YouTube, Twitter, Generic}
}

// Parse maps a platform name back to a Platform.
func Parse(name string) (Platform, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "x" {
		return Twitter, nil
	}
	for _, p := range Platforms() {
		if p.String() == normalized {
			return p, nil
		}
	}
	return Generic, fmt.Errorf("unknown platform %q (expected one of: twitch, youtube, twitter, generic)", name)
}

// rule binds a platform to the domains that identify it.
type rule struct {
	platform Platform
	domains  []string
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{platform: Twitch, domains: []string{"twitch.tv"}},
	{platform: YouTube, domains: []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}},
	{platform: Twitter, domains: []string{"twitter.com", "x.com"}},
}

// Detect returns the platform a URL belongs to.
//
// When a host can be extracted, a platform matches if the host equals one of
// its domains or is a subdomain of it, so "netflix.com" is not mistaken for
// "x.com". Inputs without a usable host fall back to substring matching.
func Detect(rawURL string) Platform {
	input := strings.ToLower(strings.TrimSpace(rawURL))
	if input == "" {
		return Generic
	}

	if host := hostOf(input); host != "" {
		for _, r := range rules {
			for _, d := range r.domains {
				if host == d || strings.HasSuffix(host, "."+d) {
					return r.platform
				}
			}
		}
		return Generic
	}

	for _, r := range rules {
		for _, d := range r.domains {
			if strings.Contains(input, d) {
				return r.platform
			}
		}
	}
	return Generic
}

// hostOf extracts the lowercase host of a URL, tolerating a missing scheme.
// It returns "" when the input has no recognizable host.
func hostOf(input string) string {
	candidate := input
	if !strings.Contains(candidate, "://") {
		if strings.HasPrefix(candidate, "/") || strings.ContainsAny(candidate, " \t") {
			return ""
		}
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return ""
	}

	host := strings.TrimSuffix(u.Hostname(), ".")
	if host == "" || !strings.Contains(host, ".") {
		return ""
	}
	return host
}
