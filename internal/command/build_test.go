package command

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ZebulonRouseFrantzich/vget/internal/source"
)

const testURL = "https://example.test/watch?v=1"

func TestBuild_DefaultProfiles(t *testing.T) {
	out := "%(title)s.%(ext)s"

	tests := []struct {
		name     string
		platform source.Platform
		want     []string
	}{
		{
			name:     "twitch",
			platform: source.Twitch,
			want: []string{
				"-f", "1080p60+bestaudio",
				"--merge-output-format", "mp4",
				"--embed-thumbnail",
				"--add-metadata",
				"--output", out,
				testURL,
			},
		},
		{
			name:     "youtube",
			platform: source.YouTube,
			want: []string{
				"--cookies-from-browser", "firefox",
				"-4",
				"-f", "bestvideo+bestaudio",
				"--merge-output-format", "mp4",
				"--embed-thumbnail",
				"--add-metadata",
				"--geo-bypass-country", "JP",
				"--output", out,
				testURL,
			},
		},
		{
			name:     "twitter",
			platform: source.Twitter,
			want: []string{
				"--merge-output-format", "mp4",
				"--embed-thumbnail",
				"--add-metadata",
				"--output", out,
				testURL,
			},
		},
		{
			name:     "generic",
			platform: source.Generic,
			want: []string{
				"--merge-output-format", "mp4",
				"--output", out,
				"--embed-thumbnail",
				"--add-metadata",
				"--geo-bypass-country", "JP",
				"-f", "bestvideo+bestaudio/best",
				"--no-playlist",
				"--cookies-from-browser", "firefox",
				"--user-agent", DefaultUserAgent,
				"--write-sub",
				"--sub-lang", "all",
				"--sub-format", "best",
				"--convert-subs", "srt",
				"--ignore-errors",
				testURL,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.platform, testURL, DefaultOptions())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Build() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_Options(t *testing.T) {
	downloads := filepath.Join("home", "me", "Downloads")
	withDir := func(name string) string { return filepath.Join(downloads, name) }

	tests := []struct {
		name     string
		platform source.Platform
		modify   func(o *Options)
		want     []string
	}{
		{
			name:     "youtube audio only",
			platform: source.YouTube,
			modify: func(o *Options) {
				o.AudioOnly = true
				o.OutputDir = downloads
			},
			want: []string{
				"--cookies-from-browser", "firefox",
				"-4",
				"-f", "bestaudio/best",
				"-x", "--audio-format", "mp3",
				"--embed-thumbnail",
				"--add-metadata",
				"--geo-bypass-country", "JP",
				"--output", withDir("%(title)s.%(ext)s"),
				testURL,
			},
		},
		{
			name:     "youtube height quality without cookies or geo bypass",
			platform: source.YouTube,
			modify: func(o *Options) {
				o.Quality = "720p"
				o.CookiesFromBrowser = ""
				o.GeoBypassCountry = ""
			},
			want: []string{
				"-4",
				"-f", "bestvideo[height<=720]+bestaudio/best[height<=720]",
				"--merge-output-format", "mp4",
				"--embed-thumbnail",
				"--add-metadata",
				"--output", "%(title)s.%(ext)s",
				testURL,
			},
		},
		{
			name:     "youtube playlist",
			platform: source.YouTube,
			modify: func(o *Options) {
				o.Playlist = true
				o.CookiesFromBrowser = "chrome"
				o.OutputDir = downloads
			},
			want: []string{
				"--cookies-from-browser", "chrome",
				"-4",
				"-f", "bestvideo+bestaudio",
				"--merge-output-format", "mp4",
				"--embed-thumbnail",
				"--add-metadata",
				"--geo-bypass-country", "JP",
				"--output", withDir("%(playlist_title)s/%(playlist_index)03d - %(title)s.%(ext)s"),
				"--yes-playlist",
				testURL,
			},
		},
		{
			name:     "twitch best quality mkv",
			platform: source.Twitch,
			modify: func(o *Options) {
				o.Quality = "best"
				o.Container = "mkv"
			},
			want: []string{
				"-f", "bestvideo+bestaudio/best",
				"--merge-output-format", "mkv",
				"--embed-thumbnail",
				"--add-metadata",
				"--output", "%(title)s.%(ext)s",
				testURL,
			},
		},
		{
			name:     "twitch raw format id",
			platform: source.Twitch,
			modify:   func(o *Options) { o.Quality = "720p60" },
			want: []string{
				"-f", "720p60",
				"--merge-output-format", "mp4",
				"--embed-thumbnail",
				"--add-metadata",
				"--output", "%(title)s.%(ext)s",
				testURL,
			},
		},
		{
			name:     "twitter quality adds format first",
			platform: source.Twitter,
			modify:   func(o *Options) { o.Quality = "worst" },
			want: []string{
				"-f", "worstvideo+worstaudio/worst",
				"--merge-output-format", "mp4",
				"--embed-thumbnail",
				"--add-metadata",
				"--output", "%(title)s.%(ext)s",
				testURL,
			},
		},
		{
			name:     "twitter audio only",
			platform: source.Twitter,
			modify: func(o *Options) {
				o.AudioOnly = true
				o.AudioFormat = "m4a"
			},
			want: []string{
				"-f", "bestaudio/best",
				"-x", "--audio-format", "m4a",
				"--embed-thumbnail",
				"--add-metadata",
				"--output", "%(title)s.%(ext)s",
				testURL,
			},
		},
		{
			name:     "audio only keeps raw format spec",
			platform: source.Twitch,
			modify: func(o *Options) {
				o.AudioOnly = true
				o.Quality = "audio_only"
			},
			want: []string{
				"-f", "audio_only",
				"-x", "--audio-format", "mp3",
				"--embed-thumbnail",
				"--add-metadata",
				"--output", "%(title)s.%(ext)s",
				testURL,
			},
		},
		{
			name:     "generic audio only drops subtitles",
			platform: source.Generic,
			modify:   func(o *Options) { o.AudioOnly = true },
			want: []string{
				"-x", "--audio-format", "mp3",
				"--output", "%(title)s.%(ext)s",
				"--embed-thumbnail",
				"--add-metadata",
				"--geo-bypass-country", "JP",
				"-f", "bestaudio/best",
				"--no-playlist",
				"--cookies-from-browser", "firefox",
				"--user-agent", DefaultUserAgent,
				"--ignore-errors",
				testURL,
			},
		},
		{
			name:     "generic playlist without subtitles",
			platform: source.Generic,
			modify: func(o *Options) {
				o.Playlist = true
				o.Subtitles = false
				o.UserAgent = ""
			},
			want: []string{
				"--merge-output-format", "mp4",
				"--output", "%(playlist_title)s/%(playlist_index)03d - %(title)s.%(ext)s",
				"--embed-thumbnail",
				"--add-metadata",
				"--geo-bypass-country", "JP",
				"-f", "bestvideo+bestaudio/best",
				"--cookies-from-browser", "firefox",
				"--ignore-errors",
				"--yes-playlist",
				testURL,
			},
		},
		{
			name:     "extra args precede url",
			platform: source.Twitter,
			modify: func(o *Options) {
				o.ExtraArgs = []string{"--limit-rate", "2M"}
				o.OutputTemplate = "%(id)s.%(ext)s"
			},
			want: []string{
				"--merge-output-format", "mp4",
				"--embed-thumbnail",
				"--add-metadata",
				"--output", "%(id)s.%(ext)s",
				"--limit-rate", "2M",
				testURL,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			got := Build(tt.platform, testURL, opts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Build() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.Quality = "1080"
	opts.ExtraArgs = []string{"--no-mtime"}

	for _, p := range source.Platforms() {
		first := Build(p, testURL, opts)
		second := Build(p, testURL, opts)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Build(%v) not deterministic:\n%s", p, diff)
		}
		if first[len(first)-1] != testURL {
			t.Errorf("Build(%v) last arg = %q, want URL", p, first[len(first)-1])
		}
	}
}

func TestBuild_DoesNotAliasExtraArgs(t *testing.T) {
	extra := make([]string, 1, 4)
	extra[0] = "--no-mtime"
	opts := DefaultOptions()
	opts.ExtraArgs = extra

	args := Build(source.Twitter, testURL, opts)
	args[len(args)-1] = "mutated"

	if extra[0] != "--no-mtime" {
		t.Errorf("ExtraArgs mutated: %v", extra)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "zero options", opts: Options{}, want: "%(title)s.%(ext)s"},
		{name: "custom dir", opts: Options{OutputDir: "videos"}, want: filepath.Join("videos", "%(title)s.%(ext)s")},
		{name: "playlist ignores template", opts: Options{OutputDir: "v", OutputTemplate: "x", Playlist: true}, want: filepath.Join("v", PlaylistOutputTemplate)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.opts); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveQuality(t *testing.T) {
	tests := []struct {
		quality string
		want    string
		raw     bool
	}{
		{"best", "bestvideo+bestaudio/best", false},
		{"BEST", "bestvideo+bestaudio/best", false},
		{"worst", "worstvideo+worstaudio/worst", false},
		{"1080", "bestvideo[height<=1080]+bestaudio/best[height<=1080]", false},
		{"2160p", "bestvideo[height<=2160]+bestaudio/best[height<=2160]", false},
		{"480P", "bestvideo[height<=480]+bestaudio/best[height<=480]", false},
		{"1080p60", "1080p60", true},
		{"bv*+ba/b", "bv*+ba/b", true},
		{"22", "22", true},
	}

	for _, tt := range tests {
		t.Run(tt.quality, func(t *testing.T) {
			got, raw := resolveQuality(tt.quality)
			if got != tt.want || raw != tt.raw {
				t.Errorf("resolveQuality(%q) = (%q, %v), want (%q, %v)", tt.quality, got, raw, tt.want, tt.raw)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(o *Options)
		wantField string
	}{
		{name: "defaults", modify: func(o *Options) {}},
		{name: "raw format spec", modify: func(o *Options) { o.Quality = "bv*[height<=1080][ext=mp4]+ba/b" }},
		{name: "browser with profile", modify: func(o *Options) { o.CookiesFromBrowser = "firefox:default-release" }},
		{name: "empty output dir", modify: func(o *Options) { o.OutputDir = " " }, wantField: "output directory"},
		{name: "empty template", modify: func(o *Options) { o.OutputTemplate = "" }, wantField: "output template"},
		{name: "empty template with playlist", modify: func(o *Options) { o.OutputTemplate = ""; o.Playlist = true }},
		{name: "bad container", modify: func(o *Options) { o.Container = "exe" }, wantField: "container"},
		{name: "bad audio format", modify: func(o *Options) { o.AudioFormat = "wma" }, wantField: "audio format"},
		{name: "quality with spaces", modify: func(o *Options) { o.Quality = "best; rm -rf" }, wantField: "quality"},
		{name: "bad browser", modify: func(o *Options) { o.CookiesFromBrowser = "Fire Fox" }, wantField: "cookie browser"},
		{name: "bad country", modify: func(o *Options) { o.GeoBypassCountry = "JPN" }, wantField: "geo bypass country"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			err := Validate(opts)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			verr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}
