package command

import (
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/vget/internal/source"
)

// Platform default format selectors.
const (
	twitchFormat  = "1080p60+bestaudio"
	youtubeFormat = "bestvideo+bestaudio"
	genericFormat = "bestvideo+bestaudio/best"
	audioFormat   = "bestaudio/best"
)

// Build returns the yt-dlp arguments for downloading url from platform p.
// The URL is always the last argument. Build does not validate o; call
// Validate first when the options come from user input.
func Build(p source.Platform, url string, o Options) []string {
	b := &builder{opts: o}

	switch p {
	case source.Twitch:
		b.format(twitchFormat)
		b.container()
		b.metadata()
		b.output()
	case source.YouTube:
		b.cookies()
		b.add("-4")
		b.format(youtubeFormat)
		b.container()
		b.metadata()
		b.geoBypass()
		b.output()
	case source.Twitter:
		b.format("")
		b.container()
		b.metadata()
		b.output()
	default:
		b.container()
		b.output()
		b.metadata()
		b.geoBypass()
		b.format(genericFormat)
		if !o.Playlist {
			b.add("--no-playlist")
		}
		b.cookies()
		if o.UserAgent != "" {
			b.add("--user-agent", o.UserAgent)
		}
		if o.Subtitles && !o.AudioOnly {
			b.add("--write-sub", "--sub-lang", "all", "--sub-format", "best", "--convert-subs", "srt")
		}
		b.add("--ignore-errors")
	}

	if o.Playlist {
		b.add("--yes-playlist")
	}
	b.add(o.ExtraArgs...)
	b.add(url)

	return b.args
}

// OutputPath returns the --output value for o.
func OutputPath(o Options) string {
	dir := o.OutputDir
	if dir == "" {
		dir = DefaultOutputDir
	}
	template := o.OutputTemplate
	if o.Playlist {
		template = PlaylistOutputTemplate
	} else if template == "" {
		template = DefaultOutputTemplate
	}
	return filepath.Join(dir, template)
}

// builder accumulates arguments for one invocation.
type builder struct {
	opts Options
	args []string
}

func (b *builder) add(args ...string) {
	b.args = append(b.args, args...)
}

// format adds -f with the effective format selector. An empty platform
// default means the platform lets yt-dlp choose unless the user asked for
// something specific.
func (b *builder) format(platformDefault string) {
	spec := platformDefault
	if b.opts.Quality != "" {
		resolved, raw := resolveQuality(b.opts.Quality)
		switch {
		case raw || !b.opts.AudioOnly:
			spec = resolved
		default:
			spec = audioFormat
		}
	} else if b.opts.AudioOnly {
		spec = audioFormat
	}

	if spec != "" {
		b.add("-f", spec)
	}
}

// container selects between merging into a video container and extracting audio.
func (b *builder) container() {
	if b.opts.AudioOnly {
		format := b.opts.AudioFormat
		if format == "" {
			format = DefaultAudioFormat
		}
		b.add("-x", "--audio-format", format)
		return
	}
	container := b.opts.Container
	if container == "" {
		container = DefaultContainer
	}
	b.add("--merge-output-format", container)
}

func (b *builder) metadata() {
	b.add("--embed-thumbnail", "--add-metadata")
}

func (b *builder) cookies() {
	if b.opts.CookiesFromBrowser != "" {
		b.add("--cookies-from-browser", b.opts.CookiesFromBrowser)
	}
}

func (b *builder) geoBypass() {
	if b.opts.GeoBypassCountry != "" {
		b.add("--geo-bypass-country", b.opts.GeoBypassCountry)
	}
}

func (b *builder) output() {
	b.add("--output", OutputPath(b.opts))
}
