package config

import "time"

// Lua schema field names and globals
const (
	luaGlobalVget             = "vget"
	luaFieldOutputDir         = "output_dir"
	luaFieldOutputTemplate    = "output_template"
	luaFieldAudioOnly         = "audio_only"
	luaFieldAudioFormat       = "audio_format"
	luaFieldQuality           = "quality"
	luaFieldContainer         = "container"
	luaFieldCookiesBrowser    = "cookies_from_browser"
	luaFieldGeoBypassCountry  = "geo_bypass_country"
	luaFieldUserAgent         = "user_agent"
	luaFieldPlaylist          = "playlist"
	luaFieldSubtitles         = "subtitles"
	luaFieldExtraArgs         = "extra_args"
	luaFieldBinary            = "binary"
	luaFieldBinaryVersion     = "version"
	luaFieldBinaryBaseURL     = "base_url"
	luaFieldBinaryKeyring     = "keyring"
	luaFieldBinarySkipVerify  = "skip_verify"
	luaFieldBinaryPreferCache = "prefer_cache"
)

// Resource limits for user configs
const (
	// MaxConfigSize is the largest vget.lua accepted.
	MaxConfigSize = 1 << 20
	// MaxExtraArgs caps the extra_args list.
	MaxExtraArgs = 256
	// DefaultParseTimeout applies when the context has no deadline.
	DefaultParseTimeout = 5 * time.Second
)

// Filesystem layout
const (
	// EnvDir overrides the vget directory.
	EnvDir = "VGET_DIR"
	// FileName is the config file inside the vget directory.
	FileName = "vget.lua"
)
