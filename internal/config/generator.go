package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Generator generates Lua configuration code from Go structs.
type Generator struct {
	indent string // Indentation string (default: two spaces)
	now    func() time.Time
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
		now:    time.Now,
	}
}

// Generate renders config as a vget.lua that parses back to the same values.
// Every field is written so the file documents all available settings.
func (g *Generator) Generate(config *Config) (string, error) {
	if config == nil {
		return "", fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	o := config.Download
	b := config.Binary

	buf.WriteString("-- vget configuration\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(g.now().Format(time.RFC3339))
	buf.WriteString("\n--\n")
	buf.WriteString("-- A read-only `platform` table is available, e.g.:\n")
	buf.WriteString("--   output_dir = platform.is_windows and \"C:/Videos\" or \"~/Videos\",\n")
	buf.WriteString("-- Command-line flags override these values.\n\n")

	buf.WriteString(luaGlobalVget + " = {\n")

	g.writeComment(&buf, 1, "Where downloads go and how files are named")
	g.writeString(&buf, 1, luaFieldOutputDir, o.OutputDir)
	g.writeString(&buf, 1, luaFieldOutputTemplate, o.OutputTemplate)
	buf.WriteString("\n")

	g.writeComment(&buf, 1, "Format selection: \"\" (per-site default), best, worst, 1080, 720p or a yt-dlp format spec")
	g.writeString(&buf, 1, luaFieldQuality, o.Quality)
	g.writeString(&buf, 1, luaFieldContainer, o.Container)
	g.writeBool(&buf, 1, luaFieldAudioOnly, o.AudioOnly)
	g.writeString(&buf, 1, luaFieldAudioFormat, o.AudioFormat)
	buf.WriteString("\n")

	g.writeComment(&buf, 1, "Set to \"\" to disable")
	g.writeString(&buf, 1, luaFieldCookiesBrowser, o.CookiesFromBrowser)
	g.writeString(&buf, 1, luaFieldGeoBypassCountry, o.GeoBypassCountry)
	g.writeString(&buf, 1, luaFieldUserAgent, o.UserAgent)
	buf.WriteString("\n")

	g.writeBool(&buf, 1, luaFieldPlaylist, o.Playlist)
	g.writeBool(&buf, 1, luaFieldSubtitles, o.Subtitles)
	g.writeList(&buf, 1, luaFieldExtraArgs, o.ExtraArgs)
	buf.WriteString("\n")

	g.writeLine(&buf, 1, luaFieldBinary+" = {")
	g.writeString(&buf, 2, luaFieldBinaryVersion, b.Version)
	if b.BaseURL != "" {
		g.writeString(&buf, 2, luaFieldBinaryBaseURL, b.BaseURL)
	} else {
		g.writeComment(&buf, 2, luaFieldBinaryBaseURL+" = \"https://github.com/yt-dlp/yt-dlp/releases\",")
	}
	if b.Keyring != "" {
		g.writeString(&buf, 2, luaFieldBinaryKeyring, b.Keyring)
	} else {
		g.writeComment(&buf, 2, luaFieldBinaryKeyring+" = \"~/.config/vget/keyrings/yt-dlp.asc\",")
	}
	g.writeBool(&buf, 2, luaFieldBinarySkipVerify, b.SkipVerify)
	g.writeBool(&buf, 2, luaFieldBinaryPreferCache, b.PreferCache)
	g.writeLine(&buf, 1, "},")

	buf.WriteString("}\n")

	return buf.String(), nil
}

func (g *Generator) writeLine(buf *bytes.Buffer, depth int, line string) {
	buf.WriteString(strings.Repeat(g.indent, depth))
	buf.WriteString(line)
	buf.WriteString("\n")
}

func (g *Generator) writeComment(buf *bytes.Buffer, depth int, text string) {
	g.writeLine(buf, depth, "-- "+text)
}

func (g *Generator) writeString(buf *bytes.Buffer, depth int, field, value string) {
	g.writeLine(buf, depth, field+" = "+g.quoteLuaString(value)+",")
}

func (g *Generator) writeBool(buf *bytes.Buffer, depth int, field string, value bool) {
	g.writeLine(buf, depth, fmt.Sprintf("%s = %t,", field, value))
}

func (g *Generator) writeList(buf *bytes.Buffer, depth int, field string, values []string) {
	if len(values) == 0 {
		g.writeLine(buf, depth, field+" = {},")
		return
	}

	g.writeLine(buf, depth, field+" = {")
	for _, v := range values {
		g.writeLine(buf, depth+1, g.quoteLuaString(v)+",")
	}
	g.writeLine(buf, depth, "},")
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
