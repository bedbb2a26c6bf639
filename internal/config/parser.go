package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZebulonRouseFrantzich/vget/internal/logging"
	"github.com/ZebulonRouseFrantzich/vget/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
	logger   logging.Logger
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform table undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector, logger: logging.Nop()}
}

// WithLogger sets the logger used for parse diagnostics.
func (p *Parser) WithLogger(l logging.Logger) *Parser {
	p.logger = logging.OrNop(l)
	return p
}

// ParseFile parses the config at path. A missing file yields Default().
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.logger.Debug("no config file, using defaults", "path", path)
			return Default(), nil
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}

	if info.Size() > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", path, info.Size(), MaxConfigSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	p.logger.Debug("parsing config", "path", path)
	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if len(luaCode) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config too large",
			Detail:  fmt.Sprintf("%d bytes, maximum is %d", len(luaCode), MaxConfigSize),
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	// Detect platform and inject platform table
	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ParseError{Message: "config evaluation aborted", Detail: ctxErr.Error()}
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "vget" table over the defaults.
func extractConfig(L *lua.LState) (*Config, error) {
	vgetTable := L.GetGlobal(luaGlobalVget)
	if vgetTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'vget' table",
			Detail:  fmt.Sprintf("expected table, got %s", vgetTable.Type()),
		}
	}

	config := Default()
	table := vgetTable.(*lua.LTable)
	o := &config.Download

	fields := []error{
		getString(table, "", luaFieldOutputDir, &o.OutputDir),
		getString(table, "", luaFieldOutputTemplate, &o.OutputTemplate),
		getBool(table, "", luaFieldAudioOnly, &o.AudioOnly),
		getString(table, "", luaFieldAudioFormat, &o.AudioFormat),
		getString(table, "", luaFieldQuality, &o.Quality),
		getString(table, "", luaFieldContainer, &o.Container),
		getString(table, "", luaFieldCookiesBrowser, &o.CookiesFromBrowser),
		getString(table, "", luaFieldGeoBypassCountry, &o.GeoBypassCountry),
		getString(table, "", luaFieldUserAgent, &o.UserAgent),
		getBool(table, "", luaFieldPlaylist, &o.Playlist),
		getBool(table, "", luaFieldSubtitles, &o.Subtitles),
		getStringList(table, luaFieldExtraArgs, &o.ExtraArgs),
	}

	if binVal := table.RawGetString(luaFieldBinary); binVal.Type() == lua.LTTable {
		bin := binVal.(*lua.LTable)
		b := &config.Binary
		fields = append(fields,
			getString(bin, luaFieldBinary, luaFieldBinaryVersion, &b.Version),
			getString(bin, luaFieldBinary, luaFieldBinaryBaseURL, &b.BaseURL),
			getString(bin, luaFieldBinary, luaFieldBinaryKeyring, &b.Keyring),
			getBool(bin, luaFieldBinary, luaFieldBinarySkipVerify, &b.SkipVerify),
			getBool(bin, luaFieldBinary, luaFieldBinaryPreferCache, &b.PreferCache),
		)
	} else if binVal.Type() != lua.LTNil {
		fields = append(fields, typeError("", luaFieldBinary, "table", binVal))
	}

	for _, err := range fields {
		if err != nil {
			return nil, err
		}
	}

	if strings.HasPrefix(o.OutputDir, "~") {
		dir, err := ExpandPath(o.OutputDir)
		if err != nil {
			return nil, err
		}
		o.OutputDir = dir
	}
	if config.Binary.Keyring != "" {
		keyring, err := ExpandPath(config.Binary.Keyring)
		if err != nil {
			return nil, err
		}
		config.Binary.Keyring = keyring
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func fieldName(parent, field string) string {
	if parent == "" {
		return field
	}
	return parent + "." + field
}

func typeError(parent, field, want string, got lua.LValue) error {
	return &ValidationError{
		Field:   fieldName(parent, field),
		Message: fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

// getString copies a string field into dst. nil leaves dst unchanged.
func getString(table *lua.LTable, parent, field string, dst *string) error {
	switch v := table.RawGetString(field); v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTString:
		*dst = v.String()
		return nil
	default:
		return typeError(parent, field, "string", v)
	}
}

// getBool copies a boolean field into dst. nil leaves dst unchanged.
func getBool(table *lua.LTable, parent, field string, dst *bool) error {
	switch v := table.RawGetString(field); v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTBool:
		*dst = bool(v.(lua.LBool))
		return nil
	default:
		return typeError(parent, field, "boolean", v)
	}
}

// getStringList reads an array of strings. Holes left by platform
// conditionals (platform.is_linux and "x" or nil) are skipped.
func getStringList(table *lua.LTable, field string, dst *[]string) error {
	v := table.RawGetString(field)
	if v.Type() == lua.LTNil {
		return nil
	}
	list, ok := v.(*lua.LTable)
	if !ok {
		return typeError("", field, "list of strings", v)
	}

	var out []string
	var bad lua.LValue
	for i := 1; i <= list.MaxN(); i++ {
		item := list.RawGetInt(i)
		switch item.Type() {
		case lua.LTNil:
		case lua.LTString:
			out = append(out, item.String())
		default:
			if bad == nil {
				bad = item
			}
		}
	}
	if bad != nil {
		return typeError("", field, "list of strings", bad)
	}

	*dst = out
	return nil
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
