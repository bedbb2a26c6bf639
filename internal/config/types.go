package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/vget/internal/binary"
	"github.com/ZebulonRouseFrantzich/vget/internal/command"
)

// Config represents a parsed vget.lua.
type Config struct {
	// Download holds the defaults for every yt-dlp invocation.
	Download command.Options

	// Binary controls how yt-dlp itself is obtained.
	Binary BinarySettings
}

// BinarySettings configures yt-dlp resolution and installation.
type BinarySettings struct {
	// Version is the release tag to install ("latest" by default)
	Version string
	// BaseURL overrides the GitHub releases root
	BaseURL string
	// Keyring is an OpenPGP keyring that must have signed SHA2-256SUMS
	Keyring string
	// SkipVerify installs downloads without checksum verification
	SkipVerify bool
	// PreferCache uses vget's own copy even when yt-dlp is on PATH
	PreferCache bool
}

// Default returns the configuration used when no vget.lua exists.
func Default() *Config {
	return &Config{
		Download: command.DefaultOptions(),
		Binary: BinarySettings{
			Version: "latest",
		},
	}
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if err := command.Validate(c.Download); err != nil {
		var verr *command.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{Field: verr.Field, Message: verr.Message}
		}
		return &ValidationError{Message: err.Error()}
	}

	if len(c.Download.ExtraArgs) > MaxExtraArgs {
		return &ValidationError{
			Field:   luaFieldExtraArgs,
			Message: fmt.Sprintf("too many arguments (%d), maximum is %d", len(c.Download.ExtraArgs), MaxExtraArgs),
		}
	}

	if err := binary.ValidateVersion(c.Binary.Version); err != nil {
		return &ValidationError{Field: "binary.version", Message: err.Error()}
	}

	if c.Binary.BaseURL != "" {
		if err := validateBaseURL(c.Binary.BaseURL); err != nil {
			return &ValidationError{Field: "binary.base_url", Message: err.Error()}
		}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// validateBaseURL validates a releases mirror URL.
func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use https:// or http:// scheme (got: %s)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}

	return nil
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
}

// Dir returns the vget directory: $VGET_DIR, or ~/.config/vget.
func Dir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return ExpandPath(dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vget"), nil
}

// Path returns the default config file location inside the vget directory.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}
