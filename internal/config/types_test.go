package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{name: "defaults valid", mutate: func(c *Config) {}},
		{name: "tagged version", mutate: func(c *Config) { c.Binary.Version = "2025.09.26" }},
		{name: "nightly tag", mutate: func(c *Config) { c.Binary.Version = "2025.09.26.232603" }},
		{name: "empty version", mutate: func(c *Config) { c.Binary.Version = "" }},
		{name: "bad version", mutate: func(c *Config) { c.Binary.Version = "../../etc" }, wantField: "binary.version"},
		{name: "http mirror", mutate: func(c *Config) { c.Binary.BaseURL = "http://localhost:8080/releases" }},
		{name: "mirror without host", mutate: func(c *Config) { c.Binary.BaseURL = "https://" }, wantField: "binary.base_url"},
		{name: "file mirror", mutate: func(c *Config) { c.Binary.BaseURL = "file:///tmp" }, wantField: "binary.base_url"},
		{name: "bad audio format", mutate: func(c *Config) { c.Download.AudioFormat = "wma" }, wantField: "audio format"},
		{name: "empty output dir", mutate: func(c *Config) { c.Download.OutputDir = "" }, wantField: "output directory"},
		{
			name: "too many extra args",
			mutate: func(c *Config) {
				c.Download.ExtraArgs = make([]string, MaxExtraArgs+1)
			},
			wantField: "extra_args",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	withField := &ValidationError{Field: "quality", Message: "bad"}
	if got := withField.Error(); got != "config validation failed for quality: bad" {
		t.Errorf("Error() = %q", got)
	}

	without := &ValidationError{Message: "bad"}
	if got := without.Error(); got != "config validation failed: bad" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvDir, "")
		got, err := Dir()
		if err != nil {
			t.Fatalf("Dir() error = %v", err)
		}
		if want := filepath.Join(home, ".config", "vget"); got != want {
			t.Errorf("Dir() = %q, want %q", got, want)
		}
	})

	t.Run("override", func(t *testing.T) {
		custom := filepath.Join(home, "custom")
		t.Setenv(EnvDir, custom)
		got, err := Dir()
		if err != nil {
			t.Fatalf("Dir() error = %v", err)
		}
		if got != custom {
			t.Errorf("Dir() = %q, want %q", got, custom)
		}

		path, err := Path()
		if err != nil {
			t.Fatalf("Path() error = %v", err)
		}
		if want := filepath.Join(custom, FileName); path != want {
			t.Errorf("Path() = %q, want %q", path, want)
		}
	})

	t.Run("override with tilde", func(t *testing.T) {
		t.Setenv(EnvDir, "~/vget")
		got, err := Dir()
		if err != nil {
			t.Fatalf("Dir() error = %v", err)
		}
		if want := filepath.Join(home, "vget"); got != want {
			t.Errorf("Dir() = %q, want %q", got, want)
		}
	})
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/Videos", filepath.Join(home, "Videos")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~user/x", "~user/x"},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
