// Package testutil provides utilities for testing vget in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Env describes an isolated test environment.
type Env struct {
	// Home is the fake home directory.
	Home string
	// VgetDir is the vget directory ($VGET_DIR).
	VgetDir string
	// PathDir is the only directory on $PATH.
	PathDir string
}

// SetupTestEnv creates isolated test directories for each test.
// This ensures vget tests never touch the user's real vget directory, never
// find a yt-dlp installed on the machine, and never inherit a NO_COLOR
// setting from the developer's shell.
//
// Cleanup is handled by t.TempDir.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := &Env{
		Home:    filepath.Join(tmpDir, "home"),
		VgetDir: filepath.Join(tmpDir, "vget"),
		PathDir: filepath.Join(tmpDir, "path"),
	}

	for _, dir := range []string{env.Home, env.VgetDir, env.PathDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.Home)
	t.Setenv("USERPROFILE", env.Home)
	t.Setenv("VGET_DIR", env.VgetDir)
	t.Setenv("PATH", env.PathDir)
	t.Setenv("NO_COLOR", "1")

	return env
}

// WriteStub writes an executable shell script named name into dir and
// returns its path. Tests using it are skipped on Windows.
func WriteStub(t *testing.T, dir, name, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script stubs require a Unix shell")
	}

	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + script + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("failed to write stub %s: %v", path, err)
	}
	return path
}
