// Package config loads vget's Lua configuration file.
//
// # Overview
//
// vget.lua lives in the vget directory ($VGET_DIR, default ~/.config/vget)
// and assigns a global `vget` table. Every field is optional; anything left
// out keeps its built-in default, and a missing file is the same as an empty
// table. Command-line flags are applied on top by the caller.
//
//	vget = {
//	  output_dir = platform.is_windows and "C:/Videos" or "~/Videos",
//	  quality = "1080",
//	  cookies_from_browser = "chrome",
//	  extra_args = { "--no-mtime", platform.is_linux and "--xattrs" or nil },
//	  binary = {
//	    version = "latest",
//	    keyring = "~/.config/vget/keyrings/yt-dlp.asc",
//	  },
//	}
//
// # Security Model
//
// The file runs in a gopher-lua VM with os, io, debug and all module
// loading functions removed. string, table and math remain. A read-only
// `platform` table from the platform package is injected before execution.
// Evaluation is bounded by the caller's context, or DefaultParseTimeout when
// the context has no deadline, and files over MaxConfigSize are rejected.
//
// # Error Types
//
//	type ParseError struct {
//	    Message string  // User-friendly message
//	    Detail  string  // Raw Lua error
//	}
//
//	type ValidationError struct {
//	    Field   string  // Field that failed validation, e.g. "binary.version"
//	    Message string  // Error description
//	}
//
// # Generating Configs
//
// Generator writes a complete, commented vget.lua for `vget config init`:
//
//	code, err := config.NewGenerator().Generate(config.Default())
package config
