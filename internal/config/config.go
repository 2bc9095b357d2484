// Package config loads the user-owned guard configuration. The file is
// read fresh on every invocation and the core treats it as read-only;
// slash commands on the host side mutate it between invocations.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/frier-sam/claude-code-protect/internal/pathutil"
)

// Backup modes.
const (
	ModeCentralized = "centralized"
	ModePerFolder   = "per-folder"
)

// Config holds the recognized keys of claude-code-protect.json.
// Unknown keys in the file are ignored; a missing file is equivalent to
// all defaults.
type Config struct {
	BackupMode         string
	BackupRoot         string
	WhitelistedFolders []string
}

// DefaultPath returns the configuration file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "claude-code-protect.json")
	}
	return filepath.Join(home, ".claude", "claude-code-protect.json")
}

// DefaultBackupRoot returns the centralized backup location.
func DefaultBackupRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "claude-code-protect-backups")
	}
	return filepath.Join(home, ".claude", "claude-code-protect-backups")
}

func defaults() *Config {
	return &Config{
		BackupMode: ModeCentralized,
		BackupRoot: DefaultBackupRoot(),
	}
}

// Load reads the config file at path. Missing file or malformed JSON
// falls back to defaults; only the malformed case leaves a note on errw.
// Whitelisted folders are expanded and canonicalized at load so zone
// checks stay purely lexical.
func Load(path string, errw io.Writer) *Config {
	cfg := defaults()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(errw, "deletion-guard: config %s unreadable, using defaults: %v\n", path, err)
		}
		return cfg
	}

	if mode := v.GetString("backup_mode"); mode == ModeCentralized || mode == ModePerFolder {
		cfg.BackupMode = mode
	}
	if root := v.GetString("backup_root"); root != "" {
		cfg.BackupRoot = pathutil.Canonicalize(pathutil.ExpandUser(root))
	}
	for _, raw := range v.GetStringSlice("whitelisted_folders") {
		if raw == "" {
			continue
		}
		cfg.WhitelistedFolders = append(cfg.WhitelistedFolders,
			pathutil.Canonicalize(pathutil.ExpandUser(raw)))
	}
	return cfg
}

// Workspace resolves the workspace root: CLAUDE_PROJECT_DIR when set,
// else the invocation's working directory, else the process one.
func Workspace(cwd string) string {
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return pathutil.Canonicalize(dir)
	}
	if cwd != "" {
		return pathutil.Canonicalize(cwd)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "/"
	}
	return pathutil.Canonicalize(wd)
}
