package setup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the optional operator config under the setup dir.
const ConfigFileName = "config.toml"

// Config carries every setting the workflow needs, threaded explicitly
// through each step. No step reads ambient globals.
type Config struct {
	// RepoURL is the application source repository.
	RepoURL string `toml:"repo_url"`

	// InstallDir is the working copy location, e.g. ~/todo-app.
	InstallDir string `toml:"install_dir"`

	// Port is the server listen port used for defaults and the health probe.
	Port int `toml:"port"`

	Claude ClaudeConfig `toml:"claude"`
	Health HealthConfig `toml:"health"`
}

// ClaudeConfig holds Claude CLI integration overrides.
type ClaudeConfig struct {
	// ConfigDir overrides the identifier search root (default ~/.claude).
	ConfigDir string `toml:"config_dir"`

	// Binary pins the claude executable, skipping discovery.
	Binary string `toml:"binary"`
}

// HealthConfig tunes the post-start liveness probe.
type HealthConfig struct {
	// Attempts is the bounded retry count, one second apart.
	Attempts int `toml:"attempts"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		RepoURL:    "https://github.com/jusmiller/todo-app.git",
		InstallDir: "~/todo-app",
		Port:       3000,
		Health:     HealthConfig{Attempts: 15},
	}
}

// SetupDir returns the installer's own state directory (~/.todo-setup).
func SetupDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".todo-setup"), nil
}

// LoadConfig builds the effective configuration: defaults overridden by the
// operator's config.toml when one exists.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	dir, err := SetupDir()
	if err != nil {
		return cfg, err
	}
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.InstallDir = expandTilde(cfg.InstallDir)
	cfg.Claude.ConfigDir = expandTilde(cfg.Claude.ConfigDir)
	cfg.Claude.Binary = expandTilde(cfg.Claude.Binary)
	return cfg, nil
}

// expandTilde resolves a leading ~/ against the home directory.
func expandTilde(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Derived paths inside the install dir. The file names are fixed by the
// application itself.

func (c Config) EnvFile() string         { return filepath.Join(c.InstallDir, ".env") }
func (c Config) TasksFile() string       { return filepath.Join(c.InstallDir, "tasks.json") }
func (c Config) ServerScript() string    { return filepath.Join(c.InstallDir, "server.py") }
func (c Config) CompanionScript() string { return filepath.Join(c.InstallDir, "scan-companion.py") }
func (c Config) ServerLog() string       { return filepath.Join(c.InstallDir, "server.log") }
func (c Config) CompanionLog() string    { return filepath.Join(c.InstallDir, "scan-companion.log") }
