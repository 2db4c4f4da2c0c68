// Package claude locates the Claude Code CLI and its Slack MCP registration.
package claude

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/jusmiller/todo-setup/internal/logging"
)

var log = logging.ForComponent(logging.CompClaude)

// VendorInstallDir returns the versioned install root used by the Claude
// desktop app: ~/Library/Application Support/Claude/claude-code/<version>/claude
func VendorInstallDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Application Support", "Claude", "claude-code"), nil
}

// versionDirRegex matches version-shaped directory names like 2.1.49
var versionDirRegex = regexp.MustCompile(`^\d+(\.\d+)*$`)

// pickLatestVersion returns the lexicographically-highest version-shaped name,
// or "" when none qualifies.
func pickLatestVersion(names []string) string {
	var versions []string
	for _, name := range names {
		if versionDirRegex.MatchString(name) {
			versions = append(versions, name)
		}
	}
	if len(versions) == 0 {
		return ""
	}
	sort.Strings(versions)
	return versions[len(versions)-1]
}

// FindBinary locates the claude executable.
//
// Search order: an explicit path when configured, then the newest versioned
// directory under the vendor install root, then PATH. Returns an error with
// install instructions when nothing is found.
func FindBinary(explicit string) (string, error) {
	if explicit != "" {
		if err := checkExecutable(explicit); err != nil {
			return "", fmt.Errorf("configured claude binary %s: %w", explicit, err)
		}
		return explicit, nil
	}

	if root, err := VendorInstallDir(); err == nil {
		if bin := findVendorBinary(root); bin != "" {
			log.Info("found claude binary", "path", bin)
			return bin, nil
		}
	}

	if bin, err := exec.LookPath("claude"); err == nil {
		log.Info("found claude binary on PATH", "path", bin)
		return bin, nil
	}

	return "", fmt.Errorf("claude CLI not found; install Claude Code from https://claude.ai/download, " +
		"or: npm install -g @anthropic-ai/claude-code")
}

// findVendorBinary picks the newest versioned subdirectory containing an
// executable claude binary. Returns "" when the root is missing or empty.
func findVendorBinary(root string) string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}

	// Walk candidates newest-first in case the newest dir is a partial install
	var versions []string
	for _, name := range names {
		if versionDirRegex.MatchString(name) {
			versions = append(versions, name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(versions)))

	for _, v := range versions {
		bin := filepath.Join(root, v, "claude")
		if checkExecutable(bin) == nil {
			return bin
		}
	}
	return ""
}

// checkExecutable verifies the path exists and has an execute bit set.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Mode()&0111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}
