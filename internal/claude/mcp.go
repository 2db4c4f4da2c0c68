package claude

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

// slackToolRegex matches the qualified Slack MCP tool name as it appears in
// Claude Code's config and session files: mcp__<uuid>__slack_search_public_and_private
var slackToolRegex = regexp.MustCompile(
	`mcp__([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})__slack_search_public_and_private`)

// mcpScanMaxFileSize caps how much of each config file is scanned.
// Session transcripts can grow large; the marker appears early when present.
const mcpScanMaxFileSize = 4 << 20 // 4MB

// ConfigDir returns the Claude config directory, honoring CLAUDE_CONFIG_DIR.
// Defaults to ~/.claude.
func ConfigDir(override string) string {
	if override != "" {
		return override
	}
	if envDir := os.Getenv("CLAUDE_CONFIG_DIR"); envDir != "" {
		return envDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude")
}

// DiscoverSlackMCP walks the Claude config directory tree looking for the
// Slack MCP tool marker and returns the first UUID found. Returns "" without
// error when the marker is absent; the caller falls back to prompting.
func DiscoverSlackMCP(configDir string) (string, error) {
	var found string

	err := filepath.WalkDir(configDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if found != "" {
			return fs.SkipAll
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, statErr := d.Info()
		if statErr != nil || info.Size() > mcpScanMaxFileSize {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}

		if id := ExtractSlackMCPID(data); id != "" {
			log.Info("discovered Slack MCP identifier", "file", path, "uuid", id)
			found = id
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return found, nil
}

// ExtractSlackMCPID extracts a validated Slack MCP UUID from raw config text.
// Returns "" when no valid marker is present.
func ExtractSlackMCPID(data []byte) string {
	m := slackToolRegex.FindSubmatch(data)
	if m == nil {
		return ""
	}
	id := string(m[1])
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

// ValidMCPID reports whether s is a well-formed MCP identifier.
// An empty string is valid input elsewhere (feature disabled), not here.
func ValidMCPID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
