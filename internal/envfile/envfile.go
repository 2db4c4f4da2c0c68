// Package envfile reads and writes the application's key=value environment file.
package envfile

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Recognized keys, in the order they are written.
const (
	KeySMTPHost     = "SMTP_HOST"
	KeySMTPPort     = "SMTP_PORT"
	KeySMTPSecure   = "SMTP_SECURE"
	KeySMTPUser     = "SMTP_USER"
	KeySMTPPass     = "SMTP_PASS"
	KeySMTPFrom     = "SMTP_FROM"
	KeyReminder     = "REMINDER_EMAIL"
	KeySlackWebhook = "SLACK_WEBHOOK"
	KeySlackMention = "SLACK_MENTION"
	KeySlackToken   = "SLACK_USER_TOKEN"
	KeySlackUserID  = "SLACK_USER_ID"
	KeyGongKey      = "GONG_API_KEY"
	KeyGongSecret   = "GONG_API_SECRET"
	KeyScanInterval = "SCAN_INTERVAL_MINUTES"
	KeyUserName     = "USER_NAME"
	KeyPort         = "PORT"
)

// KeyOrder is the canonical write order for the env file.
var KeyOrder = []string{
	KeySMTPHost,
	KeySMTPPort,
	KeySMTPSecure,
	KeySMTPUser,
	KeySMTPPass,
	KeySMTPFrom,
	KeyReminder,
	KeySlackWebhook,
	KeySlackMention,
	KeySlackToken,
	KeySlackUserID,
	KeyGongKey,
	KeyGongSecret,
	KeyScanInterval,
	KeyUserName,
	KeyPort,
}

// File is a flat key=value set. Unset optional keys render as blank values.
type File struct {
	values map[string]string
}

// New returns an empty File.
func New() *File {
	return &File{values: make(map[string]string)}
}

// Parse reads key=value text. Blank lines and #-comments are ignored;
// unknown keys are kept so a re-write never drops operator additions.
func Parse(data []byte) *File {
	f := New()
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || !strings.Contains(line, "=") {
			continue
		}
		k, v, _ := strings.Cut(line, "=")
		f.values[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return f
}

// Load parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data), nil
}

// Get returns the value for key, or "" when unset.
func (f *File) Get(key string) string {
	return f.values[key]
}

// Set stores a value for key.
func (f *File) Set(key, value string) {
	f.values[key] = value
}

// Render produces the file text: recognized keys in canonical order, then any
// unrecognized keys the operator added, sorted last by insertion-independent order.
func (f *File) Render() string {
	var b strings.Builder
	b.WriteString("# Todo app configuration, written by todo-setup\n")

	seen := make(map[string]bool, len(KeyOrder))
	for _, key := range KeyOrder {
		fmt.Fprintf(&b, "%s=%s\n", key, f.values[key])
		seen[key] = true
	}

	var extra []string
	for key := range f.values {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		b.WriteString("\n")
		for _, key := range extra {
			fmt.Fprintf(&b, "%s=%s\n", key, f.values[key])
		}
	}
	return b.String()
}

// Write saves the file with owner-only permissions, atomically.
func (f *File) Write(path string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(f.Render()), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	// Rename preserves the tmp file's 0600 mode, but make the intent explicit
	// in case path pre-existed with looser permissions.
	return os.Chmod(path, 0600)
}
