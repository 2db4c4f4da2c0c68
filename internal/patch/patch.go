// Package patch rewrites the configured constants inside the companion script.
package patch

import (
	"fmt"
	"os"
	"regexp"

	"github.com/jusmiller/todo-setup/internal/logging"
)

var log = logging.ForComponent(logging.CompSetup)

// Constant names patched in scan-companion.py.
const (
	ClaudeBinConst = "CLAUDE_BIN"
	SlackUUIDConst = "SLACK_UUID"
)

// assignmentRegex builds a pattern matching the three historical forms of a
// constant assignment at the start of a line:
//
//	NAME = '/literal/path'
//	NAME = os.path.expanduser('~/path')
//	NAME = os.path.expanduser(
//	    '~/path'
//	)
//
// Only the assignment itself is matched; the rest of the file is untouched.
func assignmentRegex(name string) *regexp.Regexp {
	quoted := `['"][^'"\n]*['"]`
	return regexp.MustCompile(
		`(?m)^` + regexp.QuoteMeta(name) + `\s*=\s*` +
			`(?:os\.path\.expanduser\(\s*` + quoted + `\s*,?\s*\)|` + quoted + `)`)
}

var (
	claudeBinRegex = assignmentRegex(ClaudeBinConst)
	slackUUIDRegex = assignmentRegex(SlackUUIDConst)
)

// setConstant rewrites every assignment of name to a canonical single-line
// quoted literal. Errors when the assignment is not present in any known form.
func setConstant(src string, re *regexp.Regexp, name, value string) (string, error) {
	if !re.MatchString(src) {
		return "", fmt.Errorf("no %s assignment found in any recognized form", name)
	}
	replacement := name + " = '" + value + "'"
	return re.ReplaceAllLiteralString(src, replacement), nil
}

// SetClaudeBin rewrites the CLAUDE_BIN assignment to the given path.
func SetClaudeBin(src, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("claude binary path must not be empty")
	}
	return setConstant(src, claudeBinRegex, ClaudeBinConst, path)
}

// SetSlackUUID rewrites the SLACK_UUID assignment. An empty id leaves the
// existing assignment untouched: discovery coming up empty must not blank out
// a previously configured identifier.
func SetSlackUUID(src, id string) (string, error) {
	if id == "" {
		return src, nil
	}
	return setConstant(src, slackUUIDRegex, SlackUUIDConst, id)
}

// Apply patches the companion script at path, all-or-nothing. Any read,
// transform, or write failure aborts with an error so an unpatched companion
// is never silently registered as a service.
func Apply(path, claudeBin, slackUUID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read companion script: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat companion script: %w", err)
	}

	src := string(data)
	out, err := SetClaudeBin(src, claudeBin)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}
	out, err = SetSlackUUID(out, slackUUID)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}

	if out == src {
		log.Debug("companion script already up to date", "path", path)
		return nil
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write patched script: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace companion script: %w", err)
	}

	log.Info("patched companion script", "path", path, "claude_bin", claudeBin,
		"slack_uuid_set", slackUUID != "")
	return nil
}
