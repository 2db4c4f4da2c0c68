// Package git wraps the git CLI for source sync operations.
package git

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jusmiller/todo-setup/internal/logging"
)

var log = logging.ForComponent(logging.CompSync)

// ErrDiverged is returned when a pull cannot complete as a fast-forward.
var ErrDiverged = errors.New("local and remote history have diverged")

// IsRepo checks if the given directory is inside a git repository
func IsRepo(dir string) bool {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--git-dir")
	err := cmd.Run()
	return err == nil
}

// RemoteURL returns the origin remote URL for the repository at dir
func RemoteURL(dir string) (string, error) {
	cmd := exec.Command("git", "-C", dir, "remote", "get-url", "origin")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get origin URL: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CurrentBranch returns the current branch name for the repository at dir
func CurrentBranch(dir string) (string, error) {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--abbrev-ref", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// HasUncommittedChanges checks if the repository at dir has uncommitted changes
func HasUncommittedChanges(dir string) (bool, error) {
	cmd := exec.Command("git", "-C", dir, "status", "--porcelain")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return false, fmt.Errorf("failed to check git status: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return strings.TrimSpace(string(output)) != "", nil
}

// Clone clones url into dir. The parent directory is created if needed.
func Clone(url, dir string) error {
	if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	log.Info("cloning", "url", url, "dir", dir)
	cmd := exec.Command("git", "clone", url, dir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git clone failed: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return nil
}

// PullFastForward updates the repository at dir, refusing anything that is not
// a clean fast-forward. Never merges, never forces.
func PullFastForward(dir string) error {
	log.Info("pulling", "dir", dir)
	cmd := exec.Command("git", "-C", dir, "pull", "--ff-only")
	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if strings.Contains(msg, "Not possible to fast-forward") ||
			strings.Contains(msg, "diverging") ||
			strings.Contains(msg, "divergent") {
			return fmt.Errorf("%w: %s", ErrDiverged, msg)
		}
		return fmt.Errorf("git pull failed: %s: %w", msg, err)
	}
	return nil
}

// Sync ensures dir holds an up-to-date clone of url.
//
// Absent dir: full clone. Existing clone of the same remote: fast-forward pull.
// Existing clone of a different remote, or a directory that is not a clone at
// all: explicit error instructing manual removal. User data is never deleted.
func Sync(url, dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return Clone(url, dir)
	}
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory; remove it manually and re-run", dir)
	}

	if !IsRepo(dir) {
		return fmt.Errorf("%s exists but is not a git clone; remove it manually and re-run", dir)
	}

	remote, err := RemoteURL(dir)
	if err != nil {
		return err
	}
	if !sameRemote(remote, url) {
		return fmt.Errorf("%s tracks %s, expected %s; remove the directory manually and re-run", dir, remote, url)
	}

	if dirty, err := HasUncommittedChanges(dir); err == nil && dirty {
		log.Warn("uncommitted local changes", "dir", dir)
	}

	return PullFastForward(dir)
}

// sameRemote compares remote URLs ignoring a trailing ".git" and slash.
func sameRemote(a, b string) bool {
	return normalizeRemote(a) == normalizeRemote(b)
}

func normalizeRemote(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	url = strings.TrimSuffix(url, ".git")
	return url
}
