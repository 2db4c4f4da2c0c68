// Package launchd registers the two application services as user LaunchAgents.
package launchd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jusmiller/todo-setup/internal/logging"
)

var log = logging.ForComponent(logging.CompLaunchd)

// Labels for the two managed services, plus the names earlier installs used.
const (
	ServerLabel    = "com.todo-deck.server"
	CompanionLabel = "com.todo-deck.companion"
)

// LegacyServerLabels and LegacyCompanionLabels cover prior installer releases.
var (
	LegacyServerLabels    = []string{"com.todoapp.server"}
	LegacyCompanionLabels = []string{"com.todoapp.companion"}
)

// PlistPath returns the per-user descriptor path for a label.
func PlistPath(label string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "LaunchAgents", label+".plist"), nil
}

// guiTarget returns the launchctl domain target for the current user session.
func guiTarget() string {
	return fmt.Sprintf("gui/%d", os.Getuid())
}

// Bootout stops and unregisters a label. Errors are ignored: the label may
// simply not be loaded, which is the expected state on a first install.
func Bootout(label string) {
	_ = exec.Command("launchctl", "bootout", guiTarget()+"/"+label).Run()
}

// KillStray force-terminates any process whose command line matches the
// script path. Guarantees no stale instance survives a re-run even when it
// was started by hand outside launchd. pkill exits 1 when nothing matched.
func KillStray(scriptPath string) error {
	cmd := exec.Command("pkill", "-f", scriptPath)
	err := cmd.Run()
	if err == nil {
		log.Info("terminated stray process", "script", scriptPath)
		return nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return nil // no process matched
	}
	return fmt.Errorf("pkill -f %s failed: %w", scriptPath, err)
}

// Register walks one service through the full replacement sequence:
// stop prior registrations (current and legacy names), remove stale
// descriptors, force-kill lingering processes, write the new descriptor,
// and load it. After Register exactly one instance of the service runs.
func Register(svc Service) error {
	// Stop prior instances under every name this service has ever had
	Bootout(svc.Label)
	for _, legacy := range svc.LegacyLabels {
		Bootout(legacy)
		if p, err := PlistPath(legacy); err == nil {
			_ = os.Remove(p)
		}
	}

	if err := KillStray(svc.Script); err != nil {
		return err
	}

	plistPath, err := PlistPath(svc.Label)
	if err != nil {
		return fmt.Errorf("failed to resolve LaunchAgents dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(plistPath), 0755); err != nil {
		return fmt.Errorf("failed to create LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(plistPath, []byte(svc.RenderPlist()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", plistPath, err)
	}

	output, err := exec.Command("launchctl", "bootstrap", guiTarget(), plistPath).CombinedOutput()
	if err != nil {
		return fmt.Errorf("launchctl bootstrap failed: %s: %w", strings.TrimSpace(string(output)), err)
	}

	log.Info("service registered", "label", svc.Label, "plist", plistPath)
	return nil
}

// Unregister stops a service and removes its descriptor.
func Unregister(svc Service) error {
	Bootout(svc.Label)
	for _, legacy := range svc.LegacyLabels {
		Bootout(legacy)
		if p, err := PlistPath(legacy); err == nil {
			_ = os.Remove(p)
		}
	}
	if err := KillStray(svc.Script); err != nil {
		return err
	}

	plistPath, err := PlistPath(svc.Label)
	if err != nil {
		return err
	}
	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", plistPath, err)
	}

	log.Info("service unregistered", "label", svc.Label)
	return nil
}

// IsRunning reports whether launchd shows a live process for the label.
func IsRunning(label string) bool {
	output, err := exec.Command("launchctl", "print", guiTarget()+"/"+label).Output()
	if err != nil {
		return false
	}
	return parseRunning(string(output))
}

// parseRunning scans `launchctl print` output for a running state or pid.
func parseRunning(output string) bool {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "state = ") {
			return strings.TrimPrefix(line, "state = ") == "running"
		}
		if strings.HasPrefix(line, "pid = ") {
			return true
		}
	}
	return false
}
