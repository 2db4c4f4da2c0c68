// Package platform detects the host platform and checks installer prerequisites.
package platform

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/jusmiller/todo-setup/internal/logging"
)

var log = logging.ForComponent(logging.CompSetup)

// Platform represents the detected platform
type Platform string

const (
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// cached detection result
var detectedPlatform Platform
var detectionDone bool

// Detect returns the current platform, caching the result
func Detect() Platform {
	if detectionDone {
		return detectedPlatform
	}

	switch runtime.GOOS {
	case "darwin":
		detectedPlatform = PlatformMacOS
	case "linux":
		detectedPlatform = PlatformLinux
	case "windows":
		detectedPlatform = PlatformWindows
	default:
		detectedPlatform = PlatformUnknown
	}
	detectionDone = true
	return detectedPlatform
}

// String returns a human-readable platform name
func (p Platform) String() string {
	switch p {
	case PlatformMacOS:
		return "macOS"
	case PlatformLinux:
		return "Linux"
	case PlatformWindows:
		return "Windows"
	default:
		return "Unknown"
	}
}

// RequireMacOS fails with a remediation message on any other platform.
// The services are registered as launchd LaunchAgents, which only exist on macOS.
func RequireMacOS() error {
	if p := Detect(); p != PlatformMacOS {
		return fmt.Errorf("this installer only supports macOS (detected %s); the services run as launchd LaunchAgents", p)
	}
	return nil
}

// FindPython locates python3 on PATH
func FindPython() (string, error) {
	path, err := exec.LookPath("python3")
	if err != nil {
		return "", fmt.Errorf("python3 not found on PATH; install it with: brew install python3")
	}
	return path, nil
}

// PipPackages is the fixed set of third-party libraries the server uses for
// document extraction. Missing packages degrade those features, so installer
// warnings are surfaced but not fatal.
var PipPackages = []string{"pdfplumber", "python-docx"}

// PipInstall installs PipPackages for the current user.
// Returns pip's combined output so warnings can be surfaced; the error is
// non-nil only when pip itself exits non-zero.
func PipInstall(python string, pkgs []string) (string, error) {
	args := append([]string{"-m", "pip", "install", "--user", "--quiet"}, pkgs...)
	cmd := exec.Command(python, args...)
	output, err := cmd.CombinedOutput()
	out := strings.TrimSpace(string(output))
	if err != nil {
		return out, fmt.Errorf("pip install failed: %s: %w", out, err)
	}
	if out != "" {
		log.Warn("pip reported warnings", "output", out)
	}
	return out, nil
}
