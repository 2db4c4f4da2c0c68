package platform

import (
	"runtime"
	"testing"
)

func TestDetect(t *testing.T) {
	p := Detect()

	switch runtime.GOOS {
	case "darwin":
		if p != PlatformMacOS {
			t.Errorf("expected macos on darwin, got %s", p)
		}
	case "linux":
		if p != PlatformLinux {
			t.Errorf("expected linux, got %s", p)
		}
	case "windows":
		if p != PlatformWindows {
			t.Errorf("expected windows, got %s", p)
		}
	}

	// Cached second call returns the same value
	if Detect() != p {
		t.Error("Detect is not stable across calls")
	}
}

func TestPlatformString(t *testing.T) {
	cases := map[Platform]string{
		PlatformMacOS:   "macOS",
		PlatformLinux:   "Linux",
		PlatformWindows: "Windows",
		PlatformUnknown: "Unknown",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", p, got, want)
		}
	}
}

func TestRequireMacOS(t *testing.T) {
	err := RequireMacOS()
	if runtime.GOOS == "darwin" && err != nil {
		t.Errorf("expected nil on darwin, got %v", err)
	}
	if runtime.GOOS != "darwin" && err == nil {
		t.Error("expected an error on non-darwin platforms")
	}
}
