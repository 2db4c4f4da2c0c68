package claude

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// authCheckTimeout bounds the no-op prompt used to probe authentication.
const authCheckTimeout = 90 * time.Second

// authProbePrompt is a trivial prompt; the CLI only completes it when logged in.
const authProbePrompt = "Reply with exactly: OK"

// VerifyAuth checks that the claude CLI is authenticated by running a
// print-only prompt with an empty tool allowlist. The CLAUDECODE variable is
// stripped so the probe is not rejected as a nested session.
func VerifyAuth(ctx context.Context, bin string) error {
	ctx, cancel := context.WithTimeout(ctx, authCheckTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "--print", "--allowedTools", "")
	cmd.Stdin = strings.NewReader(authProbePrompt)
	cmd.Dir = os.TempDir() // neutral dir, no project context loaded
	cmd.Env = cleanEnv()

	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg == "" {
			msg = err.Error()
		}
		log.Warn("auth probe failed", "error", msg)
		return fmt.Errorf("claude CLI is not authenticated: %s", msg)
	}

	log.Debug("auth probe succeeded")
	return nil
}

// cleanEnv strips CLAUDECODE so the subprocess isn't blocked as a nested
// session, and pins HOME so the CLI can find its stored credentials.
func cleanEnv() []string {
	env := make([]string, 0, len(os.Environ()))
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "CLAUDECODE=") {
			continue
		}
		env = append(env, kv)
	}
	if home, err := os.UserHomeDir(); err == nil {
		env = append(env, "HOME="+home)
	}
	return env
}
