package setup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jusmiller/todo-setup/internal/claude"
	"github.com/jusmiller/todo-setup/internal/envfile"
	"github.com/jusmiller/todo-setup/internal/git"
	"github.com/jusmiller/todo-setup/internal/health"
	"github.com/jusmiller/todo-setup/internal/launchd"
	"github.com/jusmiller/todo-setup/internal/logging"
	"github.com/jusmiller/todo-setup/internal/patch"
	"github.com/jusmiller/todo-setup/internal/platform"
	"github.com/jusmiller/todo-setup/internal/prompt"
	"github.com/jusmiller/todo-setup/internal/tasks"
)

var log = logging.ForComponent(logging.CompSetup)

// Installer runs the end-to-end install and update workflows. Steps run in a
// fixed order and the first failing step aborts the run.
type Installer struct {
	cfg    Config
	prompt prompt.Prompter
	out    io.Writer
}

// New builds an Installer writing progress to out.
func New(cfg Config, p prompt.Prompter, out io.Writer) *Installer {
	if out == nil {
		out = os.Stdout
	}
	return &Installer{cfg: cfg, prompt: p, out: out}
}

func (in *Installer) step(name string)   { fmt.Fprintln(in.out, stepStyle.Render("▸ "+name)) }
func (in *Installer) success(msg string) { fmt.Fprintln(in.out, successStyle.Render("  ✓ "+msg)) }
func (in *Installer) warn(msg string)    { fmt.Fprintln(in.out, warnStyle.Render("  ⚠ "+msg)) }
func (in *Installer) info(msg string)    { fmt.Fprintln(in.out, dimStyle.Render("  • "+msg)) }
func (in *Installer) failure(msg string) { fmt.Fprintln(in.out, errorStyle.Render("  ✕ "+msg)) }

// Install runs the full first-time workflow, credentials included.
func (in *Installer) Install(ctx context.Context) error {
	return in.run(ctx, true)
}

// Update refreshes the source, repatches and restarts the services. The
// existing .env is left alone.
func (in *Installer) Update(ctx context.Context) error {
	return in.run(ctx, false)
}

func (in *Installer) run(ctx context.Context, collectCreds bool) error {
	log.Info("starting run", "install_dir", in.cfg.InstallDir, "collect_credentials", collectCreds)

	in.step("Checking prerequisites")
	if err := platform.RequireMacOS(); err != nil {
		return err
	}
	python, err := platform.FindPython()
	if err != nil {
		return err
	}
	in.success("python3 at " + python)

	in.step("Syncing application source")
	if err := git.Sync(in.cfg.RepoURL, in.cfg.InstallDir); err != nil {
		return err
	}
	in.success("source up to date in " + in.cfg.InstallDir)

	in.step("Installing Python packages")
	out, err := platform.PipInstall(python, platform.PipPackages)
	if err != nil {
		return err
	}
	if strings.TrimSpace(out) != "" {
		in.info(strings.TrimSpace(out))
	}
	in.success(strings.Join(platform.PipPackages, ", "))

	in.step("Locating Claude CLI")
	claudeBin, err := claude.FindBinary(in.cfg.Claude.Binary)
	if err != nil {
		return err
	}
	in.success(claudeBin)

	in.step("Verifying Claude login")
	if err := in.verifyAuth(ctx, claudeBin); err != nil {
		return err
	}
	in.success("Claude CLI responds when invoked non-interactively")

	in.step("Looking for the Slack MCP server")
	mcpID, err := in.discoverMCP()
	if err != nil {
		return err
	}
	if mcpID == "" {
		in.warn("no Slack MCP identifier; Slack scanning will be disabled")
	} else {
		in.success("Slack MCP identifier " + mcpID)
	}

	if collectCreds {
		in.step("Collecting credentials")
		if err := in.collectCredentials(); err != nil {
			return err
		}
	}

	in.step("Patching companion script")
	if err := patch.Apply(in.cfg.CompanionScript(), claudeBin, mcpID); err != nil {
		return err
	}
	in.success(filepath.Base(in.cfg.CompanionScript()))

	in.step("Preparing task store")
	if err := tasks.EnsureStore(in.cfg.TasksFile()); err != nil {
		return err
	}

	in.step("Registering launchd services")
	if err := launchd.Register(in.serverService(python)); err != nil {
		return err
	}
	in.success(launchd.ServerLabel)
	if err := launchd.Register(in.companionService(python, claudeBin)); err != nil {
		return err
	}
	in.success(launchd.CompanionLabel)

	in.step("Waiting for the server")
	res := health.Wait(ctx, health.BaseURL(in.healthPort()), in.cfg.Health.Attempts, time.Second)
	if res.Reachable {
		in.success("server answering at " + res.URL)
	} else {
		in.warn(fmt.Sprintf("server not reachable after %d attempts; check %s", res.Attempts, in.cfg.ServerLog()))
	}

	log.Info("run complete", "reachable", res.Reachable)
	return nil
}

// verifyAuth checks the Claude login and, on failure, gives the operator one
// chance to log in from another terminal before retrying.
func (in *Installer) verifyAuth(ctx context.Context, bin string) error {
	err := claude.VerifyAuth(ctx, bin)
	if err == nil {
		return nil
	}
	in.warn("Claude CLI check failed: " + err.Error())
	in.info("Run 'claude' in another terminal and complete the login flow.")
	retry, perr := in.prompt.Confirm("Retry the Claude login check?", true)
	if perr != nil {
		return perr
	}
	if !retry {
		return fmt.Errorf("claude CLI is not authenticated: %w", err)
	}
	if err := claude.VerifyAuth(ctx, bin); err != nil {
		return fmt.Errorf("claude CLI is still not authenticated: %w", err)
	}
	return nil
}

// discoverMCP scans the Claude config dir for the Slack MCP identifier and
// falls back to asking. A blank answer is allowed and disables the feature.
func (in *Installer) discoverMCP() (string, error) {
	dir := claude.ConfigDir(in.cfg.Claude.ConfigDir)
	id, err := claude.DiscoverSlackMCP(dir)
	if err != nil {
		log.Warn("mcp scan failed", "dir", dir, "error", err)
	}
	if id != "" {
		return id, nil
	}
	in.info("No Slack MCP server found under " + dir)
	answer, err := in.prompt.Input("Slack MCP identifier (UUID, Enter to skip)", "")
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", nil
	}
	if !claude.ValidMCPID(answer) {
		in.warn("not a valid UUID, ignoring: " + answer)
		return "", nil
	}
	return answer, nil
}

// healthPort prefers the PORT the operator put in .env over the config default.
func (in *Installer) healthPort() int {
	env, err := envfile.Load(in.cfg.EnvFile())
	if err != nil {
		return in.cfg.Port
	}
	if p, err := strconv.Atoi(env.Get(envfile.KeyPort)); err == nil && p > 0 {
		return p
	}
	return in.cfg.Port
}

func (in *Installer) serverService(python string) launchd.Service {
	return launchd.Service{
		Label:        launchd.ServerLabel,
		LegacyLabels: launchd.LegacyServerLabels,
		Interpreter:  python,
		Script:       in.cfg.ServerScript(),
		WorkingDir:   in.cfg.InstallDir,
		LogFile:      in.cfg.ServerLog(),
	}
}

// companionService pins HOME and a minimal PATH so the companion can shell
// out to claude under launchd's bare environment.
func (in *Installer) companionService(python, claudeBin string) launchd.Service {
	home, _ := os.UserHomeDir()
	path := strings.Join([]string{
		filepath.Dir(claudeBin),
		"/opt/homebrew/bin",
		"/usr/local/bin",
		"/usr/bin",
		"/bin",
	}, ":")
	return launchd.Service{
		Label:        launchd.CompanionLabel,
		LegacyLabels: launchd.LegacyCompanionLabels,
		Interpreter:  python,
		Script:       in.cfg.CompanionScript(),
		WorkingDir:   in.cfg.InstallDir,
		Env:          map[string]string{"HOME": home, "PATH": path},
		LogFile:      in.cfg.CompanionLog(),
	}
}

// Start registers both services without touching source or configuration.
func (in *Installer) Start(ctx context.Context) error {
	if err := platform.RequireMacOS(); err != nil {
		return err
	}
	python, err := platform.FindPython()
	if err != nil {
		return err
	}
	claudeBin, err := claude.FindBinary(in.cfg.Claude.Binary)
	if err != nil {
		return err
	}
	in.step("Starting services")
	if err := launchd.Register(in.serverService(python)); err != nil {
		return err
	}
	in.success(launchd.ServerLabel)
	if err := launchd.Register(in.companionService(python, claudeBin)); err != nil {
		return err
	}
	in.success(launchd.CompanionLabel)

	res := health.Wait(ctx, health.BaseURL(in.healthPort()), in.cfg.Health.Attempts, time.Second)
	if res.Reachable {
		in.success("server answering at " + res.URL)
	} else {
		in.warn(fmt.Sprintf("server not reachable after %d attempts; check %s", res.Attempts, in.cfg.ServerLog()))
	}
	return nil
}

// Stop boots both services out of launchd and removes their plists.
func (in *Installer) Stop() error {
	if err := platform.RequireMacOS(); err != nil {
		return err
	}
	in.step("Stopping services")
	if err := launchd.Unregister(in.serverService("")); err != nil {
		return err
	}
	in.success(launchd.ServerLabel)
	if err := launchd.Unregister(in.companionService("", "")); err != nil {
		return err
	}
	in.success(launchd.CompanionLabel)
	return nil
}

// Restart is Stop followed by Start.
func (in *Installer) Restart(ctx context.Context) error {
	if err := in.Stop(); err != nil {
		return err
	}
	return in.Start(ctx)
}

// Status reports the running state of both services and the health probe.
func (in *Installer) Status(ctx context.Context) error {
	if err := platform.RequireMacOS(); err != nil {
		return err
	}
	for _, label := range []string{launchd.ServerLabel, launchd.CompanionLabel} {
		if launchd.IsRunning(label) {
			in.success(label + " running")
		} else {
			in.failure(label + " not running")
		}
	}
	res := health.Wait(ctx, health.BaseURL(in.healthPort()), 1, time.Second)
	if res.Reachable {
		in.success("server answering at " + res.URL)
	} else {
		in.warn("server not answering at " + res.URL)
	}
	return nil
}
