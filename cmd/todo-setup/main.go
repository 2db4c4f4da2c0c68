package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jusmiller/todo-setup/internal/logging"
	"github.com/jusmiller/todo-setup/internal/prompt"
	"github.com/jusmiller/todo-setup/internal/setup"
)

const Version = "1.2.0"

// init sets up color profile for consistent terminal colors across environments
func init() {
	initColorProfile()
}

// initColorProfile configures lipgloss color profile based on terminal capabilities.
// Prefers TrueColor where the terminal advertises it, falls back to ANSI256.
func initColorProfile() {
	// Allow user override via environment variable
	// TODOSETUP_COLOR: truecolor, 256, 16, none
	if colorEnv := os.Getenv("TODOSETUP_COLOR"); colorEnv != "" {
		switch strings.ToLower(colorEnv) {
		case "truecolor", "true", "24bit":
			lipgloss.SetColorProfile(termenv.TrueColor)
		case "256", "ansi256":
			lipgloss.SetColorProfile(termenv.ANSI256)
		case "16", "ansi", "basic":
			lipgloss.SetColorProfile(termenv.ANSI)
		case "none", "off", "ascii":
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		return
	}

	colorTerm := os.Getenv("COLORTERM")
	if colorTerm == "truecolor" || colorTerm == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}

	lipgloss.SetColorProfile(termenv.ANSI256)
}

func main() {
	// Structured logging goes to ~/.todo-setup/setup.log. TODOSETUP_DEBUG
	// lowers the level to debug.
	debugMode := os.Getenv("TODOSETUP_DEBUG") != ""
	level := "info"
	if debugMode {
		level = "debug"
	}
	if baseDir, err := setup.SetupDir(); err == nil {
		logging.Init(logging.Config{
			Debug:      debugMode,
			LogDir:     baseDir,
			Level:      level,
			Format:     "json",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 10,
			Compress:   true,
		})
		defer logging.Shutdown()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	cmd := "install"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "version", "--version", "-v":
		fmt.Printf("todo-setup v%s\n", Version)
		return
	case "help", "--help", "-h":
		printHelp()
		return
	}

	cfg, err := setup.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	in := setup.New(cfg, prompt.New(), os.Stdout)

	switch cmd {
	case "install":
		err = in.Install(ctx)
	case "update":
		err = in.Update(ctx)
	case "start":
		err = in.Start(ctx)
	case "stop":
		err = in.Stop()
	case "restart":
		err = in.Restart(ctx)
	case "status":
		err = in.Status(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printHelp()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Printf(`todo-setup v%s - installer for the todo assistant services

Usage: todo-setup [command]

Commands:
  install    Full setup: sync source, collect credentials, start services (default)
  update     Pull the latest source and restart services, keeping credentials
  start      Register both launchd services
  stop       Unregister both launchd services
  restart    Stop then start both services
  status     Show service and server state
  version    Print the version
  help       Show this help

Configuration overrides live in ~/.todo-setup/config.toml.
Set TODOSETUP_DEBUG=1 for verbose logging in ~/.todo-setup/setup.log.
`, Version)
}
