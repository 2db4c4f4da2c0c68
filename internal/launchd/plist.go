package launchd

import (
	"fmt"
	"sort"
	"strings"
)

// Service describes one LaunchAgent managed by the installer.
type Service struct {
	// Label is the launchd label, e.g. com.todo-deck.server
	Label string

	// LegacyLabels are labels used by earlier installs, stopped and
	// unregistered before the current descriptor is loaded.
	LegacyLabels []string

	// Interpreter and Script form the launch command.
	Interpreter string
	Script      string

	// WorkingDir is the process working directory.
	WorkingDir string

	// Env holds environment overrides written into the descriptor.
	Env map[string]string

	// LogFile receives stdout and stderr. launchd appends across restarts.
	LogFile string
}

// RenderPlist produces the LaunchAgent descriptor XML.
// RunAtLoad starts the service at login; KeepAlive restarts it on exit.
func (s Service) RenderPlist() string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>` + xmlEscape(s.Label) + `</string>
	<key>ProgramArguments</key>
	<array>
		<string>` + xmlEscape(s.Interpreter) + `</string>
		<string>` + xmlEscape(s.Script) + `</string>
	</array>
	<key>WorkingDirectory</key>
	<string>` + xmlEscape(s.WorkingDir) + `</string>
`)

	if len(s.Env) > 0 {
		keys := make([]string, 0, len(s.Env))
		for k := range s.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\t<key>EnvironmentVariables</key>\n\t<dict>\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "\t\t<key>%s</key>\n\t\t<string>%s</string>\n",
				xmlEscape(k), xmlEscape(s.Env[k]))
		}
		b.WriteString("\t</dict>\n")
	}

	b.WriteString(`	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>` + xmlEscape(s.LogFile) + `</string>
	<key>StandardErrorPath</key>
	<string>` + xmlEscape(s.LogFile) + `</string>
</dict>
</plist>
`)
	return b.String()
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
