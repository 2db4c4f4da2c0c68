// Package prompt abstracts interactive terminal input so the setup workflow
// can run against scripted answers in tests.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Prompter collects operator input during setup.
type Prompter interface {
	// Input asks a question with an editable default. Empty answer returns def.
	Input(label, def string) (string, error)

	// Password asks for a secret without echoing it.
	Password(label string) (string, error)

	// Confirm asks a yes/no question with a default.
	Confirm(label string, def bool) (bool, error)
}

// New returns a terminal prompter appropriate for the current stdin:
// huh forms on a real TTY, plain line-reading otherwise.
func New() Prompter {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return &Terminal{}
	}
	return &Plain{r: bufio.NewReader(os.Stdin)}
}

// Terminal prompts through huh forms.
type Terminal struct{}

func (t *Terminal) Input(label, def string) (string, error) {
	value := def
	input := huh.NewInput().Title(label).Value(&value)
	if def != "" {
		input = input.Description(fmt.Sprintf("default: %s", def))
	}
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", err
	}
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	return strings.TrimSpace(value), nil
}

func (t *Terminal) Password(label string) (string, error) {
	var value string
	input := huh.NewInput().Title(label).EchoMode(huh.EchoModePassword).Value(&value)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", err
	}
	return value, nil
}

func (t *Terminal) Confirm(label string, def bool) (bool, error) {
	value := def
	confirm := huh.NewConfirm().Title(label).Value(&value)
	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return def, err
	}
	return value, nil
}

// Plain reads answers line by line from stdin. Used when stdin is not a TTY
// (piped input); passwords are still read without echo when possible.
type Plain struct {
	r *bufio.Reader
}

func (p *Plain) Input(label, def string) (string, error) {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (p *Plain) Password(label string) (string, error) {
	fmt.Printf("%s: ", label)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *Plain) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Printf("%s [%s]: ", label, hint)
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return def, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	case "":
		return def, nil
	default:
		return def, nil
	}
}

// ErrScriptExhausted is returned by Script when it runs out of answers.
var ErrScriptExhausted = errors.New("scripted prompter: no answers left")

// Script replays queued answers. Intended for tests and non-interactive runs.
type Script struct {
	Answers []string
	next    int
}

// NewScript builds a Script prompter from ordered answers.
func NewScript(answers ...string) *Script {
	return &Script{Answers: answers}
}

func (s *Script) pop() (string, error) {
	if s.next >= len(s.Answers) {
		return "", ErrScriptExhausted
	}
	a := s.Answers[s.next]
	s.next++
	return a, nil
}

func (s *Script) Input(label, def string) (string, error) {
	a, err := s.pop()
	if err != nil {
		return "", err
	}
	if a == "" {
		return def, nil
	}
	return a, nil
}

func (s *Script) Password(label string) (string, error) {
	return s.pop()
}

func (s *Script) Confirm(label string, def bool) (bool, error) {
	a, err := s.pop()
	if err != nil {
		return def, err
	}
	switch strings.ToLower(a) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	default:
		return def, nil
	}
}
