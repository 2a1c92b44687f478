// Package daemon installs keyhint as a per-user launchd agent.
//
// The agent's property list is written to ~/Library/LaunchAgents and
// managed through launchctl in the gui/<uid> domain.
package daemon

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"text/template"
)

// DefaultLabel is the launchd label of the agent.
const DefaultLabel = "io.github.dshills.keyhint"

// Launchctl is the launchctl executable.
const Launchctl = "/bin/launchctl"

// ErrLaunchctl wraps failed launchctl invocations.
var ErrLaunchctl = errors.New("launchctl failed")

// Runner executes a command and reports a non-zero exit as an error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, discarding their output.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Agent manages one launchd agent.
type Agent struct {
	Label      string
	Executable string

	// Args are passed to Executable after its path.
	Args []string

	// Dir holds the property list, normally ~/Library/LaunchAgents.
	Dir string

	// LogPath receives the agent's stdout and stderr when set.
	LogPath string

	UID    int
	Runner Runner
	Logger *slog.Logger
}

// New creates an agent for executable with the default label, directory
// and runner.
func New(executable string, args ...string) (*Agent, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return &Agent{
		Label:      DefaultLabel,
		Executable: executable,
		Args:       args,
		Dir:        filepath.Join(home, "Library", "LaunchAgents"),
		LogPath:    filepath.Join(home, "Library", "Logs", "keyhint.log"),
		UID:        os.Getuid(),
		Runner:     ExecRunner{},
		Logger:     slog.Default(),
	}, nil
}

// PlistPath returns where the property list is written.
func (a *Agent) PlistPath() string {
	return filepath.Join(a.Dir, a.Label+".plist")
}

func (a *Agent) domain() string {
	return "gui/" + strconv.Itoa(a.UID)
}

func (a *Agent) target() string {
	return a.domain() + "/" + a.Label
}

var plistTemplate = template.Must(template.New("plist").Funcs(template.FuncMap{
	"xml": func(s string) (string, error) {
		var b bytes.Buffer
		if err := xml.EscapeText(&b, []byte(s)); err != nil {
			return "", err
		}
		return b.String(), nil
	},
}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{xml .Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{xml .Executable}}</string>
{{- range .Args}}
		<string>{{xml .}}</string>
{{- end}}
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>ProcessType</key>
	<string>Interactive</string>
{{- if .LogPath}}
	<key>StandardOutPath</key>
	<string>{{xml .LogPath}}</string>
	<key>StandardErrorPath</key>
	<string>{{xml .LogPath}}</string>
{{- end}}
</dict>
</plist>
`))

// Plist renders the agent's property list.
func (a *Agent) Plist() ([]byte, error) {
	var b bytes.Buffer
	if err := plistTemplate.Execute(&b, a); err != nil {
		return nil, fmt.Errorf("rendering plist: %w", err)
	}
	return b.Bytes(), nil
}

func (a *Agent) launchctl(ctx context.Context, args ...string) error {
	a.logger().Debug("launchctl", "args", args)
	if err := a.Runner.Run(ctx, Launchctl, args...); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLaunchctl, args[0], err)
	}
	return nil
}

func (a *Agent) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Loaded reports whether launchd knows the agent.
func (a *Agent) Loaded(ctx context.Context) bool {
	return a.launchctl(ctx, "print", a.target()) == nil
}

// Start writes the property list and starts the agent, bootstrapping it
// first when launchd does not know it yet.
func (a *Agent) Start(ctx context.Context) error {
	data, err := a.Plist()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", a.Dir, err)
	}
	if err := os.WriteFile(a.PlistPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing plist: %w", err)
	}

	if a.Loaded(ctx) {
		return a.launchctl(ctx, "kickstart", a.target())
	}
	if err := a.launchctl(ctx, "enable", a.target()); err != nil {
		a.logger().Warn("enabling agent", "err", err)
	}
	return a.launchctl(ctx, "bootstrap", a.domain(), a.PlistPath())
}

// Stop unloads and disables the agent, or kills it when it is not
// loaded, then removes the property list.
func (a *Agent) Stop(ctx context.Context) error {
	if a.Loaded(ctx) {
		if err := a.launchctl(ctx, "bootout", a.domain(), a.PlistPath()); err != nil {
			a.logger().Warn("booting out agent", "err", err)
		}
		if err := a.launchctl(ctx, "disable", a.target()); err != nil {
			return err
		}
	} else if err := a.launchctl(ctx, "kill", "SIGTERM", a.target()); err != nil {
		return err
	}

	if err := os.Remove(a.PlistPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing plist: %w", err)
	}
	return nil
}

// Restart kills and restarts the running agent.
func (a *Agent) Restart(ctx context.Context) error {
	return a.launchctl(ctx, "kickstart", "-k", a.target())
}
