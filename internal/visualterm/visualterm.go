// Package visualterm implements the visual-mode terminal spawn contract
// (§6.4): a platform-specific registry of terminal emulator adapters,
// each reporting availability/priority, tried by requested name first
// then by highest priority available. Grounded on
// original_source/crates/terminal-mcp-session/src/visual/{registry,linux,
// macos,windows}.rs, implemented with os/exec in the shelling-out idiom
// cmd/vee/tmux.go already uses for tmux.
package visualterm

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// Handle is what a successful spawn returns (§6.4's {pid, terminal_name,
// window_id?}).
type Handle struct {
	PID          int
	TerminalName string
	WindowID     string
}

// Emulator is one terminal adapter: name, priority, availability, and the
// ability to spawn a command wrapped to run inside it.
type Emulator interface {
	Name() string
	Priority() int
	IsAvailable() bool
	Spawn(command string, args []string, dims geometry.Dimensions) (Handle, error)
}

// Registry holds every emulator adapter for one platform and selects
// among them by name or priority.
type Registry struct {
	emulators []Emulator
}

// DefaultRegistry builds a Registry for the running GOOS, following
// registry.rs's platform dispatch (Linux/macOS/Windows lists; this spec
// drops the Rust source's WSL-specific list since Go's runtime.GOOS
// doesn't distinguish WSL from Linux without a /proc probe irrelevant to
// everything this spec actually tests).
func DefaultRegistry() *Registry {
	switch runtime.GOOS {
	case "darwin":
		return &Registry{emulators: macosEmulators()}
	case "windows":
		return &Registry{emulators: windowsEmulators()}
	default:
		return &Registry{emulators: linuxEmulators()}
	}
}

// Available returns every available emulator sorted by descending
// priority.
func (r *Registry) Available() []Emulator {
	out := make([]Emulator, 0, len(r.emulators))
	for _, e := range r.emulators {
		if e.IsAvailable() {
			out = append(out, e)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Priority() < out[j].Priority(); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (r *Registry) byName(name string) Emulator {
	for _, e := range r.emulators {
		if strings.EqualFold(e.Name(), name) {
			return e
		}
	}
	return nil
}

// Spawn tries preferredName first (if non-empty and available), then
// falls through to the highest-priority available emulator. Returns an
// error only when nothing usable exists; callers treat that as "fall
// back to headless" per §6.4.
func (r *Registry) Spawn(preferredName, command string, args []string, dims geometry.Dimensions) (Handle, error) {
	if preferredName != "" {
		if e := r.byName(preferredName); e != nil && e.IsAvailable() {
			return e.Spawn(command, args, dims)
		}
	}
	available := r.Available()
	if len(available) == 0 {
		return Handle{}, txerr.New(txerr.KindPTYError, "no visual terminal emulator available")
	}
	return available[0].Spawn(command, args, dims)
}

// commandExists mirrors linux.rs's command_exists, resolving name against
// PATH with exec.LookPath.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func fullCommand(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

// shellWrapped builds an Emulator.Spawn implementation shared by every
// adapter that opens a new window running `bash -c <full command>` under
// some wrapping executable and flag, e.g. ("gnome-terminal", "--") or
// ("xterm", "-e").
type shellWrapped struct {
	exe      string
	flag     string
	name     string
	priority int
}

func (s shellWrapped) Name() string     { return s.name }
func (s shellWrapped) Priority() int    { return s.priority }
func (s shellWrapped) IsAvailable() bool { return commandExists(s.exe) }

func (s shellWrapped) Spawn(command string, args []string, _ geometry.Dimensions) (Handle, error) {
	full := fullCommand(command, args)
	cmd := exec.Command(s.exe, s.flag, "bash", "-c", full)
	if err := cmd.Start(); err != nil {
		return Handle{}, txerr.Wrap(txerr.KindPTYError, err, "spawn %s", s.exe)
	}
	return Handle{PID: cmd.Process.Pid, TerminalName: s.name}, nil
}

func linuxEmulators() []Emulator {
	return []Emulator{
		shellWrapped{exe: "gnome-terminal", flag: "--", name: "gnome-terminal", priority: 100},
		shellWrapped{exe: "konsole", flag: "-e", name: "konsole", priority: 100},
		shellWrapped{exe: "alacritty", flag: "-e", name: "alacritty", priority: 80},
		shellWrapped{exe: "kitty", flag: "-e", name: "kitty", priority: 80},
		shellWrapped{exe: "xterm", flag: "-e", name: "xterm", priority: 50},
		tmuxEmulator{},
	}
}

func macosEmulators() []Emulator {
	return []Emulator{
		iTerm2{},
		appleTerminal{},
	}
}

func windowsEmulators() []Emulator {
	return []Emulator{
		shellWrapped{exe: "wt", flag: "--", name: "windows-terminal", priority: 100},
		shellWrapped{exe: "powershell", flag: "-Command", name: "powershell", priority: 70},
		shellWrapped{exe: "cmd", flag: "/C", name: "cmd", priority: 50},
	}
}

// tmuxEmulator is the lowest-priority Linux fallback: it doesn't open a
// visible window by itself, but it's always available once tmux is
// installed, matching registry.rs's "tmux as last resort" note (carried
// here even outside the WSL list since headless callers that still want
// a Handle benefit from the same fallback).
type tmuxEmulator struct{}

func (tmuxEmulator) Name() string      { return "tmux" }
func (tmuxEmulator) Priority() int     { return 10 }
func (tmuxEmulator) IsAvailable() bool { return commandExists("tmux") }

func (tmuxEmulator) Spawn(command string, args []string, dims geometry.Dimensions) (Handle, error) {
	full := fullCommand(command, args)
	sessionName := fmt.Sprintf("tstmcp-fallback-%d", dims.Rows*10000+dims.Cols)
	cmd := exec.Command("tmux", "new-session", "-d", "-s", sessionName, "bash", "-c", full)
	if err := cmd.Start(); err != nil {
		return Handle{}, txerr.Wrap(txerr.KindPTYError, err, "spawn tmux fallback session")
	}
	return Handle{TerminalName: "tmux", WindowID: sessionName}, nil
}

// iTerm2 spawns via an osascript script, grounded on macos.rs's osascript
// approach, simplified to the common case of opening a new window that
// runs the command.
type iTerm2 struct{}

func (iTerm2) Name() string      { return "iterm2" }
func (iTerm2) Priority() int     { return 100 }
func (iTerm2) IsAvailable() bool { return commandExists("osascript") && appIsInstalled("iTerm") }

func (iTerm2) Spawn(command string, args []string, _ geometry.Dimensions) (Handle, error) {
	full := fullCommand(command, args)
	script := fmt.Sprintf(`tell application "iTerm"
  create window with default profile
  tell current session of current window
    write text "%s"
  end tell
end tell`, strings.ReplaceAll(full, `"`, `\"`))
	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Start(); err != nil {
		return Handle{}, txerr.Wrap(txerr.KindPTYError, err, "spawn iterm2")
	}
	return Handle{PID: cmd.Process.Pid, TerminalName: "iterm2"}, nil
}

type appleTerminal struct{}

func (appleTerminal) Name() string      { return "terminal.app" }
func (appleTerminal) Priority() int     { return 70 }
func (appleTerminal) IsAvailable() bool { return commandExists("osascript") }

func (appleTerminal) Spawn(command string, args []string, _ geometry.Dimensions) (Handle, error) {
	full := fullCommand(command, args)
	script := fmt.Sprintf(`tell application "Terminal"
  do script "%s"
end tell`, strings.ReplaceAll(full, `"`, `\"`))
	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Start(); err != nil {
		return Handle{}, txerr.Wrap(txerr.KindPTYError, err, "spawn Terminal.app")
	}
	return Handle{PID: cmd.Process.Pid, TerminalName: "terminal.app"}, nil
}

func appIsInstalled(name string) bool {
	cmd := exec.Command("osascript", "-e", fmt.Sprintf(`id of application "%s"`, name))
	return cmd.Run() == nil
}
