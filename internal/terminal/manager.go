// Package terminal runs the external text editor in a PTY whose output is
// streamed to the frontend's xterm.js.
package terminal

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/creack/pty"
)

// Manager owns at most one PTY editor session.
type Manager struct {
	mu      sync.Mutex
	ptmx    *os.File
	cmd     *exec.Cmd
	onData  func(data []byte)
	onExit  func(exitLine int)
	running bool
	editor  string

	cols, rows uint16 // applied at the next OpenFile
	cursorFile string // the editor writes its cursor line here on exit
	shellPath  string
}

// resolveEditor finds the absolute path for the editor binary.
// GUI apps don't inherit the shell's $PATH, so common install
// locations are probed as a fallback.
func resolveEditor(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	candidates := []string{
		filepath.Join("/opt/homebrew/bin", name),
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/run/current-system/sw/bin", name),
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".local/bin", name),
			filepath.Join(home, ".nix-profile/bin", name),
		)
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return name
}

// resolveShellPath asks the user's login shell for its PATH so tools
// launched from the editor are found.
func resolveShellPath() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	out, err := exec.Command(shell, "-lc", "echo $PATH").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// New creates a manager for editorCommand ($EDITOR, then nvim, when empty).
func New(editorCommand string, onData func(data []byte), onExit func(exitLine int)) *Manager {
	if editorCommand == "" {
		editorCommand = os.Getenv("EDITOR")
	}
	if editorCommand == "" {
		editorCommand = "nvim"
	}
	return &Manager{
		onData:     onData,
		onExit:     onExit,
		editor:     resolveEditor(editorCommand),
		cols:       80,
		rows:       24,
		cursorFile: filepath.Join(os.TempDir(), fmt.Sprintf("posterdesk_cursor_%d", os.Getpid())),
		shellPath:  resolveShellPath(),
	}
}

// Editor returns the resolved editor binary.
func (m *Manager) Editor() string { return m.editor }

// editorArgs opens path at line and records the cursor line on exit.
func editorArgs(path string, line int, cursorFile string) []string {
	var args []string
	if line > 0 {
		args = append(args, fmt.Sprintf("+%d", line))
	}
	return append(args,
		"-c", fmt.Sprintf("autocmd VimLeave * call writefile([line('.')], '%s')", cursorFile),
		path,
	)
}

// editorEnv replaces PATH with shellPath and sets a 256-colour terminal.
func editorEnv(env []string, shellPath string) []string {
	out := make([]string, 0, len(env)+3)
	replaced := false
	for _, e := range env {
		if shellPath != "" && strings.HasPrefix(e, "PATH=") {
			e = "PATH=" + shellPath
			replaced = true
		}
		out = append(out, e)
	}
	if shellPath != "" && !replaced {
		out = append(out, "PATH="+shellPath)
	}
	return append(out, "TERM=xterm-256color", "COLORTERM=truecolor")
}

// OpenFile starts the editor on path at line (<= 0 opens at the top),
// closing any running session first.
func (m *Manager) OpenFile(path string, line int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.closeLocked()
	}
	os.Remove(m.cursorFile)

	cmd := exec.Command(m.editor, editorArgs(path, line, m.cursorFile)...)
	cmd.Env = editorEnv(os.Environ(), m.shellPath)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: m.cols, Rows: m.rows})
	if err != nil {
		return fmt.Errorf("start pty: %w", err)
	}
	m.ptmx = ptmx
	m.cmd = cmd
	m.running = true

	go m.pump(ptmx)
	return nil
}

// pump forwards PTY output until the process exits.
func (m *Manager) pump(ptmx *os.File) {
	buf := make([]byte, 32*1024)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 && m.onData != nil {
			data := make([]byte, n)
			copy(data, buf[:n])
			m.onData(data)
		}
		if err != nil {
			break
		}
	}

	exitLine := 0
	if data, err := os.ReadFile(m.cursorFile); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil {
			exitLine = n
		}
		os.Remove(m.cursorFile)
	}

	m.mu.Lock()
	current := m.ptmx == ptmx || m.ptmx == nil
	if m.ptmx == ptmx {
		m.running = false
	}
	m.mu.Unlock()
	if current && m.onExit != nil {
		m.onExit(exitLine)
	}
}

// Write sends keystrokes from xterm.js to the PTY.
func (m *Manager) Write(data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running || m.ptmx == nil {
		return fmt.Errorf("no active terminal session")
	}
	_, err := io.WriteString(m.ptmx, data)
	return err
}

// Resize updates the PTY window size; it is remembered for the next session.
func (m *Manager) Resize(cols, rows uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cols, m.rows = cols, rows
	if !m.running || m.ptmx == nil {
		return nil
	}
	return pty.Setsize(m.ptmx, &pty.Winsize{Cols: cols, Rows: rows})
}

func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Close kills the running session, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

func (m *Manager) closeLocked() {
	if m.cmd != nil && m.cmd.Process != nil {
		m.cmd.Process.Kill()
		m.cmd.Wait()
		m.cmd = nil
	}
	if m.ptmx != nil {
		m.ptmx.Close()
		m.ptmx = nil
	}
	m.running = false
}
