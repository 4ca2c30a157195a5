//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

var binPath = "gitsuggest_e2e"

const (
	scrollback = 1 << 20
	pollEvery  = 25 * time.Millisecond
)

// Keys as the terminal sends them
const (
	KeyEnter = "\r"
	KeyCtrlC = "\x03"
	KeyEsc   = "\x1b"
	KeyDown  = "\x1b[B"
	KeyQuit  = "q"
)

// ansiRe strips CSI, OSC, charset and keypad sequences plus carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// screen keeps the last scrollback bytes the widget wrote
type screen struct {
	mu   sync.Mutex
	data []byte
}

func (s *screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, p...)
	if over := len(s.data) - scrollback; over > 0 {
		s.data = append(s.data[:0], s.data[over:]...)
	}
	return len(p), nil
}

func (s *screen) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.data)
}

// TUITestFramework runs the widget in a PTY against a fake search API
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	cmd       *exec.Cmd
	workspace string
	api       *fakeAPI
	out       screen
}

// NewTUITest creates a new TUI test framework instance
func NewTUITest(t *testing.T) *TUITestFramework {
	return &TUITestFramework{t: t}
}

// StartApp launches gitsuggest in a 40x120 PTY
func (tf *TUITestFramework) StartApp(args ...string) error {
	tf.cmd = exec.Command(binPath, args...)
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace,
		"XDG_CONFIG_HOME="+filepath.Join(tf.workspace, ".config"),
		"GITSUGGEST_CONFIG=",
		"GITSUGGEST_LOG__FILE="+tf.LogPath(),
		"GITSUGGEST_E2E_TEST=1",
	)
	if tf.api != nil {
		tf.cmd.Env = append(tf.cmd.Env,
			"GITSUGGEST_API__PERSON_ENDPOINT="+tf.api.URL()+"/search/users",
			"GITSUGGEST_API__REPOSITORY_ENDPOINT="+tf.api.URL()+"/search/repositories",
		)
	}

	f, err := pty.StartWithSize(tf.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start in pty: %w", err)
	}
	tf.pty = f

	go func() {
		buf := make([]byte, 8192)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				_, _ = tf.out.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()
	return nil
}

// SendKeys writes raw keys to the terminal
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// Type sends text one rune at a time, the way a user types
func (tf *TUITestFramework) Type(text string) error {
	tf.t.Helper()
	for _, r := range text {
		if err := tf.SendKeys(string(r)); err != nil {
			return err
		}
		time.Sleep(20 * time.Millisecond)
	}
	return nil
}

func (tf *TUITestFramework) Enter() error     { return tf.SendKeys(KeyEnter) }
func (tf *TUITestFramework) Down() error      { return tf.SendKeys(KeyDown) }
func (tf *TUITestFramework) Esc() error       { return tf.SendKeys(KeyEsc) }
func (tf *TUITestFramework) Quit() error      { return tf.SendKeys(KeyQuit) }
func (tf *TUITestFramework) SendCtrlC() error { return tf.SendKeys(KeyCtrlC) }

// Ready waits for the readiness marker printed in test mode
func (tf *TUITestFramework) Ready() bool {
	tf.t.Helper()
	return tf.waitFor(func(s string) bool { return strings.Contains(s, "__READY__") }, 5*time.Second)
}

// SeePlain waits up to 3s for text in the ANSI-free output
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.OutputContainsPlain(text, 3*time.Second)
}

// OutputContainsPlain waits for text in the ANSI-free output
func (tf *TUITestFramework) OutputContainsPlain(text string, timeout time.Duration) bool {
	tf.t.Helper()
	return tf.waitFor(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}, timeout)
}

// WaitForE is waitFor with the output tail attached to the error
func (tf *TUITestFramework) WaitForE(pred func(string) bool, timeout time.Duration, failMsg string) error {
	tf.t.Helper()
	if tf.waitFor(pred, timeout) {
		return nil
	}
	tail := tf.SnapshotPlain()
	if len(tail) > 4096 {
		tail = tail[len(tail)-4096:]
	}
	return fmt.Errorf("%s\n--- tail ---\n%s", failMsg, tail)
}

func (tf *TUITestFramework) waitFor(pred func(string) bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for !pred(tf.out.String()) {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollEvery)
	}
	return true
}

// SnapshotPlain returns everything written so far without ANSI sequences
func (tf *TUITestFramework) SnapshotPlain() string {
	return ansiRe.ReplaceAllString(tf.out.String(), "")
}

// DumpTailOnFail saves the last n bytes of plain output for debugging
func (tf *TUITestFramework) DumpTailOnFail(t *testing.T, name string, n int) {
	s := tf.SnapshotPlain()
	if len(s) > n {
		s = s[len(s)-n:]
	}
	p := filepath.Join(t.TempDir(), name+".txt")
	_ = os.WriteFile(p, []byte(s), 0644)
	t.Logf("Saved tail to %s", p)
}

// Cleanup closes the PTY, kills the widget and stops the fake API
func (tf *TUITestFramework) Cleanup() {
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil {
		_ = tf.cmd.Process.Kill()
		_, _ = tf.cmd.Process.Wait()
		tf.cmd = nil
	}
	if tf.api != nil {
		tf.api.Close()
		tf.api = nil
	}
}
