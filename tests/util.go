package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/user"
)

// Config returns the default configuration rooted in a fresh temporary directory.
func Config(t *testing.T) *core.Config {
	t.Helper()
	return core.DefaultConfig(t.TempDir())
}

// WriteFile writes content to name inside dir, creating parents as needed.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	return string(data)
}

func CreateUser(t *testing.T, repo user.Repository, uname, role, pwd string) user.User {
	t.Helper()
	usr := user.User{Username: uname, Role: role}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	if err := usr.SetAnswer(user.SecurityQuestions[0], "rex"); err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

// Logger records log messages per level.
type Logger struct {
	mu       sync.Mutex
	Messages map[string][]string
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{Messages: make(map[string][]string)}
}

func (l *Logger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages[level] = append(l.Messages[level], msg)
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.log("debug", msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.log("info", msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.log("warn", msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.log("error", msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.log("fatal", msg) }

func (l *Logger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Messages[level])
}

// Console replays scripted operator input and records everything printed.
type Console struct {
	inputs []string
	out    strings.Builder
}

var _ core.Console = (*Console)(nil)

func NewConsole(inputs ...string) *Console {
	return &Console{inputs: inputs}
}

// Feed appends more scripted input.
func (c *Console) Feed(inputs ...string) {
	c.inputs = append(c.inputs, inputs...)
}

func (c *Console) next() string {
	if len(c.inputs) == 0 {
		return ""
	}
	in := c.inputs[0]
	c.inputs = c.inputs[1:]
	return in
}

func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&c.out, format, args...)
}

func (c *Console) ReadLine(prompt string) string {
	c.out.WriteString(prompt)
	return strings.TrimSpace(c.next())
}

func (c *Console) ReadInt(prompt string) (int, error) {
	return strconv.Atoi(c.ReadLine(prompt))
}

func (c *Console) ReadPassword(prompt string) (string, error) {
	c.out.WriteString(prompt)
	return c.next(), nil
}

func (c *Console) Confirm(question string) bool {
	ans := strings.ToLower(c.ReadLine(question + " (y/n): "))
	return ans == "y" || ans == "yes"
}

func (c *Console) Output() string {
	return c.out.String()
}

// Done is true once every scripted input has been consumed.
func (c *Console) Done() bool {
	return len(c.inputs) == 0
}

// Remaining is the number of scripted inputs not consumed yet.
func (c *Console) Remaining() int {
	return len(c.inputs)
}
