// Package consolesvc is the interactive terminal used by the EduTrack programs.
package consolesvc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/trezcool/edutrack/core"
)

var readPasswordFunc = term.ReadPassword // mockable

type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // file descriptor used for hidden input
	eof bool
}

var _ core.Console = (*Terminal)(nil)

// New returns a Terminal reading from stdin and writing to stdout.
func New() *Terminal {
	return NewTerminal(os.Stdin, os.Stdout, int(os.Stdin.Fd()))
}

func NewTerminal(in io.Reader, out io.Writer, fd int) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, fd: fd}
}

func (t *Terminal) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(t.out, format, args...)
}

// ReadLine returns "" once the input is exhausted.
func (t *Terminal) ReadLine(prompt string) string {
	t.Printf("%s", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil {
		t.eof = true
	}
	return strings.TrimSpace(line)
}

func (t *Terminal) ReadInt(prompt string) (int, error) {
	return strconv.Atoi(t.ReadLine(prompt))
}

// ReadPassword hides the input when fd is a terminal and falls back to a plain line otherwise.
func (t *Terminal) ReadPassword(prompt string) (string, error) {
	if !term.IsTerminal(t.fd) {
		return t.ReadLine(prompt), nil
	}
	t.Printf("%s", prompt)
	pwd, err := readPasswordFunc(t.fd)
	t.Printf("\n")
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (t *Terminal) Done() bool {
	return t.eof
}

func (t *Terminal) Confirm(question string) bool {
	ans := core.CleanString(t.ReadLine(question+" (y/n): "), true /* lower */)
	return ans == "y" || ans == "yes"
}
