package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotTerminal is returned by TerminalSecrets when input is not a tty.
var ErrNotTerminal = errors.New("input is not a terminal")

// PasswordLabel is shown when reading a sensitive answer.
const PasswordLabel = "Password:"

// SecretReader reads one answer without echoing it.
type SecretReader interface {
	ReadSecret(label string) (string, error)
}

// Console bundles the streams a Collector talks to. Substitute the streams
// in tests; use Stdio for the real terminal.
type Console struct {
	in      *bufio.Reader
	out     io.Writer
	secrets SecretReader
}

// NewConsole builds a Console. A nil secrets reader makes sensitive answers
// fall back to a plain line read after printing the password label.
func NewConsole(in io.Reader, out io.Writer, secrets SecretReader) *Console {
	return &Console{in: bufio.NewReader(in), out: out, secrets: secrets}
}

// Stdio returns a Console on the process's stdin/stdout with masked input
// when stdin is a terminal.
func Stdio() *Console {
	return NewConsole(os.Stdin, os.Stdout, TerminalSecrets{In: os.Stdin, Out: os.Stdout})
}

func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// ReadLine returns the next line without its terminator. A final line with
// no newline is returned as is; io.EOF is returned only when nothing was read.
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret reads a sensitive answer. It never touches the plain input
// stream unless no SecretReader is configured or the reader reports
// ErrNotTerminal.
func (c *Console) ReadSecret() (string, error) {
	if c.secrets != nil {
		s, err := c.secrets.ReadSecret(PasswordLabel)
		if !errors.Is(err, ErrNotTerminal) {
			return s, err
		}
	}
	fmt.Fprint(c.out, PasswordLabel)
	return c.ReadLine()
}

// TerminalSecrets reads with echo disabled using golang.org/x/term.
type TerminalSecrets struct {
	In  *os.File
	Out io.Writer
}

func (t TerminalSecrets) ReadSecret(label string) (string, error) {
	fd := int(t.In.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}
	fmt.Fprint(t.Out, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(t.Out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(b), nil
}
