// Package prompt collects values from a user over a line-based console:
// single answers, batches of named fields and file contents.
package prompt

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/andrej220/provkit/internal/lg"
)

// InvalidResponseMessage is printed when an answer is outside the allowed set.
const InvalidResponseMessage = "Invalid response, try again!"

// Field is one value to ask for.
type Field struct {
	Name      string
	Sensitive bool
}

// Names turns bare names into non-sensitive fields.
func Names(names ...string) []Field {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		fields = append(fields, Field{Name: n})
	}
	return fields
}

// FileSystem is what CollectFiles needs from the disk.
type FileSystem interface {
	IsFile(path string) bool
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem reads from the local filesystem.
type OSFileSystem struct{}

func (OSFileSystem) IsFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

type Option func(*Collector)

func WithFileSystem(fs FileSystem) Option {
	return func(c *Collector) { c.fs = fs }
}

func WithLogger(logger lg.Logger) Option {
	return func(c *Collector) { c.logger = logger }
}

// Collector asks questions on a Console. It is not safe for concurrent use.
type Collector struct {
	console *Console
	fs      FileSystem
	logger  lg.Logger
}

func NewCollector(console *Console, opts ...Option) *Collector {
	c := &Collector{console: console, fs: OSFileSystem{}, logger: lg.Discard}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response prints question (and the allowed answers, if any) once, then
// reads until it gets an answer that is allowed. An empty allowed set
// accepts anything.
func (c *Collector) Response(question string, allowed []string, sensitive bool) (string, error) {
	c.console.Println(question)
	if len(allowed) > 0 {
		c.console.Printf("Permitted responses: %s\n", strings.Join(allowed, ", "))
	}
	for {
		var (
			answer string
			err    error
		)
		if sensitive {
			answer, err = c.console.ReadSecret()
		} else {
			answer, err = c.console.ReadLine()
		}
		if err != nil {
			return "", fmt.Errorf("read response to %q: %w", question, err)
		}
		if len(allowed) == 0 || slices.Contains(allowed, answer) {
			return answer, nil
		}
		c.logger.Debug("rejected response", lg.String("question", question))
		c.console.Println(InvalidResponseMessage)
	}
}

func question(name, textAppend string) string {
	q := "Input " + name
	if textAppend != "" {
		q += " " + textAppend
	}
	return q
}
