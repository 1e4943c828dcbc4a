// Package command builds ordered argument lists for external developer
// tools. A Command accumulates tokens in call order and carries a dump
// window so that very long argument lists (thousands of source files)
// can be printed in truncated form without hiding the structural flags.
package command

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/karussell/bach/pkg/errors"
)

// Command is an executable name plus its ordered argument list, prior to
// invocation. Arguments are append-only; their order is insertion order
// and is never changed. Builder methods record the first error and turn
// subsequent calls into no-ops, so call sites can chain freely and check
// Err once (the dispatcher does this before executing).
type Command struct {
	executable string
	arguments  []string
	dumpOffset int
	dumpLimit  int
	err        error
}

// New creates a command for the given executable
func New(executable string) *Command {
	return &Command{
		executable: executable,
		dumpOffset: math.MaxInt,
		dumpLimit:  math.MaxInt,
	}
}

// Executable returns the executable name
func (c *Command) Executable() string {
	return c.executable
}

// Arguments returns a copy of the accumulated argument list
func (c *Command) Arguments() []string {
	out := make([]string, len(c.arguments))
	copy(out, c.arguments)
	return out
}

// Err returns the first error recorded during construction, if any
func (c *Command) Err() error {
	return c.err
}

// Add stringifies and appends a single argument. A nil argument is a
// programmer error and is recorded as INVALID_ARGUMENT.
func (c *Command) Add(argument interface{}) *Command {
	if c.err != nil {
		return c
	}
	if argument == nil {
		c.err = errors.Newf(errors.ErrInvalidArgument, "nil argument for %q", c.executable)
		return c
	}
	c.arguments = append(c.arguments, stringify(argument))
	return c
}

// AddIf appends the argument only if the condition holds
func (c *Command) AddIf(condition bool, argument interface{}) *Command {
	if condition {
		return c.Add(argument)
	}
	return c
}

// AddAll appends each argument in order
func (c *Command) AddAll(arguments ...interface{}) *Command {
	for _, argument := range arguments {
		c.Add(argument)
	}
	return c
}

// AddPath joins the elements with the platform separator and appends the
// result as a single argument
func (c *Command) AddPath(elements ...string) *Command {
	return c.Add(filepath.Join(elements...))
}

// AddStrings appends each string in order
func (c *Command) AddStrings(arguments ...string) *Command {
	for _, argument := range arguments {
		c.Add(argument)
	}
	return c
}

// AddMatchingFiles walks the tree rooted at root and appends every
// regular file accepted by match. The walk is lexical, so the resulting
// argument order is deterministic for an unchanged filesystem.
func (c *Command) AddMatchingFiles(fsys afero.Fs, root string, match func(path string) bool) *Command {
	if c.err != nil {
		return c
	}
	var files []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && match(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		c.err = errors.Wrapf(err, errors.ErrFileAccess, "gathering files in %q failed", root)
		return c
	}
	// afero.Walk is already lexical per directory; sorting the flat list
	// keeps the contract independent of the walk implementation.
	sort.Strings(files)
	for _, file := range files {
		c.arguments = append(c.arguments, file)
	}
	return c
}

// MarkDumpLimit freezes the dump offset at the current argument count and
// allows limit further arguments to be printed before elision kicks in.
func (c *Command) MarkDumpLimit(limit int) *Command {
	c.dumpOffset = len(c.arguments)
	c.dumpLimit = c.dumpOffset + limit
	return c
}

// Dump emits the executable name followed by the argument list, one line
// per call to print. Arguments are indented unless they look like a flag
// or sit past the dump offset. Once the running position reaches the
// dump limit, a single elision line reports how many arguments are
// skipped and the final argument is printed unconditionally, so the
// trailing output path of a long file list stays visible.
func (c *Command) Dump(print func(line string)) {
	print(c.executable)
	last := len(c.arguments) - 1
	for i, argument := range c.arguments {
		position := i + 1
		indent := "  "
		if position > c.dumpOffset || strings.HasPrefix(argument, "-") {
			indent = ""
		}
		if position >= c.dumpLimit {
			omitted := 0
			if i < last {
				// the tripping argument is still within the window
				print(indent + argument)
				omitted = last - i - 1
			}
			print(fmt.Sprintf("%s... [omitted %d arguments]", indent, omitted))
			print(indent + c.arguments[last])
			return
		}
		print(indent + argument)
	}
}

// stringify converts an argument to its command-line token form
func stringify(argument interface{}) string {
	switch v := argument.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
