// Package dispatch executes built commands through a three-tier
// strategy: session-registered custom tools run in-process first,
// process-wide providers second, and only then is an external process
// spawned. All tiers normalize to an integer exit code.
package dispatch

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/karussell/bach/pkg/command"
	"github.com/karussell/bach/pkg/errors"
	"github.com/karussell/bach/pkg/logging"
	"github.com/karussell/bach/pkg/registry"
)

// ExitChecker inspects a captured exit code and decides whether the
// execution counts as failed.
type ExitChecker func(exitCode int) error

// DefaultExitChecker fails on any non-zero exit code
func DefaultExitChecker(exitCode int) error {
	if exitCode == 0 {
		return nil
	}
	return errors.Newf(errors.ErrExecutionFailed, "exit value %d indicates an error", exitCode).
		WithDetail("exitCode", exitCode)
}

// Options contains configuration for the dispatcher
type Options struct {
	// Out receives tool output; external processes have their error
	// stream merged into it. Defaults to os.Stdout.
	Out io.Writer

	// Err receives the error stream of in-process tools. Defaults to
	// os.Stderr.
	Err io.Writer

	// Logger defaults to a component logger on the global sink when nil
	Logger *zerolog.Logger
}

// Dispatcher executes commands. The custom tool registry is populated by
// the caller before dispatch and read thereafter.
type Dispatcher struct {
	custom registry.Registry[Tool]
	out    io.Writer
	errOut io.Writer
	logger zerolog.Logger
}

// New creates a dispatcher
func New(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		l := logging.GetLogger("dispatch")
		logger = &l
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	return &Dispatcher{
		custom: registry.New[Tool](),
		out:    out,
		errOut: errOut,
		logger: *logger,
	}
}

// RegisterTool adds a custom tool taking priority over both discovered
// providers and external executables of the same name.
func (d *Dispatcher) RegisterTool(tool Tool) error {
	return d.custom.Register(tool.Name(), tool)
}

// Execute runs the command and applies the default exit checker
func (d *Dispatcher) Execute(ctx context.Context, cmd *command.Command) (int, error) {
	return d.ExecuteChecked(ctx, cmd, DefaultExitChecker)
}

// ExecuteChecked runs the command and applies the supplied exit checker.
// Dispatch order, first match wins: custom tool, discovered provider,
// external process.
func (d *Dispatcher) ExecuteChecked(ctx context.Context, cmd *command.Command, check ExitChecker) (int, error) {
	if err := cmd.Err(); err != nil {
		return -1, err
	}

	d.dump(zerolog.DebugLevel, cmd)

	executable := cmd.Executable()
	args := cmd.Arguments()
	start := time.Now()

	var exitCode int
	switch {
	case d.custom.Has(executable):
		tool, _ := d.custom.Get(executable)
		d.logger.Debug().Str("executable", executable).Msg("Executing custom tool in-process")
		exitCode = tool.Run(d.out, d.errOut, args...)

	default:
		if tool, ok := Lookup(executable); ok {
			d.logger.Debug().Str("executable", executable).Msg("Executing discovered tool in-process")
			exitCode = tool.Run(d.out, d.errOut, args...)
			break
		}

		d.logger.Debug().Str("executable", executable).Msg("Executing external tool in new process")
		code, err := d.spawn(ctx, executable, args)
		if err != nil {
			// Never fail silently about what was attempted
			if !d.levelEnabled(zerolog.DebugLevel) {
				d.dump(zerolog.ErrorLevel, cmd)
			}
			return -1, err
		}
		exitCode = code
	}

	d.logger.Debug().
		Str("executable", executable).
		Int("exitCode", exitCode).
		Dur("duration", time.Since(start)).
		Msg("Command finished")

	if check == nil {
		check = DefaultExitChecker
	}
	if err := check(exitCode); err != nil {
		return exitCode, err
	}
	return exitCode, nil
}

// spawn runs the executable as an external process with its error
// stream merged into the output stream, streaming live to the out sink.
func (d *Dispatcher) spawn(ctx context.Context, executable string, args []string) (int, error) {
	proc := exec.CommandContext(ctx, executable, args...)
	proc.Stdout = d.out
	proc.Stderr = d.out

	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, errors.Wrapf(err, errors.ErrSpawn, "execution of %q as process failed", executable)
	}
	return 0, nil
}

func (d *Dispatcher) levelEnabled(level zerolog.Level) bool {
	return level >= d.logger.GetLevel() && level >= zerolog.GlobalLevel()
}

func (d *Dispatcher) dump(level zerolog.Level, cmd *command.Command) {
	if !d.levelEnabled(level) {
		return
	}
	cmd.Dump(func(line string) {
		d.logger.WithLevel(level).Msg(line)
	})
}
