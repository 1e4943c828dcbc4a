// Package tools provides the built-in tool configurations and in-process
// tool providers that drive the command engine.
package tools

import (
	"github.com/karussell/bach/pkg/command"
	"github.com/karussell/bach/pkg/config"
	"github.com/karussell/bach/pkg/fsutil"
)

// DefaultEncoding is the source encoding assumed when none is configured
const DefaultEncoding = "UTF-8"

// CompileOptions holds the compiler invocation settings. The option
// schema below projects them to tokens in declaration order.
type CompileOptions struct {
	// AdditionalArguments are appended verbatim
	AdditionalArguments []string

	// Deprecation outputs source locations where deprecated APIs are used
	Deprecation bool

	// Encoding is the character encoding used by source files
	Encoding string

	// FailOnWarnings terminates compilation if warnings occur
	FailOnWarnings bool

	// ModulePaths lists where to find application modules
	ModulePaths []string

	// Parameters generates metadata for reflection on method parameters
	Parameters bool

	// Verbose outputs messages about what the compiler is doing
	Verbose bool
}

// CompileOptionsFromConfig builds options from loaded configuration
func CompileOptionsFromConfig(cfg config.CompileConfig) *CompileOptions {
	return &CompileOptions{
		AdditionalArguments: cfg.Args,
		Deprecation:         cfg.Deprecation,
		Encoding:            cfg.Encoding,
		FailOnWarnings:      cfg.Werror,
		ModulePaths:         cfg.ModulePaths,
		Parameters:          cfg.Parameters,
		Verbose:             cfg.Verbose,
	}
}

// Options returns the option schema in declaration order
func (o *CompileOptions) Options() []command.Option {
	return []command.Option{
		command.Passthrough(o.AdditionalArguments),
		command.Flag("deprecation", o.Deprecation),
		command.Derived(o.encoding),
		command.Derived(o.failOnWarnings),
		command.Derived(o.modulePaths),
		command.Flag("parameters", o.Parameters),
		command.Flag("verbose", o.Verbose),
	}
}

// encoding is emitted only when it differs from the assumed default
func (o *CompileOptions) encoding() []string {
	if o.Encoding == "" || o.Encoding == DefaultEncoding {
		return nil
	}
	return []string{"-encoding", o.Encoding}
}

func (o *CompileOptions) failOnWarnings() []string {
	if o.FailOnWarnings {
		return []string{"-Werror"}
	}
	return nil
}

func (o *CompileOptions) modulePaths() []string {
	if len(o.ModulePaths) == 0 {
		return nil
	}
	return []string{"--module-path", fsutil.JoinPaths(o.ModulePaths)}
}
