package tools

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/karussell/bach/pkg/command"
	"github.com/karussell/bach/pkg/dispatch"
	"github.com/karussell/bach/pkg/download"
	"github.com/karussell/bach/pkg/fsutil"
	"github.com/karussell/bach/pkg/paths"
)

// FormatToolName is the executable name the formatter answers to
const FormatToolName = "format"

// formatDumpLimit truncates the dumped file list of a format run
const formatDumpLimit = 10

// Formatter is an in-process tool that downloads the formatter artifact
// on first use and runs it over the configured source trees.
type Formatter struct {
	// URI locates the formatter artifact
	URI string

	// Replace rewrites files in place; otherwise formatting is validated
	Replace bool

	// Paths are the source roots to format; empty means the standard
	// source folder.
	Paths []string

	Resolver   *paths.Resolver
	Downloader *download.Downloader
	Dispatcher *dispatch.Dispatcher
	FS         afero.Fs
	Logger     zerolog.Logger
}

// Name implements dispatch.Tool
func (f *Formatter) Name() string { return FormatToolName }

// Run implements dispatch.Tool. Additional arguments are passed to the
// formatter ahead of the gathered source files.
func (f *Formatter) Run(out, errOut io.Writer, additionalArguments ...string) int {
	return f.RunContext(context.Background(), out, errOut, additionalArguments...)
}

// RunContext is Run with an explicit context for download and execution
func (f *Formatter) RunContext(ctx context.Context, out, errOut io.Writer, additionalArguments ...string) int {
	mode := "--validate"
	if f.Replace {
		mode = "--replace"
	}
	f.Logger.Debug().Str("mode", mode).Msg("Formatting sources")

	toolDir := filepath.Join(f.Resolver.Resolve(paths.Tools), "google-java-format")
	jar, err := f.Downloader.Fetch(ctx, f.URI, toolDir)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	roots := f.Paths
	if len(roots) == 0 {
		roots = []string{f.Resolver.Resolve(paths.Source)}
	}

	java := filepath.Join(f.Resolver.Resolve(paths.ToolchainBin), "java")
	exitValue := 0
	for _, root := range roots {
		cmd := command.New(java).
			Add("-jar").
			Add(jar).
			Add(mode).
			AddStrings(additionalArguments...).
			MarkDumpLimit(formatDumpLimit).
			AddMatchingFiles(f.FS, root, f.consumable)

		code, err := f.Dispatcher.ExecuteChecked(ctx, cmd, func(int) error { return nil })
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
		exitValue += code
	}
	return exitValue
}

// consumable filters the files the formatter can handle; module
// declarations are excluded because the formatter rejects them.
func (f *Formatter) consumable(path string) bool {
	if filepath.Base(path) == "module-info.java" {
		return false
	}
	return fsutil.IsSourceFile(f.FS, path, ".java")
}
