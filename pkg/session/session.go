// Package session wires the build helper together: one Session owns the
// path resolver, the dispatcher, the downloader and the loaded
// configuration, and exposes the script-facing operations.
package session

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/karussell/bach/pkg/command"
	"github.com/karussell/bach/pkg/config"
	"github.com/karussell/bach/pkg/dispatch"
	"github.com/karussell/bach/pkg/download"
	"github.com/karussell/bach/pkg/errors"
	"github.com/karussell/bach/pkg/fsutil"
	"github.com/karussell/bach/pkg/logging"
	"github.com/karussell/bach/pkg/paths"
	"github.com/karussell/bach/pkg/tools"
)

// compileDumpLimit truncates the dumped source list of a compile run
const compileDumpLimit = 10

// Options contains configuration for a session
type Options struct {
	// Config is the loaded configuration; nil loads from the current
	// directory.
	Config *config.Config

	// FS is the filesystem all components operate on. Defaults to the
	// OS filesystem.
	FS afero.Fs

	// Out and Err are the tool output sinks. Default to the process
	// streams.
	Out io.Writer
	Err io.Writer

	// Client performs artifact downloads. Defaults to http.DefaultClient.
	Client *http.Client

	// Logger defaults to a component logger on the global sink when nil
	Logger *zerolog.Logger
}

// Session is the single-operator orchestration context
type Session struct {
	cfg        *config.Config
	resolver   *paths.Resolver
	dispatcher *dispatch.Dispatcher
	downloader *download.Downloader
	fs         afero.Fs
	out        io.Writer
	errOut     io.Writer
	logger     zerolog.Logger
}

// New creates a session, applying configured folder overrides
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(".")
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	logger := opts.Logger
	if logger == nil {
		l := logging.GetLogger("session")
		logger = &l
	}

	resolver := paths.NewResolver()
	for name, path := range cfg.Folders {
		folder, err := paths.FolderByName(name)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "folder override %q", name)
		}
		resolver.Override(folder, path)
	}

	s := &Session{
		cfg:      cfg,
		resolver: resolver,
		dispatcher: dispatch.New(dispatch.Options{
			Out:    out,
			Err:    errOut,
			Logger: logger,
		}),
		downloader: download.New(download.Options{
			FS:     fs,
			Client: opts.Client,
			Logger: logger,
		}),
		fs:     fs,
		out:    out,
		errOut: errOut,
		logger: *logger,
	}
	return s, nil
}

// Config returns the loaded configuration
func (s *Session) Config() *config.Config { return s.cfg }

// Path resolves a folder through the session's resolver
func (s *Session) Path(folder *paths.Folder) string {
	return s.resolver.Resolve(folder)
}

// Override relocates a folder for all subsequent resolutions
func (s *Session) Override(folder *paths.Folder, path string) {
	s.resolver.Override(folder, path)
}

// RegisterTool adds a custom in-process tool to the dispatcher
func (s *Session) RegisterTool(tool dispatch.Tool) error {
	return s.dispatcher.RegisterTool(tool)
}

// Command creates a command from an executable name and optional arguments
func (s *Session) Command(executable string, arguments ...interface{}) *command.Command {
	return command.New(executable).AddAll(arguments...)
}

// Call creates and executes a command
func (s *Session) Call(ctx context.Context, executable string, arguments ...interface{}) error {
	cmd := s.Command(executable, arguments...)
	logging.LogCommand(cmd.Executable(), cmd.Arguments())
	_, err := s.dispatcher.Execute(ctx, cmd)
	return err
}

// Fetch downloads an artifact into the dependencies folder
func (s *Session) Fetch(ctx context.Context, uri string) (string, error) {
	return s.downloader.Fetch(ctx, uri, s.Path(paths.Dependencies))
}

// FetchTo downloads an artifact into an explicit directory, such as the
// user-level cache shared across projects.
func (s *Session) FetchTo(ctx context.Context, uri, directory string) (string, error) {
	return s.downloader.Fetch(ctx, uri, directory)
}

// Compile compiles the module sources into the main target folder
func (s *Session) Compile(ctx context.Context) error {
	defer logging.LogOperationStart(s.logger, "compile")()

	src := s.Path(paths.Source)
	if _, err := s.fs.Stat(src); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "source path %q does not exist", src)
	}

	opts := tools.CompileOptionsFromConfig(s.cfg.Tools.Compile)
	if len(opts.ModulePaths) == 0 {
		opts.ModulePaths = []string{s.Path(paths.Dependencies)}
	}

	cmd := s.Command("javac").
		AddOptions(opts).
		Add("-d").
		Add(s.Path(paths.TargetMain)).
		Add("--module-source-path").
		Add(src).
		MarkDumpLimit(compileDumpLimit).
		AddMatchingFiles(s.fs, src, func(path string) bool {
			return fsutil.IsSourceFile(s.fs, path, ".java")
		})

	_, err := s.dispatcher.Execute(ctx, cmd)
	return err
}

// Format runs the formatter over the given source roots (the standard
// source folder when none are given). With replace the files are
// rewritten in place, otherwise formatting is validated.
func (s *Session) Format(ctx context.Context, replace bool, roots ...string) error {
	defer logging.LogOperationStart(s.logger, "format")()

	formatter := &tools.Formatter{
		URI:        s.cfg.Tools.Format.URI,
		Replace:    replace,
		Paths:      roots,
		Resolver:   s.resolver,
		Downloader: s.downloader,
		Dispatcher: s.dispatcher,
		FS:         s.fs,
		Logger:     s.logger,
	}

	if code := formatter.RunContext(ctx, s.out, s.errOut); code != 0 {
		return errors.Newf(errors.ErrExecutionFailed, "exit value %d indicates an error", code).
			WithDetail("exitCode", code)
	}
	return nil
}

// Clean empties the target folder, keeping the folder itself
func (s *Session) Clean() error {
	defer logging.LogOperationStart(s.logger, "clean")()

	return fsutil.CleanTree(s.fs, s.Path(paths.Target), true, nil)
}
