package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karussell/bach/pkg/config"
	"github.com/karussell/bach/pkg/dispatch"
	"github.com/karussell/bach/pkg/errors"
	"github.com/karussell/bach/pkg/paths"
	"github.com/karussell/bach/pkg/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Folders: map[string]string{},
		Tools: config.ToolsConfig{
			Compile: config.CompileConfig{
				Deprecation: true,
				Encoding:    "UTF-8",
				Werror:      true,
				Parameters:  true,
			},
		},
	}
}

func newTestSession(t *testing.T, cfg *config.Config, out io.Writer) *Session {
	t.Helper()
	logger := zerolog.New(io.Discard)
	s, err := New(Options{
		Config: cfg,
		FS:     afero.NewOsFs(),
		Out:    out,
		Err:    out,
		Logger: &logger,
	})
	require.NoError(t, err)
	return s
}

func TestCallRunsCustomTool(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(t, testConfig(), &out)

	require.NoError(t, s.RegisterTool(dispatch.ToolFunc{
		ToolName: "banner",
		Fn: func(out, errOut io.Writer, args ...string) int {
			fmt.Fprintf(out, "banner %v", args)
			return 0
		},
	}))

	err := s.Call(context.Background(), "banner", "v", 1)
	require.NoError(t, err)
	assert.Equal(t, "banner [v 1]", out.String())
}

func TestConfiguredFolderOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Folders["target"] = "build-out"

	s := newTestSession(t, cfg, io.Discard)

	assert.Equal(t, "build-out", s.Path(paths.Target))
	assert.Equal(t, filepath.Join("build-out", "main"), s.Path(paths.TargetMain))
	// Siblings of untouched folders keep their defaults
	assert.Equal(t, paths.SourceDirName, s.Path(paths.Source))
}

func TestUnknownFolderOverrideFails(t *testing.T) {
	cfg := testConfig()
	cfg.Folders["no-such-folder"] = "anywhere"

	_, err := New(Options{Config: cfg})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestCompileBuildsJavacInvocation(t *testing.T) {
	root := t.TempDir()
	srcDir := testutil.CreateDir(t, root, "src")
	testutil.CreateFile(t, srcDir, "m/Main.java", "class Main {}")
	testutil.CreateFile(t, srcDir, "m/Other.java", "class Other {}")

	s := newTestSession(t, testConfig(), io.Discard)
	s.Override(paths.Source, srcDir)
	s.Override(paths.Target, filepath.Join(root, "target"))
	s.Override(paths.Auxiliary, filepath.Join(root, ".bach"))

	var captured []string
	require.NoError(t, s.RegisterTool(dispatch.ToolFunc{
		ToolName: "javac",
		Fn: func(out, errOut io.Writer, args ...string) int {
			captured = args
			return 0
		},
	}))

	require.NoError(t, s.Compile(context.Background()))

	require.NotEmpty(t, captured)
	assert.Contains(t, captured, "-deprecation")
	assert.Contains(t, captured, "-Werror")
	assert.Contains(t, captured, "-parameters")
	assert.Contains(t, captured, "-d")
	assert.Contains(t, captured, filepath.Join(root, "target", "main"))
	assert.Contains(t, captured, "--module-source-path")
	assert.Contains(t, captured, filepath.Join(srcDir, "m", "Main.java"))
	assert.Contains(t, captured, filepath.Join(srcDir, "m", "Other.java"))
	// Sources come after the structural flags
	assert.Equal(t, filepath.Join(srcDir, "m", "Other.java"), captured[len(captured)-1])
}

func TestCompileMissingSource(t *testing.T) {
	s := newTestSession(t, testConfig(), io.Discard)
	s.Override(paths.Source, filepath.Join(t.TempDir(), "no-src"))

	err := s.Compile(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCompilePropagatesToolFailure(t *testing.T) {
	root := t.TempDir()
	srcDir := testutil.CreateDir(t, root, "src")
	testutil.CreateFile(t, srcDir, "Broken.java", "class {")

	s := newTestSession(t, testConfig(), io.Discard)
	s.Override(paths.Source, srcDir)

	require.NoError(t, s.RegisterTool(dispatch.ToolFunc{
		ToolName: "javac",
		Fn: func(out, errOut io.Writer, args ...string) int {
			return 2
		},
	}))

	err := s.Compile(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExecutionFailed))
}

func TestCleanEmptiesTarget(t *testing.T) {
	root := t.TempDir()
	targetDir := testutil.CreateDir(t, root, "target")
	testutil.CreateFile(t, targetDir, "stale.class", "x")

	s := newTestSession(t, testConfig(), io.Discard)
	s.Override(paths.Target, targetDir)

	require.NoError(t, s.Clean())

	assert.True(t, testutil.FileExists(t, targetDir))
	assert.False(t, testutil.FileExists(t, filepath.Join(targetDir, "stale.class")))
}
