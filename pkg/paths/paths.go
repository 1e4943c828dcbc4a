// Package paths provides centralized path handling for bach.
// The standard build tree is modelled as immutable Folder nodes with
// parent links; a Resolver turns a Folder into a concrete path,
// honoring caller-supplied overrides.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/karussell/bach/pkg/errors"
)

// Environment variable names
const (
	// EnvToolchainHome overrides the toolchain installation directory
	EnvToolchainHome = "BACH_TOOLCHAIN_HOME"

	// EnvJdkHome is the conventional JDK installation variable
	EnvJdkHome = "JDK_HOME"

	// EnvJavaHome is the conventional Java installation variable
	EnvJavaHome = "JAVA_HOME"
)

// Default directories
// IMPORTANT: These constants define bach's standard build tree and are not
// user-configurable here. Relocation happens through Resolver overrides,
// typically populated from pkg/config.
const (
	// AuxiliaryDirName is the directory name for bach-specific files
	AuxiliaryDirName = ".bach"

	// DependenciesDirName is the subdirectory for resolved dependencies
	DependenciesDirName = "dependencies"

	// ToolsDirName is the subdirectory for downloaded tools
	ToolsDirName = "tools"

	// SourceDirName is the default source directory
	SourceDirName = "src"
)

// Folder is a node in the standard build tree: an optional parent node
// plus a relative path segment. Folders are created once at package
// initialization, so the parent chain is acyclic by construction.
type Folder struct {
	name    string
	parent  *Folder
	segment string
}

// Name returns the symbolic identifier used in configuration files
func (f *Folder) Name() string { return f.name }

// Parent returns the parent folder, or nil for a root folder
func (f *Folder) Parent() *Folder { return f.parent }

// Segment returns the default relative path segment
func (f *Folder) Segment() string { return f.segment }

func (f *Folder) String() string { return f.name }

// The standard build tree
var (
	ToolchainHome = &Folder{name: "toolchain-home", segment: toolchainHome()}
	ToolchainBin  = &Folder{name: "toolchain-bin", parent: ToolchainHome, segment: "bin"}

	Auxiliary    = &Folder{name: "auxiliary", segment: AuxiliaryDirName}
	Dependencies = &Folder{name: "dependencies", parent: Auxiliary, segment: DependenciesDirName}
	Tools        = &Folder{name: "tools", parent: Auxiliary, segment: ToolsDirName}

	Source = &Folder{name: "source", segment: SourceDirName}

	Target     = &Folder{name: "target", segment: filepath.Join("target", "bach")}
	TargetMain = &Folder{name: "target-main", parent: Target, segment: "main"}
)

var standard = []*Folder{
	ToolchainHome,
	ToolchainBin,
	Auxiliary,
	Dependencies,
	Tools,
	Source,
	Target,
	TargetMain,
}

// Standard returns all folders of the standard build tree
func Standard() []*Folder {
	out := make([]*Folder, len(standard))
	copy(out, standard)
	return out
}

// FolderByName looks up a standard folder by its symbolic name
func FolderByName(name string) (*Folder, error) {
	for _, f := range standard {
		if f.name == name {
			return f, nil
		}
	}
	return nil, errors.Newf(errors.ErrNotFound, "unknown folder %q", name)
}

// Resolver resolves folders to concrete paths. The override map is owned
// by the orchestrating session and may change between resolutions;
// resolved paths are never cached.
type Resolver struct {
	overrides map[*Folder]string
}

// NewResolver creates a resolver with no overrides
func NewResolver() *Resolver {
	return &Resolver{overrides: make(map[*Folder]string)}
}

// Override replaces the folder's own path segment. The parent's
// resolution is unaffected, so siblings keep their paths.
func (r *Resolver) Override(f *Folder, path string) {
	r.overrides[f] = path
}

// ClearOverride restores the folder's default segment
func (r *Resolver) ClearOverride(f *Folder) {
	delete(r.overrides, f)
}

// Resolve returns the concrete path for the folder: the parent's
// resolution joined with the folder's (possibly overridden) segment.
// A folder without a parent resolves to its segment alone.
func (r *Resolver) Resolve(f *Folder) string {
	segment, ok := r.overrides[f]
	if !ok {
		segment = f.segment
	}
	if f.parent == nil {
		return segment
	}
	return filepath.Join(r.Resolve(f.parent), segment)
}

// UserCacheDir returns the user-level cache directory for downloaded
// artifacts shared across projects.
func UserCacheDir() string {
	return filepath.Join(xdg.CacheHome, "bach")
}

// toolchainHome locates the toolchain installation directory. Environment
// variables win; the fallback is a relative directory that will simply
// fail resolution of toolchain binaries later, which is the desired
// diagnostic when no toolchain is installed.
func toolchainHome() string {
	for _, env := range []string{EnvToolchainHome, EnvJdkHome, EnvJavaHome} {
		if home := os.Getenv(env); home != "" {
			return home
		}
	}
	if exe, err := os.Executable(); err == nil {
		// <home>/bin/<exe> layout
		if bin := filepath.Dir(exe); filepath.Base(bin) == "bin" {
			return filepath.Dir(bin)
		}
	}
	return "jdk"
}
