// Package fsutil provides the small set of tree operations the build
// orchestration needs: cleaning output trees, copying source trees, and
// classifying source files.
package fsutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/karussell/bach/pkg/errors"
)

// CleanTree removes everything below root. With keepRoot the root
// directory itself survives (and is created when absent); the filter
// restricts deletion to accepted paths.
func CleanTree(fsys afero.Fs, root string, keepRoot bool, filter func(path string) bool) error {
	if filter == nil {
		filter = func(string) bool { return true }
	}

	if _, err := fsys.Stat(root); os.IsNotExist(err) {
		if keepRoot {
			if err := fsys.MkdirAll(root, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "creating %q failed", root)
			}
		}
		return nil
	}

	var doomed []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if keepRoot && path == root {
			return nil
		}
		if filter(path) {
			doomed = append(doomed, path)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "walking %q failed", root)
	}

	// Children before parents
	sort.Sort(sort.Reverse(sort.StringSlice(doomed)))
	for _, path := range doomed {
		if err := fsys.RemoveAll(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "deleting %q failed", path)
		}
	}
	return nil
}

// CopyTree copies the tree rooted at source below target, creating
// directories as needed and replacing existing files. A missing source
// is a no-op.
func CopyTree(fsys afero.Fs, source, target string) error {
	if _, err := fsys.Stat(source); os.IsNotExist(err) {
		return nil
	}

	if err := fsys.MkdirAll(target, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "creating %q failed", target)
	}

	err := afero.Walk(fsys, source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(target, rel)
		if info.IsDir() {
			return fsys.MkdirAll(dest, info.Mode().Perm()|0700)
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		return afero.WriteFile(fsys, dest, data, info.Mode().Perm())
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "copying %q to %q failed", source, target)
	}
	return nil
}

// IsSourceFile reports whether the path names a regular file with the
// given extension and exactly one dot in its name, the shape of a
// canonical compilation unit.
func IsSourceFile(fsys afero.Fs, path, extension string) bool {
	info, err := fsys.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	name := filepath.Base(path)
	if strings.Count(name, ".") != 1 {
		return false
	}
	return strings.HasSuffix(name, extension)
}

// JoinPaths joins the paths with the platform's path-list separator, the
// form tool options like module paths expect.
func JoinPaths(paths []string) string {
	return strings.Join(paths, string(os.PathListSeparator))
}
