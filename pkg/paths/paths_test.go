package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karussell/bach/pkg/errors"
)

func TestResolveDefaults(t *testing.T) {
	r := NewResolver()

	assert.Equal(t, AuxiliaryDirName, r.Resolve(Auxiliary))
	assert.Equal(t, filepath.Join(AuxiliaryDirName, DependenciesDirName), r.Resolve(Dependencies))
	assert.Equal(t, filepath.Join(AuxiliaryDirName, ToolsDirName), r.Resolve(Tools))
	assert.Equal(t, filepath.Join("target", "bach", "main"), r.Resolve(TargetMain))
}

func TestResolveOverrideRoot(t *testing.T) {
	r := NewResolver()
	r.Override(Auxiliary, "/var/cache/build")

	// Children follow the overridden parent
	assert.Equal(t, "/var/cache/build", r.Resolve(Auxiliary))
	assert.Equal(t, filepath.Join("/var/cache/build", ToolsDirName), r.Resolve(Tools))
}

func TestOverrideIsolation(t *testing.T) {
	r := NewResolver()

	// Overriding one child must not move its sibling
	r.Override(Tools, "custom-tools")

	assert.Equal(t, filepath.Join(AuxiliaryDirName, "custom-tools"), r.Resolve(Tools))
	assert.Equal(t, filepath.Join(AuxiliaryDirName, DependenciesDirName), r.Resolve(Dependencies))
}

func TestOverrideTakesEffectImmediately(t *testing.T) {
	r := NewResolver()

	before := r.Resolve(Target)
	r.Override(Target, "out")
	after := r.Resolve(Target)

	assert.NotEqual(t, before, after)
	assert.Equal(t, "out", after)

	r.ClearOverride(Target)
	assert.Equal(t, before, r.Resolve(Target))
}

func TestFolderByName(t *testing.T) {
	f, err := FolderByName("tools")
	require.NoError(t, err)
	assert.Same(t, Tools, f)

	_, err = FolderByName("bogus")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestStandardTreeParents(t *testing.T) {
	assert.Same(t, ToolchainHome, ToolchainBin.Parent())
	assert.Same(t, Auxiliary, Tools.Parent())
	assert.Same(t, Auxiliary, Dependencies.Parent())
	assert.Nil(t, Source.Parent())
}
