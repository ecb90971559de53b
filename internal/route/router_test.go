package route

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/common"
)

func write(t *testing.T, p, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func read(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

func TestRoute_MovesIntoLabelDir(t *testing.T) {
	root := t.TempDir()
	art := write(t, filepath.Join(root, "report.pdf"), "repaired")

	dest, err := NewRouter(PolicySuffix, nil).Route(art, root, constants.StaticData)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "static_data", "report.pdf"), dest)
	assert.Equal(t, "repaired", read(t, dest))
	assert.NoFileExists(t, art, "moved, not copied")
}

func TestRoute_UnknownLabel(t *testing.T) {
	root := t.TempDir()
	art := write(t, filepath.Join(root, "x_ocr.txt"), "")

	dest, err := NewRouter("", nil).Route(art, root, constants.Unknown)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "unknown", "x_ocr.txt"), dest)
}

func TestRoute_CollisionSuffix(t *testing.T) {
	root := t.TempDir()
	existing := write(t, filepath.Join(root, "dynamic_data", "a_ocr.txt"), "first")
	write(t, filepath.Join(root, "dynamic_data", "a_ocr_1.txt"), "second")
	art := write(t, filepath.Join(root, "a_ocr.txt"), "third")

	dest, err := NewRouter(PolicySuffix, nil).Route(art, root, constants.DynamicData)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "dynamic_data", "a_ocr_2.txt"), dest)
	assert.Equal(t, "first", read(t, existing), "existing file never overwritten")
	assert.Equal(t, "third", read(t, dest))
}

func TestRoute_CollisionError(t *testing.T) {
	root := t.TempDir()
	existing := write(t, filepath.Join(root, "static_data", "r.pdf"), "old")
	art := write(t, filepath.Join(root, "r.pdf"), "new")

	_, err := NewRouter(PolicyError, nil).Route(art, root, constants.StaticData)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDestinationExists))
	assert.True(t, errors.Is(err, common.ErrRoutingFailed))
	assert.Equal(t, "old", read(t, existing))
	assert.FileExists(t, art, "artifact stays in its intermediate location")
}

func TestRoute_MissingArtifact(t *testing.T) {
	root := t.TempDir()
	_, err := NewRouter(PolicySuffix, nil).Route(filepath.Join(root, "gone.pdf"), root, constants.StaticData)
	assert.True(t, errors.Is(err, common.ErrRoutingFailed))
}

func TestCopy_LeavesSourceAndAvoidsOverwrite(t *testing.T) {
	src := write(t, filepath.Join(t.TempDir(), "in.pdf"), "original")
	qdir := t.TempDir()
	r := NewRouter(PolicySuffix, nil)

	first, err := r.Copy(src, qdir)
	require.NoError(t, err)
	second, err := r.Copy(src, qdir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(qdir, "in.pdf"), first)
	assert.Equal(t, filepath.Join(qdir, "in_1.pdf"), second)
	assert.Equal(t, "original", read(t, src))
	assert.Equal(t, "original", read(t, first))
}
