package repair

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsort/internal/common"
	"github.com/joseph-ayodele/docsort/internal/pdfdoc/pdfdoctest"
	"github.com/joseph-ayodele/docsort/internal/runner/runnertest"
)

type fakeVerifier struct {
	err   error
	calls int
}

func (v *fakeVerifier) Verify(string) (int, error) {
	v.calls++
	return 1, v.err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDiscover(t *testing.T) {
	ctx := context.Background()

	gs := runnertest.NewGhostscript("gs")
	d := Discover(ctx, gs, []string{"gswin64c", "gswin32c", "gs"})
	assert.True(t, d.Found)
	assert.Equal(t, "gs", d.Name)
	assert.NotEmpty(t, d.Path)
	assert.Equal(t, []string{"gswin64c", "gswin32c", "gs"}, d.Tried)

	none := runnertest.NewGhostscript()
	d = Discover(ctx, none, []string{"gswin64c", "gs"})
	assert.False(t, d.Found)
	assert.Empty(t, d.Name)
	assert.Equal(t, []string{"gswin64c", "gs"}, d.Tried)
}

func TestRepair_WritesUnderOriginalName(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "repaired")
	src := writeFile(t, in, "report.pdf", "%PDF-1.7 body")
	gs := runnertest.NewGhostscript("gswin32c")
	v := &fakeVerifier{}

	r := NewRepairer(Config{}, gs, pdfdoctest.NewOpener(), v, nil)
	got, err := r.Repair(context.Background(), src, out)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "report.pdf"), got)
	assert.FileExists(t, got)
	assert.Equal(t, 1, v.calls)

	calls := gs.CallsTo("gswin32c")
	require.Len(t, calls, 2) // probe + repair
	assert.Equal(t, []string{"-o", got, "-sDEVICE=pdfwrite", "-dPDFSETTINGS=/prepress", src}, calls[1].Args)

	// source untouched
	b, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(b))
}

func TestRepair_ToolNotFoundIsFatalAndMemoized(t *testing.T) {
	src := writeFile(t, t.TempDir(), "a.pdf", "x")
	gs := runnertest.NewGhostscript()
	r := NewRepairer(Config{Candidates: []string{"gs"}}, gs, pdfdoctest.NewOpener(), nil, nil)

	_, err := r.Repair(context.Background(), src, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRepairToolNotFound))
	assert.True(t, common.IsFatal(err))

	_, err = r.Repair(context.Background(), src, t.TempDir())
	require.Error(t, err)
	assert.Len(t, gs.Calls, 1, "discovery must not be repeated")
}

func TestRepair_NonZeroExit(t *testing.T) {
	src := writeFile(t, t.TempDir(), "bad.pdf", "x")
	out := t.TempDir()
	gs := runnertest.NewGhostscript("gs")
	gs.Fail["bad.pdf"] = "Error: /syntaxerror in --token--"

	r := NewRepairer(Config{}, gs, pdfdoctest.NewOpener(), nil, nil)
	_, err := r.Repair(context.Background(), src, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRepairFailed))
	assert.False(t, common.IsFatal(err))
	assert.Contains(t, err.Error(), "syntaxerror")
}

func TestRepair_VerifyFailureRemovesOutput(t *testing.T) {
	src := writeFile(t, t.TempDir(), "v.pdf", "x")
	out := t.TempDir()
	r := NewRepairer(Config{}, runnertest.NewGhostscript("gs"), pdfdoctest.NewOpener(),
		&fakeVerifier{err: errors.New("trailer missing")}, nil)

	_, err := r.Repair(context.Background(), src, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRepairFailed))
	assert.NoFileExists(t, filepath.Join(out, "v.pdf"))
}

func TestText_JoinsPages(t *testing.T) {
	o := pdfdoctest.NewOpener()
	o.Add("r.pdf", pdfdoctest.Doc{Pages: []string{"one", "two"}})
	r := NewRepairer(Config{}, runnertest.NewGhostscript("gs"), o, nil, nil)

	txt, err := r.Text("/out/r.pdf")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", txt)

	_, err = r.Text("/out/missing.pdf")
	assert.True(t, errors.Is(err, common.ErrRepairFailed))
}
