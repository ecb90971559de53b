// Package route files finished artifacts into per-label directories.
package route

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/common"
)

// Policy decides what happens when the destination name is taken.
type Policy string

const (
	// PolicySuffix picks the first free name among name_1.ext, name_2.ext, ...
	PolicySuffix Policy = common.CollisionSuffix
	// PolicyError fails with common.ErrDestinationExists.
	PolicyError Policy = common.CollisionError
)

// maxSuffix bounds the search for a free name.
const maxSuffix = 10000

type Router struct {
	policy Policy
	logger *slog.Logger
}

func NewRouter(policy Policy, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == "" {
		policy = PolicySuffix
	}
	return &Router{policy: policy, logger: logger}
}

// Route moves artifact to {root}/{label dir}/{name}. After success the
// artifact exists only at the returned path.
func (r *Router) Route(artifact, root string, label constants.Label) (string, error) {
	dir := filepath.Join(root, label.DirName())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", common.ErrRoutingFailed, dir, err)
	}
	dest, err := r.destination(dir, filepath.Base(artifact))
	if err != nil {
		return "", err
	}
	if err := move(artifact, dest); err != nil {
		return "", fmt.Errorf("%w: move %s: %v", common.ErrRoutingFailed, artifact, err)
	}
	r.logger.Info("routed artifact", "file", filepath.Base(artifact), "label", string(label), "dest", dest)
	return dest, nil
}

// Copy places a copy of src into dir under the same collision policy; src is
// left untouched.
func (r *Router) Copy(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", common.ErrRoutingFailed, dir, err)
	}
	dest, err := r.destination(dir, filepath.Base(src))
	if err != nil {
		return "", err
	}
	if err := copyFile(src, dest); err != nil {
		return "", fmt.Errorf("%w: copy %s: %v", common.ErrRoutingFailed, src, err)
	}
	return dest, nil
}

func (r *Router) destination(dir, name string) (string, error) {
	dest := filepath.Join(dir, name)
	if !exists(dest) {
		return dest, nil
	}
	if r.policy == PolicyError {
		return "", fmt.Errorf("%w: %w: %s", common.ErrRoutingFailed, common.ErrDestinationExists, dest)
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; i <= maxSuffix; i++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !exists(cand) {
			r.logger.Warn("destination exists, using suffixed name", "wanted", dest, "dest", cand)
			return cand, nil
		}
	}
	return "", fmt.Errorf("%w: %w: no free name for %s", common.ErrRoutingFailed, common.ErrDestinationExists, dest)
}

func exists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

// move renames, falling back to copy+remove across filesystems.
func move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
