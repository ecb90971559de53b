package repair

import (
	"context"
	"os/exec"

	"github.com/joseph-ayodele/docsort/internal/runner"
)

// Discovery is the typed result of probing for an executable.
type Discovery struct {
	Found bool
	Name  string   // candidate that responded; empty when not found
	Path  string   // resolved absolute path when PATH lookup succeeds, else Name
	Tried []string // candidates probed, in order
}

// Discover probes candidates in order by running "<name> -v" and returns the
// first that exits cleanly. It never returns an error: absence is a result.
func Discover(ctx context.Context, r runner.Runner, candidates []string) Discovery {
	d := Discovery{}
	for _, cand := range candidates {
		d.Tried = append(d.Tried, cand)
		if _, _, err := r.Run(ctx, cand, "-v"); err != nil {
			continue
		}
		d.Found = true
		d.Name = cand
		d.Path = cand
		if p, err := exec.LookPath(cand); err == nil {
			d.Path = p
		}
		return d
	}
	return d
}
