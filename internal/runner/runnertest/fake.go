// Package runnertest provides a scriptable runner.Runner for tests.
package runnertest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotInstalled mimics exec's "executable file not found".
var ErrNotInstalled = errors.New("executable file not found in $PATH")

type Call struct {
	Name string
	Args []string
}

// Fake records calls and delegates to Handler.
type Fake struct {
	mu      sync.Mutex
	Calls   []Call
	Handler func(name string, args []string) (stdout, stderr []byte, err error)
}

func (f *Fake) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, Call{Name: name, Args: append([]string(nil), args...)})
	h := f.Handler
	f.mu.Unlock()
	if h == nil {
		return nil, nil, nil
	}
	return h(name, args)
}

// CallsTo returns the recorded calls for one executable name.
func (f *Fake) CallsTo(name string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Ghostscript simulates a Ghostscript install under the given executable names.
// A repair call copies the input to the "-o" path; inputs whose base name is
// in Fail exit non-zero with the mapped stderr.
type Ghostscript struct {
	*Fake
	Installed map[string]bool
	Fail      map[string]string
}

func NewGhostscript(installed ...string) *Ghostscript {
	g := &Ghostscript{Fake: &Fake{}, Installed: map[string]bool{}, Fail: map[string]string{}}
	for _, n := range installed {
		g.Installed[n] = true
	}
	g.Handler = g.handle
	return g
}

func (g *Ghostscript) handle(name string, args []string) ([]byte, []byte, error) {
	if !g.Installed[name] {
		return nil, nil, ErrNotInstalled
	}
	if len(args) == 1 && args[0] == "-v" {
		return []byte("GPL Ghostscript 10.02.1"), nil, nil
	}
	var out, in string
	for i := 0; i < len(args); i++ {
		if args[i] == "-o" && i+1 < len(args) {
			out = args[i+1]
			i++
			continue
		}
		if !strings.HasPrefix(args[i], "-") {
			in = args[i]
		}
	}
	if msg, ok := g.Fail[filepath.Base(in)]; ok {
		return nil, []byte(msg), errors.New("exit status 1")
	}
	b, err := os.ReadFile(in)
	if err != nil {
		return nil, []byte(err.Error()), errors.New("exit status 1")
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return nil, []byte(err.Error()), errors.New("exit status 1")
	}
	return nil, nil, nil
}
