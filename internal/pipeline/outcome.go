package pipeline

import (
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/docsort/constants"
)

// Outcome is the terminal record of one document within a run.
type Outcome struct {
	Source     string
	Kind       constants.Kind
	State      constants.State
	History    []constants.State // every state entered, in order
	Pages      int
	Artifact   string // final path when Done, empty otherwise
	Label      constants.Label
	Score      float64
	Err        error
	Quarantine string // path of the quarantined copy, if any
	Started    time.Time
	Finished   time.Time
}

// Name is the base name of the source document.
func (o Outcome) Name() string { return filepath.Base(o.Source) }

func (o Outcome) Duration() time.Duration { return o.Finished.Sub(o.Started) }

// ErrText returns the error message or "".
func (o Outcome) ErrText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

func (o *Outcome) enter(s constants.State) {
	o.State = s
	o.History = append(o.History, s)
}

// Report summarizes a batch run.
type Report struct {
	RunID    string
	InputDir string
	Listed   int
	Skipped  []string // documents left untouched by the cap
	Outcomes []Outcome
	Aborted  bool // a fatal error stopped the batch
	Started  time.Time
	Finished time.Time
}

// Count returns how many outcomes ended in state s.
func (r Report) Count(s constants.State) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == s {
			n++
		}
	}
	return n
}
