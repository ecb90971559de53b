package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/joseph-ayodele/docsort/internal/pipeline"
)

// progressObserver draws a bar on stderr, one step per finished document.
type progressObserver struct {
	bar *progressbar.ProgressBar
}

func (p *progressObserver) Begin(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("sorting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("docs"),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (p *progressObserver) Observe(_ context.Context, _ string, o pipeline.Outcome) error {
	if p.bar == nil {
		return nil
	}
	p.bar.Describe(o.Name())
	return p.bar.Add(1)
}

func (p *progressObserver) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
