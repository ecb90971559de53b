package repair

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Verifier checks that a repaired file is a structurally valid PDF.
type Verifier interface {
	Verify(path string) (pages int, err error)
}

// PDFCPUVerifier validates with pdfcpu in relaxed mode.
type PDFCPUVerifier struct {
	conf *model.Configuration
}

func NewPDFCPUVerifier() *PDFCPUVerifier {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return &PDFCPUVerifier{conf: cfg}
}

func (v *PDFCPUVerifier) Verify(path string) (int, error) {
	if err := api.ValidateFile(path, v.conf); err != nil {
		return 0, fmt.Errorf("pdfcpu validate: %w", err)
	}
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu page count: %w", err)
	}
	return n, nil
}
