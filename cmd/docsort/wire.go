package main

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/docsort/internal/classify"
	"github.com/joseph-ayodele/docsort/internal/common"
	"github.com/joseph-ayodele/docsort/internal/detect"
	"github.com/joseph-ayodele/docsort/internal/ocr"
	"github.com/joseph-ayodele/docsort/internal/ocr/tesseract"
	"github.com/joseph-ayodele/docsort/internal/pdfdoc"
	"github.com/joseph-ayodele/docsort/internal/pipeline"
	"github.com/joseph-ayodele/docsort/internal/repair"
	"github.com/joseph-ayodele/docsort/internal/route"
	"github.com/joseph-ayodele/docsort/internal/runner"
)

// newEngine builds the recognition engine once per run.
func newEngine(cfg common.OCRConfig, r runner.Runner, logger *slog.Logger) (ocr.Engine, error) {
	switch cfg.Engine {
	case common.EngineTesseractCLI:
		return ocr.NewCLIEngine(ocr.CLIConfig{
			Tesseract:   cfg.Tesseract,
			Languages:   cfg.Languages,
			TessdataDir: cfg.TessdataDir,
		}, r, logger)
	case common.EngineGosseract, "":
		return tesseract.New(tesseract.Config{
			Languages:   cfg.Languages,
			TessdataDir: cfg.TessdataDir,
		}, logger)
	default:
		return nil, fmt.Errorf("%w: unknown ocr engine %q", common.ErrInvalidInput, cfg.Engine)
	}
}

func newModel(cfg common.ClassifierConfig, logger *slog.Logger) (classify.Model, error) {
	switch cfg.Provider {
	case common.ProviderOpenAI:
		return classify.NewOpenAIModel(classify.OpenAIConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.Endpoint,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger), nil
	case common.ProviderZeroShot, "":
		return classify.NewZeroShotModel(classify.ZeroShotConfig{
			BaseURL: cfg.Endpoint,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		}, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown classifier %q", common.ErrInvalidInput, cfg.Provider)
	}
}

func newRepairer(cfg common.RepairConfig, r runner.Runner, opener pdfdoc.Opener, logger *slog.Logger) *repair.Repairer {
	var verifier repair.Verifier
	if cfg.Verify {
		verifier = repair.NewPDFCPUVerifier()
	}
	return repair.NewRepairer(repair.Config{Candidates: cfg.Candidates, Preset: cfg.Preset}, r, opener, verifier, logger)
}

func newProcessor(cfg *common.Config, opener pdfdoc.Opener, engine ocr.Engine, model classify.Model, r runner.Runner, logger *slog.Logger) *pipeline.Processor {
	return pipeline.NewProcessor(pipeline.Stages{
		Detector:   detect.NewDetector(opener, logger),
		Repairer:   newRepairer(cfg.Repair, r, opener, logger),
		Extractor:  ocr.NewExtractor(ocr.Config{DPI: cfg.OCR.DPI}, opener, engine, logger),
		Classifier: classify.NewClassifier(model, logger),
		Router:     route.NewRouter(route.Policy(cfg.Batch.Collision), logger),
	}, pipeline.Dirs{Repaired: cfg.Paths.RepairedDir, OCR: cfg.Paths.OCRDir}, logger)
}
