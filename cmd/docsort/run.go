package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/common"
	"github.com/joseph-ayodele/docsort/internal/ledger"
	"github.com/joseph-ayodele/docsort/internal/pdfdoc/mupdf"
	"github.com/joseph-ayodele/docsort/internal/pipeline"
	"github.com/joseph-ayodele/docsort/internal/report"
	"github.com/joseph-ayodele/docsort/internal/runner"
)

var runFlags struct {
	input      string
	repaired   string
	ocrDir     string
	errorDir   string
	noErrorDir bool
	limit      int
	skipHidden bool
	collision  string
	engine     string
	classifier string
	ledgerDSN  string
	report     string
	progress   bool
	noVerify   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a directory of PDFs",
	Long: `Processes up to --limit PDFs from the input directory in lexicographic order.
A document that fails at any stage is copied untouched into the error directory and the
batch moves on. A missing Ghostscript install aborts the batch.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.input, "input", "i", "", "input directory of PDFs (default ./data/pdfs)")
	f.StringVar(&runFlags.repaired, "repaired-dir", "", "root for repaired digital PDFs")
	f.StringVar(&runFlags.ocrDir, "ocr-dir", "", "root for OCR text files")
	f.StringVar(&runFlags.errorDir, "error-dir", "", "quarantine directory for failed documents")
	f.BoolVar(&runFlags.noErrorDir, "no-error-dir", false, "do not quarantine failed documents")
	f.IntVarP(&runFlags.limit, "limit", "n", 0, "process at most N documents (0 = unlimited, default 50)")
	f.BoolVar(&runFlags.skipHidden, "skip-hidden", false, "ignore dot-files")
	f.StringVar(&runFlags.collision, "collision", "", "destination collision policy: suffix or error")
	f.StringVar(&runFlags.engine, "ocr-engine", "", "recognition engine: gosseract or tesseract-cli")
	f.StringVar(&runFlags.classifier, "classifier", "", "classifier: zeroshot or openai")
	f.StringVar(&runFlags.ledgerDSN, "ledger", "", "record outcomes to a sqlite path or postgres:// URL")
	f.StringVar(&runFlags.report, "report", "", "write an XLSX run report to this path")
	f.BoolVar(&runFlags.progress, "progress", false, "show a progress bar on stderr")
	f.BoolVar(&runFlags.noVerify, "no-verify", false, "skip pdfcpu validation of repaired files")
	rootCmd.AddCommand(runCmd)
}

// applyRunFlags overlays explicitly set flags on the loaded configuration.
func applyRunFlags(cmd *cobra.Command, cfg *common.Config) {
	set := cmd.Flags().Changed
	if set("input") {
		cfg.Paths.InputDir = runFlags.input
	}
	if set("repaired-dir") {
		cfg.Paths.RepairedDir = runFlags.repaired
	}
	if set("ocr-dir") {
		cfg.Paths.OCRDir = runFlags.ocrDir
	}
	if set("error-dir") {
		cfg.Paths.ErrorDir = runFlags.errorDir
	}
	if runFlags.noErrorDir {
		cfg.Paths.ErrorDir = ""
	}
	if set("limit") {
		cfg.Batch.Limit = runFlags.limit
	}
	if set("skip-hidden") {
		cfg.Batch.SkipHidden = runFlags.skipHidden
	}
	if set("collision") {
		cfg.Batch.Collision = runFlags.collision
	}
	if set("ocr-engine") {
		cfg.OCR.Engine = runFlags.engine
	}
	if set("classifier") {
		cfg.SetProvider(runFlags.classifier)
	}
	if set("ledger") {
		cfg.Ledger.DSN = runFlags.ledgerDSN
	}
	if set("report") {
		cfg.Batch.ReportPath = runFlags.report
	}
	if runFlags.noVerify {
		cfg.Repair.Verify = false
	}
}

func runBatch(cmd *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr)

	cfg, err := common.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exec := runner.NewExec(logger)
	engine, err := newEngine(cfg.OCR, exec, logger)
	if err != nil {
		return fmt.Errorf("init recognition engine: %w", err)
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			logger.Warn("close recognition engine", "error", cerr)
		}
	}()
	model, err := newModel(cfg.Classifier, logger)
	if err != nil {
		return err
	}

	proc := newProcessor(cfg, mupdf.NewOpener(), engine, model, exec, logger)
	orch := pipeline.NewOrchestrator(pipeline.BatchConfig{
		InputDir:   cfg.Paths.InputDir,
		ErrorDir:   cfg.Paths.ErrorDir,
		Limit:      cfg.Batch.Limit,
		SkipHidden: cfg.Batch.SkipHidden,
	}, proc, cmd.OutOrStdout(), logger)

	if cfg.Ledger.DSN != "" {
		store, err := ledger.Open(ctx, cfg.Ledger.DSN, logger)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer store.Close()
		orch.AddObserver(store)
	}
	var bar *progressObserver
	if runFlags.progress {
		bar = &progressObserver{}
		orch.AddObserver(bar)
	}

	rep, runErr := orch.Run(ctx)
	if bar != nil {
		bar.Finish()
	}

	if cfg.Batch.ReportPath != "" && rep.RunID != "" {
		if err := report.WriteXLSX(cfg.Batch.ReportPath, rep, logger); err != nil {
			logger.Error("failed to write report", "path", cfg.Batch.ReportPath, "error", err)
		}
	}
	printSummary(cmd, rep)
	return runErr
}

func printSummary(cmd *cobra.Command, rep pipeline.Report) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Processed %d of %d documents: %d filed, %d failed",
		len(rep.Outcomes), rep.Listed, rep.Count(constants.StateDone), rep.Count(constants.StateErrored))
	if len(rep.Skipped) > 0 {
		_, _ = fmt.Fprintf(out, ", %d left for a later run", len(rep.Skipped))
	}
	if rep.Aborted {
		_, _ = fmt.Fprint(out, " (aborted)")
	}
	_, _ = fmt.Fprintln(out)
}

