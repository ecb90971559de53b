package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docsort/internal/detect"
	"github.com/joseph-ayodele/docsort/internal/pdfdoc/mupdf"
)

var detectCmd = &cobra.Command{
	Use:   "detect FILE...",
	Short: "Report whether PDFs carry a usable text layer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stderr)
		d := detect.NewDetector(mupdf.NewOpener(), logger)
		out := cmd.OutOrStdout()
		for _, path := range args {
			v := d.Detect(path)
			kind := "scanned"
			if v.Digital {
				kind = "digital"
			}
			line := fmt.Sprintf("%s\t%s\tpages=%d text_pages=%d", filepath.Base(path), kind, v.Pages, v.TextPages)
			if v.Err != nil {
				line += fmt.Sprintf(" error=%q", v.Err.Error())
			}
			_, _ = fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
