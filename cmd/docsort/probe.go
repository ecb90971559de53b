package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/docsort/internal/common"
	"github.com/joseph-ayodele/docsort/internal/repair"
	"github.com/joseph-ayodele/docsort/internal/runner"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Look for a Ghostscript executable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger(os.Stderr)
		cfg, err := common.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		d := repair.Discover(cmd.Context(), runner.NewExec(logger), cfg.Repair.Candidates)
		out := cmd.OutOrStdout()
		if !d.Found {
			_, _ = fmt.Fprintf(out, "ghostscript: not found (tried %s)\n", strings.Join(d.Tried, ", "))
			return common.NewAppError("CONFIG_ERROR", "ghostscript not found; please install it", common.ErrRepairToolNotFound)
		}
		_, _ = fmt.Fprintf(out, "ghostscript: %s (%s)\n", d.Name, d.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
