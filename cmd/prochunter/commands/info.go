package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/prochunter/internal/model"
	"github.com/Dicklesworthstone/prochunter/internal/sampler"
	"github.com/Dicklesworthstone/prochunter/internal/ui"
)

// newSampler is swapped in tests.
var newSampler = func(interval time.Duration) *sampler.Sampler {
	return sampler.New(interval)
}

func newInfoCmd() *cobra.Command {
	var (
		sel     model.Selection
		noSleep bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Get brief information about the computer",
		Long: `Take one snapshot of battery, CPU, memory and processes.

Each flag selects one resource. With no resource flag, all four are reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("json") {
				cfg.JSON = asJSON
			}

			s := newSampler(cfg.SampleInterval)
			rep, err := s.Report(cmd.Context(), sel, !noSleep)
			if err != nil {
				logger.Error("snapshot failed", zap.Error(err))
				return fmt.Errorf("snapshot: %w", err)
			}
			for section, serr := range s.Degraded() {
				logger.Debug("section read failed, reporting empty", zap.Stringer("section", section), zap.Error(serr))
			}
			if rep.Selected.Battery && rep.Battery == nil {
				logger.Debug("battery summary unavailable")
			}

			if cfg.JSON {
				return ui.RenderJSON(cmd.OutOrStdout(), rep)
			}
			return ui.Render(cmd.OutOrStdout(), rep)
		},
	}

	cmd.Flags().BoolVar(&sel.Battery, "battery", false, "Report battery energy")
	cmd.Flags().BoolVar(&sel.CPU, "cpu", false, "Report CPU topology and usage")
	cmd.Flags().BoolVar(&sel.Memory, "memory", false, "Report memory and swap")
	cmd.Flags().BoolVar(&sel.Processes, "processes", false, "Report process counts")
	cmd.Flags().BoolVar(&noSleep, "no-sleep", false, "Read CPU usage without waiting for a second sample")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the snapshot as JSON")
	return cmd
}
