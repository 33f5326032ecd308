package commands

import (
	"context"
	"time"

	"github.com/de-tools/covid-atlas/pkg/terminal/export"
	"github.com/spf13/cobra"
)

type SummaryCmd struct {
	explorer ExplorerProvider
	reporter *export.Reporter
}

func NewSummaryCmd(explorer ExplorerProvider, reporter *export.Reporter) *cobra.Command {
	sc := &SummaryCmd{explorer: explorer, reporter: reporter}
	return &cobra.Command{
		Use:   "summary",
		Short: "Show worldwide totals across the loaded dataset",
		RunE:  sc.run,
	}
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	report, err := sc.explorer().SummaryReport(ctx)
	if err != nil {
		return err
	}
	return sc.reporter.Handle(report)
}
