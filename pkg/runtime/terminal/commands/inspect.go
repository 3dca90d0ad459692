package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/de-tools/page-atlas/pkg/models/domain"
	"github.com/de-tools/page-atlas/pkg/services/checks"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// Reporter renders one inspection report.
type Reporter interface {
	Handle(report *domain.InspectionReport) error
}

type InspectCmd struct {
	checklist string
	output    string
	timeout   time.Duration
	retries   int
	inspector *inspect.Inspector
	table     Reporter
	compact   Reporter
}

func NewInspectCmd(inspector *inspect.Inspector, table, compact Reporter) *cobra.Command {
	ic := &InspectCmd{inspector: inspector, table: table, compact: compact}
	cmd := &cobra.Command{
		Use:   "inspect <url>",
		Short: "Inspect a single page",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.checklist, "checklist", "", "Run a single checklist (baseline, seo, content)")
	cmd.Flags().StringVar(&ic.output, "output", "table", "Report format (table, compact)")
	cmd.Flags().DurationVar(&ic.timeout, "timeout", 60*time.Second, "Overall inspection timeout")
	cmd.Flags().IntVar(&ic.retries, "retries", 2, "HTTP retry attempts")

	return cmd
}

func (ic *InspectCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), ic.timeout)
	defer cancel()

	checkSet, err := resolveChecklist(ic.checklist)
	if err != nil {
		return err
	}

	reporter, err := ic.resolveReporter()
	if err != nil {
		return err
	}

	options := domain.DefaultHTTPOptions()
	options.Retries = ic.retries
	inspection := inspect.NewURLInspection(args[0], checkSet).WithHTTPOptions(options)

	report, err := ic.inspector.Run(ctx, inspection)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	if report == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "inspection skipped")
		return nil
	}

	if err := reporter.Handle(report); err != nil {
		return err
	}

	if report.Status == domain.LevelFatal {
		return fmt.Errorf("inspection finished with fatal findings")
	}
	return nil
}

func (ic *InspectCmd) resolveReporter() (Reporter, error) {
	switch ic.output {
	case "", "table":
		return ic.table, nil
	case "compact":
		return ic.compact, nil
	default:
		return nil, fmt.Errorf("unknown output format %q, expected table or compact", ic.output)
	}
}

func resolveChecklist(name string) ([]inspect.Check, error) {
	switch name {
	case "":
		return checks.Default(), nil
	case "baseline":
		return checks.Baseline(), nil
	case "seo":
		return checks.SEO(), nil
	case "content":
		return checks.Content(checks.NewHostLinkDeterminer()), nil
	default:
		return nil, fmt.Errorf("unknown checklist %q, expected baseline, seo or content", name)
	}
}
