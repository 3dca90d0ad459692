package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/page-atlas/pkg/services/checks"
	"github.com/de-tools/page-atlas/pkg/services/inspect"
)

// NewChecklistsCmd lists the available checklists and the checks in each.
func NewChecklistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checklists",
		Short: "List available checklists and their checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			lists := []struct {
				name   string
				checks []inspect.Check
			}{
				{checks.ChecklistBaseline, checks.Baseline()},
				{checks.ChecklistSEO, checks.SEO()},
				{checks.ChecklistContent, checks.Content(checks.NewHostLinkDeterminer())},
			}

			for _, list := range lists {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", list.name)
				for _, check := range list.checks {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", check.Name())
				}
			}
			return nil
		},
	}
}
