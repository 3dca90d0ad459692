package checks

import "github.com/de-tools/page-atlas/pkg/services/inspect"

// Checklist names group related checks for display and filtering.
const (
	ChecklistBaseline = "Baseline"
	ChecklistSEO      = "SEO"
	ChecklistContent  = "Content"
)

// Baseline returns the checks every page should pass.
func Baseline() []inspect.Check {
	return []inspect.Check{
		NewStatusCodeCheck(),
		NewTitleCheck(),
		NewViewportCheck(),
	}
}

// SEO returns the search-visibility checks.
func SEO() []inspect.Check {
	return []inspect.Check{
		NewMetaDescriptionCheck(),
	}
}

// Content returns the content-quality checks. The external link determiner is
// injected so hosts with custom domain setups can swap it out.
func Content(determiner ExternalLinkDeterminer) []inspect.Check {
	return []inspect.Check{
		NewH1Check(),
		NewExternalLinksCheck(determiner),
	}
}

// Default assembles the full default check set in execution order.
func Default() []inspect.Check {
	var all []inspect.Check
	all = append(all, Baseline()...)
	all = append(all, SEO()...)
	all = append(all, Content(NewHostLinkDeterminer())...)
	return all
}
