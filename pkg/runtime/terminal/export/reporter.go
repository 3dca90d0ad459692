package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

type TableConfig struct {
	ChecklistWidth int
	CheckWidth     int
	LevelWidth     int
	MessageWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		ChecklistWidth: 10,
		CheckWidth:     24,
		LevelWidth:     8,
		MessageWidth:   72,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.InspectionReport) error {
	funcMap := template.FuncMap{
		"formatRow": func(checklist string, check string, level string, message string) string {
			if len(message) > c.config.MessageWidth {
				message = message[:c.config.MessageWidth-3] + "..."
			}
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s |",
				c.config.ChecklistWidth, checklist,
				c.config.CheckWidth, check,
				c.config.LevelWidth, level,
				c.config.MessageWidth, message)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.ChecklistWidth+2),
				strings.Repeat("-", c.config.CheckWidth+2),
				strings.Repeat("-", c.config.LevelWidth+2),
				strings.Repeat("-", c.config.MessageWidth+2))
		},
	}

	tmpl := `
{{.URL}}

Status: {{.Status}}
Checks: {{len .Results}}
Findings: {{.FindingCounts.Total}} (warnings {{.FindingCounts.Warning}}, errors {{.FindingCounts.Error}}, fatal {{.FindingCounts.Fatal}})

{{separator}}
{{formatRow "Checklist" "Check" "Level" "Message"}}
{{separator}}
{{range .Findings}}{{formatRow .Checklist .Check (printf "%s" .Level) .Message}}
{{end}}{{separator}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
