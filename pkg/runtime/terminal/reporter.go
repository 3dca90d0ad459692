package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/page-atlas/pkg/models/domain"
)

// Reporter outputs a compact inspection summary to the console
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report *domain.InspectionReport) error {
	tmpl := `
{{.URL}}
Status: {{.Status}}
Checks: {{len .Results}} ({{.FindingCounts.Total}} findings)

{{range .Results}}
[{{.Status}}] {{.Check.Checklist}} / {{.Check.Name}}
{{- range .Findings}}
  {{.Level}}: {{.Message}}
{{- end}}
{{end}}
`
	t, err := template.New("report").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
