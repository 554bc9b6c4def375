package export

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
)

// Summary describes one finished export for the operator.
type Summary struct {
	Region        string
	Period        string
	Filename      string
	Path          string
	Pages         int
	Bytes         int
	ChartsDrawn   []string
	ChartsOmitted []string
	ArchivedTo    string
}

// Reporter prints export summaries to the console in a formatted text form.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(summary *Summary) error {
	sort.Strings(summary.ChartsDrawn)
	sort.Strings(summary.ChartsOmitted)

	tmpl := `
{{.Region}} Newsletter ({{.Period}})

File: {{.Path}}
Pages: {{.Pages}}
Size: {{.Bytes}} bytes
{{if .ArchivedTo}}Archived: {{.ArchivedTo}}
{{end}}
Charts included:
{{range .ChartsDrawn}}  - {{.}}
{{end}}{{if .ChartsOmitted}}Charts omitted (no data):
{{range .ChartsOmitted}}  - {{.}}
{{end}}{{end}}`

	t, err := template.New("summary").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, summary)
}
