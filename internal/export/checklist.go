package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// WriteChecklist writes a plain-text call sheet: one row per lead with a
// checkbox, ordered as given (the filter already sorted by confidence).
func (e *Exporter) WriteChecklist(records []model.BusinessRecord) (string, error) {
	path, err := e.filename("checklist", "txt")
	if err != nil {
		return "", err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"", "#", "Business", "Phone", "Location", "Revenue", "Years", "Score"})
	for i, r := range records {
		location := r.City
		if r.Province != "" {
			location = strings.TrimPrefix(location+", "+r.Province, ", ")
		}
		tw.AppendRow(table.Row{
			"[ ]", i + 1, r.Name, orDash(r.Phone), orDash(location),
			orDash(r.RevenueRange), orDash(r.YearsInBusiness),
			fmt.Sprintf("%.2f", r.Confidence),
		})
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Call checklist: %d leads, generated %s\n\n",
		len(records), e.now().Format("2006-01-02 15:04")))
	sb.WriteString(tw.Render())
	sb.WriteByte('\n')

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", eris.Wrapf(err, "export: write %s", path)
	}

	logWritten("checklist", path, len(records))
	return path, nil
}

func orDash(s string) string {
	if s == "" || s == model.Unknown {
		return "-"
	}
	return s
}
