package export

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Summary is the JSON export shape: the criteria the leads passed plus the
// leads themselves.
type Summary struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Criteria    model.FilterCriteria   `json:"criteria"`
	Leads       []model.BusinessRecord `json:"leads"`
}

// WriteJSONSummary writes a timestamped JSON summary and returns its path.
func (e *Exporter) WriteJSONSummary(records []model.BusinessRecord, criteria model.FilterCriteria) (string, error) {
	path, err := e.filename("leads", "json")
	if err != nil {
		return "", err
	}

	summary := Summary{
		GeneratedAt: e.now().UTC(),
		Criteria:    criteria,
		Leads:       records,
	}
	if summary.Leads == nil {
		summary.Leads = []model.BusinessRecord{}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "export: marshal summary")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", eris.Wrapf(err, "export: write %s", path)
	}

	logWritten("json", path, len(records))
	return path, nil
}
