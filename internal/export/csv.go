package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// leadColumns is the fixed CSV column order. ReadLeads depends on these names,
// so additions go at the end.
var leadColumns = []string{
	"name", "street", "city", "province", "postal",
	"phone", "website", "industry",
	"employee_range", "revenue_range", "years_in_business",
	"source", "confidence", "notes",
}

// WriteCSV writes leads as a timestamped CSV file and returns its path.
func (e *Exporter) WriteCSV(records []model.BusinessRecord) (string, error) {
	path, err := e.filename("leads", "csv")
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(leadColumns); err != nil {
		return "", eris.Wrap(err, "export: write csv header")
	}
	for _, r := range records {
		row := []string{
			r.Name, r.Street, r.City, r.Province, r.Postal,
			r.Phone, r.Website, r.Industry,
			r.EmployeeRange, r.RevenueRange, r.YearsInBusiness,
			r.Source, strconv.FormatFloat(r.Confidence, 'f', -1, 64), r.Notes,
		}
		if err := w.Write(row); err != nil {
			return "", eris.Wrap(err, "export: write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", eris.Wrap(err, "export: flush csv")
	}

	logWritten("csv", path, len(records))
	return path, nil
}

// ReadLeads parses a file previously written by WriteCSV back into records.
// Used by the db import command to seed a store from an earlier run.
func ReadLeads(path string) ([]model.BusinessRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: open %s", path)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "export: read %s", path)
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("export: %s is empty", path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[h] = i
	}
	for _, required := range []string{"name", "source"} {
		if _, ok := idx[required]; !ok {
			return nil, eris.Errorf("export: %s missing column %q", path, required)
		}
	}

	get := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]model.BusinessRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		confidence, _ := strconv.ParseFloat(get(row, "confidence"), 64)
		records = append(records, model.BusinessRecord{
			Name:            get(row, "name"),
			Street:          get(row, "street"),
			City:            get(row, "city"),
			Province:        get(row, "province"),
			Postal:          get(row, "postal"),
			Phone:           get(row, "phone"),
			Website:         get(row, "website"),
			Industry:        get(row, "industry"),
			EmployeeRange:   get(row, "employee_range"),
			RevenueRange:    get(row, "revenue_range"),
			YearsInBusiness: get(row, "years_in_business"),
			Source:          get(row, "source"),
			Confidence:      confidence,
			Notes:           get(row, "notes"),
		})
	}
	return records, nil
}
