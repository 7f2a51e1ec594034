package search

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/fetcher"
	"github.com/sells-group/prospect-cli/internal/model"
)

// SourceImporters tags records loaded from an importer registry file.
const SourceImporters = "importers_file"

// ColumnMap names the registry file columns to read each record field from.
// Registry exports do not share a schema, so the mapping is always explicit.
type ColumnMap struct {
	Name     string
	Street   string
	City     string
	Province string
	Postal   string
	Phone    string
	Website  string
	Industry string
}

// DefaultColumnMap matches the federal importer registry export headers.
var DefaultColumnMap = ColumnMap{
	Name:     "Business Name",
	Street:   "Address",
	City:     "City",
	Province: "Province",
	Postal:   "Postal Code",
	Phone:    "Phone",
	Website:  "Website",
	Industry: "Commodity",
}

// ImporterFileSearcher loads a local importer registry export, CSV or XLSX by
// extension. CSV files go through the encoding fallback chain first since the
// registry publishes in legacy encodings.
type ImporterFileSearcher struct {
	path    string
	columns ColumnMap
	score   float64
}

func NewImporterFileSearcher(path string, columns ColumnMap, score float64) *ImporterFileSearcher {
	return &ImporterFileSearcher{path: path, columns: columns, score: score}
}

func (s *ImporterFileSearcher) Name() string { return SourceImporters }

// Search loads the whole file and keeps rows whose commodity or name matches
// the query term (empty term keeps everything). The location, when set, must
// match city or province.
func (s *ImporterFileSearcher) Search(ctx context.Context, q Query) ([]model.BusinessRecord, error) {
	table, err := s.load()
	if err != nil {
		return nil, err
	}

	idx := map[string]int{
		"name":     table.ColumnIndex(s.columns.Name),
		"street":   table.ColumnIndex(s.columns.Street),
		"city":     table.ColumnIndex(s.columns.City),
		"province": table.ColumnIndex(s.columns.Province),
		"postal":   table.ColumnIndex(s.columns.Postal),
		"phone":    table.ColumnIndex(s.columns.Phone),
		"website":  table.ColumnIndex(s.columns.Website),
		"industry": table.ColumnIndex(s.columns.Industry),
	}
	if idx["name"] < 0 {
		return nil, eris.Errorf("search: importer file missing name column %q", s.columns.Name)
	}

	var records []model.BusinessRecord
	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return records, eris.Wrap(err, "search: importer file scan")
		}
		rec := model.BusinessRecord{
			Name:       strings.TrimSpace(fetcher.Column(row, idx["name"])),
			Street:     strings.TrimSpace(fetcher.Column(row, idx["street"])),
			City:       strings.TrimSpace(fetcher.Column(row, idx["city"])),
			Province:   strings.TrimSpace(fetcher.Column(row, idx["province"])),
			Postal:     strings.TrimSpace(fetcher.Column(row, idx["postal"])),
			Phone:      strings.TrimSpace(fetcher.Column(row, idx["phone"])),
			Website:    strings.TrimSpace(fetcher.Column(row, idx["website"])),
			Industry:   strings.TrimSpace(fetcher.Column(row, idx["industry"])),
			Source:     SourceImporters,
			Confidence: s.score,
		}
		if rec.Name == "" {
			zap.L().Debug("search: skipping unnamed importer row", zap.Int("row", i+2))
			continue
		}
		if !matchesQuery(rec, q) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *ImporterFileSearcher) load() (*fetcher.CSVTable, error) {
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".xlsx":
		return fetcher.ReadXLSX(s.path, fetcher.XLSXOptions{})
	default:
		text, enc, err := fetcher.LoadFileWithFallback(s.path)
		if err != nil {
			return nil, eris.Wrapf(err, "search: load importer file %s", s.path)
		}
		zap.L().Debug("search: importer file decoded",
			zap.String("path", s.path),
			zap.String("encoding", enc))
		return fetcher.ReadCSV(strings.NewReader(text), fetcher.CSVOptions{TrimSpace: true})
	}
}

func matchesQuery(rec model.BusinessRecord, q Query) bool {
	if term := strings.TrimSpace(q.Term); term != "" {
		if !containsFold(rec.Industry, term) && !containsFold(rec.Name, term) {
			return false
		}
	}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		if !containsFold(rec.City, loc) && !strings.EqualFold(rec.Province, loc) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
