// Package export writes filtered leads out as CSV, JSON summaries, and call
// checklists. All files land in a single output directory with timestamped
// names so repeated runs never clobber each other.
package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const timestampLayout = "20060102_150405"

// Exporter writes lead files into its output directory, creating it on first
// use.
type Exporter struct {
	outputDir string
	now       func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

func New(outputDir string, opts ...Option) *Exporter {
	e := &Exporter{outputDir: outputDir, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// filename builds "<prefix>_<timestamp>.<ext>" inside the output directory,
// creating the directory if needed.
func (e *Exporter) filename(prefix, ext string) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", eris.Wrapf(err, "export: create output dir %s", e.outputDir)
	}
	name := prefix + "_" + e.now().Format(timestampLayout) + "." + ext
	return filepath.Join(e.outputDir, name), nil
}

func logWritten(kind, path string, count int) {
	zap.L().Info("export: file written",
		zap.String("kind", kind),
		zap.String("path", path),
		zap.Int("leads", count))
}
