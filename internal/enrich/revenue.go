package enrich

import (
	"fmt"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Multipliers holds the per-employee annual productivity constants used to
// scale an employee band into a revenue band.
type Multipliers struct {
	PerEmployeeMin int64 // dollars/yr applied to the band minimum
	PerEmployeeMax int64 // dollars/yr applied to the band maximum
}

// DefaultMultipliers are the standard productivity constants.
var DefaultMultipliers = Multipliers{
	PerEmployeeMin: 50_000,
	PerEmployeeMax: 100_000,
}

// RevenueFromEmployees scales an employee band into an annual revenue band:
// min employees x PerEmployeeMin through max employees x PerEmployeeMax.
// An unknown employee band yields an unknown revenue band.
func RevenueFromEmployees(emp model.Range, m Multipliers) model.Range {
	if !emp.Known {
		return model.UnknownRange
	}
	r := model.Range{
		Min:   int(int64(emp.Min) * m.PerEmployeeMin),
		Known: true,
	}
	if emp.Max > 0 {
		r.Max = int(int64(emp.Max) * m.PerEmployeeMax)
	}
	return r
}

// FormatRevenueRange renders a revenue band like "$500.0K-$5.0M", or
// "$25.0M+" for open-ended bands. Unknown bands render as the unknown marker.
func FormatRevenueRange(r model.Range) string {
	if !r.Known {
		return model.Unknown
	}
	if r.Max <= 0 {
		return FormatRevenue(int64(r.Min)) + "+"
	}
	return FormatRevenue(int64(r.Min)) + "-" + FormatRevenue(int64(r.Max))
}

// FormatRevenue formats a dollar amount in human-readable form.
func FormatRevenue(amount int64) string {
	switch {
	case amount >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", float64(amount)/1_000_000_000)
	case amount >= 1_000_000:
		return fmt.Sprintf("$%.1fM", float64(amount)/1_000_000)
	case amount >= 1_000:
		return fmt.Sprintf("$%.1fK", float64(amount)/1_000)
	default:
		return fmt.Sprintf("$%d", amount)
	}
}
