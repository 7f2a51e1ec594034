package model

// FilterCriteria holds the threshold bounds and exclusion vocabulary applied
// by the filter pass. Fixed at command start, never mutated during a run.
type FilterCriteria struct {
	RevenueMin      int64    `json:"revenue_min,omitempty"`
	RevenueMax      int64    `json:"revenue_max,omitempty"`
	YearsMin        int      `json:"years_min,omitempty"`
	YearsMax        int      `json:"years_max,omitempty"`
	EmployeeMax     int      `json:"employee_max,omitempty"`
	MinScore        float64  `json:"min_score,omitempty"`
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`
}
