// Package model defines the shared record shapes passed between searchers,
// enrichment, filtering, and export.
package model

import (
	"strings"
	"time"
	"unicode"
)

// Unknown is the explicit missing-data marker used in place of zero values.
const Unknown = "unknown"

// Observation field names. Observations may carry other fields, but these are
// the ones the pipeline records and the export hydrates.
const (
	FieldPhone           = "phone"
	FieldWebsite         = "website"
	FieldEmployeeRange   = "employee_range"
	FieldRevenueRange    = "revenue_range"
	FieldYearsInBusiness = "years_in_business"
)

// BusinessRecord is the normalized shape every directory source maps into.
type BusinessRecord struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	Postal   string `json:"postal,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
	Industry string `json:"industry,omitempty"`
	Notes    string `json:"notes,omitempty"`

	// Enrichment fields. String bands, "unknown" when not estimable.
	EmployeeRange   string `json:"employee_range,omitempty"`
	RevenueRange    string `json:"revenue_range,omitempty"`
	YearsInBusiness string `json:"years_in_business,omitempty"`

	// Provenance.
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// Address returns the single-line mailing address.
func (b *BusinessRecord) Address() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{b.Street, b.City, b.Province, b.Postal} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Fingerprint derives the dedup key from the normalized name and street
// address: lowercased, punctuation and whitespace stripped. Stable across
// case and punctuation variants of the same listing.
func (b *BusinessRecord) Fingerprint() string {
	return normalizeKey(b.Name) + "|" + normalizeKey(b.Street)
}

func normalizeKey(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Observation is one recorded (field, value, confidence, source) fact about a
// business. Multiple observations for the same field coexist; consumers select
// by confidence.
type Observation struct {
	ID         int64     `json:"id,omitempty"`
	BusinessID string    `json:"business_id"`
	Field      string    `json:"field"`
	Value      string    `json:"value"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	ObservedAt time.Time `json:"observed_at"`
}
