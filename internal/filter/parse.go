// Package filter applies threshold predicates and keyword exclusions to a
// record set and orders the survivors for review.
package filter

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

var revenuePattern = regexp.MustCompile(`^\$?([0-9]+(?:\.[0-9]+)?)([KMB])?$`)

var yearsPattern = regexp.MustCompile(`[0-9]+`)

// ParseRevenue converts strings like "$1.2M", "850K", "$2B", or bare dollar
// amounts into dollars. Anything else is an error; callers exclude the record
// rather than defaulting the value.
func ParseRevenue(s string) (int64, error) {
	cleaned := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	m := revenuePattern.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, eris.Errorf("filter: unparseable revenue %q", s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, eris.Wrapf(err, "filter: parse revenue %q", s)
	}

	switch m[2] {
	case "K":
		value *= 1_000
	case "M":
		value *= 1_000_000
	case "B":
		value *= 1_000_000_000
	}

	// Round to cents first to absorb float noise, then take any remaining
	// fraction upward: a value one cent over a bound must not truncate back
	// onto it.
	cents := math.Round(value * 100)
	return int64(math.Ceil(cents / 100)), nil
}

// ParseRevenueEstimate parses either a single revenue value or a band like
// "$500.0K-$5.0M". Bands reduce to their midpoint for bound comparison;
// open-ended bands like "$25.0M+" reduce to their minimum.
func ParseRevenueEstimate(s string) (int64, error) {
	s = strings.TrimSpace(s)

	if rest, ok := strings.CutSuffix(s, "+"); ok {
		return ParseRevenue(rest)
	}

	lo, hi, found := splitBand(s)
	if !found {
		return ParseRevenue(s)
	}

	loVal, err := ParseRevenue(lo)
	if err != nil {
		return 0, err
	}
	hiVal, err := ParseRevenue(hi)
	if err != nil {
		return 0, err
	}
	return (loVal + hiVal) / 2, nil
}

// splitBand splits "a-b" bands while leaving single values alone. A leading
// "$" before both parts is expected; a bare "-" inside a number is not valid
// revenue anyway.
func splitBand(s string) (lo, hi string, found bool) {
	i := strings.Index(s, "-")
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// ParseYears extracts the first integer found in the string.
func ParseYears(s string) (int, error) {
	m := yearsPattern.FindString(s)
	if m == "" {
		return 0, eris.Errorf("filter: unparseable years %q", s)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, eris.Wrapf(err, "filter: parse years %q", s)
	}
	return n, nil
}
