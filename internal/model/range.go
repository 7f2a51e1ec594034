package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Range is an inclusive [Min, Max] estimate band. Unknown ranges have
// Known=false; their string form is the "unknown" marker, never "0-0".
type Range struct {
	Min   int
	Max   int
	Known bool
}

// UnknownRange is the explicit missing-estimate band.
var UnknownRange = Range{}

// String renders the band as "10-50", or "500+" for open-ended bands.
func (r Range) String() string {
	if !r.Known {
		return Unknown
	}
	if r.Max <= 0 {
		return fmt.Sprintf("%d+", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// ParseRange parses "10-50", "500+", or "unknown" back into a Range.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, Unknown) {
		return UnknownRange, nil
	}

	if strings.HasSuffix(s, "+") {
		min, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
		if err != nil {
			return UnknownRange, eris.Wrapf(err, "model: parse range %q", s)
		}
		return Range{Min: min, Known: true}, nil
	}

	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			return UnknownRange, eris.Errorf("model: malformed range %q", s)
		}
		return Range{Min: n, Max: n, Known: true}, nil
	}

	min, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return UnknownRange, eris.Wrapf(err, "model: parse range %q", s)
	}
	max, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return UnknownRange, eris.Wrapf(err, "model: parse range %q", s)
	}
	if max < min {
		return UnknownRange, eris.Errorf("model: inverted range %q", s)
	}
	return Range{Min: min, Max: max, Known: true}, nil
}
