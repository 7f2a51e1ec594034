// Package enrich estimates employee counts, revenue bands, and domain age for
// business records. Every heuristic returns an explicit unknown marker rather
// than a defaulted zero when it cannot produce an estimate.
package enrich

import (
	_ "embed"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospect-cli/internal/model"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// employeeRule is one entry of the ordered keyword rule table.
type employeeRule struct {
	Match string `yaml:"match"`
	Range string `yaml:"range"`
}

type ruleFile struct {
	Rules []employeeRule `yaml:"rules"`
}

// compiledRule pairs a lowercased keyword with its parsed band.
type compiledRule struct {
	keyword string
	band    model.Range
}

// EmployeeEstimator maps industry text to an employee range using an ordered
// keyword rule table. First match wins; no match yields the unknown band.
type EmployeeEstimator struct {
	rules []compiledRule
}

// NewEmployeeEstimator builds an estimator from the embedded default rules.
func NewEmployeeEstimator() (*EmployeeEstimator, error) {
	return LoadEmployeeRules(strings.NewReader(string(defaultRulesYAML)))
}

// LoadEmployeeRules parses a YAML rule table. Rule order is preserved.
func LoadEmployeeRules(r io.Reader) (*EmployeeEstimator, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: read rules")
	}

	var f ruleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrap(err, "enrich: parse rules yaml")
	}
	if len(f.Rules) == 0 {
		return nil, eris.New("enrich: rule table is empty")
	}

	compiled := make([]compiledRule, 0, len(f.Rules))
	for _, rule := range f.Rules {
		band, err := model.ParseRange(rule.Range)
		if err != nil {
			return nil, eris.Wrapf(err, "enrich: rule %q", rule.Match)
		}
		if !band.Known {
			return nil, eris.Errorf("enrich: rule %q has unknown range", rule.Match)
		}
		compiled = append(compiled, compiledRule{
			keyword: strings.ToLower(rule.Match),
			band:    band,
		})
	}

	return &EmployeeEstimator{rules: compiled}, nil
}

// Estimate returns the employee band for an industry description.
// Matching is a case-insensitive substring check against each rule in order.
func (e *EmployeeEstimator) Estimate(industry string) model.Range {
	text := strings.ToLower(industry)
	if text == "" {
		return model.UnknownRange
	}
	for _, rule := range e.rules {
		if strings.Contains(text, rule.keyword) {
			return rule.band
		}
	}
	return model.UnknownRange
}
