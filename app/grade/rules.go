package grade

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules describes the grade inclusion policy. Zero-valued fields fall back
// to the built-in UN Women policy, so a rules file only needs to override
// what it changes.
type Rules struct {
	IncludeGrades   []string `yaml:"include_grades"`
	ExcludePattern  string   `yaml:"exclude_pattern"`
	IncludeKeywords []string `yaml:"include_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

func DefaultRules() Rules {
	return Rules{
		IncludeGrades:   []string{"P-1", "P-2", "P-3", "P-4", "P-5", "D-1", "D-2"},
		ExcludePattern:  `\b(G-\d{1,2}|NO-?[A-D]|SB-\d{1,2}|LSC-\d{1,2})\b`,
		IncludeKeywords: []string{"internship", "intern", "fellowship", "fellow"},
		ExcludeKeywords: []string{"consultant", "consultancy"},
	}
}

// LoadRules reads a YAML rules file and overlays it on the defaults.
// An empty path returns the defaults unchanged.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}

	var loaded Rules
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return rules, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if len(loaded.IncludeGrades) > 0 {
		rules.IncludeGrades = loaded.IncludeGrades
	}
	if loaded.ExcludePattern != "" {
		rules.ExcludePattern = loaded.ExcludePattern
	}
	if len(loaded.IncludeKeywords) > 0 {
		rules.IncludeKeywords = loaded.IncludeKeywords
	}
	if len(loaded.ExcludeKeywords) > 0 {
		rules.ExcludeKeywords = loaded.ExcludeKeywords
	}

	return rules, nil
}
