package grade

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Decision is the outcome of classifying a single listing.
type Decision struct {
	Include bool
	Reason  string
}

type Classifier struct {
	includeGrades   mapset.Set[string]
	orderedIncludes []string
	excludeRe       *regexp.Regexp
	excludeKeyRe    *regexp.Regexp
	includeKeyRe    *regexp.Regexp
}

func NewClassifier(rules Rules) (*Classifier, error) {
	excludeRe, err := regexp.Compile(`(?i)` + rules.ExcludePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}

	excludeKeyRe, err := keywordRegexp(rules.ExcludeKeywords)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude keywords: %w", err)
	}

	includeKeyRe, err := keywordRegexp(rules.IncludeKeywords)
	if err != nil {
		return nil, fmt.Errorf("invalid include keywords: %w", err)
	}

	includeGrades := mapset.NewSet[string]()
	for _, g := range rules.IncludeGrades {
		includeGrades.Add(strings.ToUpper(Normalize(g)))
	}

	ordered := includeGrades.ToSlice()
	sort.Strings(ordered)

	return &Classifier{
		includeGrades:   includeGrades,
		orderedIncludes: ordered,
		excludeRe:       excludeRe,
		excludeKeyRe:    excludeKeyRe,
		includeKeyRe:    includeKeyRe,
	}, nil
}

// Run classifies a listing from its title and detail page text. Rule order
// matters: exclusion keywords beat excluded grades beat included grades beat
// inclusion keywords, and anything unmatched is excluded.
func (c *Classifier) Run(title, details string) Decision {
	combined := strings.ToUpper(ExpandGrades(Normalize(title + " " + details)))

	if c.excludeKeyRe != nil {
		if m := c.excludeKeyRe.FindString(combined); m != "" {
			return Decision{Include: false, Reason: fmt.Sprintf("excluded keyword: %s", strings.ToLower(m))}
		}
	}

	if m := c.excludeRe.FindString(combined); m != "" {
		return Decision{Include: false, Reason: fmt.Sprintf("excluded grade: %s", strings.ToUpper(m))}
	}

	for _, g := range c.orderedIncludes {
		if strings.Contains(combined, g) {
			return Decision{Include: true, Reason: fmt.Sprintf("included grade: %s", g)}
		}
	}

	if c.includeKeyRe != nil {
		if m := c.includeKeyRe.FindString(combined); m != "" {
			return Decision{Include: true, Reason: fmt.Sprintf("included keyword: %s", strings.ToLower(m))}
		}
	}

	// Unknown grade text fails closed
	return Decision{Include: false, Reason: "no matching grade or keyword"}
}

// Detect returns the sorted set of known grade tokens found in the text,
// both included grades and excluded ones. Used for item categories and
// descriptions.
func (c *Classifier) Detect(text string) []string {
	t := strings.ToUpper(ExpandGrades(Normalize(text)))

	found := mapset.NewSet[string]()
	for _, g := range c.orderedIncludes {
		if strings.Contains(t, g) {
			found.Add(g)
		}
	}
	for _, m := range c.excludeRe.FindAllString(t, -1) {
		found.Add(strings.ToUpper(m))
	}

	grades := found.ToSlice()
	sort.Strings(grades)
	return grades
}

func keywordRegexp(keywords []string) (*regexp.Regexp, error) {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(k))
	}
	if len(quoted) == 0 {
		return nil, nil
	}
	return regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}
