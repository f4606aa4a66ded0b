package autofill

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule is one selector of the widget detection table. Higher priority
// rules are tried first; equal priorities keep their table order.
type Rule struct {
	Selector string `yaml:"selector" json:"selector"`
	Priority int    `yaml:"priority" json:"priority"`
}

// RuleTable holds the selectors used to recognise arrow-combo widgets.
type RuleTable struct {
	// Triggers are matched inside a readonly input's parent container.
	Triggers []Rule `yaml:"triggers" json:"triggers"`

	// Containers locate the open option list anywhere in the document.
	Containers []Rule `yaml:"containers" json:"containers"`

	// Options are the candidate option elements inside a container.
	Options []Rule `yaml:"options" json:"options"`
}

// DefaultRules covers ExtJS-style combos, ARIA listboxes and menus, common
// dropdown libraries, and generic lists and tables as a last resort.
func DefaultRules() RuleTable {
	return RuleTable{
		Triggers: []Rule{
			{Selector: ".x-form-arrow-trigger", Priority: 100},
			{Selector: ".x-form-trigger", Priority: 90},
			{Selector: "[aria-haspopup='listbox']", Priority: 80},
			{Selector: "[aria-haspopup='menu']", Priority: 80},
			{Selector: ".dropdown-toggle", Priority: 70},
			{Selector: "[class*='arrow']", Priority: 50},
			{Selector: "[class*='trigger']", Priority: 40},
		},
		Containers: []Rule{
			{Selector: "[role='listbox']", Priority: 100},
			{Selector: "[role='menu']", Priority: 90},
			{Selector: ".x-boundlist", Priority: 80},
			{Selector: ".x-combo-list", Priority: 80},
			{Selector: ".x-menu", Priority: 80},
			{Selector: ".dropdown-menu", Priority: 70},
			{Selector: ".select2-results", Priority: 70},
			{Selector: ".ui-menu", Priority: 70},
			{Selector: "ul", Priority: 20},
			{Selector: "table", Priority: 10},
		},
		Options: []Rule{
			{Selector: "[role='option']", Priority: 100},
			{Selector: "[role='menuitem']", Priority: 90},
			{Selector: ".x-boundlist-item", Priority: 80},
			{Selector: ".x-combo-list-item", Priority: 80},
			{Selector: ".x-menu-item", Priority: 80},
			{Selector: "li", Priority: 50},
			{Selector: "td", Priority: 40},
			{Selector: "a", Priority: 30},
		},
	}
}

// IsZero reports whether the table has no rules at all.
func (t RuleTable) IsZero() bool {
	return len(t.Triggers) == 0 && len(t.Containers) == 0 && len(t.Options) == 0
}

// Merge appends other's rules to t. Duplicate selectors keep the higher
// priority.
func (t RuleTable) Merge(other RuleTable) RuleTable {
	return RuleTable{
		Triggers:   mergeRules(t.Triggers, other.Triggers),
		Containers: mergeRules(t.Containers, other.Containers),
		Options:    mergeRules(t.Options, other.Options),
	}
}

// Ordered returns a copy with every list sorted by descending priority.
func (t RuleTable) Ordered() RuleTable {
	return RuleTable{
		Triggers:   orderRules(t.Triggers),
		Containers: orderRules(t.Containers),
		Options:    orderRules(t.Options),
	}
}

// OptionSelector joins the option rules into one selector list, so that
// candidates come back in document order.
func (t RuleTable) OptionSelector() string {
	sels := make([]string, 0, len(t.Options))
	for _, r := range t.Options {
		sels = append(sels, r.Selector)
	}
	return strings.Join(sels, ", ")
}

// LoadRules reads a YAML rule table.
func LoadRules(path string) (RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleTable{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes a YAML rule table and rejects empty selectors.
func ParseRules(data []byte) (RuleTable, error) {
	var t RuleTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return RuleTable{}, fmt.Errorf("failed to parse rules: %w", err)
	}
	for _, group := range [][]Rule{t.Triggers, t.Containers, t.Options} {
		for i, r := range group {
			if strings.TrimSpace(r.Selector) == "" {
				return RuleTable{}, fmt.Errorf("rule %d has an empty selector", i)
			}
		}
	}
	return t, nil
}

func mergeRules(base, extra []Rule) []Rule {
	out := make([]Rule, 0, len(base)+len(extra))
	pos := make(map[string]int, len(base)+len(extra))
	for _, r := range append(append([]Rule{}, base...), extra...) {
		if i, ok := pos[r.Selector]; ok {
			if r.Priority > out[i].Priority {
				out[i].Priority = r.Priority
			}
			continue
		}
		pos[r.Selector] = len(out)
		out = append(out, r)
	}
	return out
}

func orderRules(rules []Rule) []Rule {
	out := append([]Rule(nil), rules...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}
