package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/kitscan/internal/apperr"
)

// Category names one of the component subtrees.
type Category string

const (
	CategoryCommands  Category = "commands"
	CategoryAgents    Category = "agents"
	CategorySkills    Category = "skills"
	CategoryWorkflows Category = "workflows"
)

// SelectAll selects every category.
const SelectAll = "all"

// Categories lists every category in canonical output order.
var Categories = []Category{CategoryCommands, CategoryAgents, CategorySkills, CategoryWorkflows}

// ParseCategory validates a single category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrUnknownCategory, s)
}

// ParseSelector turns a type selector ("all" or a category name) into the
// categories it selects, in canonical order. An empty selector means all.
func ParseSelector(s string) ([]Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == SelectAll {
		return append([]Category(nil), Categories...), nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return nil, err
	}
	return []Category{c}, nil
}

// Result aggregates one scan. Only the Selected categories are serialized;
// Scenarios is serialized when ScenariosRequested is set.
type Result struct {
	Commands  []Command
	Agents    []Agent
	Skills    []Skill
	Workflows []Workflow
	Scenarios []Scenario

	Selected           []Category
	ScenariosRequested bool
}

// Has reports whether c was part of the scan.
func (r Result) Has(c Category) bool {
	for _, s := range r.Selected {
		if s == c {
			return true
		}
	}
	return false
}

// Items returns the summary view of category c in stored order.
func (r Result) Items(c Category) []Item {
	var out []Item
	switch c {
	case CategoryCommands:
		for _, v := range r.Commands {
			out = append(out, Item{Name: v.Name, Path: v.Path, Testable: v.Testable, Descriptor: v})
		}
	case CategoryAgents:
		for _, v := range r.Agents {
			out = append(out, Item{Name: v.Name, Path: v.Path, Testable: v.Testable, Descriptor: v})
		}
	case CategorySkills:
		for _, v := range r.Skills {
			out = append(out, Item{Name: v.Name, Path: v.Path, Testable: v.Testable, Descriptor: v})
		}
	case CategoryWorkflows:
		for _, v := range r.Workflows {
			out = append(out, Item{Name: v.Name, Path: v.Path, Testable: v.Testable, Descriptor: v})
		}
	}
	return out
}

// ComponentsOf returns the descriptor slice of category c, never nil.
func (r Result) ComponentsOf(c Category) any {
	switch c {
	case CategoryCommands:
		return nonNil(r.Commands)
	case CategoryAgents:
		return nonNil(r.Agents)
	case CategorySkills:
		return nonNil(r.Skills)
	case CategoryWorkflows:
		return nonNil(r.Workflows)
	}
	return nil
}

type resultWire struct {
	Commands  *[]Command  `json:"commands,omitempty"`
	Agents    *[]Agent    `json:"agents,omitempty"`
	Skills    *[]Skill    `json:"skills,omitempty"`
	Workflows *[]Workflow `json:"workflows,omitempty"`
	Scenarios *[]Scenario `json:"scenarios,omitempty"`
}

// MarshalJSON writes the selected categories in canonical order. A selected
// but empty category is written as an empty list.
func (r Result) MarshalJSON() ([]byte, error) {
	var w resultWire
	if r.Has(CategoryCommands) {
		v := nonNil(r.Commands)
		w.Commands = &v
	}
	if r.Has(CategoryAgents) {
		v := nonNil(r.Agents)
		w.Agents = &v
	}
	if r.Has(CategorySkills) {
		v := nonNil(r.Skills)
		w.Skills = &v
	}
	if r.Has(CategoryWorkflows) {
		v := nonNil(r.Workflows)
		w.Workflows = &v
	}
	if r.ScenariosRequested {
		v := nonNil(r.Scenarios)
		w.Scenarios = &v
	}
	return json.Marshal(w)
}

// MarshalYAML mirrors MarshalJSON with an ordered mapping node.
func (r Result) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, v any) error {
		var val yaml.Node
		if err := val.Encode(v); err != nil {
			return fmt.Errorf("models: encode %s: %w", key, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &val)
		return nil
	}
	for _, c := range Categories {
		if !r.Has(c) {
			continue
		}
		if err := add(string(c), r.ComponentsOf(c)); err != nil {
			return nil, err
		}
	}
	if r.ScenariosRequested {
		if err := add("scenarios", nonNil(r.Scenarios)); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Changes counts catalog differences between a scan and the previous record.
type Changes struct {
	Added   []string `json:"added" yaml:"added"`
	Updated []string `json:"updated" yaml:"updated"`
	Removed []string `json:"removed" yaml:"removed"`
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}
