// Package models defines the component and scenario descriptors produced by a scan.
package models

// Command describes a slash command file under commands/.
type Command struct {
	Name         string `json:"name" yaml:"name"`
	Path         string `json:"path" yaml:"path"`
	Description  string `json:"description" yaml:"description"`
	ArgumentHint string `json:"argument_hint" yaml:"argument_hint"`
	Testable     bool   `json:"testable" yaml:"testable"`
}

// Agent describes a flat agent definition under agents/.
type Agent struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
	Model       string `json:"model" yaml:"model"`
	Testable    bool   `json:"testable" yaml:"testable"`
}

// Skill describes a skill directory holding a SKILL.md file.
type Skill struct {
	Name          string `json:"name" yaml:"name"`
	Path          string `json:"path" yaml:"path"`
	Description   string `json:"description" yaml:"description"`
	HasScripts    bool   `json:"has_scripts" yaml:"has_scripts"`
	HasReferences bool   `json:"has_references" yaml:"has_references"`
	Testable      bool   `json:"testable" yaml:"testable"`
}

// Workflow describes a workflow document under workflows/. Workflows are
// never testable.
type Workflow struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
	Testable    bool   `json:"testable" yaml:"testable"`
}

// Item is the category-independent view used by summaries and the catalog.
type Item struct {
	Name       string
	Path       string
	Testable   bool
	Descriptor any
}
