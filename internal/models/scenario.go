package models

// Step is one action of a scenario together with what to check afterwards.
type Step struct {
	Action string   `json:"action" yaml:"action"`
	Input  string   `json:"input" yaml:"input"`
	Verify []string `json:"verify" yaml:"verify"`
}

// Scenario is a synthetic test case derived from a component.
type Scenario struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Steps []Step `json:"steps" yaml:"steps"`
}
