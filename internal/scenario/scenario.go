// Package scenario derives synthetic test scenarios from command descriptors.
package scenario

import (
	"strings"

	"github.com/starford/kitscan/internal/models"
)

// TypeCommand tags scenarios generated for commands.
const TypeCommand = "command"

// Sample inputs used by the trigger templates.
const (
	SampleYouTubeURL     = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	SampleBlogTopic      = "10 productivity tips for remote workers"
	SampleEmailFlow      = "welcome"
	SampleSocialPlatform = "twitter"
)

// Template is the canned step emitted for a matching command.
type Template struct {
	Input  string
	Verify []string
}

// Trigger pairs a name predicate with the template it selects.
type Trigger struct {
	Name     string
	Match    func(name string) bool
	Template Template
}

// Contains matches names containing any of the given substrings.
func Contains(substrings ...string) func(string) bool {
	return func(name string) bool {
		for _, sub := range substrings {
			if strings.Contains(name, sub) {
				return true
			}
		}
		return false
	}
}

// DefaultTriggers is evaluated in order; the first match wins.
var DefaultTriggers = []Trigger{
	{
		Name:  "youtube",
		Match: Contains("youtube"),
		Template: Template{
			Input:  SampleYouTubeURL,
			Verify: []string{"Output generated", "No errors", "Format correct"},
		},
	},
	{
		Name:  "content",
		Match: Contains("content", "blog"),
		Template: Template{
			Input:  SampleBlogTopic,
			Verify: []string{"Content generated", "SEO metadata present"},
		},
	},
	{
		Name:  "email",
		Match: Contains("email"),
		Template: Template{
			Input:  SampleEmailFlow,
			Verify: []string{"Sequence generated", "Timing defined"},
		},
	},
	{
		Name:  "social",
		Match: Contains("social"),
		Template: Template{
			Input:  SampleSocialPlatform,
			Verify: []string{"Posts generated", "Platform format correct"},
		},
	},
}

// Generator turns commands into scenarios using an ordered trigger table.
type Generator struct {
	triggers []Trigger
}

// NewGenerator returns a Generator over triggers. A nil table means DefaultTriggers.
func NewGenerator(triggers []Trigger) *Generator {
	if triggers == nil {
		triggers = DefaultTriggers
	}
	return &Generator{triggers: triggers}
}

// Generate emits at most one single-step scenario per command, in input
// order. Commands matching no trigger produce nothing.
func (g *Generator) Generate(commands []models.Command) []models.Scenario {
	out := []models.Scenario{}
	for _, cmd := range commands {
		t, ok := g.match(cmd.Name)
		if !ok {
			continue
		}
		out = append(out, models.Scenario{
			Name: "Test " + cmd.Name,
			Type: TypeCommand,
			Steps: []models.Step{{
				Action: cmd.Name,
				Input:  t.Template.Input,
				Verify: append([]string(nil), t.Template.Verify...),
			}},
		})
	}
	return out
}

func (g *Generator) match(name string) (Trigger, bool) {
	for _, t := range g.triggers {
		if t.Match(name) {
			return t, true
		}
	}
	return Trigger{}, false
}

// Generate runs the default trigger table over commands.
func Generate(commands []models.Command) []models.Scenario {
	return NewGenerator(nil).Generate(commands)
}
