package mcpserver

// ComponentFormat describes the on-disk layout and header block that the
// scanners understand.
const ComponentFormat = `# Component Format

Components live under the project's .claude/ directory.

## Layout

` + "```" + `text
.claude/
  commands/<name>.md            exposed as /<name>
  commands/<folder>/<name>.md   exposed as /<folder>:<name>
  agents/<name>.md              top level only
  skills/<dir>/SKILL.md         one skill per directory
  skills/<dir>/scripts/         optional; makes the skill testable
  skills/<dir>/references/      optional
  workflows/<name>.md           top level only
` + "```" + `

## Header block

` + "```" + `markdown
---
description: "Writes launch copy"
model: opus
---

Body text is ignored by the scanner.
` + "```" + `

## Rules

1. The file must start with ` + "`---`" + ` on the very first line. Anything else means no metadata.
2. Each line is ` + "`key: value`" + `, split on the first colon. Lines without a colon are ignored.
3. One layer of matching single or double quotes is removed from values.
4. Nested YAML (lists, maps) is not understood. A repeated key keeps its last value.
5. Recognized keys: ` + "`name`" + ` (skills only; other components are named after
   their file), ` + "`description`" + ` (all), ` + "`argument-hint`" + ` (commands),
   ` + "`model`" + ` (agents, default sonnet).
6. A skill directory without SKILL.md is skipped.

## Scenarios

Commands whose name contains youtube, content or blog, email, or social get a
generated test scenario with a sample input and verification checks.
`
