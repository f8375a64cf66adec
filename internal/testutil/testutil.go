// Package testutil provides shared test helpers for building component trees.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/kitscan/internal/storage"
)

// WriteFiles creates each file (slash-separated path relative to root) with
// its content, creating parent directories as needed. A key ending in "/"
// creates an empty directory.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(p, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// TestTree creates a temporary project root populated with files and returns
// it together with a storage.Provider over it.
func TestTree(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	WriteFiles(t, root, files)
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// SampleTree is a small but complete component tree covering every category.
var SampleTree = map[string]string{
	".claude/commands/social.md":           "---\ndescription: \"Post to socials\"\n---\n# Social\n",
	".claude/commands/youtube/social.md":   "---\ndescription: Repurpose a video\nargument-hint: [url]\n---\n",
	".claude/commands/plan.md":             "# Plan\nNo header block.\n",
	".claude/agents/copywriter.md":         "---\nname: copywriter\ndescription: Writes copy\nmodel: opus\n---\n",
	".claude/agents/researcher.md":         "---\ndescription: Finds sources\n---\n",
	".claude/agents/nested/ignored.md":     "---\ndescription: not scanned\n---\n",
	".claude/skills/seo/SKILL.md":          "---\nname: seo-optimization\ndescription: SEO helpers\n---\n",
	".claude/skills/seo/scripts/audit.py":  "print('audit')\n",
	".claude/skills/brand/SKILL.md":        "---\ndescription: Brand voice\n---\n",
	".claude/skills/brand/references/a.md": "# Guide\n",
	".claude/skills/empty/":                "",
	".claude/workflows/launch.md":          "---\ndescription: Launch checklist\n---\n",
}
