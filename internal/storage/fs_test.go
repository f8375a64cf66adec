package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func tempTree(t *testing.T, files map[string]string) *FS {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return s
}

func TestRead(t *testing.T) {
	s := tempTree(t, map[string]string{"a/note.md": "# Hello\n"})
	got, err := s.Read("a/note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "# Hello\n" {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestRead_Missing(t *testing.T) {
	s := tempTree(t, nil)
	_, err := s.Read("nope.md")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestGlob_FlatAndRecursive(t *testing.T) {
	s := tempTree(t, map[string]string{
		"cmds/b.md":         "b",
		"cmds/a.md":         "a",
		"cmds/sub/c.md":     "c",
		"cmds/sub/x/d.md":   "d",
		"cmds/readme.txt":   "not md",
		"elsewhere/skip.md": "skip",
	})

	flat, err := s.Glob("cmds", "*.md")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	want := []string{"cmds/a.md", "cmds/b.md"}
	if len(flat) != len(want) || flat[0] != want[0] || flat[1] != want[1] {
		t.Errorf("flat = %v, want %v", flat, want)
	}

	deep, err := s.Glob("cmds", "**/*.md")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	want = []string{"cmds/a.md", "cmds/b.md", "cmds/sub/c.md", "cmds/sub/x/d.md"}
	if len(deep) != len(want) {
		t.Fatalf("deep = %v, want %v", deep, want)
	}
	for i := range want {
		if deep[i] != want[i] {
			t.Errorf("deep[%d] = %q, want %q", i, deep[i], want[i])
		}
	}
}

func TestGlob_MissingDir(t *testing.T) {
	s := tempTree(t, nil)
	got, err := s.Glob("absent", "*.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestGlob_SkipsDirectoriesNamedLikeFiles(t *testing.T) {
	s := tempTree(t, map[string]string{"cmds/odd.md/inner.txt": "x"})
	got, err := s.Glob("cmds", "*.md")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("directory matched as file: %v", got)
	}
}

func TestHasEntries(t *testing.T) {
	s := tempTree(t, map[string]string{
		"skill/scripts/run.py": "print()",
		"skill/file.md":        "x",
	})
	if err := os.MkdirAll(filepath.Join(s.Root(), "skill", "references"), 0o755); err != nil {
		t.Fatal(err)
	}

	if !s.HasEntries("skill/scripts") {
		t.Error("scripts should have entries")
	}
	if s.HasEntries("skill/references") {
		t.Error("empty references should report no entries")
	}
	if s.HasEntries("skill/missing") {
		t.Error("missing dir should report no entries")
	}
	if s.HasEntries("skill/file.md") {
		t.Error("a file is not a directory with entries")
	}
}

func TestExists(t *testing.T) {
	s := tempTree(t, map[string]string{"x/SKILL.md": "---\n---\n"})
	if !s.Exists("x/SKILL.md") {
		t.Error("expected SKILL.md to exist")
	}
	if s.Exists("x/OTHER.md") {
		t.Error("unexpected file")
	}
}

func TestReadDir(t *testing.T) {
	s := tempTree(t, map[string]string{"skills/b/SKILL.md": "", "skills/a/SKILL.md": ""})
	entries, err := s.ReadDir("skills")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 || entries[0].Name() != "a" || entries[1].Name() != "b" {
		t.Errorf("entries not sorted: %v", entries)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempTree(t, nil)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if s.Exists(p) {
			t.Errorf("Exists should be false for %q", p)
		}
		if _, err := s.Glob(p, "*.md"); err == nil {
			t.Errorf("expected glob error for %q", p)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "kitscan-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
