package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"minigrep/internal/config"
	"minigrep/internal/pattern"
	"minigrep/internal/search"
)

type fakeSearcher struct {
	results map[string][]string
	errs    map[string]error
	calls   []string
}

func (f *fakeSearcher) SearchFile(path string) ([]string, error) {
	f.calls = append(f.calls, path)
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	return f.results[path], nil
}

func TestRunSingleFileNoPrefix(t *testing.T) {
	fs := &fakeSearcher{results: map[string][]string{"a.txt": {"apple", "Apple pie"}}}
	cfg := &config.Config{Files: []string{"a.txt"}}

	var out bytes.Buffer
	if err := NewRunner(cfg, fs, &out, zap.NewNop()).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "apple\nApple pie\n"
	if out.String() != want {
		t.Fatalf("Expected: %q, got: %q", want, out.String())
	}
}

func TestRunMultiFilePrefix(t *testing.T) {
	fs := &fakeSearcher{results: map[string][]string{
		"a.txt": {"apple"},
		"b.txt": {"pineapple", "apple tree"},
	}}
	cfg := &config.Config{Files: []string{"a.txt", "b.txt"}}

	var out bytes.Buffer
	if err := NewRunner(cfg, fs, &out, zap.NewNop()).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "a.txt:apple\nb.txt:pineapple\nb.txt:apple tree\n"
	if out.String() != want {
		t.Fatalf("Expected: %q, got: %q", want, out.String())
	}
}

func TestRunNoMatchesIsNotError(t *testing.T) {
	fs := &fakeSearcher{}
	cfg := &config.Config{Files: []string{"a.txt"}}

	var out bytes.Buffer
	if err := NewRunner(cfg, fs, &out, zap.NewNop()).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected empty output, got %q", out.String())
	}
}

func TestRunStopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	fs := &fakeSearcher{
		results: map[string][]string{"a.txt": {"one"}, "c.txt": {"three"}},
		errs:    map[string]error{"b.txt": boom},
	}
	cfg := &config.Config{Files: []string{"a.txt", "b.txt", "c.txt"}}

	var out bytes.Buffer
	err := NewRunner(cfg, fs, &out, zap.NewNop()).Run()
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	// то, что уже напечатано, остаётся
	if out.String() != "a.txt:one\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if len(fs.calls) != 2 {
		t.Fatalf("c.txt must not be searched, calls: %v", fs.calls)
	}
}

func TestRunWithSearcher(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(a, []byte("foo\nbar\nbaz\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("qux\nfoobar\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Pattern: "foo", Patterns: []string{"baz"}, Files: []string{a, b}}
	set, err := pattern.NewSet(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}

	var out bytes.Buffer
	r := NewRunner(cfg, search.NewSearcher(cfg, set, zap.NewNop()), &out, zap.NewNop())
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := a + ":foo\n" + a + ":baz\n" + b + ":foobar\n"
	if out.String() != want {
		t.Fatalf("Expected: %q, got: %q", want, out.String())
	}
}
