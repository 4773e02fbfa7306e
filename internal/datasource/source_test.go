package datasource

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const minimalGraph = `{"nodes":[],"edges":[],"recommendations":[],"stats":{}}`

func TestResolveExplicitPaths(t *testing.T) {
	dir := t.TempDir()
	graph := filepath.Join(dir, "custom.json")
	writeFile(t, graph, minimalGraph)

	src, err := Resolve(graph, "", dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if src.GraphPath != graph {
		t.Errorf("graph path = %q", src.GraphPath)
	}
}

func TestResolvePrefersSQLitePeopleCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "graph.json"), minimalGraph)
	writeFile(t, filepath.Join(dir, "people.json"), "[]")
	writeFile(t, filepath.Join(dir, "people.db"), "")

	src, err := Resolve("", "", dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(src.PeoplePath) != "people.db" {
		t.Errorf("people path = %q, want the SQLite cache", src.PeoplePath)
	}
}

func TestResolveMissingGraphFails(t *testing.T) {
	if _, err := Resolve("", "", t.TempDir()); err == nil {
		t.Fatal("resolve without a graph file must fail")
	}
}

func TestResolvePeopleOptional(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "graph.json"), minimalGraph)
	src, err := Resolve("", "", dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if src.PeoplePath != "" {
		t.Errorf("people path = %q, want empty", src.PeoplePath)
	}
}

func TestIsSQLite(t *testing.T) {
	for path, want := range map[string]bool{
		"people.db":      true,
		"People.SQLITE":  true,
		"cache.sqlite3":  true,
		"people.json":    false,
		"people":         false,
		"db.json":        false,
	} {
		if got := IsSQLite(path); got != want {
			t.Errorf("IsSQLite(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{`["ai","robotics"]`, []string{"ai", "robotics"}},
		{"ai, robotics", []string{"ai", "robotics"}},
		{"solo", []string{"solo"}},
		{"[broken json", []string{"[broken json"}},
	}
	for _, tt := range tests {
		if got := parseCategories(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseCategories(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
