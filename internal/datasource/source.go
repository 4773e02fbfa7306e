// Package datasource locates and loads the dataset files hubgraph reads:
// the graph snapshot JSON and the people records, which live either in a
// JSON file or in a SQLite cache produced by the scraping pipeline.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variable naming the dataset directory, checked after explicit
// flags and before the working directory.
const dataDirEnv = "HUBGRAPH_DATA"

// Default file names inside a dataset directory.
const (
	defaultGraphFile  = "graph.json"
	defaultPeopleJSON = "people.json"
	defaultPeopleDB   = "people.db"
)

// Source is a resolved pair of dataset paths. PeoplePath may be empty: the
// people table is optional.
type Source struct {
	GraphPath  string
	PeoplePath string
}

// Resolve picks the dataset paths. Explicit paths win; otherwise the
// directory (flag, then $HUBGRAPH_DATA, then the working directory) is
// probed for the default file names, preferring the SQLite people cache
// over the JSON export when both exist.
func Resolve(graphPath, peoplePath, dir string) (Source, error) {
	if dir == "" {
		dir = os.Getenv(dataDirEnv)
	}
	if dir == "" {
		dir = "."
	}

	src := Source{GraphPath: graphPath, PeoplePath: peoplePath}
	if src.GraphPath == "" {
		src.GraphPath = filepath.Join(dir, defaultGraphFile)
	}
	if _, err := os.Stat(src.GraphPath); err != nil {
		return Source{}, fmt.Errorf("graph dataset not found at %s: %w", src.GraphPath, err)
	}

	if src.PeoplePath == "" {
		for _, name := range []string{defaultPeopleDB, defaultPeopleJSON} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				src.PeoplePath = candidate
				break
			}
		}
	} else if _, err := os.Stat(src.PeoplePath); err != nil {
		return Source{}, fmt.Errorf("people dataset not found at %s: %w", src.PeoplePath, err)
	}
	return src, nil
}

// IsSQLite reports whether path looks like the SQLite people cache.
func IsSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}
