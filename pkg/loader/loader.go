// Package loader reads the graph and people dataset files. Input is trusted
// but imperfect: unknown fields are ignored, structural oddities produce
// warnings through an injected handler rather than errors, and only
// undecodable JSON fails the load.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/hubgraph/hubgraph/pkg/model"
)

// Options controls parsing behavior.
type Options struct {
	// WarningHandler receives non-fatal data problems. Nil discards them.
	WarningHandler func(msg string)
}

func (o *Options) warnf(format string, args ...any) {
	if o != nil && o.WarningHandler != nil {
		o.WarningHandler(fmt.Sprintf(format, args...))
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseGraph decodes a graph dataset. Nodes with empty handles are dropped,
// duplicate handles keep the first occurrence, unknown kinds and negative
// counts are normalized; each of these warns.
func ParseGraph(r io.Reader, opts *Options) (*model.GraphData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read graph dataset: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var data model.GraphData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode graph dataset: %w", err)
	}

	seen := make(map[string]bool, len(data.Nodes))
	kept := data.Nodes[:0]
	for _, n := range data.Nodes {
		if n.Handle == "" {
			opts.warnf("dropping node with empty handle (name %q)", n.Name)
			continue
		}
		if seen[n.Handle] {
			opts.warnf("duplicate node handle %q, keeping first", n.Handle)
			continue
		}
		seen[n.Handle] = true
		if !n.Kind.Valid() {
			opts.warnf("node %q has unknown kind %q, treating as recommendation", n.Handle, n.Kind)
			n.Kind = model.KindRecommendation
		}
		if n.Followers < 0 {
			opts.warnf("node %q has negative follower count %d, clamping", n.Handle, n.Followers)
			n.Followers = 0
		}
		kept = append(kept, n)
	}
	data.Nodes = kept

	recs := data.Recommendations[:0]
	for _, r := range data.Recommendations {
		if r.Handle == "" {
			opts.warnf("dropping recommendation with empty handle")
			continue
		}
		recs = append(recs, r)
	}
	data.Recommendations = recs
	return &data, nil
}

// ParsePeople decodes the flat people records. The file is either a bare
// array or an object with a "people" field.
func ParsePeople(r io.Reader, opts *Options) ([]model.Person, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read people dataset: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var people []model.Person
	if err := json.Unmarshal(raw, &people); err != nil {
		var wrapped struct {
			People []model.Person `json:"people"`
		}
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode people dataset: %w", err)
		}
		people = wrapped.People
	}

	kept := people[:0]
	for _, p := range people {
		if p.Handle == "" && p.Name == "" {
			opts.warnf("dropping person record with no handle or name")
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}

// LoadGraphFile reads and parses the graph dataset at path.
func LoadGraphFile(path string, opts *Options) (*model.GraphData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph dataset: %w", err)
	}
	defer f.Close()
	return ParseGraph(f, opts)
}

// LoadPeopleFile reads and parses the people dataset at path.
func LoadPeopleFile(path string, opts *Options) ([]model.Person, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open people dataset: %w", err)
	}
	defer f.Close()
	return ParsePeople(f, opts)
}

// LoadAll reads both dataset files concurrently. peoplePath may be empty;
// the people table is optional.
func LoadAll(ctx context.Context, graphPath, peoplePath string, opts *Options) (*model.GraphData, []model.Person, error) {
	var (
		data   *model.GraphData
		people []model.Person
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = LoadGraphFile(graphPath, opts)
		return err
	})
	if peoplePath != "" {
		g.Go(func() error {
			var err error
			people, err = LoadPeopleFile(peoplePath, opts)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return data, people, nil
}
