//go:build ignore

// generate_testdata.go writes standard datasets for manual testing and
// benchmarks.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	tests/testdata/small/   (12 hubs, 30 recommendations)
//	tests/testdata/medium/  (40 hubs, 250 recommendations)
//	tests/testdata/large/   (80 hubs, 1500 recommendations)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hubgraph/hubgraph/pkg/testutil"
)

type datasetSpec struct {
	name string
	hubs int
	recs int
}

var datasets = []datasetSpec{
	{"small", 12, 30},
	{"medium", 40, 250},
	{"large", 80, 1500},
}

func main() {
	for _, ds := range datasets {
		dir := filepath.Join("tests", "testdata", ds.name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", dir, err)
			os.Exit(1)
		}

		cfg := testutil.GeneratorConfig{
			Seed:            int64(ds.hubs * ds.recs),
			Hubs:            ds.hubs,
			Recommendations: ds.recs,
			MainstreamEvery: 10,
		}
		g := testutil.New(cfg)
		data := g.Graph()

		fmt.Printf("Generating %s (%d hubs, %d recommendations, %d edges)...\n",
			ds.name, ds.hubs, ds.recs, len(data.Edges))

		if err := testutil.WriteGraphJSON(filepath.Join(dir, "graph.json"), data); err != nil {
			fmt.Fprintf(os.Stderr, "write graph: %v\n", err)
			os.Exit(1)
		}
		people := g.People(ds.recs / 3)
		if err := testutil.WritePeopleJSON(filepath.Join(dir, "people.json"), people); err != nil {
			fmt.Fprintf(os.Stderr, "write people: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Println("Done.")
}
