// Package testutil generates deterministic hub-graph datasets for tests and
// benchmarks. Every generator is seeded; identical config yields identical
// output.
package testutil

import (
	"fmt"
	"math/rand"
	"os"

	json "github.com/goccy/go-json"

	"github.com/hubgraph/hubgraph/pkg/model"
)

// GeneratorConfig controls dataset generation.
type GeneratorConfig struct {
	Seed            int64   // 0 means 42
	Hubs            int     // hub accounts the center follows
	Recommendations int     // recommendation accounts
	FollowDensity   float64 // chance a hub follows a given recommendation (default 0.4)
	MainstreamEvery int     // every Nth recommendation gets 1M+ followers (0 = none)
}

// DefaultConfig returns a small, fully deterministic dataset shape.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:            42,
		Hubs:            12,
		Recommendations: 30,
		FollowDensity:   0.4,
		MainstreamEvery: 10,
	}
}

// Generator builds graph and people datasets.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator, filling config zero values with defaults.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.Hubs <= 0 {
		cfg.Hubs = 12
	}
	if cfg.Recommendations < 0 {
		cfg.Recommendations = 0
	}
	if cfg.FollowDensity <= 0 || cfg.FollowDensity > 1 {
		cfg.FollowDensity = 0.4
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Graph produces a complete snapshot: one center, the configured hubs, and
// recommendations whose followed_by lists drive hub_count.
func (g *Generator) Graph() *model.GraphData {
	data := &model.GraphData{}
	data.Nodes = append(data.Nodes, model.GraphNode{
		Handle:    "center",
		Name:      "Center Account",
		Kind:      model.KindCenter,
		Followers: 25_000 + g.rng.Intn(50_000),
	})

	hubs := make([]string, g.cfg.Hubs)
	for i := range hubs {
		hubs[i] = fmt.Sprintf("hub%02d", i)
		data.Nodes = append(data.Nodes, model.GraphNode{
			Handle:    hubs[i],
			Name:      fmt.Sprintf("Hub %02d", i),
			Kind:      model.KindHub,
			Followers: 5_000 + g.rng.Intn(200_000),
		})
		data.Edges = append(data.Edges, model.GraphEdge{
			Source: "center",
			Target: model.Ref(hubs[i]),
			Kind:   model.EdgeCenterFollowsHub,
		})
	}

	for i := 0; i < g.cfg.Recommendations; i++ {
		handle := fmt.Sprintf("rec%03d", i)
		var followedBy []string
		for _, h := range hubs {
			if g.rng.Float64() < g.cfg.FollowDensity {
				followedBy = append(followedBy, h)
			}
		}
		if len(followedBy) == 0 {
			followedBy = hubs[:1]
		}
		followers := 1_000 + g.rng.Intn(400_000)
		if g.cfg.MainstreamEvery > 0 && i%g.cfg.MainstreamEvery == g.cfg.MainstreamEvery-1 {
			followers = 1_000_000 + g.rng.Intn(9_000_000)
		}
		rec := model.Recommendation{
			Handle:      handle,
			Name:        fmt.Sprintf("Recommendation %03d", i),
			Description: fmt.Sprintf("Account %03d in the generated dataset.", i),
			Followers:   followers,
			HubCount:    len(followedBy),
			FollowedBy:  followedBy,
		}
		data.Recommendations = append(data.Recommendations, rec)
		data.Nodes = append(data.Nodes, model.GraphNode{
			Handle:      handle,
			Name:        rec.Name,
			Kind:        model.KindRecommendation,
			Followers:   followers,
			HubCount:    rec.HubCount,
			Description: rec.Description,
		})
		for _, h := range followedBy {
			data.Edges = append(data.Edges, model.GraphEdge{
				Source: model.Ref(h),
				Target: model.Ref(handle),
				Kind:   model.EdgeHubFollowsRecommended,
			})
		}
	}

	data.Stats = model.Stats{
		CenterFollowing:     g.cfg.Hubs,
		HubsFetched:         g.cfg.Hubs,
		EdgeCount:           len(data.Edges),
		RecommendationCount: len(data.Recommendations),
		MinHubThreshold:     1,
	}
	return data
}

// People produces curated-people records whose handles overlap the graph's
// recommendations, so selection can round-trip between views.
func (g *Generator) People(n int) []model.Person {
	countries := []string{"US", "UK", "DE", "JP", "BR", "IN"}
	categories := [][]string{
		{"research"}, {"engineering"}, {"research", "writing"}, {"art"},
	}
	people := make([]model.Person, 0, n)
	for i := 0; i < n; i++ {
		people = append(people, model.Person{
			ID:          fmt.Sprintf("p%03d", i),
			Name:        fmt.Sprintf("Person %03d", i),
			Handle:      fmt.Sprintf("rec%03d", i),
			Country:     countries[g.rng.Intn(len(countries))],
			Credibility: float64(g.rng.Intn(100)) / 10,
			Innovation:  float64(g.rng.Intn(100)) / 10,
			Influence:   float64(g.rng.Intn(100)) / 10,
			Categories:  categories[g.rng.Intn(len(categories))],
		})
	}
	return people
}

// WriteGraphJSON writes a snapshot to path in the on-disk dataset format.
func WriteGraphJSON(path string, data *model.GraphData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode graph dataset: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// WritePeopleJSON writes people records to path as a bare array.
func WritePeopleJSON(path string, people []model.Person) error {
	raw, err := json.MarshalIndent(people, "", "  ")
	if err != nil {
		return fmt.Errorf("encode people records: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}
