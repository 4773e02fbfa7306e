package testutil

import (
	"testing"

	"github.com/hubgraph/hubgraph/pkg/model"
)

// AssertNoDuplicateHandles verifies all node handles are unique.
func AssertNoDuplicateHandles(t *testing.T, data *model.GraphData) {
	t.Helper()
	seen := make(map[string]bool, len(data.Nodes))
	for _, n := range data.Nodes {
		if seen[n.Handle] {
			t.Errorf("duplicate node handle %q", n.Handle)
		}
		seen[n.Handle] = true
	}
}

// AssertEdgesResolve verifies every edge endpoint names a known node.
func AssertEdgesResolve(t *testing.T, data *model.GraphData) {
	t.Helper()
	known := make(map[string]bool, len(data.Nodes))
	for _, n := range data.Nodes {
		known[n.Handle] = true
	}
	for i, e := range data.Edges {
		if !known[e.Source.String()] {
			t.Errorf("edge %d: unknown source %q", i, e.Source)
		}
		if !known[e.Target.String()] {
			t.Errorf("edge %d: unknown target %q", i, e.Target)
		}
	}
}

// AssertRecommendationsConsistent verifies hub_count matches followed_by and
// every follower is a hub node.
func AssertRecommendationsConsistent(t *testing.T, data *model.GraphData) {
	t.Helper()
	kind := make(map[string]model.NodeKind, len(data.Nodes))
	for _, n := range data.Nodes {
		kind[n.Handle] = n.Kind
	}
	for _, r := range data.Recommendations {
		if r.HubCount != len(r.FollowedBy) {
			t.Errorf("recommendation %q: hub_count %d but %d followers listed",
				r.Handle, r.HubCount, len(r.FollowedBy))
		}
		for _, h := range r.FollowedBy {
			if kind[h] != model.KindHub {
				t.Errorf("recommendation %q followed by %q which is not a hub", r.Handle, h)
			}
		}
	}
}
