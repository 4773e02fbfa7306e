// Package derive turns the raw snapshot into the working sets the layout
// engines consume: the mainstream-filtered node/edge/recommendation subset,
// pairwise similarity edges between recommendations, and hub co-follow
// edges. All functions are pure; callers decide when to recompute (dataset
// load or filter toggle, never per interaction frame).
package derive

import (
	"sort"

	"github.com/hubgraph/hubgraph/pkg/model"
)

// Fixed design constants. These came out of the original dataset tuning and
// are not user-configurable.
const (
	// MainstreamFollowers is the follower count at and above which a
	// recommendation node is hidden by the mainstream filter.
	MainstreamFollowers = 1_000_000

	// MinSharedFollowers is the smallest followed_by intersection that
	// produces a similarity edge.
	MinSharedFollowers = 5

	// MinCoFollowWeight is the smallest number of jointly-followed
	// recommendations that links a hub pair.
	MinCoFollowWeight = 10
)

// FilteredSet is the surviving subset after the mainstream filter and
// dangling-reference cleanup.
type FilteredSet struct {
	Nodes           []model.GraphNode
	Edges           []model.GraphEdge
	Recommendations []model.Recommendation

	// AllRecommendations is the full list with dangling followed_by entries
	// trimmed but no mainstream filtering. Co-follow derivation always runs
	// over this list.
	AllRecommendations []model.Recommendation

	// HideMainstream records the flag the set was filtered with. The
	// hub-cluster view uses it to hide mainstream hub nodes, which the
	// general rule deliberately spares.
	HideMainstream bool

	byHandle map[string]int
}

// Node returns the node for handle, or nil when it was filtered out or never
// existed.
func (fs *FilteredSet) Node(handle string) *model.GraphNode {
	i, ok := fs.byHandle[handle]
	if !ok {
		return nil
	}
	return &fs.Nodes[i]
}

// Has reports whether handle survived filtering.
func (fs *FilteredSet) Has(handle string) bool {
	_, ok := fs.byHandle[handle]
	return ok
}

// Filter applies the mainstream rule and drops dangling references.
// Center and hub nodes are never removed by the mainstream rule; only
// recommendation nodes and recommendation records at or above
// MainstreamFollowers go when hideMainstream is set. Surviving edges need
// both endpoints alive, and followed_by lists are trimmed to hubs present in
// the full node list. Empty output is a valid result.
func Filter(data *model.GraphData, hideMainstream bool) FilteredSet {
	known := make(map[string]model.NodeKind, len(data.Nodes))
	for _, n := range data.Nodes {
		known[n.Handle] = n.Kind
	}

	fs := FilteredSet{HideMainstream: hideMainstream, byHandle: make(map[string]int)}
	for _, n := range data.Nodes {
		if hideMainstream && n.Kind == model.KindRecommendation && n.Followers >= MainstreamFollowers {
			continue
		}
		fs.byHandle[n.Handle] = len(fs.Nodes)
		fs.Nodes = append(fs.Nodes, n)
	}

	for _, e := range data.Edges {
		if fs.Has(e.Source.String()) && fs.Has(e.Target.String()) {
			fs.Edges = append(fs.Edges, e)
		}
	}

	for _, r := range data.Recommendations {
		kept := r
		kept.FollowedBy = keepKnownHubs(r.FollowedBy, known)
		fs.AllRecommendations = append(fs.AllRecommendations, kept)
		if hideMainstream && r.Followers >= MainstreamFollowers {
			continue
		}
		fs.Recommendations = append(fs.Recommendations, kept)
	}
	return fs
}

func keepKnownHubs(followedBy []string, known map[string]model.NodeKind) []string {
	out := make([]string, 0, len(followedBy))
	for _, h := range followedBy {
		if _, ok := known[h]; ok {
			out = append(out, h)
		}
	}
	return out
}

// WeightedEdge is a derived undirected edge. A and B are sorted so the
// unordered pair has one canonical representation.
type WeightedEdge struct {
	A      string
	B      string
	Weight int
}

// SimilarityEdges links recommendation pairs whose followed_by sets share at
// least MinSharedFollowers hubs; the weight is the intersection size. The
// intersection iterates the smaller list against a membership map of the
// larger one. Output is deduplicated and sorted for deterministic layout
// seeding.
func SimilarityEdges(recs []model.Recommendation) []WeightedEdge {
	if len(recs) < 2 {
		return nil
	}
	sets := make([]map[string]struct{}, len(recs))
	for i, r := range recs {
		s := make(map[string]struct{}, len(r.FollowedBy))
		for _, h := range r.FollowedBy {
			s[h] = struct{}{}
		}
		sets[i] = s
	}

	var edges []WeightedEdge
	for i := 0; i < len(recs); i++ {
		for j := i + 1; j < len(recs); j++ {
			w := intersectionSize(sets[i], sets[j])
			if w < MinSharedFollowers {
				continue
			}
			a, b := recs[i].Handle, recs[j].Handle
			if b < a {
				a, b = b, a
			}
			edges = append(edges, WeightedEdge{A: a, B: b, Weight: w})
		}
	}
	sortEdges(edges)
	return edges
}

func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for h := range a {
		if _, ok := b[h]; ok {
			n++
		}
	}
	return n
}

// CoFollowEdges links hub pairs jointly followed by at least
// MinCoFollowWeight recommendations. It runs over the full recommendation
// list: the hub-cluster view filters hub nodes, not this derivation's input.
func CoFollowEdges(recs []model.Recommendation) []WeightedEdge {
	type pair struct{ a, b string }
	counts := make(map[pair]int)
	for _, r := range recs {
		fb := r.FollowedBy
		for i := 0; i < len(fb); i++ {
			for j := i + 1; j < len(fb); j++ {
				a, b := fb[i], fb[j]
				if a == b {
					continue
				}
				if b < a {
					a, b = b, a
				}
				counts[pair{a, b}]++
			}
		}
	}

	edges := make([]WeightedEdge, 0, len(counts))
	for p, w := range counts {
		if w >= MinCoFollowWeight {
			edges = append(edges, WeightedEdge{A: p.a, B: p.b, Weight: w})
		}
	}
	sortEdges(edges)
	return edges
}

func sortEdges(edges []WeightedEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
}

// Adjacency maps a node handle to the indices of its incident edges, making
// hover-driven edge emphasis O(degree) instead of O(total edges). Build it
// once per layout pass.
type Adjacency map[string][]int

// BuildAdjacency indexes edges by both endpoints.
func BuildAdjacency(edges []WeightedEdge) Adjacency {
	adj := make(Adjacency)
	for i, e := range edges {
		adj[e.A] = append(adj[e.A], i)
		adj[e.B] = append(adj[e.B], i)
	}
	return adj
}

// BuildBipartite expands each recommendation into one edge per followed_by
// hub. Weight carries the recommendation's hub_count so renderers can reuse
// WeightedEdge throughout.
func BuildBipartite(recs []model.Recommendation) []WeightedEdge {
	var edges []WeightedEdge
	for _, r := range recs {
		for _, h := range r.FollowedBy {
			edges = append(edges, WeightedEdge{A: h, B: r.Handle, Weight: r.HubCount})
		}
	}
	return edges
}
