// Package model defines the dataset types shared across hubgraph: the
// social-graph snapshot (nodes, raw edges, recommendations, summary stats)
// and the flat curated-people records. Everything here is read-only for the
// lifetime of a session; derived edges and layout positions live elsewhere.
package model

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// NodeKind classifies graph nodes.
type NodeKind string

const (
	KindCenter         NodeKind = "center"
	KindHub            NodeKind = "hub"
	KindRecommendation NodeKind = "recommendation"
)

// Valid reports whether k is one of the three known kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindCenter, KindHub, KindRecommendation:
		return true
	}
	return false
}

// Ref is a node reference inside an edge. Upstream exporters emit either a
// plain handle string or an object carrying a handle field; Ref normalizes
// both to a handle string at decode time so nothing downstream ever
// type-switches on endpoint shape.
type Ref string

func (r *Ref) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	var obj struct {
		Handle string `json:"handle"`
		ID     string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("edge endpoint: %w", err)
	}
	if obj.Handle != "" {
		*r = Ref(obj.Handle)
	} else {
		*r = Ref(obj.ID)
	}
	return nil
}

func (r Ref) String() string { return string(r) }

// GraphNode is one account in the snapshot. HubCount is meaningful only for
// recommendation nodes (number of hubs following the account).
type GraphNode struct {
	Handle      string   `json:"handle"`
	Name        string   `json:"name"`
	Kind        NodeKind `json:"type"`
	Followers   int      `json:"followers"`
	HubCount    int      `json:"hub_count,omitempty"`
	Description string   `json:"description,omitempty"`
}

// GraphEdge is a raw dataset edge. Derived edge sets (similarity, co-follow)
// are computed from recommendations and never appear in the input file.
type GraphEdge struct {
	Source Ref    `json:"source"`
	Target Ref    `json:"target"`
	Kind   string `json:"type"`
}

const (
	EdgeCenterFollowsHub      = "center-follows-hub"
	EdgeHubFollowsRecommended = "hub-follows-recommendation"
)

// Recommendation is the denormalized projection of a recommendation node,
// carrying its own copy of the display fields plus the hub handles that
// follow it. FollowedBy order is irrelevant for correctness.
type Recommendation struct {
	Handle      string   `json:"handle"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Followers   int      `json:"followers"`
	Following   int      `json:"following,omitempty"`
	HubCount    int      `json:"hub_count"`
	FollowedBy  []string `json:"followed_by"`
}

// Stats summarizes how the snapshot was produced.
type Stats struct {
	CenterFollowing     int `json:"center_following"`
	HubsFetched         int `json:"hubs_fetched"`
	EdgeCount           int `json:"edge_count"`
	RecommendationCount int `json:"recommendation_count"`
	MinHubThreshold     int `json:"min_hub_threshold"`
}

// GraphData is the dataset root. Dangling references (edge endpoints or
// followed_by entries naming absent nodes) are legal input and are dropped
// during derivation, never treated as errors.
type GraphData struct {
	Nodes           []GraphNode      `json:"nodes"`
	Edges           []GraphEdge      `json:"edges"`
	Recommendations []Recommendation `json:"recommendations"`
	Stats           Stats            `json:"stats"`
}

// Person is one curated-people record. It has no graph relationships; the
// people table and the graph views share only the handle as a join key.
type Person struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Handle      string   `json:"handle"`
	Country     string   `json:"country"`
	Credibility float64  `json:"credibility_score"`
	Innovation  float64  `json:"innovation_score"`
	Influence   float64  `json:"influence_score"`
	Categories  []string `json:"categories"`
	Achievement string   `json:"achievement,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Funding     string   `json:"funding,omitempty"`
}

// FormatCount renders follower-style counts the way the tooltip shows them:
// one decimal plus K at a thousand, one decimal plus M at a million,
// otherwise the literal integer.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
