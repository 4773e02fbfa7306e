package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"

	"github.com/hubgraph/hubgraph/pkg/model"
)

// DataHash fingerprints a dataset for snapshot provenance. Nodes,
// edges, and followed_by lists are sorted before hashing so the same
// dataset produces the same hash regardless of input order.
func DataHash(data *model.GraphData) string {
	if data == nil || len(data.Nodes) == 0 {
		return "empty"
	}

	nodes := make([]model.GraphNode, len(data.Nodes))
	copy(nodes, data.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Handle < nodes[j].Handle })

	h := sha256.New()
	for _, n := range nodes {
		h.Write([]byte(n.Handle))
		h.Write([]byte{0})
		h.Write([]byte(n.Name))
		h.Write([]byte{0})
		h.Write([]byte(n.Kind))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(n.Followers)))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(n.HubCount)))
		h.Write([]byte{0})
	}

	edges := make([]string, 0, len(data.Edges))
	for _, e := range data.Edges {
		edges = append(edges, string(e.Source)+"\x00"+string(e.Target)+"\x00"+e.Kind)
	}
	sort.Strings(edges)
	for _, e := range edges {
		h.Write([]byte(e))
		h.Write([]byte{0})
	}

	recs := make([]model.Recommendation, len(data.Recommendations))
	copy(recs, data.Recommendations)
	sort.Slice(recs, func(i, j int) bool { return recs[i].Handle < recs[j].Handle })
	for _, r := range recs {
		h.Write([]byte(r.Handle))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(r.Followers)))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(r.HubCount)))
		h.Write([]byte{0})
		followed := append([]string(nil), r.FollowedBy...)
		sort.Strings(followed)
		for _, hub := range followed {
			h.Write([]byte(hub))
			h.Write([]byte{0})
		}
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}
