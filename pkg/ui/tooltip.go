package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hubgraph/hubgraph/pkg/analysis"
	"github.com/hubgraph/hubgraph/pkg/layout"
	"github.com/hubgraph/hubgraph/pkg/model"
)

// tooltipWidth is the inner width of the hover panel.
const tooltipWidth = 28

// renderTooltip assembles the hover panel: avatar placeholder, name, handle,
// formatted follower count, and where relevant hub_count and description.
func renderTooltip(b *layout.Body, node *model.GraphNode, rec *model.Recommendation, ins *analysis.Insights, avatarURL string) string {
	if b == nil {
		return panelStyle.Render(statusStyle.Render("hover a node"))
	}

	var lines []string
	avatar := "○"
	if b.Avatar {
		avatar = "◉"
	}
	name := b.Name
	if name == "" {
		name = b.Handle
	}
	lines = append(lines,
		avatar+" "+panelTitleStyle.Render(truncate(name, tooltipWidth-2)),
		statusStyle.Render("@"+truncate(b.Handle, tooltipWidth-1)),
	)

	if node != nil {
		lines = append(lines, fmt.Sprintf("followers  %s", model.FormatCount(node.Followers)))
	}
	if b.Kind == model.KindRecommendation {
		lines = append(lines, fmt.Sprintf("hubs       %d", b.HubCount))
	}

	desc := ""
	switch {
	case rec != nil && rec.Description != "":
		desc = rec.Description
	case node != nil && node.Description != "":
		desc = node.Description
	}
	if desc != "" {
		lines = append(lines, "")
		lines = append(lines, wrapText(desc, tooltipWidth, 3)...)
	}

	if avatarURL != "" {
		lines = append(lines, "", statusStyle.Render(truncate(avatarURL, tooltipWidth)))
	}

	if ins != nil && b.Kind == model.KindRecommendation {
		lines = append(lines, "",
			statusStyle.Render(fmt.Sprintf("similar to %d accounts", ins.Degree(b.Handle))))
		if score, ok := ins.PageRank(b.Handle); ok {
			lines = append(lines, statusStyle.Render(fmt.Sprintf("pagerank   %.4f", score)))
		}
		if comp := ins.ComponentOf(b.Handle); len(comp) > 1 {
			lines = append(lines, statusStyle.Render(fmt.Sprintf("cluster of %d", len(comp))))
		}
	}

	return panelStyle.Width(tooltipWidth + 2).Render(strings.Join(lines, "\n"))
}

// renderStats shows the dataset summary in the sidebar.
func renderStats(stats model.Stats, shown, total int, hideMainstream bool) string {
	var lines []string
	lines = append(lines,
		panelTitleStyle.Render("dataset"),
		fmt.Sprintf("hubs fetched    %d", stats.HubsFetched),
		fmt.Sprintf("recommendations %d", stats.RecommendationCount),
		fmt.Sprintf("min hub follows %d", stats.MinHubThreshold),
	)
	filter := "off"
	if hideMainstream {
		filter = "on"
	}
	lines = append(lines, fmt.Sprintf("mainstream flt  %s", filter))
	if shown != total {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("showing %d of %d", shown, total)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// renderKeybar renders the footer key hints.
func renderKeybar(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, keyStyle.Render(pairs[i])+" "+descStyle.Render(pairs[i+1]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, "  "))
}
