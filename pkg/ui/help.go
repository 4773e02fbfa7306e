package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# hgv

A terminal explorer for a curated people dataset and the follow graph
around a center account's hubs.

## Views

| Key | View | What it shows |
|-----|------|---------------|
| 1 | similarity | recommendations linked when they share 5+ hub followers |
| 2 | hub-cluster | the center and its hubs, linked by co-follow overlap |
| 3 | bipartite | hubs on an inner ring, recommendations on an outer ring |
| 4 | tiers | concentric rings bucketed by hub count (40+, 30+, rest) |
| 5 | people | the curated people table |

Press m to hide recommendations with 1M+ followers. Hiding never
removes the center or hub accounts, and co-follow weights are always
computed over the full recommendation list.

## Keys

- arrows / hjkl: move the cursor
- enter / space: select or deselect the node under the cursor
- g: grab the hovered node, move it, g again to drop
- + / -: zoom at the cursor, f: fit the graph to the window
- e: bipartite only shows the hovered node's edges; e shows them all
- y: copy the hovered handle to the clipboard
- tab: next view, ?: this page, q: quit

## Derivation

Similarity edges connect two recommendations when at least 5 of the
center's hubs follow both. Co-follow edges connect two hubs when they
both follow at least 10 of the same recommendations. Tier membership
uses hub count: 40+ inner, 30..39 middle, the rest outer. Avatars on
the outer ring appear only from 25 hubs up.
`

// helpView renders the methodology page through glamour into a
// scrollable viewport.
type helpView struct {
	vp       viewport.Model
	rendered bool
	width    int
}

func newHelpView() helpView {
	return helpView{vp: viewport.New(0, 0)}
}

func (hv *helpView) setSize(width, height int) {
	hv.vp.Width = width
	if height > 2 {
		hv.vp.Height = height - 2
	}
	if width != hv.width {
		hv.width = width
		hv.rendered = false
	}
}

func (hv *helpView) render() {
	wrap := hv.width - 2
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		hv.vp.SetContent(helpMarkdown)
		hv.rendered = true
		return
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		out = helpMarkdown
	}
	hv.vp.SetContent(strings.TrimRight(out, " \n\r\t"))
	hv.rendered = true
}

func (hv *helpView) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	hv.vp, cmd = hv.vp.Update(msg)
	return cmd
}

func (hv *helpView) view() string {
	if !hv.rendered {
		hv.render()
	}
	return titleStyle.Render("help") + "\n" + hv.vp.View()
}
