package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/hubgraph/hubgraph/pkg/model"
)

// truncate shortens s to width display cells with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// glyphFor picks the scene glyph per node kind; bigger nodes get the filled
// variant so relative importance survives the character grid.
func glyphFor(kind model.NodeKind, avatar bool) string {
	switch kind {
	case model.KindCenter:
		return "◉"
	case model.KindHub:
		return "●"
	default:
		if avatar {
			return "●"
		}
		return "○"
	}
}

// nodeStyleFor styles a glyph per kind.
func nodeStyleFor(kind model.NodeKind) (s styleFn) {
	switch kind {
	case model.KindCenter:
		return centerStyle.Render
	case model.KindHub:
		return hubStyle.Render
	default:
		return recStyle.Render
	}
}

type styleFn func(...string) string

// wrapText wraps s to width cells, at most maxLines lines.
func wrapText(s string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}
	words := strings.Fields(s)
	var lines []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() > 0 && runewidth.StringWidth(cur.String())+1+runewidth.StringWidth(w) > width {
			lines = append(lines, cur.String())
			if len(lines) == maxLines {
				return lines
			}
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(truncate(w, width))
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
