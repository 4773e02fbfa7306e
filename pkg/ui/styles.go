package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Node glyph colors match the export palette so the TUI and the
// SVG/PNG snapshots read the same.
var (
	colorCenter  = lipgloss.Color("205") // magenta
	colorHub     = lipgloss.Color("39")  // blue
	colorRec     = lipgloss.Color("114") // green
	colorDim     = lipgloss.Color("241")
	colorAccent  = lipgloss.Color("214") // amber, selection
	colorWarning = lipgloss.Color("203")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Foreground(colorDim)

	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true)
	descStyle = lipgloss.NewStyle().Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	centerStyle   = lipgloss.NewStyle().Foreground(colorCenter).Bold(true)
	hubStyle      = lipgloss.NewStyle().Foreground(colorHub)
	recStyle      = lipgloss.NewStyle().Foreground(colorRec)
	edgeStyle     = lipgloss.NewStyle().Foreground(colorDim)
	edgeHotStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	hoverStyle    = lipgloss.NewStyle().Reverse(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)

	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)
