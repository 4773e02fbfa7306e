package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hubgraph/hubgraph/pkg/analysis"
	"github.com/hubgraph/hubgraph/pkg/config"
	"github.com/hubgraph/hubgraph/pkg/debug"
	"github.com/hubgraph/hubgraph/pkg/derive"
	"github.com/hubgraph/hubgraph/pkg/layout"
	"github.com/hubgraph/hubgraph/pkg/model"
	"github.com/hubgraph/hubgraph/pkg/watcher"
)

// View identifies the active screen.
type View int

const (
	ViewSimilarity View = iota
	ViewHubCluster
	ViewBipartite
	ViewTiers
	ViewPeople
	ViewHelp
	numGraphViews = 4
)

func (v View) String() string {
	switch v {
	case ViewSimilarity:
		return "similarity"
	case ViewHubCluster:
		return "hub-cluster"
	case ViewBipartite:
		return "bipartite"
	case ViewTiers:
		return "tiers"
	case ViewPeople:
		return "people"
	case ViewHelp:
		return "help"
	}
	return "unknown"
}

const (
	tickInterval = 33 * time.Millisecond
	fitMargin    = 20.0
	chromeRows   = 3
	sidePanelMin = 90
	zoomStep     = 1.2
)

// tickMsg drives one simulation step. The generation guards against stale
// ticks queued before a relayout, view switch, or reload.
type tickMsg struct{ gen int }

// FileChangedMsg is sent when the watched dataset file changes on disk.
type FileChangedMsg struct{}

type reloadDoneMsg struct {
	data   *model.GraphData
	people []model.Person
	err    error
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// WatchFileCmd waits for the next change notification and surfaces it as a
// FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadFunc re-reads the dataset from its source.
type ReloadFunc func() (*model.GraphData, []model.Person, error)

// Model is the root Bubble Tea model. It owns the single selection shared by
// every view, the per-view engines and viewports, and the reload plumbing.
type Model struct {
	cfg config.Config

	data        *model.GraphData
	fs          derive.FilteredSet
	recByHandle map[string]*model.Recommendation
	ins         *analysis.Insights

	view    View
	engines [numGraphViews]layout.Engine
	vps     [numGraphViews]layout.Viewport
	// autoFitted marks viewports already framed once since their last
	// relayout.
	autoFitted [numGraphViews]bool

	people peopleView
	help   helpView

	hideMainstream bool
	selectedID     string
	hoverID        string
	// allBipartiteEdges opts the bipartite view out of its hover-only edge
	// rendering (the "e" key). Off by default: the full hub-to-rec edge set
	// is too dense to read.
	allBipartiteEdges bool

	width, height    int
	canvasCols       int
	canvasRows       int
	sidePanel        bool
	ready            bool
	pendingLayout    bool
	layoutCount      int
	gen              int
	cursorX, cursorY int

	dragging string

	watcher *watcher.Watcher
	reload  ReloadFunc

	status     string
	statusTime time.Time
}

// New builds the root model from an already-loaded dataset.
func New(cfg config.Config, data *model.GraphData, people []model.Person, w *watcher.Watcher, reload ReloadFunc) Model {
	m := Model{
		cfg:            cfg,
		data:           data,
		hideMainstream: cfg.UI.HideMainstream,
		people:         newPeopleView(people),
		help:           newHelpView(),
		watcher:        w,
		reload:         reload,
		pendingLayout:  true,
	}
	m.engines = [numGraphViews]layout.Engine{
		layout.NewSimilarity(),
		layout.NewHubCluster(),
		layout.NewBipartite(),
		layout.NewTiers(),
	}
	for i := range m.vps {
		m.vps[i] = layout.NewViewport()
	}
	m.view = viewFromName(cfg.UI.DefaultView)
	m.deriveSets()
	return m
}

func viewFromName(name string) View {
	switch name {
	case "hub-cluster", "hubcluster":
		return ViewHubCluster
	case "bipartite":
		return ViewBipartite
	case "tiers":
		return ViewTiers
	case "people":
		return ViewPeople
	default:
		return ViewSimilarity
	}
}

// deriveSets recomputes the filtered set, lookup maps, and graph insights.
func (m *Model) deriveSets() {
	m.fs = derive.Filter(m.data, m.hideMainstream)
	m.recByHandle = make(map[string]*model.Recommendation, len(m.fs.Recommendations))
	for i := range m.fs.Recommendations {
		m.recByHandle[m.fs.Recommendations[i].Handle] = &m.fs.Recommendations[i]
	}
	m.ins = analysis.Compute(m.fs.Recommendations, derive.SimilarityEdges(m.fs.Recommendations))
	if m.selectedID != "" && !m.fs.Has(m.selectedID) {
		m.selectedID = ""
	}
	if m.hoverID != "" && !m.fs.Has(m.hoverID) {
		m.hoverID = ""
	}
}

// relayout resizes the scene and recomputes every engine's positions. Each
// call counts once; tests assert a 0x0 window defers exactly one of these.
func (m *Model) relayout() {
	m.layoutCount++
	m.gen++
	w, h := m.sceneSize()
	for i, e := range m.engines {
		e.SetData(m.fs, w, h)
		m.autoFitted[i] = false
		m.vps[i] = layout.NewViewport()
	}
	m.dragging = ""
	debug.Log("relayout %d: scene %.0fx%.0f", m.layoutCount, w, h)
}

func (m *Model) sceneSize() (float64, float64) {
	return float64(m.canvasCols), float64(m.canvasRows) * cellAspect
}

func (m *Model) setSize(width, height int) {
	m.width, m.height = width, height
	m.sidePanel = width >= sidePanelMin
	m.canvasCols = width
	if m.sidePanel {
		m.canvasCols = width - tooltipWidth - 3
	}
	m.canvasRows = height - chromeRows
	if m.canvasRows < 1 {
		m.canvasRows = 1
	}
	if m.canvasCols < 1 {
		m.canvasCols = 1
	}
	m.people.setSize(width, height)
	m.help.setSize(width, height)
	m.cursorX = m.canvasCols / 2
	m.cursorY = m.canvasRows / 2
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width <= 0 || msg.Height <= 0 {
			// Some terminals report 0x0 before the real size; defer all
			// layout work until a usable size arrives.
			m.pendingLayout = true
			return m, nil
		}
		m.setSize(msg.Width, msg.Height)
		m.ready = true
		m.pendingLayout = false
		m.relayout()
		return m, tickCmd(m.gen)

	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.stepActive()

	case FileChangedMsg:
		if m.reload == nil {
			if m.watcher == nil {
				return m, nil
			}
			return m, WatchFileCmd(m.watcher)
		}
		reload := m.reload
		return m, func() tea.Msg {
			data, people, err := reload()
			return reloadDoneMsg{data: data, people: people, err: err}
		}

	case reloadDoneMsg:
		var cmds []tea.Cmd
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("reload failed: %v", msg.err))
			return m, tea.Batch(cmds...)
		}
		m.data = msg.data
		m.people = newPeopleView(msg.people)
		m.people.setSize(m.width, m.height)
		m.deriveSets()
		if m.ready {
			m.relayout()
			cmds = append(cmds, tickCmd(m.gen))
		}
		m.setStatus("dataset reloaded")
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.view == ViewPeople {
		_, cmd := m.people.update(msg)
		return m, cmd
	}
	if m.view == ViewHelp {
		return m, m.help.update(msg)
	}
	return m, nil
}

// stepActive advances the active engine one tick and re-arms the tick loop
// until it settles, then auto-fits the viewport once.
func (m Model) stepActive() (tea.Model, tea.Cmd) {
	if m.view >= numGraphViews {
		return m, nil
	}
	e := m.engines[m.view]
	if e.Step() {
		return m, tickCmd(m.gen)
	}
	if !m.autoFitted[m.view] {
		m.fitActive()
		m.autoFitted[m.view] = true
	}
	return m, nil
}

func (m *Model) fitActive() {
	if m.view >= numGraphViews {
		return
	}
	b, ok := layout.BodyBounds(m.engines[m.view].Bodies())
	if !ok {
		return
	}
	w, h := m.sceneSize()
	m.vps[m.view] = layout.FitTo(b, w, h, fitMargin)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys first. The people search box swallows everything else.
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.view != ViewPeople || !m.people.searching {
			return m, tea.Quit
		}
	}

	if m.view == ViewPeople && m.people.searching {
		_, cmd := m.people.update(msg)
		return m, cmd
	}

	switch key {
	case "tab":
		return m.switchView((m.view + 1) % (numGraphViews + 1))
	case "1":
		return m.switchView(ViewSimilarity)
	case "2":
		return m.switchView(ViewHubCluster)
	case "3":
		return m.switchView(ViewBipartite)
	case "4":
		return m.switchView(ViewTiers)
	case "5":
		return m.switchView(ViewPeople)
	case "?":
		if m.view == ViewHelp {
			return m.switchView(ViewSimilarity)
		}
		return m.switchView(ViewHelp)
	case "esc":
		if m.view == ViewHelp {
			return m.switchView(ViewSimilarity)
		}
		if m.dragging != "" {
			m.endDrag()
			return m, nil
		}
	}

	switch m.view {
	case ViewPeople:
		toggle, cmd := m.people.update(msg)
		if toggle {
			m.toggleSelection(m.people.selectedHandle())
		}
		return m, cmd
	case ViewHelp:
		return m, m.help.update(msg)
	}

	return m.handleGraphKey(key)
}

func (m Model) handleGraphKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "H":
		return m.panned(30, 0)
	case "L":
		return m.panned(-30, 0)
	case "K":
		return m.panned(0, 30)
	case "J":
		return m.panned(0, -30)
	case "enter", " ":
		m.clickAtCursor()
	case "g":
		return m.toggleDrag()
	case "+", "=":
		m.zoomAtCursor(zoomStep)
	case "-", "_":
		m.zoomAtCursor(1 / zoomStep)
	case "f":
		m.fitActive()
	case "e":
		m.allBipartiteEdges = !m.allBipartiteEdges
	case "m":
		m.hideMainstream = !m.hideMainstream
		m.deriveSets()
		if m.ready {
			m.relayout()
			return m, tickCmd(m.gen)
		}
	case "y":
		if b := m.hoveredBody(); b != nil {
			if err := clipboard.WriteAll("@" + b.Handle); err != nil {
				m.setStatus("clipboard unavailable")
			} else {
				m.setStatus("copied @" + b.Handle)
			}
		}
	}
	return m, nil
}

func (m *Model) moveCursor(dx, dy int) {
	m.cursorX = clampInt(m.cursorX+dx, 0, m.canvasCols-1)
	m.cursorY = clampInt(m.cursorY+dy, 0, m.canvasRows-1)
	m.updateHover()
	if m.dragging != "" && m.view < numGraphViews {
		x, y := cellToScene(m.vps[m.view], m.cursorX, m.cursorY)
		m.engines[m.view].DragTo(x, y)
	}
}

func (m Model) panned(dx, dy float64) (tea.Model, tea.Cmd) {
	if m.view < numGraphViews {
		m.vps[m.view] = m.vps[m.view].Pan(dx, dy)
		m.updateHover()
	}
	return m, nil
}

func (m *Model) zoomAtCursor(factor float64) {
	if m.view >= numGraphViews {
		return
	}
	m.vps[m.view] = m.vps[m.view].ZoomAt(factor, float64(m.cursorX), float64(m.cursorY)*cellAspect)
	m.updateHover()
}

func (m *Model) updateHover() {
	m.hoverID = ""
	if b := m.hoveredBody(); b != nil {
		m.hoverID = b.Handle
	}
}

func (m *Model) hoveredBody() *layout.Body {
	if m.view >= numGraphViews {
		return nil
	}
	x, y := cellToScene(m.vps[m.view], m.cursorX, m.cursorY)
	return m.engines[m.view].NodeAt(x, y)
}

// clickAtCursor toggles selection for the node under the cursor. Clicking
// empty canvas clears the selection only in the bipartite view, matching the
// edge-dense rings where deselection by re-click is hard to aim.
func (m *Model) clickAtCursor() {
	b := m.hoveredBody()
	if b == nil {
		if m.view == ViewBipartite {
			m.selectedID = ""
		}
		return
	}
	m.toggleSelection(b.Handle)
}

// toggleSelection applies the single shared selection rule: same id clears,
// any other id replaces.
func (m *Model) toggleSelection(handle string) {
	if handle == "" {
		return
	}
	if m.selectedID == handle {
		m.selectedID = ""
	} else {
		m.selectedID = handle
	}
}

func (m Model) toggleDrag() (tea.Model, tea.Cmd) {
	if m.view >= numGraphViews {
		return m, nil
	}
	if m.dragging != "" {
		m.endDrag()
		return m, nil
	}
	b := m.hoveredBody()
	if b == nil {
		return m, nil
	}
	m.dragging = b.Handle
	m.engines[m.view].BeginDrag(b.Handle)
	// Simulated engines reheat on drag; restart the tick loop.
	m.gen++
	return m, tickCmd(m.gen)
}

func (m *Model) endDrag() {
	if m.dragging == "" || m.view >= numGraphViews {
		m.dragging = ""
		return
	}
	m.engines[m.view].EndDrag()
	m.dragging = ""
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if v == m.view {
		return m, nil
	}
	m.endDrag()
	m.view = v
	m.hoverID = ""
	m.gen++
	if v < numGraphViews {
		m.updateHover()
		if !m.engines[v].Settled() {
			return m, tickCmd(m.gen)
		}
		if !m.autoFitted[v] {
			m.fitActive()
			m.autoFitted[v] = true
		}
	}
	return m, nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusTime = time.Now()
}

func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}
	switch m.view {
	case ViewPeople:
		return m.chromeTitle() + "\n" + m.people.view(m.width) + "\n" + m.peopleKeybar()
	case ViewHelp:
		return m.help.view()
	}

	canvas := renderScene(m.engines[m.view], sceneOpts{
		cols:           m.canvasCols,
		rows:           m.canvasRows,
		vp:             m.vps[m.view],
		hover:          m.hoverID,
		selected:       m.selectedID,
		onlyHoverEdges: m.view == ViewBipartite && !m.allBipartiteEdges,
		cursorX:        m.cursorX,
		cursorY:        m.cursorY,
		showCursor:     true,
	})

	if m.sidePanel {
		canvas = lipgloss.JoinHorizontal(lipgloss.Top, canvas, " ", m.sidePanelView())
	}

	var sb strings.Builder
	sb.WriteString(m.chromeTitle())
	sb.WriteByte('\n')
	sb.WriteString(canvas)
	sb.WriteByte('\n')
	sb.WriteString(m.statsLine())
	sb.WriteByte('\n')
	sb.WriteString(m.graphKeybar())
	return sb.String()
}

// statsLine is the one-row dataset summary above the keybar.
func (m Model) statsLine() string {
	shown, total := len(m.fs.Recommendations), len(m.fs.AllRecommendations)
	line := fmt.Sprintf("nodes %d  edges %d  recs %d/%d", len(m.fs.Nodes), len(m.fs.Edges), shown, total)
	if m.hideMainstream {
		line += "  mainstream hidden"
	}
	if m.selectedID != "" {
		line += "  selected @" + m.selectedID
	}
	return statusStyle.Render(truncate(line, m.width))
}

func (m Model) chromeTitle() string {
	title := titleStyle.Render("hgv") + "  " + m.view.String()
	if m.status != "" && time.Since(m.statusTime) < 4*time.Second {
		title += "  " + warningStyle.Render(m.status)
	}
	return truncate(title, m.width)
}

// sidePanelView shows the hovered node's tooltip, falling back to the
// selected node.
func (m Model) sidePanelView() string {
	handle := m.hoverID
	if handle == "" {
		handle = m.selectedID
	}
	if handle == "" {
		return renderStats(m.data.Stats, len(m.fs.Recommendations), len(m.fs.AllRecommendations), m.hideMainstream)
	}
	var body *layout.Body
	for _, b := range m.engines[m.view].Bodies() {
		if b.Handle == handle {
			body = b
			break
		}
	}
	if body == nil {
		return ""
	}
	img := m.cfg.Avatar.URL(handle)
	if !body.Avatar {
		img = m.cfg.Avatar.PlaceholderFor(body.Name)
	}
	return renderTooltip(body, m.fs.Node(handle), m.recByHandle[handle], m.ins, img)
}

func (m Model) graphKeybar() string {
	drag := "g grab"
	if m.dragging != "" {
		drag = "g drop"
	}
	return renderKeybar(
		"↑↓←→", "cursor",
		"enter", "select",
		drag[:1], drag[2:],
		"+/-", "zoom",
		"f", "fit",
		"m", "mainstream",
		"tab", "view",
		"?", "help",
		"q", "quit",
	)
}

func (m Model) peopleKeybar() string {
	return renderKeybar(
		"↑↓", "row",
		"/", "search",
		"s", "sort",
		"r", "reverse",
		"enter", "select",
		"tab", "view",
		"q", "quit",
	)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
