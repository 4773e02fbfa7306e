// Package export renders static snapshots of the graph views. A snapshot
// runs the chosen layout engine to completion off-screen and draws the
// result to SVG or PNG with a small summary block, so a layout can be shared
// without the TUI.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/hubgraph/hubgraph/pkg/analysis"
	"github.com/hubgraph/hubgraph/pkg/derive"
	"github.com/hubgraph/hubgraph/pkg/layout"
	"github.com/hubgraph/hubgraph/pkg/model"
)

// maxSettleTicks caps the off-screen simulation run. Engines normally settle
// well under this through alpha decay.
const maxSettleTicks = 2000

// SnapshotOptions controls snapshot export.
type SnapshotOptions struct {
	Path           string // output path; format inferred from extension when Format empty
	Format         string // "svg" or "png" (case-insensitive)
	Title          string // optional title in the summary block
	View           string // "similarity", "hub-cluster", "bipartite", or "tiers"
	HideMainstream bool
	Width          int // image width in px; defaults to 1280
	Height         int // image height in px; defaults to 800
}

type snapshotScene struct {
	bodies   []*layout.Body
	segments []layout.Segment
	vp       layout.Viewport
	width    int
	height   int
	header   float64
	summary  summaryInfo
}

type summaryInfo struct {
	Title       string
	View        string
	NodeCount   int
	EdgeCount   int
	MinHubCount int
	DataHash    string
	TopRec      string
}

// SaveSnapshot runs the named view's engine to a settled state and writes the
// rendered image.
func SaveSnapshot(data *model.GraphData, opts SnapshotOptions) error {
	if data == nil || len(data.Nodes) == 0 {
		return fmt.Errorf("no nodes to export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		case ".svg":
			format = "svg"
		default:
			format = "svg"
			if filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}

	scene, err := buildScene(data, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	switch format {
	case "png":
		return renderPNG(opts.Path, scene)
	default:
		return renderSVGFile(opts.Path, scene)
	}
}

// EngineForView maps a view name to a fresh layout engine.
func EngineForView(view string) (layout.Engine, error) {
	switch strings.ToLower(view) {
	case "", "similarity":
		return layout.NewSimilarity(), nil
	case "hub-cluster", "hubcluster":
		return layout.NewHubCluster(), nil
	case "bipartite":
		return layout.NewBipartite(), nil
	case "tiers":
		return layout.NewTiers(), nil
	}
	return nil, fmt.Errorf("unknown view %q", view)
}

func buildScene(data *model.GraphData, opts SnapshotOptions) (snapshotScene, error) {
	width := opts.Width
	if width <= 0 {
		width = 1280
	}
	height := opts.Height
	if height <= 0 {
		height = 800
	}
	const headerHeight = 110.0
	const padding = 30.0

	engine, err := EngineForView(opts.View)
	if err != nil {
		return snapshotScene{}, err
	}

	fs := derive.Filter(data, opts.HideMainstream)
	sceneW := float64(width)
	sceneH := float64(height) - headerHeight
	engine.SetData(fs, sceneW, sceneH)
	for i := 0; i < maxSettleTicks && engine.Step(); i++ {
	}

	bodies := engine.Bodies()
	vp := layout.NewViewport()
	if b, ok := layout.BodyBounds(bodies); ok {
		vp = layout.FitTo(b, sceneW, sceneH, padding)
	}
	vp = vp.Pan(0, headerHeight)

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "hubgraph snapshot"
	}

	return snapshotScene{
		bodies:   bodies,
		segments: engine.Segments(),
		vp:       vp,
		width:    width,
		height:   height,
		header:   headerHeight,
		summary: summaryInfo{
			Title:       title,
			View:        engine.Name(),
			NodeCount:   len(bodies),
			EdgeCount:   len(engine.Segments()),
			MinHubCount: data.Stats.MinHubThreshold,
			DataHash:    analysis.DataHash(data),
			TopRec:      topRecommendation(fs),
		},
	}, nil
}

// topRecommendation names the highest-PageRank recommendation in the
// similarity graph, ties broken by handle for determinism.
func topRecommendation(fs derive.FilteredSet) string {
	ins := analysis.Compute(fs.Recommendations, derive.SimilarityEdges(fs.Recommendations))
	top := ins.TopByPageRank(1)
	if len(top) == 0 {
		return "n/a"
	}
	score, _ := ins.PageRank(top[0])
	return fmt.Sprintf("@%s (%.4f)", top[0], score)
}

var (
	colorBackdrop = color.RGBA{0x11, 0x14, 0x1a, 0xff}
	colorHeaderBG = color.RGBA{0x1b, 0x1f, 0x28, 0xff}
	colorCenter   = color.RGBA{0xff, 0x5f, 0xaf, 0xff}
	colorHub      = color.RGBA{0x3f, 0xa7, 0xff, 0xff}
	colorRec      = color.RGBA{0x6e, 0xd7, 0x8a, 0xff}
	colorEdge     = color.RGBA{0x3a, 0x41, 0x50, 0xff}
	colorText     = color.RGBA{0xe6, 0xe6, 0xe6, 0xff}
	colorSubtle   = color.RGBA{0x8a, 0x91, 0x9e, 0xff}
)

func kindColor(kind model.NodeKind) color.RGBA {
	switch kind {
	case model.KindCenter:
		return colorCenter
	case model.KindHub:
		return colorHub
	default:
		return colorRec
	}
}

func renderSVGFile(path string, scene snapshotScene) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return renderSVGToWriter(file, scene)
}

func renderSVGToWriter(w io.Writer, scene snapshotScene) error {
	canvas := svg.New(w)
	canvas.Start(scene.width, scene.height)
	canvas.Rect(0, 0, scene.width, scene.height, "fill:"+css(colorBackdrop))
	canvas.Roundrect(14, 14, scene.width-28, int(scene.header)-24, 10, 10, "fill:"+css(colorHeaderBG))
	drawSummarySVG(canvas, scene)
	drawLegendSVG(canvas, scene)

	for _, s := range scene.segments {
		x1, y1 := scene.vp.Apply(s.X1, s.Y1)
		x2, y2 := scene.vp.Apply(s.X2, s.Y2)
		width := 1 + s.Weight/10
		if width > 4 {
			width = 4
		}
		canvas.Line(int(x1), int(y1), int(x2), int(y2),
			fmt.Sprintf("stroke:%s;stroke-width:%d;stroke-opacity:0.7", css(colorEdge), width))
	}

	for _, b := range sortedByRadius(scene.bodies) {
		x, y := scene.vp.Apply(b.X, b.Y)
		r := b.Radius * scene.vp.Scale
		if r < 2 {
			r = 2
		}
		canvas.Circle(int(x), int(y), int(r),
			fmt.Sprintf("fill:%s;fill-opacity:0.9;stroke:%s;stroke-width:1", css(kindColor(b.Kind)), css(colorBackdrop)))
		if b.Radius >= 12 || b.Kind != model.KindRecommendation {
			canvas.Text(int(x), int(y+r+14), "@"+b.Handle,
				fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
		}
	}

	canvas.End()
	return nil
}

func renderPNG(path string, scene snapshotScene) error {
	dc := gg.NewContext(scene.width, scene.height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(14, 14, float64(scene.width)-28, scene.header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	drawSummaryPNG(dc, scene)
	drawLegendPNG(dc, scene)

	for _, s := range scene.segments {
		x1, y1 := scene.vp.Apply(s.X1, s.Y1)
		x2, y2 := scene.vp.Apply(s.X2, s.Y2)
		width := 1 + float64(s.Weight)/10
		if width > 4 {
			width = 4
		}
		dc.SetColor(colorEdge)
		dc.SetLineWidth(width)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	for _, b := range sortedByRadius(scene.bodies) {
		x, y := scene.vp.Apply(b.X, b.Y)
		r := b.Radius * scene.vp.Scale
		if r < 2 {
			r = 2
		}
		dc.SetColor(kindColor(b.Kind))
		dc.DrawCircle(x, y, r)
		dc.Fill()
		if b.Radius >= 12 || b.Kind != model.KindRecommendation {
			dc.SetColor(colorSubtle)
			dc.DrawStringAnchored("@"+b.Handle, x, y+r+10, 0.5, 0.5)
		}
	}

	return dc.SavePNG(path)
}

// sortedByRadius draws small nodes first so large ones stay visible, with a
// handle tie-break for deterministic output.
func sortedByRadius(bodies []*layout.Body) []*layout.Body {
	out := make([]*layout.Body, len(bodies))
	copy(out, bodies)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Radius != out[j].Radius {
			return out[i].Radius < out[j].Radius
		}
		return out[i].Handle < out[j].Handle
	})
	return out
}

func drawSummarySVG(canvas *svg.SVG, scene snapshotScene) {
	subtle := fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle))
	canvas.Text(30, 40, scene.summary.Title,
		fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(30, 60, fmt.Sprintf("view: %s  data_hash: %s", scene.summary.View, scene.summary.DataHash), subtle)
	canvas.Text(30, 78, fmt.Sprintf("nodes: %d  edges: %d  min hub_count: %d",
		scene.summary.NodeCount, scene.summary.EdgeCount, scene.summary.MinHubCount), subtle)
	canvas.Text(30, 96, "top recommendation: "+scene.summary.TopRec, subtle)
}

func drawSummaryPNG(dc *gg.Context, scene snapshotScene) {
	dc.SetColor(colorText)
	dc.DrawStringAnchored(scene.summary.Title, 30, 38, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("view: %s  data_hash: %s", scene.summary.View, scene.summary.DataHash), 30, 58, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("nodes: %d  edges: %d  min hub_count: %d",
		scene.summary.NodeCount, scene.summary.EdgeCount, scene.summary.MinHubCount), 30, 76, 0, 0.5)
	dc.DrawStringAnchored("top recommendation: "+scene.summary.TopRec, 30, 94, 0, 0.5)
}

func drawLegendSVG(canvas *svg.SVG, scene snapshotScene) {
	x := scene.width - 190
	y := 30
	rows := []struct {
		c     color.RGBA
		label string
	}{
		{colorCenter, "center"},
		{colorHub, "hub"},
		{colorRec, "recommendation"},
	}
	for i, row := range rows {
		ry := y + i*20
		canvas.Circle(x, ry, 6, "fill:"+css(row.c))
		canvas.Text(x+14, ry+4, row.label,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
}

func drawLegendPNG(dc *gg.Context, scene snapshotScene) {
	x := float64(scene.width) - 190
	y := 30.0
	rows := []struct {
		c     color.RGBA
		label string
	}{
		{colorCenter, "center"},
		{colorHub, "hub"},
		{colorRec, "recommendation"},
	}
	for i, row := range rows {
		ry := y + float64(i)*20
		dc.SetColor(row.c)
		dc.DrawCircle(x, ry, 6)
		dc.Fill()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(row.label, x+14, ry, 0, 0.5)
	}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
