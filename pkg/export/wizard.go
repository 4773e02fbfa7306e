package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/hubgraph/hubgraph/pkg/model"
)

// Wizard walks the user through a snapshot export interactively.
type Wizard struct {
	data *model.GraphData
	opts SnapshotOptions
}

// NewWizard builds a wizard for an already-loaded dataset.
func NewWizard(data *model.GraphData) *Wizard {
	return &Wizard{
		data: data,
		opts: SnapshotOptions{
			View:   "similarity",
			Format: "svg",
			Path:   "hubgraph.svg",
		},
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm applies the shared theme and falls back to accessible prompts when
// stdin is not a TTY.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run collects the export options and writes the snapshot.
func (w *Wizard) Run() (SnapshotOptions, error) {
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which view?").
				Options(
					huh.NewOption("Similarity graph", "similarity"),
					huh.NewOption("Hub clusters", "hub-cluster"),
					huh.NewOption("Bipartite rings", "bipartite"),
					huh.NewOption("Influence tiers", "tiers"),
				).
				Value(&w.opts.View),
			huh.NewSelect[string]().
				Title("Output format").
				Options(
					huh.NewOption("SVG (vector)", "svg"),
					huh.NewOption("PNG (raster)", "png"),
				).
				Value(&w.opts.Format),
			huh.NewInput().
				Title("Output path").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}).
				Value(&w.opts.Path),
			huh.NewConfirm().
				Title("Hide mainstream accounts (1M+ followers)?").
				Value(&w.opts.HideMainstream),
		),
	)
	if err := form.Run(); err != nil {
		return w.opts, fmt.Errorf("wizard aborted: %w", err)
	}

	w.opts.Path = normalizePath(w.opts.Path, w.opts.Format)
	if err := SaveSnapshot(w.data, w.opts); err != nil {
		return w.opts, err
	}
	return w.opts, nil
}

// normalizePath makes the extension agree with the chosen format.
func normalizePath(path, format string) string {
	path = strings.TrimSpace(path)
	want := "." + strings.ToLower(format)
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, want) {
		return path
	}
	for _, ext := range []string{".svg", ".png"} {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)] + want
		}
	}
	return path + want
}
