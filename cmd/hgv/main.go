package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubgraph/hubgraph/internal/datasource"
	"github.com/hubgraph/hubgraph/pkg/config"
	"github.com/hubgraph/hubgraph/pkg/export"
	"github.com/hubgraph/hubgraph/pkg/loader"
	"github.com/hubgraph/hubgraph/pkg/model"
	"github.com/hubgraph/hubgraph/pkg/ui"
	"github.com/hubgraph/hubgraph/pkg/version"
	"github.com/hubgraph/hubgraph/pkg/watcher"
)

func main() {
	dataDir := flag.String("data", "", "Dataset directory (default: $HUBGRAPH_DATA, then cwd)")
	graphPath := flag.String("graph", "", "Path to the graph snapshot JSON")
	peoplePath := flag.String("people", "", "Path to the people file (JSON or SQLite)")
	view := flag.String("view", "", "Starting view: similarity, hub-cluster, bipartite, tiers, people")
	snapshotPath := flag.String("snapshot", "", "Render a static snapshot to this path and exit")
	snapshotFormat := flag.String("format", "", "Snapshot format: svg or png (default: by extension)")
	hideMainstream := flag.Bool("hide-mainstream", false, "Hide recommendations with 1M+ followers")
	wizardFlag := flag.Bool("wizard", false, "Interactive snapshot export wizard")
	noWatch := flag.Bool("no-watch", false, "Disable live reload on dataset changes")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	versionFlag := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Println("Usage: hgv [options]")
		fmt.Println("\nA TUI explorer for the hub-follow recommendation graph.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("hgv %s\n", version.Version)
		os.Exit(0)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		cfg = config.DefaultConfig()
	}
	if *dataDir == "" {
		*dataDir = cfg.DataDir
	}
	if *view != "" {
		cfg.UI.DefaultView = *view
	}
	if *hideMainstream {
		cfg.UI.HideMainstream = true
	}

	src, err := datasource.Resolve(*graphPath, *peoplePath, *dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating dataset: %v\n", err)
		fmt.Fprintln(os.Stderr, "Point -data (or $HUBGRAPH_DATA) at a directory containing graph.json.")
		os.Exit(1)
	}

	opts := &loader.Options{
		WarningHandler: func(msg string) {
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
		},
	}
	data, people, err := datasource.Load(context.Background(), src, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		os.Exit(1)
	}
	if len(data.Nodes) == 0 {
		fmt.Println("The graph snapshot has no nodes.")
		os.Exit(0)
	}

	if *wizardFlag {
		saved, err := export.NewWizard(data).Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", saved.Path)
		os.Exit(0)
	}

	if *snapshotPath != "" {
		err := export.SaveSnapshot(data, export.SnapshotOptions{
			Path:           *snapshotPath,
			Format:         *snapshotFormat,
			View:           cfg.UI.DefaultView,
			HideMainstream: cfg.UI.HideMainstream,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Snapshot failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *snapshotPath)
		os.Exit(0)
	}

	var fw *watcher.Watcher
	if !*noWatch && cfg.WatchEnabled() {
		fw, err = watcher.New(src.GraphPath)
		if err == nil {
			err = fw.Start()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: live reload disabled: %v\n", err)
			fw = nil
		} else {
			defer fw.Stop()
		}
	}

	reload := func() (*model.GraphData, []model.Person, error) {
		return datasource.Load(context.Background(), src, nil)
	}

	m := ui.New(cfg, data, people, fw, reload)
	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running hgv: %v\n", err)
		os.Exit(1)
	}
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set HGV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("HGV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
