package main_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hubgraph/hubgraph/pkg/testutil"
)

// TestTUIStartsAndExitsCleanly launches the TUI against a generated dataset
// and relies on HGV_TUI_AUTOCLOSE_MS to quit.
func TestTUIStartsAndExitsCleanly(t *testing.T) {
	skipIfNoScript(t)
	hgv := hgvBinary(t)
	dir := writeDataset(t, testutil.DefaultConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, hgv, "-no-watch")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"HGV_TUI_AUTOCLOSE_MS=1500",
	)

	ensureCmdStdinCloses(t, ctx, cmd, 3*time.Second)
	out, err := runCmdToFile(t, cmd)
	if ctx.Err() == context.DeadlineExceeded {
		t.Skipf("skipping: timed out (likely TTY/OS mismatch); output:\n%s", out)
	}
	if err != nil {
		t.Fatalf("TUI run failed: %v\n%s", err, out)
	}
}

// TestTUIAllViewsFlag starts the TUI directly in each view.
func TestTUIAllViewsFlag(t *testing.T) {
	skipIfNoScript(t)
	hgv := hgvBinary(t)
	dir := writeDataset(t, testutil.DefaultConfig())

	for _, view := range []string{"similarity", "hub-cluster", "bipartite", "tiers", "people"} {
		t.Run(view, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			cmd := scriptTUICommand(ctx, hgv, "-no-watch", "-view", view)
			cmd.Dir = dir
			cmd.Env = append(os.Environ(),
				"TERM=xterm-256color",
				"HGV_TUI_AUTOCLOSE_MS=1000",
			)

			ensureCmdStdinCloses(t, ctx, cmd, 3*time.Second)
			out, err := runCmdToFile(t, cmd)
			if ctx.Err() == context.DeadlineExceeded {
				t.Skipf("skipping: timed out; output:\n%s", out)
			}
			if err != nil {
				t.Fatalf("view %s run failed: %v\n%s", view, err, out)
			}
		})
	}
}

// TestTUISurvivesRapidDatasetRewrites rewrites graph.json repeatedly while
// the TUI runs with live reload enabled. Smoke test for deadlocks in the
// watcher-reload path.
func TestTUISurvivesRapidDatasetRewrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping rapid-rewrite TUI test in short mode")
	}
	skipIfNoScript(t)
	hgv := hgvBinary(t)
	dir := writeDataset(t, testutil.DefaultConfig())
	graphPath := filepath.Join(dir, "graph.json")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, hgv)
	if cmd == nil {
		t.Skip("skipping: script command not available on this platform")
	}
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"HGV_TUI_AUTOCLOSE_MS=2500",
	)
	ensureCmdStdinCloses(t, ctx, cmd, 4*time.Second)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for seed := int64(2); ; seed++ {
			select {
			case <-ctx.Done():
				return
			case <-time.After(150 * time.Millisecond):
			}
			g := testutil.New(testutil.GeneratorConfig{Seed: seed, Hubs: 8, Recommendations: 20})
			// Atomic replace, the shape a scraper pipeline writes.
			tmp := graphPath + ".tmp"
			if err := testutil.WriteGraphJSON(tmp, g.Graph()); err != nil {
				return
			}
			if err := os.Rename(tmp, graphPath); err != nil {
				return
			}
		}
	}()

	out, err := runCmdToFile(t, cmd)
	cancel()
	<-done
	if err != nil && ctx.Err() != context.DeadlineExceeded {
		t.Fatalf("TUI run under rapid rewrites failed: %v\n%s", err, out)
	}
}
