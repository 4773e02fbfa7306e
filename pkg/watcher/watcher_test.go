package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDataset(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	tmpFile := filepath.Join(dir, "graph.json")
	writeDataset(t, tmpFile, `{"nodes":[]}`)

	w, err := New(tmpFile, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Give the watch goroutine a moment, then rewrite the file.
	time.Sleep(50 * time.Millisecond)
	writeDataset(t, tmpFile, `{"nodes":[{"handle":"x"}]}`)

	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestWatcher_PollingFallback(t *testing.T) {
	dir := t.TempDir()
	tmpFile := filepath.Join(dir, "graph.json")
	writeDataset(t, tmpFile, "first")

	w, err := New(tmpFile,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithDebounce(10*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	// Ensure the mtime moves even on coarse-grained filesystems.
	time.Sleep(30 * time.Millisecond)
	writeDataset(t, tmpFile, "second, longer content")

	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification in polling mode")
	}
}

func TestWatcher_EnvForcePolling(t *testing.T) {
	dir := t.TempDir()
	tmpFile := filepath.Join(dir, "graph.json")
	writeDataset(t, tmpFile, "x")

	t.Setenv(forcePollEnv, "1")

	w, err := New(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("env var should force polling mode")
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	dir := t.TempDir()
	tmpFile := filepath.Join(dir, "graph.json")
	writeDataset(t, tmpFile, "x")

	errCh := make(chan error, 4)
	w, err := New(tmpFile,
		WithForcePoll(true),
		WithPollInterval(20*time.Millisecond),
		WithOnError(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(tmpFile); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-errCh:
		if got != ErrFileRemoved {
			t.Errorf("got %v, want ErrFileRemoved", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("removal never reported")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	dir := t.TempDir()
	tmpFile := filepath.Join(dir, "graph.json")
	writeDataset(t, tmpFile, "x")

	w, err := New(tmpFile)
	if err != nil {
		t.Fatal(err)
	}

	if w.IsStarted() {
		t.Error("new watcher should not be started")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if !w.IsStarted() {
		t.Error("watcher should report started")
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("watcher should report stopped")
	}
	// Stop is idempotent.
	w.Stop()

	// Restart works.
	if err := w.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	w.Stop()
}

func TestWatcher_Path(t *testing.T) {
	dir := t.TempDir()
	tmpFile := filepath.Join(dir, "graph.json")
	writeDataset(t, tmpFile, "x")

	w, err := New(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Path(); got != tmpFile {
		t.Errorf("Path() = %q, want %q", got, tmpFile)
	}
}

func TestWatcher_DebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	tmpFile := filepath.Join(dir, "graph.json")
	writeDataset(t, tmpFile, "x")

	w, err := New(tmpFile,
		WithForcePoll(true),
		WithPollInterval(10*time.Millisecond),
		WithDebounce(150*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// A burst of writes inside the debounce window.
	for i := 0; i < 5; i++ {
		writeDataset(t, tmpFile, string(rune('a'+i)))
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Fatal("burst produced no notification")
	}

	// The burst must collapse to a single pending notification.
	select {
	case <-w.Changed():
		t.Error("burst produced more than one notification")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true}, {"true", true}, {"YES", true}, {"on", true},
		{"0", false}, {"false", false}, {"", false}, {"maybe", false},
	}
	for _, tt := range tests {
		t.Setenv("HGV_TEST_BOOL", tt.value)
		if got := envBool("HGV_TEST_BOOL"); got != tt.want {
			t.Errorf("envBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
