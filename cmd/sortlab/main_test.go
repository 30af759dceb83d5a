package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"sortlab/internal/config"
	"sortlab/internal/dataset"
	"sortlab/internal/results"
)

func setupTest(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	workspace = t.TempDir()
	cfg = config.DefaultConfig()
	cfg.Dataset.Seed = 42
	resultsPath = ""
	reportRaw = false
	historyLimit = 20
	return workspace
}

func TestResolvePath(t *testing.T) {
	workspace = ""
	assert.Equal(t, "a.csv", resolvePath("a.csv"))

	workspace = "/tmp/ws"
	assert.Equal(t, filepath.Join("/tmp/ws", "a.csv"), resolvePath("a.csv"))
	assert.Equal(t, "/abs/a.csv", resolvePath("/abs/a.csv"))
	assert.Equal(t, "", resolvePath(""))
}

func TestGenerateCommand(t *testing.T) {
	ws := setupTest(t)
	cfg.Dataset.Count = 25
	genOut = "data.csv"

	output := captureOutput(t, func() {
		require.NoError(t, runGenerate(&cobra.Command{}, nil))
	})
	assert.Contains(t, output, "Generated 25 random data points")

	data, err := dataset.Load(filepath.Join(ws, "data.csv"))
	require.NoError(t, err)
	assert.Len(t, data, 25)
}

func TestRunComparison(t *testing.T) {
	ws := setupTest(t)

	var buf bytes.Buffer
	out, err := runComparison(context.Background(), &buf, compareOptions{
		count:      40,
		countSet:   true,
		step:       10,
		stepSet:    true,
		algorithms: []string{"insertion", "merge"},
	})
	require.NoError(t, err)

	text := buf.String()
	assert.Contains(t, text, "Steps per prefix")
	assert.Contains(t, text, "insertionSort")
	assert.Contains(t, text, "mergeSort")
	assert.Contains(t, text, "Recorded run")
	require.NotNil(t, out.Run)

	rows, err := results.Read(filepath.Join(ws, "results.csv"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 40, rows[0].Elements)
	assert.Nil(t, rows[0].Bounds)

	_, err = os.Stat(filepath.Join(ws, "chart.png"))
	assert.NoError(t, err)
}

func TestRunComparisonAsymptoticFromFile(t *testing.T) {
	ws := setupTest(t)
	require.NoError(t, os.WriteFile(filepath.Join(ws, "d.csv"), []byte("5\n3\n1\n4\n2\n9\n"), 0644))

	var buf bytes.Buffer
	out, err := runComparison(context.Background(), &buf, compareOptions{
		data:       "d.csv",
		step:       2,
		stepSet:    true,
		asymptotic: true,
		noHistory:  true,
		chart:      "plot.svg",
		algorithms: []string{"heap"},
	})
	require.NoError(t, err)
	assert.Nil(t, out.Run)
	assert.Len(t, out.Rows, 3)

	text := buf.String()
	assert.Contains(t, text, "Big O(n)")
	assert.Contains(t, text, "Heap Sort")
	assert.NotContains(t, text, "Steps per prefix")
	assert.NotContains(t, text, "Recorded run")

	_, err = os.Stat(filepath.Join(ws, "plot.svg"))
	assert.NoError(t, err)
}

func TestRunComparisonErrors(t *testing.T) {
	setupTest(t)

	_, err := runComparison(context.Background(), io.Discard, compareOptions{algorithms: []string{"bogo"}})
	assert.ErrorContains(t, err, "unknown algorithm")

	_, err = runComparison(context.Background(), io.Discard, compareOptions{data: "missing.csv", noHistory: true})
	assert.ErrorIs(t, err, dataset.ErrNotFound)

	_, err = runComparison(context.Background(), io.Discard, compareOptions{count: 0, countSet: true, noHistory: true})
	assert.EqualError(t, err, "please load or generate data first")
}

func TestRunComparisonFlagsOverrideConfig(t *testing.T) {
	setupTest(t)
	cfg.Dataset.Count = 60
	cfg.Compare.Step = 20
	cfg.Compare.Algorithms = []string{"merge"}

	out, err := runComparison(context.Background(), io.Discard, compareOptions{
		algorithms: []string{"quick"},
		noHistory:  true,
	})
	require.NoError(t, err)
	require.Len(t, out.Report.Series, 1)
	assert.Equal(t, "quick", string(out.Report.Series[0].Algorithm.ID))
	assert.Equal(t, 60, out.Report.Elements)
	assert.Equal(t, []int{20, 40, 60}, out.Report.Prefixes)
	assert.Equal(t, []string{"merge"}, cfg.Compare.Algorithms, "flags must not leak into the loaded config")

	out, err = runComparison(context.Background(), io.Discard, compareOptions{noHistory: true})
	require.NoError(t, err)
	require.Len(t, out.Report.Series, 1)
	assert.Equal(t, "merge", string(out.Report.Series[0].Algorithm.ID))
}

func TestRunComparisonRejectsInvalidFlags(t *testing.T) {
	ws := setupTest(t)

	_, err := runComparison(context.Background(), io.Discard, compareOptions{count: -5, countSet: true, noHistory: true})
	assert.ErrorIs(t, err, dataset.ErrNegativeCount)

	_, err = runComparison(context.Background(), io.Discard, compareOptions{step: 0, stepSet: true, noHistory: true})
	assert.ErrorIs(t, err, dataset.ErrInvalidStep)

	_, err = runComparison(context.Background(), io.Discard, compareOptions{step: -10, stepSet: true, noHistory: true})
	assert.ErrorIs(t, err, dataset.ErrInvalidStep)

	_, err = os.Stat(filepath.Join(ws, "results.csv"))
	assert.True(t, os.IsNotExist(err), "rejected flags must not write results")
}

func TestCompareCommandMarksChangedFlags(t *testing.T) {
	var o compareOptions
	cmd := &cobra.Command{Use: "compare"}
	addCompareFlags(cmd, &o)
	require.NoError(t, cmd.ParseFlags([]string{"--count=-5", "--step=0"}))

	got := o.withChanged(cmd)
	assert.True(t, got.countSet)
	assert.True(t, got.stepSet)
	assert.Equal(t, -5, got.count)
	assert.Equal(t, 0, got.step)

	var unset compareOptions
	plain := &cobra.Command{Use: "compare"}
	addCompareFlags(plain, &unset)
	require.NoError(t, plain.ParseFlags(nil))
	got = unset.withChanged(plain)
	assert.False(t, got.countSet)
	assert.False(t, got.stepSet)
}

func TestShowResults(t *testing.T) {
	setupTest(t)

	output := captureOutput(t, func() {
		require.NoError(t, showResults(&cobra.Command{}, nil))
	})
	assert.Contains(t, output, "No results yet")

	_, err := runComparison(context.Background(), io.Discard, compareOptions{count: 20, countSet: true, step: 10, stepSet: true, noHistory: true})
	require.NoError(t, err)

	output = captureOutput(t, func() {
		require.NoError(t, showResults(&cobra.Command{}, nil))
	})
	assert.Contains(t, output, "selectionSort")
	assert.Contains(t, output, "N/A")
}

func TestHistoryCommands(t *testing.T) {
	setupTest(t)

	output := captureOutput(t, func() {
		require.NoError(t, listHistory(&cobra.Command{}, nil))
	})
	assert.Contains(t, output, "No runs recorded yet")

	out, err := runComparison(context.Background(), io.Discard, compareOptions{
		count: 30, countSet: true, step: 10, stepSet: true, asymptotic: true, algorithms: []string{"quick"},
	})
	require.NoError(t, err)
	id := out.Run.ID

	output = captureOutput(t, func() {
		require.NoError(t, listHistory(&cobra.Command{}, nil))
	})
	assert.Contains(t, output, id[:8])
	assert.Contains(t, output, "asymptotic")

	output = captureOutput(t, func() {
		require.NoError(t, showHistoryRun(&cobra.Command{}, []string{id[:6]}))
	})
	assert.Contains(t, output, "Quick Sort")
	assert.Contains(t, output, "Theta(n)")

	reportRaw = true
	output = captureOutput(t, func() {
		require.NoError(t, runReport(&cobra.Command{}, nil))
	})
	assert.Contains(t, output, "# Run "+id[:8])
	assert.Contains(t, output, "## Quick Sort")

	output = captureOutput(t, func() {
		require.NoError(t, deleteHistoryRun(&cobra.Command{}, []string{id}))
	})
	assert.Contains(t, output, "Deleted run")

	err = showHistoryRun(&cobra.Command{}, []string{id})
	assert.ErrorContains(t, err, "run not found")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("# Title\n\nSome **bold** text.\n", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}

func TestListAlgorithms(t *testing.T) {
	setupTest(t)
	output := captureOutput(t, func() {
		require.NoError(t, listAlgorithms(&cobra.Command{}, nil))
	})
	for _, want := range []string{"insertion", "Heap Sort", "selectionSort", "n log n", "n^2"} {
		assert.Contains(t, output, want)
	}
}

func TestRootCommandAlgorithms(t *testing.T) {
	ws := t.TempDir()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--workspace", ws, "algorithms"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		workspace = ""
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Merge Sort")
	require.NotNil(t, cfg)
	assert.Equal(t, 50, cfg.Compare.Step)
}

// syncBuffer is written by the watcher goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchDatasetRerunsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	ws := setupTest(t)
	path := filepath.Join(ws, "data.csv")
	require.NoError(t, dataset.Save(path, []int{4, 3, 2, 1}))

	out := &syncBuffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchDataset(ctx, cmd, compareOptions{
			data: "data.csv", step: 2, stepSet: true, noHistory: true, algorithms: []string{"bubble"},
		})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, dataset.Save(path, []int{8, 7, 6, 5, 4, 3, 2, 1}))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "comparing again")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	rows, err := results.Read(filepath.Join(ws, "results.csv"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, 8, rows[len(rows)-1].Elements)
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}
