package jmhbench

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCSV = jmhHeader +
	`"benchmark.pkg.ClassXMethodFoo","avgt",1,10,12.5,0.3,"ms/op"` + "\n" +
	`"benchmark.pkg.ClassXMethodBar","avgt",1,10,8.1,0.2,"ms/op"` + "\n"

func scenarioChart(t *testing.T) *Chart {
	t.Helper()
	rows, err := ReadCSV(strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	c, err := BuildChart(rows, DefaultConfig())
	require.NoError(t, err)
	return c
}

func TestSaveImage(t *testing.T) {
	c := scenarioChart(t)
	dir := t.TempDir()

	png := filepath.Join(dir, "chart.png")
	require.NoError(t, c.SaveImage(png))
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	var svg bytes.Buffer
	require.NoError(t, c.WriteImage(&svg, "svg"))
	assert.Contains(t, svg.String(), "<svg")
}

func TestPlot(t *testing.T) {
	p, err := scenarioChart(t).Plot()
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, p.Title.Text)
	assert.Equal(t, DefaultXLabel, p.X.Label.Text)

	var labels []string
	for _, tick := range p.Y.Tick.Marker.Ticks(p.Y.Min, p.Y.Max) {
		labels = append(labels, tick.Label)
	}
	assert.Equal(t, []string{"hodFoo", "hodBar"}, labels)
	// half a slot around the outer bars, a margin past the last whisker
	assert.Equal(t, -0.5, p.Y.Min)
	assert.Equal(t, 1.5, p.Y.Max)
	assert.Equal(t, 0.0, p.X.Min)
	assert.InDelta(t, (12.5+0.3)*1.05, p.X.Max, 1e-9)
}

func TestSaveImageEmpty(t *testing.T) {
	c, err := BuildChart(nil, DefaultConfig())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, c.SaveImage(path))
	assert.FileExists(t, path)
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, scenarioChart(t).WriteHTML(&buf))
	page := buf.String()
	assert.Contains(t, page, "echarts")
	assert.Contains(t, page, "hodFoo")
	assert.Contains(t, page, "hodBar")
	assert.Contains(t, page, DefaultTitle)
}

func TestSaveFileFormats(t *testing.T) {
	c := scenarioChart(t)
	dir := t.TempDir()
	for _, name := range []string{"chart.html", "chart.json", "chart.svg", "chart.pdf"} {
		path := filepath.Join(dir, name)
		require.NoError(t, c.SaveFile(path), name)
		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, fi.Size(), name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "chart.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"label": "hodFoo"`)

	assert.Error(t, c.SaveFile(filepath.Join(dir, "chart.unknown")))
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	input := writeTemp(t, "jmh-result.csv", scenarioCSV)
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(dir, "chart.png")

	require.NoError(t, Render(context.Background(), input, cfg))
	assert.FileExists(t, cfg.Output)
}

func TestRenderHeaderOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "chart.svg")

	require.NoError(t, Render(context.Background(), writeTemp(t, "jmh-result.csv", jmhHeader), cfg))
	assert.FileExists(t, cfg.Output)
}

func TestRenderFailsBeforeDrawing(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(dir, "chart.png")

	err := Render(context.Background(), filepath.Join(dir, "missing.csv"), cfg)
	assert.True(t, errors.Is(err, ErrMissingFile))
	assert.NoFileExists(t, cfg.Output)

	bad := writeTemp(t, "jmh-result.csv", jmhHeader+
		`"benchmark.pkg.ClassXMethodFoo","avgt",1,10,12.5,0.3,"ms/op"`+"\n"+
		`"benchmark.pkg.ClassXMethodBar","avgt",1,10,N/A,0.2,"ms/op"`+"\n")
	err = Render(context.Background(), bad, cfg)
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
	assert.NoFileExists(t, cfg.Output)
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, scenarioChart(t))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "hodFoo")

	resp, err = http.Get("http://" + ln.Addr().String() + "/favicon.ico")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestPresentAddrInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := DefaultConfig()
	cfg.Addr = ln.Addr().String()
	err = Present(context.Background(), scenarioChart(t), cfg)
	assert.True(t, errors.Is(err, ErrDisplayUnavailable))
}

func TestPresentOpensBrowser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opened string
	old := openURL
	defer func() { openURL = old }()
	openURL = func(url string) error {
		opened = url
		cancel()
		return nil
	}

	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	require.NoError(t, Present(ctx, scenarioChart(t), cfg))
	assert.True(t, strings.HasPrefix(opened, "http://127.0.0.1:"), opened)
	assert.True(t, strings.HasSuffix(opened, "/"), opened)
}

func TestPresentBrowserFailureIsNotFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	old := openURL
	defer func() { openURL = old }()
	openURL = func(string) error {
		cancel()
		return errors.New("no display")
	}

	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	assert.NoError(t, Present(ctx, scenarioChart(t), cfg))
}

func TestPresentWithoutBrowser(t *testing.T) {
	old := openURL
	defer func() { openURL = old }()
	openURL = func(string) error {
		t.Error("browser opened")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.OpenBrowser = false
	assert.NoError(t, Present(ctx, scenarioChart(t), cfg))
}
