package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/duelstudy/internal/model"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, Axis{Min: 0, Max: 4}, 10, 4, false)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// title + 4 plot rows + x axis + legend
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines of output, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(strings.TrimLeft(lines[1], " "), "4 │ ") {
		t.Fatalf("expected top label to be the shared max, got %q", lines[1])
	}
	if !strings.HasPrefix(strings.TrimLeft(lines[4], " "), "1 │ ") {
		t.Fatalf("expected bottom label to be the shared min, got %q", lines[4])
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", []Series{{Name: "A"}}, Axis{}, 10, 4, false); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotSeriesForcedColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	err := PlotSeries(&buf, "", []Series{{Name: "A", Values: []float64{0, 1}}}, Axis{Min: 0, Max: 1}, 10, 2, true)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if !strings.Contains(buf.String(), colorPalette[0].code) {
		t.Fatalf("expected colored output")
	}
}

func TestResampleSeries(t *testing.T) {
	down := resampleSeries([]float64{1, 3, 5, 7}, 2)
	if len(down) != 2 || down[0] != 2 || down[1] != 6 {
		t.Fatalf("unexpected downsample: %v", down)
	}
	up := resampleSeries([]float64{0, 2}, 3)
	if len(up) != 3 || up[0] != 0 || up[1] != 1 || up[2] != 2 {
		t.Fatalf("unexpected upsample: %v", up)
	}
}

func TestDensitySeriesSharedAxis(t *testing.T) {
	groups := []model.GroupValues{
		{Mode: "Mode 1", Values: []float64{1, 2, 3}},
		{Mode: "Mode 2", Values: []float64{5}},
		{Mode: "Mode 3", Values: []float64{4, 6}},
	}
	series, axis, err := DensitySeries(groups, 50)
	if err != nil {
		t.Fatalf("DensitySeries failed: %v", err)
	}
	if axis.Min != -1.5 || axis.Max != 8.5 {
		t.Fatalf("unexpected axis: %+v", axis)
	}
	if len(series) != 2 {
		t.Fatalf("expected degenerate group to be skipped, got %d series", len(series))
	}
	if series[0].Name != "Mode 1" || series[1].Name != "Mode 3" {
		t.Fatalf("unexpected series order: %s, %s", series[0].Name, series[1].Name)
	}
	for _, s := range series {
		if len(s.Values) != 50 {
			t.Fatalf("expected 50 points, got %d", len(s.Values))
		}
	}
}

func TestRenderDensitiesDegenerate(t *testing.T) {
	var buf bytes.Buffer
	groups := []model.GroupValues{{Mode: "Mode 1", Values: []float64{2, 2}}}
	if err := RenderDensities(&buf, "Life difference", groups, 20, 4, false); err != nil {
		t.Fatalf("RenderDensities failed: %v", err)
	}
	if !strings.Contains(buf.String(), "not enough data") {
		t.Fatalf("expected degenerate notice, got %q", buf.String())
	}
}
