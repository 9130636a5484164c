package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gochart "github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"

	"github.com/verte-zerg/duelstudy/internal/model"
	"github.com/verte-zerg/duelstudy/internal/stats"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleReport() stats.Report {
	means := []model.GroupMean{
		{Mode: "Mode 1", Mean: model.Float(0.4), Count: 3},
		{Mode: "Mode 2", Mean: model.Float(-1.5), Count: 2},
		{Mode: "Mode 3"},
	}
	values := []model.GroupValues{
		{Mode: "Mode 1", Values: []float64{0.2, 0.4, 0.6}},
		{Mode: "Mode 2", Values: []float64{1, 3}},
		{Mode: "Mode 3", Values: []float64{5}},
	}
	report := stats.Report{
		Means:  map[model.Metric][]model.GroupMean{},
		Values: map[model.Metric][]model.GroupValues{},
	}
	for _, m := range model.Metrics() {
		report.Means[m] = means
		report.Values[m] = values
	}
	return report
}

func TestRenderAllWritesEveryChart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Analysis")
	paths, err := RenderAll(dir, sampleReport(), zap.NewNop())
	if err != nil {
		t.Fatalf("RenderAll failed: %v", err)
	}
	if len(paths) != 8 {
		t.Fatalf("expected 8 charts, got %d", len(paths))
	}
	for _, fig := range Figures() {
		data, err := os.ReadFile(filepath.Join(dir, fig.File))
		if err != nil {
			t.Fatalf("missing chart %q: %v", fig.File, err)
		}
		if !bytes.HasPrefix(data, pngMagic) {
			t.Fatalf("chart %q is not a PNG", fig.File)
		}
	}
}

func TestRenderAllEmptyReport(t *testing.T) {
	dir := t.TempDir()
	if _, err := RenderAll(dir, stats.Report{}, zap.NewNop()); err != nil {
		t.Fatalf("RenderAll failed on empty report: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 8 {
		t.Fatalf("expected 8 files, got %d", len(entries))
	}
}

func TestSpecsFileNames(t *testing.T) {
	seen := map[string]bool{}
	bars, densities := 0, 0
	for _, fig := range Figures() {
		if seen[fig.File] {
			t.Fatalf("duplicate file %q", fig.File)
		}
		seen[fig.File] = true
		if !strings.HasSuffix(fig.File, " by mode.png") {
			t.Fatalf("unexpected file name %q", fig.File)
		}
		if len(fig.Palette) != 3 {
			t.Fatalf("expected 3 colors for %q", fig.File)
		}
		switch fig.Kind {
		case KindBar:
			bars++
		case KindDensity:
			densities++
		}
	}
	if bars != 4 || densities != 4 {
		t.Fatalf("expected 4 bar and 4 density charts, got %d/%d", bars, densities)
	}
}

func TestBarNullMeanAndRange(t *testing.T) {
	fig := Figures()[2]
	bc := Bar(fig, sampleReport().Means[fig.Metric])
	if len(bc.Bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bc.Bars))
	}
	if bc.Bars[2].Label != "Mode 3 (n/a)" || bc.Bars[2].Value != 0 {
		t.Fatalf("unexpected null bar: %+v", bc.Bars[2])
	}
	if bc.Bars[0].Style.FillColor != fig.Palette[0] {
		t.Fatalf("expected first palette color on first bar")
	}
	r := bc.YAxis.Range
	if r.GetMin() >= -1.5 || r.GetMax() <= 0.4 {
		t.Fatalf("range %v..%v does not span the bars", r.GetMin(), r.GetMax())
	}
}

func TestBarOverflowColor(t *testing.T) {
	means := []model.GroupMean{
		{Mode: "A", Mean: model.Float(1)},
		{Mode: "B", Mean: model.Float(1)},
		{Mode: "C", Mean: model.Float(1)},
		{Mode: "D", Mean: model.Float(1)},
	}
	bc := Bar(Figures()[0], means)
	if bc.Bars[3].Style.FillColor != overflowColor {
		t.Fatalf("expected gray for extra mode")
	}
}

func TestDensitySkipsDegenerate(t *testing.T) {
	fig := Figures()[1]
	ch := Density(fig, sampleReport().Values[fig.Metric], zap.NewNop())
	if len(ch.Series) != 2 {
		t.Fatalf("expected 2 curves, got %d", len(ch.Series))
	}
	if ch.Series[1].GetName() != "Mode 2" {
		t.Fatalf("unexpected series %q", ch.Series[1].GetName())
	}
	s := ch.Series[1].(gochart.ContinuousSeries)
	if s.Style.StrokeColor != fig.Palette[1] {
		t.Fatalf("expected mode color to follow group position")
	}
	if len(ch.Elements) != 1 {
		t.Fatalf("expected legend element")
	}
}

func TestDensityFixedRange(t *testing.T) {
	fig := Figures()[7]
	ch := Density(fig, sampleReport().Values[fig.Metric], zap.NewNop())
	if ch.XAxis.Range.GetMin() != 0 || ch.XAxis.Range.GetMax() != 10 {
		t.Fatalf("expected fixed 0..10 range, got %v..%v", ch.XAxis.Range.GetMin(), ch.XAxis.Range.GetMax())
	}
	s := ch.Series[0].(gochart.ContinuousSeries)
	if s.XValues[0] != 0 || s.XValues[len(s.XValues)-1] != 10 {
		t.Fatalf("expected curve evaluated on the fixed range")
	}
}

func TestDensityWithoutDataKeepsAxis(t *testing.T) {
	fig := Figures()[3]
	ch := Density(fig, []model.GroupValues{{Mode: "Mode 1", Values: []float64{2}}}, zap.NewNop())
	if len(ch.Series) != 1 || ch.Series[0].GetName() != "" {
		t.Fatalf("expected a single unnamed flat series")
	}
	if len(ch.Elements) != 0 {
		t.Fatalf("expected no legend without curves")
	}
	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		t.Fatalf("render flat chart: %v", err)
	}
}
