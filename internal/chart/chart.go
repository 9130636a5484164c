// Package chart renders the per-mode report charts as PNG files.
package chart

import (
	"fmt"
	"os"
	"path/filepath"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/verte-zerg/duelstudy/internal/model"
	"github.com/verte-zerg/duelstudy/internal/stats"
)

// Kind selects how a metric is drawn.
type Kind int

const (
	// KindBar draws one bar per mode with the mode's mean.
	KindBar Kind = iota
	// KindDensity draws one kernel density curve per mode.
	KindDensity
)

const (
	defaultWidth  = 640
	defaultHeight = 480
)

// Figure describes one output chart.
type Figure struct {
	File    string
	Title   string
	Kind    Kind
	Metric  model.Metric
	XLabel  string
	YLabel  string
	Palette []drawing.Color
	// FixedX pins the x axis of a density chart to [XMin, XMax].
	FixedX bool
	XMin   float64
	XMax   float64
}

var (
	blues    = palette("0000FF", "ADD8E6", "00008B")
	magentas = palette("FF00FF", "FFB6C1", "8B008B")
	reds     = palette("FF0000", "8B0000", "F08080")
	oranges  = palette("FFA500", "FF8C00", "FFD700")

	overflowColor = drawing.ColorFromHex("808080")
	foreground    = drawing.ColorWhite
)

// Specs returns the report charts in output order.
func Figures() []Figure {
	return []Figure{
		{
			File:    "Average player wins by mode.png",
			Title:   "Average player wins by mode",
			Kind:    KindBar,
			Metric:  model.MetricPlayerWins,
			XLabel:  "Mode",
			YLabel:  "Average player wins",
			Palette: blues,
		},
		{
			File:    "Average player wins distribution by mode.png",
			Title:   "Average player wins distribution by mode",
			Kind:    KindDensity,
			Metric:  model.MetricPlayerWins,
			XLabel:  "Average player wins",
			YLabel:  "Density",
			Palette: blues,
		},
		{
			File:    "Average life difference by mode.png",
			Title:   "Average life difference by mode",
			Kind:    KindBar,
			Metric:  model.MetricLifeDiff,
			XLabel:  "Mode",
			YLabel:  "Average life difference",
			Palette: magentas,
		},
		{
			File:    "Density life difference distribution by mode.png",
			Title:   "Average life difference distribution by mode",
			Kind:    KindDensity,
			Metric:  model.MetricLifeDiff,
			XLabel:  "Life difference",
			YLabel:  "Density",
			Palette: magentas,
		},
		{
			File:    "Average general difficulty by mode.png",
			Title:   "Average general difficulty by mode",
			Kind:    KindBar,
			Metric:  model.MetricGeneralDifficulty,
			XLabel:  "Mode",
			YLabel:  "Average general difficulty",
			Palette: reds,
		},
		{
			File:    "Density general difficulty distribution by mode.png",
			Title:   "General difficulty distribution by mode",
			Kind:    KindDensity,
			Metric:  model.MetricGeneralDifficulty,
			XLabel:  "General difficulty",
			YLabel:  "Density",
			Palette: reds,
		},
		{
			File:    "Average game ability by mode.png",
			Title:   "Average game ability by mode",
			Kind:    KindBar,
			Metric:  model.MetricGameAbility,
			XLabel:  "Mode",
			YLabel:  "Average game ability",
			Palette: oranges,
		},
		{
			File:    "Density game ability distribution by mode.png",
			Title:   "Game ability distribution by mode",
			Kind:    KindDensity,
			Metric:  model.MetricGameAbility,
			XLabel:  "Game ability",
			YLabel:  "Density",
			Palette: oranges,
			FixedX:  true,
			XMin:    0,
			XMax:    10,
		},
	}
}

// RenderAll writes every chart of Specs into dir, creating it when missing,
// and returns the written paths.
func RenderAll(dir string, report stats.Report, log *zap.Logger) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	paths := make([]string, 0, len(Figures()))
	for _, fig := range Figures() {
		path := filepath.Join(dir, fig.File)
		if err := renderFile(path, fig, report, log); err != nil {
			return paths, fmt.Errorf("failed to render %q: %w", fig.File, err)
		}
		log.Debug("chart written", zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

func renderFile(path string, fig Figure, report stats.Report, log *zap.Logger) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	switch fig.Kind {
	case KindBar:
		return Bar(fig, report.Means[fig.Metric]).Render(gochart.PNG, file)
	case KindDensity:
		return Density(fig, report.Values[fig.Metric], log).Render(gochart.PNG, file)
	default:
		return fmt.Errorf("unknown chart kind %d", fig.Kind)
	}
}

func palette(hex ...string) []drawing.Color {
	colors := make([]drawing.Color, 0, len(hex))
	for _, h := range hex {
		colors = append(colors, drawing.ColorFromHex(h))
	}
	return colors
}

// colorAt returns the i-th palette color; modes beyond the palette are gray.
func (f Figure) colorAt(i int) drawing.Color {
	if i < len(f.Palette) {
		return f.Palette[i]
	}
	return overflowColor
}

func textStyle() gochart.Style {
	return gochart.Style{
		FontColor:   foreground,
		StrokeColor: foreground,
	}
}

func backgroundStyle() gochart.Style {
	return gochart.Style{
		FillColor:   drawing.ColorTransparent,
		StrokeColor: drawing.ColorTransparent,
		Padding:     gochart.Box{Top: 40, Left: 60, Right: 20, Bottom: 60},
	}
}

func canvasStyle() gochart.Style {
	return gochart.Style{
		FillColor:   drawing.ColorTransparent,
		StrokeColor: drawing.ColorTransparent,
	}
}
