package chart

import (
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/verte-zerg/duelstudy/internal/model"
)

const (
	barWidth     = 60
	rangePad     = 0.1
	notAvailable = "n/a"
)

// Bar builds the bar chart of the per-mode means. Missing means are drawn as
// empty bars labelled n/a.
func Bar(fig Figure, means []model.GroupMean) gochart.BarChart {
	bars := make([]gochart.Value, 0, len(means))
	for i, g := range means {
		color := fig.colorAt(i)
		label := g.Mode
		value := 0.0
		if g.Mean.Valid {
			value = g.Mean.Value
		} else {
			label = g.Mode + " (" + notAvailable + ")"
		}
		bars = append(bars, gochart.Value{
			Label: label,
			Value: value,
			Style: gochart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		})
	}
	if len(bars) == 0 {
		bars = append(bars, gochart.Value{
			Label: notAvailable,
			Style: gochart.Style{
				FillColor:   drawing.ColorTransparent,
				StrokeColor: drawing.ColorTransparent,
			},
		})
	}

	lo, hi := barRange(bars)
	return gochart.BarChart{
		Title:        fig.Title,
		TitleStyle:   textStyle(),
		Width:        defaultWidth,
		Height:       defaultHeight,
		BarWidth:     barWidth,
		Background:   backgroundStyle(),
		Canvas:       canvasStyle(),
		XAxis:        textStyle(),
		YAxis:        gochart.YAxis{Style: textStyle(), Range: &gochart.ContinuousRange{Min: lo, Max: hi}},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
		Elements:     []gochart.Renderable{axisNames(fig.XLabel, fig.YLabel)},
	}
}

// barRange spans zero and every bar, padded so no bar touches the frame.
func barRange(bars []gochart.Value) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if hi == lo {
		return 0, 1
	}
	pad := (hi - lo) * rangePad
	if lo < 0 {
		lo -= pad
	}
	if hi > 0 {
		hi += pad
	}
	return lo, hi
}

// axisNames draws the axis titles a bar chart has no slot for.
func axisNames(xName, yName string) gochart.Renderable {
	return func(r gochart.Renderer, canvas gochart.Box, defaults gochart.Style) {
		style := textStyle().InheritFrom(defaults)
		style.WriteTextOptionsToRenderer(r)
		if xName != "" {
			tb := r.MeasureText(xName)
			x := canvas.Left + (canvas.Width()-tb.Width())/2
			r.Text(xName, x, canvas.Bottom+40)
		}
		if yName != "" {
			tb := r.MeasureText(yName)
			y := canvas.Top + (canvas.Height()+tb.Width())/2
			r.SetTextRotation(gochart.DegreesToRadians(270))
			r.Text(yName, canvas.Left-20, y)
			r.ClearTextRotation()
		}
	}
}
