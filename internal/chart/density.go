package chart

import (
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"github.com/verte-zerg/duelstudy/internal/model"
	"github.com/verte-zerg/duelstudy/internal/stats"
)

const curveWidth = 2

// Density builds the chart of one kernel density curve per mode. Each curve
// spans its own sample unless the figure fixes the x range. Modes without
// enough data are skipped with a warning; when none remain the chart keeps
// a flat axis so it can still be written.
func Density(fig Figure, groups []model.GroupValues, log *zap.Logger) gochart.Chart {
	var series []gochart.Series
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMax := 0.0
	for i, g := range groups {
		d, err := curve(fig, g.Values)
		if err != nil {
			log.Warn("density skipped",
				zap.String("chart", fig.File),
				zap.String("mode", g.Mode),
				zap.Int("values", len(g.Values)),
				zap.Error(err))
			continue
		}
		color := fig.colorAt(i)
		series = append(series, gochart.ContinuousSeries{
			Name:    g.Mode,
			XValues: d.X,
			YValues: d.Y,
			Style: gochart.Style{
				StrokeColor: color,
				StrokeWidth: curveWidth,
			},
		})
		xMin = math.Min(xMin, d.X[0])
		xMax = math.Max(xMax, d.X[len(d.X)-1])
		for _, y := range d.Y {
			yMax = math.Max(yMax, y)
		}
	}

	if fig.FixedX {
		xMin, xMax = fig.XMin, fig.XMax
	}
	drawable := len(series) > 0
	if !drawable {
		if !fig.FixedX {
			xMin, xMax = 0, 1
		}
		series = append(series, flatAxis(xMin, xMax))
	}
	if yMax <= 0 {
		yMax = 1
	}

	ch := gochart.Chart{
		Title:      fig.Title,
		TitleStyle: textStyle(),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: backgroundStyle(),
		Canvas:     canvasStyle(),
		XAxis: gochart.XAxis{
			Name:      fig.XLabel,
			NameStyle: textStyle(),
			Style:     textStyle(),
			Range:     &gochart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: gochart.YAxis{
			Name:      fig.YLabel,
			NameStyle: textStyle(),
			Style:     textStyle(),
			Range:     &gochart.ContinuousRange{Min: 0, Max: yMax * (1 + rangePad)},
		},
		Series: series,
	}
	if drawable {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch, gochart.Style{
			FillColor:   drawing.ColorTransparent,
			FontColor:   foreground,
			StrokeColor: foreground,
		})}
	}
	return ch
}

func curve(fig Figure, values []float64) (stats.Density, error) {
	if fig.FixedX {
		return stats.KDEOver(values, fig.XMin, fig.XMax, stats.DefaultKDEPoints)
	}
	return stats.KDE(values, stats.DefaultKDEPoints)
}

// flatAxis is an invisible zero line that lets an empty chart render.
func flatAxis(xMin, xMax float64) gochart.ContinuousSeries {
	return gochart.ContinuousSeries{
		XValues: []float64{xMin, xMax},
		YValues: []float64{0, 0},
		Style: gochart.Style{
			StrokeColor: drawing.ColorTransparent,
			StrokeWidth: 1,
		},
	}
}
