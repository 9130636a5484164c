// Package stats contains statistics calculations and reporting.
package stats

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
	"gonum.org/v1/gonum/floats"

	"github.com/verte-zerg/duelstudy/internal/model"
)

// Series represents a named data series sampled on a shared x grid.
type Series struct {
	Name   string
	Values []float64
}

// Axis is the x extent shared by every plotted series.
type Axis struct {
	Min float64
	Max float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var colorPalette = []ansiColor{
	{name: "blue", code: "\x1b[34m"},
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
}

// RenderDensities prints the per-mode density curves of metric on one shared scale.
func RenderDensities(w io.Writer, title string, groups []model.GroupValues, width, height int, forceColor bool) error {
	series, axis, err := DensitySeries(groups, 0)
	if err != nil {
		if errors.Is(err, ErrDegenerate) {
			_, werr := fmt.Fprintf(w, "%s: not enough data for a density curve\n\n", title)
			return werr
		}
		return err
	}
	return PlotSeries(w, title, series, axis, width, height, forceColor)
}

// DensitySeries evaluates every group's density on a grid spanning all groups.
// Groups that cannot be fitted are omitted; ErrDegenerate is returned when none can.
func DensitySeries(groups []model.GroupValues, points int) ([]Series, Axis, error) {
	if points <= 0 {
		points = DefaultKDEPoints
	}
	var all []float64
	for _, g := range groups {
		all = append(all, g.Values...)
	}
	if len(all) < 2 {
		return nil, Axis{}, ErrDegenerate
	}
	lo, hi := floats.Min(all), floats.Max(all)
	span := hi - lo
	axis := Axis{Min: lo - span/2, Max: hi + span/2}

	var series []Series
	for _, g := range groups {
		d, err := KDEOver(g.Values, axis.Min, axis.Max, points)
		if err != nil {
			continue
		}
		series = append(series, Series{Name: g.Mode, Values: d.Y})
	}
	if len(series) == 0 {
		return nil, Axis{}, ErrDegenerate
	}
	return series, axis, nil
}

// PlotSeries renders a braille text plot of series sharing one value scale.
func PlotSeries(w io.Writer, title string, series []Series, axis Axis, width, height int, forceColor bool) error {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	scaled := make([]Series, 0, len(series))
	for _, s := range series {
		scaled = append(scaled, Series{Name: s.Name, Values: resampleSeries(s.Values, width)})
	}
	minVal, maxVal := seriesRange(scaled)
	if math.Abs(maxVal-minVal) < 1e-12 {
		minVal--
		maxVal++
	}

	seriesCells := make([][][]uint8, len(scaled))
	for si, s := range scaled {
		cells := makeCells(height, width)
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			px := x * 2
			py := valueToRow(v, minVal, maxVal, height*4)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setBrailleDot(cells, dx, dy)
					}
				})
			} else if style.shouldPlot(px) {
				setBrailleDot(cells, px, py)
			}
			prevX, prevY = px, py
		}
		seriesCells[si] = cells
	}

	useColor := shouldUseColor(w, forceColor)
	labels := makeAxisLabels(height, minVal, maxVal)
	labelWidth := 0
	for _, l := range labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", labelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, colorIdx := composeCell(seriesCells, x, y)
			ch := brailleFromMask(mask)
			if useColor && colorIdx >= 0 {
				row.WriteString(colorPalette[colorIdx%len(colorPalette)].code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, xAxisLine(axis, labelWidth, width)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, renderLegend(scaled, useColor)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func seriesRange(series []Series) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		return 0, 0
	}
	return minVal, maxVal
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	const labelAllowance = 8
	plotWidth := totalWidth - labelAllowance - len([]rune(axisSeparator))
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeAxisLabels(height int, minVal, maxVal float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = formatTick(maxVal)
	if height > 2 {
		labels[height/2] = formatTick((minVal + maxVal) / 2)
	}
	if height > 1 {
		labels[height-1] = formatTick(minVal)
	}
	return labels
}

func formatTick(v float64) string {
	return fmt.Sprintf("%.3g", v)
}

func xAxisLine(axis Axis, labelWidth, width int) string {
	left := formatTick(axis.Min)
	right := formatTick(axis.Max)
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return strings.Repeat(" ", labelWidth+len([]rune(axisSeparator))) + left + strings.Repeat(" ", gap) + right
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) || x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

// resampleSeries averages down or linearly interpolates up to width points.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			out[i] = floats.Sum(values[start:end]) / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := 0; i < width; i++ {
			pos := float64(i) * float64(len(values)-1) / float64(width-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(0x01)
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, lineStyles[i%len(lineStyles)].name)
		if useColor {
			label = colorPalette[i%len(colorPalette)].code + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY, cellX := y/4, x/2
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask maps a dot within a 2x4 cell to its Unicode braille bit.
func brailleDotMask(x, y int) uint8 {
	masks := [2][4]uint8{
		{0x01, 0x02, 0x04, 0x40},
		{0x08, 0x10, 0x20, 0x80},
	}
	if x < 0 || x > 1 || y < 0 || y > 3 {
		return 0
	}
	return masks[x][y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
