// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/duelstudy/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// Summary titles printed for the outcome metrics.
const (
	TitlePlayerWins = "Average player wins by mode"
	TitleLifeDiff   = "Average life difference by mode"
)

// RenderSummary prints the mean win rate and mean life difference per mode.
func RenderSummary(w io.Writer, report Report) error {
	if err := RenderGroupMeans(w, TitlePlayerWins, report.Means[model.MetricPlayerWins]); err != nil {
		return err
	}
	return RenderGroupMeans(w, TitleLifeDiff, report.Means[model.MetricLifeDiff])
}

// RenderGroupMeans prints one aligned table of per-mode means.
func RenderGroupMeans(w io.Writer, title string, means []model.GroupMean) error {
	useColor := shouldUseColor(w, false)
	if _, err := fmt.Fprintln(w, styled(titleStyle, title+":", useColor)); err != nil {
		return err
	}
	if len(means) == 0 {
		_, err := fmt.Fprintln(w, styled(mutedStyle, "No participants with a reported mode.", useColor))
		return err
	}
	rows := make([][]string, 0, len(means))
	for _, g := range means {
		rows = append(rows, []string{g.Mode, formatMean(g.Mean), strconv.Itoa(g.Count)})
	}
	lines := formatTable([]string{"Mode", "Mean", "N"}, rows, map[int]bool{1: true, 2: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderParticipants prints one line per joined analysis row.
func RenderParticipants(w io.Writer, rows []model.AnalysisRow) error {
	useColor := shouldUseColor(w, false)
	if _, err := fmt.Fprintln(w, styled(titleStyle, "Participants:", useColor)); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, styled(mutedStyle, "No participants found.", useColor))
		return err
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		mode := r.Mode()
		if mode == "" {
			mode = "-"
		}
		difficulty := model.NullFloat{}
		if r.Survey != nil {
			difficulty = r.Survey.GeneralDifficulty
		}
		tableRows = append(tableRows, []string{
			r.Alias,
			mode,
			formatMean(r.PlayerWins),
			formatMean(r.LifeDiff),
			difficulty.String(),
		})
	}
	headers := []string{"Alias", "Mode", "Win rate", "Life diff", "Difficulty"}
	lines := formatTable(headers, tableRows, map[int]bool{2: true, 3: true, 4: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func formatMean(f model.NullFloat) string {
	if !f.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", f.Value)
}

func styled(style lipgloss.Style, s string, useColor bool) string {
	if !useColor {
		return s
	}
	return style.Render(s)
}
