// Package analysis runs the survey and session analysis end to end.
package analysis

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/verte-zerg/duelstudy/internal/chart"
	"github.com/verte-zerg/duelstudy/internal/metrics"
	"github.com/verte-zerg/duelstudy/internal/model"
	"github.com/verte-zerg/duelstudy/internal/outcome"
	"github.com/verte-zerg/duelstudy/internal/stats"
	"github.com/verte-zerg/duelstudy/internal/store"
	"github.com/verte-zerg/duelstudy/internal/survey"
)

// Result describes what one run produced.
type Result struct {
	Participants int
	Sessions     map[string]int
	Rows         int
	Charts       []string
	ExportPath   string
}

// Run loads the inputs named by cfg, prints the summaries to out and writes
// the charts into cfg.OutputDir. Nothing is written to disk when loading or
// aggregation fails.
func Run(ctx context.Context, cfg model.Config, out io.Writer, log *zap.Logger) (res Result, err error) {
	surveys, err := survey.Load(cfg.SurveyPath)
	if err != nil {
		return Result{}, err
	}
	log.Info("survey loaded", zap.String("path", cfg.SurveyPath), zap.Int("participants", len(surveys)))
	warnMissingRatings(surveys, log)

	tables, err := metrics.Load(cfg.MetricsDir, surveys, cfg.Modes, log)
	if err != nil {
		return Result{}, err
	}
	tables, err = outcome.Process(tables, cfg.Modes)
	if err != nil {
		return Result{}, fmt.Errorf("failed to derive outcomes: %w", err)
	}
	sessions := make(map[string]int, len(tables))
	for _, t := range tables {
		sessions[t.Mode] = len(t.Records)
		log.Debug("mode table ready", zap.String("mode", t.Mode), zap.Int("sessions", len(t.Records)))
	}

	aggs, err := stats.AggregateAll(tables)
	if err != nil {
		return Result{}, fmt.Errorf("failed to aggregate sessions: %w", err)
	}
	rows := stats.OuterJoin(surveys, aggs)

	st, err := store.Open()
	if err != nil {
		return Result{}, fmt.Errorf("failed to open analysis store: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("failed to close analysis store", zap.Error(cerr))
		}
	}()
	report, err := stats.BuildReport(ctx, st, rows)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build report: %w", err)
	}

	res = Result{
		Participants: len(surveys),
		Sessions:     sessions,
		Rows:         len(rows),
	}

	if err := stats.RenderSummary(out, report); err != nil {
		return res, fmt.Errorf("failed to write summary: %w", err)
	}
	if cfg.Participants {
		if err := stats.RenderParticipants(out, rows); err != nil {
			return res, fmt.Errorf("failed to write participants: %w", err)
		}
	}
	if cfg.TerminalPlots {
		if err := renderTerminalPlots(out, report); err != nil {
			return res, fmt.Errorf("failed to write plots: %w", err)
		}
	}

	res.Charts, err = chart.RenderAll(cfg.OutputDir, report, log)
	if err != nil {
		return res, err
	}
	log.Info("charts written", zap.String("dir", cfg.OutputDir), zap.Int("count", len(res.Charts)))

	if cfg.Export {
		res.ExportPath, err = stats.ExportAnalysis(cfg.OutputDir, rows)
		if err != nil {
			return res, err
		}
		log.Info("analysis table exported", zap.String("path", res.ExportPath))
	}
	return res, nil
}

// renderTerminalPlots draws the density charts as braille plots.
func renderTerminalPlots(out io.Writer, report stats.Report) error {
	for _, fig := range chart.Figures() {
		if fig.Kind != chart.KindDensity {
			continue
		}
		if err := stats.RenderDensities(out, fig.Title, report.Values[fig.Metric], 0, 0, false); err != nil {
			return err
		}
	}
	return nil
}

func warnMissingRatings(surveys []model.SurveyRecord, log *zap.Logger) {
	for _, s := range surveys {
		if !s.GeneralDifficulty.Valid || !s.GameAbility.Valid {
			log.Warn("survey rating missing or not numeric",
				zap.String("alias", s.Alias),
				zap.Bool("general_difficulty", s.GeneralDifficulty.Valid),
				zap.Bool("game_ability", s.GameAbility.Valid))
		}
	}
}
