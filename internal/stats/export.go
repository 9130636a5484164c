package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/verte-zerg/duelstudy/internal/model"
	"github.com/verte-zerg/duelstudy/internal/survey"
)

// ExportFileName is the name of the joined table written by ExportAnalysis.
const ExportFileName = "analysis.csv"

// ExportHeader returns the column names of the exported analysis table.
func ExportHeader() []string {
	header := make([]string, 0, len(survey.Columns)+2)
	header = append(header, survey.Columns...)
	return append(header, string(model.MetricPlayerWins), string(model.MetricLifeDiff))
}

// ExportAnalysis writes the joined table to dir/analysis.csv and returns the path.
func ExportAnalysis(dir string, rows []model.AnalysisRow) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path = filepath.Join(dir, ExportFileName)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := WriteAnalysisCSV(file, rows); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// WriteAnalysisCSV writes rows as CSV with missing values left blank.
func WriteAnalysisCSV(w io.Writer, rows []model.AnalysisRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader()); err != nil {
		return err
	}
	for _, r := range rows {
		record := surveyFields(r)
		record = append(record, csvFloat(r.PlayerWins), csvFloat(r.LifeDiff))
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func surveyFields(r model.AnalysisRow) []string {
	s := r.Survey
	if s == nil {
		fields := make([]string, len(survey.Columns))
		fields[1] = r.Alias
		return fields
	}
	return []string{
		s.Date,
		s.Alias,
		s.HoursOfPlay,
		s.Genres,
		csvFloat(s.GameAbility),
		csvFloat(s.Enjoyment),
		s.GameDuration,
		s.Mode,
		csvFloat(s.DifficultAttack),
		csvFloat(s.DifficultDefend),
		csvFloat(s.DifficultCatch),
		csvFloat(s.Adaptability),
		csvFloat(s.GeneralDifficulty),
		s.ContinuePlaying,
		s.Feedback,
	}
}

func csvFloat(f model.NullFloat) string {
	if !f.Valid {
		return ""
	}
	return f.String()
}
