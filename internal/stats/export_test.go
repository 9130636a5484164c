package stats

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/duelstudy/internal/model"
)

func TestWriteAnalysisCSV(t *testing.T) {
	rows := []model.AnalysisRow{
		{
			Alias: "P1",
			Survey: &model.SurveyRecord{
				Alias:             "P1",
				Mode:              "Mode 2",
				GameAbility:       model.Float(7),
				GeneralDifficulty: model.Float(3.5),
				Feedback:          "fun, but hard",
			},
			PlayerWins: model.Float(0.5),
			LifeDiff:   model.Float(1),
		},
		{Alias: "P9", PlayerWins: model.Float(1), LifeDiff: model.Float(-2)},
	}

	var buf bytes.Buffer
	if err := WriteAnalysisCSV(&buf, rows); err != nil {
		t.Fatalf("WriteAnalysisCSV failed: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	header := records[0]
	if len(header) != 17 || header[15] != "player_wins" || header[16] != "life_diff" {
		t.Fatalf("unexpected header: %v", header)
	}
	p1 := records[1]
	if p1[1] != "P1" || p1[4] != "7" || p1[7] != "Mode 2" || p1[12] != "3.5" {
		t.Fatalf("unexpected survey fields: %v", p1)
	}
	if p1[5] != "" {
		t.Fatalf("expected missing rating to be blank, got %q", p1[5])
	}
	if p1[14] != "fun, but hard" {
		t.Fatalf("expected quoted feedback to survive, got %q", p1[14])
	}
	if p1[15] != "0.5" || p1[16] != "1" {
		t.Fatalf("unexpected aggregates: %v", p1[15:])
	}
	p9 := records[2]
	if p9[1] != "P9" || p9[7] != "" || p9[16] != "-2" {
		t.Fatalf("unexpected session-only row: %v", p9)
	}
}

func TestExportAnalysisCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "Analysis")
	path, err := ExportAnalysis(dir, nil)
	if err != nil {
		t.Fatalf("ExportAnalysis failed: %v", err)
	}
	if filepath.Base(path) != ExportFileName {
		t.Fatalf("unexpected path: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(bytes.Split(bytes.TrimSpace(data), []byte("\n"))) != 1 {
		t.Fatalf("expected header only, got %q", data)
	}
}
