package analysis

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/verte-zerg/duelstudy/internal/model"
)

const surveyHeader = "Timestamp,Alias,Hours,Genres,Ability,Enjoyment,Duration,Mode,Attack,Defend,Catch,Adaptability,Difficulty,Continue,Feedback\n"

const metricsHeader = "time,bot,winner,winnerHP,probs\n"

type fixture struct {
	cfg model.Config
}

func newFixture(t *testing.T, surveyRows string, metrics map[string]string) fixture {
	t.Helper()
	root := t.TempDir()
	surveyPath := filepath.Join(root, "Survey", "survey.csv")
	metricsDir := filepath.Join(root, "Metrics")
	for _, dir := range []string{filepath.Dir(surveyPath), metricsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(surveyPath, []byte(surveyHeader+surveyRows), 0o644); err != nil {
		t.Fatalf("write survey: %v", err)
	}
	for alias, rows := range metrics {
		path := filepath.Join(metricsDir, alias+".csv")
		if err := os.WriteFile(path, []byte(metricsHeader+rows), 0o644); err != nil {
			t.Fatalf("write metrics: %v", err)
		}
	}
	return fixture{cfg: model.Config{
		SurveyPath: surveyPath,
		MetricsDir: metricsDir,
		OutputDir:  filepath.Join(root, "Analysis"),
		LogLevel:   "info",
		Modes:      model.DefaultModes(),
	}}
}

func TestRunSingleParticipant(t *testing.T) {
	fx := newFixture(t,
		"2024-01-01,P1,5,Action,7,8,10,Mode 2,3,4,5,6,4,Yes,ok\n",
		map[string]string{
			"P1": "1,bot,player,3,[0.1 0.9]\n2,bot,bot,1,[0.5 0.5]\n",
		},
	)
	fx.cfg.Export = true

	var out bytes.Buffer
	res, err := Run(context.Background(), fx.cfg, &out, zap.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Participants != 1 || res.Rows != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Sessions["Mode 2"] != 2 || res.Sessions["Mode 1"] != 0 {
		t.Fatalf("unexpected session counts: %v", res.Sessions)
	}
	text := out.String()
	if !strings.Contains(text, "Mode 2 0.5000 1") {
		t.Fatalf("expected mean win rate 0.5 for Mode 2:\n%s", text)
	}
	if !strings.Contains(text, "Mode 2 1.0000 1") {
		t.Fatalf("expected mean life difference 1.0 for Mode 2:\n%s", text)
	}
	if len(res.Charts) != 8 {
		t.Fatalf("expected 8 charts, got %d", len(res.Charts))
	}
	for _, path := range res.Charts {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("chart missing: %v", err)
		}
	}
	if filepath.Dir(res.ExportPath) != fx.cfg.OutputDir {
		t.Fatalf("unexpected export path: %s", res.ExportPath)
	}
}

func TestRunExcludesCalibrationSessions(t *testing.T) {
	fx := newFixture(t,
		"2024-01-01,G1,5,Action,7,8,10,Mode 1,3,4,5,6,4,Yes,ok\n",
		map[string]string{
			"G1": "1,bot,player,x,[]\n2,botGenetic,player,2,[]\n3,botGenetic,botGenetic,4,[]\n",
		},
	)
	var out bytes.Buffer
	res, err := Run(context.Background(), fx.cfg, &out, zap.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Sessions["Mode 1"] != 2 {
		t.Fatalf("expected calibration session to be dropped, got %d", res.Sessions["Mode 1"])
	}
	if !strings.Contains(out.String(), "Mode 1 -1.0000 1") {
		t.Fatalf("expected life difference -1.0 for Mode 1:\n%s", out.String())
	}
}

func TestRunMissingMetricsFileWritesNothing(t *testing.T) {
	fx := newFixture(t,
		"2024-01-01,P1,5,Action,7,8,10,Mode 2,3,4,5,6,4,Yes,ok\n"+
			"2024-01-02,P2,1,Puzzle,2,3,5,Mode 3,1,1,1,2,6,No,\n",
		map[string]string{
			"P1": "1,bot,player,3,[]\n",
		},
	)
	var out bytes.Buffer
	_, err := Run(context.Background(), fx.cfg, &out, zap.NewNop())
	if err == nil {
		t.Fatalf("expected error for missing metrics file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := os.Stat(fx.cfg.OutputDir); !os.IsNotExist(err) {
		t.Fatalf("expected no output directory, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no summary output, got %q", out.String())
	}
}

func TestRunUnknownModeKeepsSurveyRow(t *testing.T) {
	fx := newFixture(t,
		"2024-01-01,P1,5,Action,7,8,10,Mode 2,3,4,5,6,4,Yes,ok\n"+
			"2024-01-02,X1,1,Puzzle,2,3,5,Mode 9,1,1,1,2,6,No,\n",
		map[string]string{
			"P1": "1,bot,player,3,[]\n",
			"X1": "1,bot,player,3,[]\n",
		},
	)
	fx.cfg.Participants = true
	fx.cfg.TerminalPlots = true
	var out bytes.Buffer
	res, err := Run(context.Background(), fx.cfg, &out, zap.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Rows != 2 {
		t.Fatalf("expected both survey rows to be joined, got %d", res.Rows)
	}
	text := out.String()
	if !strings.Contains(text, "Mode 9    n/a 0") {
		t.Fatalf("expected unknown mode with null mean:\n%s", text)
	}
	if !strings.Contains(text, "Participants:") {
		t.Fatalf("expected participant listing:\n%s", text)
	}
	if !strings.Contains(text, "not enough data for a density curve") {
		t.Fatalf("expected degenerate density notice:\n%s", text)
	}
}
