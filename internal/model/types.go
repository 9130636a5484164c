// Package model defines shared data structures.
package model

import (
	"math"
	"strconv"
	"strings"
)

// Config defines the effective analysis settings.
type Config struct {
	SurveyPath    string
	MetricsDir    string
	OutputDir     string
	LogLevel      string
	TerminalPlots bool
	Export        bool
	Participants  bool
	Modes         []ModeSpec
}

// ModeSpec maps an experimental mode to the bot that plays it.
type ModeSpec struct {
	Label string
	Bot   string
	// ExcludeCalibration drops sessions not played against Bot.
	ExcludeCalibration bool
}

// DefaultModes returns the mode table used by the study.
func DefaultModes() []ModeSpec {
	return []ModeSpec{
		{Label: "Mode 1", Bot: "botGenetic", ExcludeCalibration: true},
		{Label: "Mode 2", Bot: "bot"},
		{Label: "Mode 3", Bot: "botMany"},
	}
}

// NullFloat is a float that may be missing.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float wraps a present value.
func Float(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

// ParseNullFloat parses s, returning an invalid value for blank or non-numeric input.
func ParseNullFloat(s string) NullFloat {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return NullFloat{}
	}
	return Float(v)
}

// String formats the value, or "n/a" when missing.
func (f NullFloat) String() string {
	if !f.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// SurveyRecord is one participant's survey answers.
type SurveyRecord struct {
	Date              string
	Alias             string
	HoursOfPlay       string
	Genres            string
	GameAbility       NullFloat
	Enjoyment         NullFloat
	GameDuration      string
	Mode              string
	DifficultAttack   NullFloat
	DifficultDefend   NullFloat
	DifficultCatch    NullFloat
	Adaptability      NullFloat
	GeneralDifficulty NullFloat
	ContinuePlaying   string
	Feedback          string
}

// OutcomeFlags are derived from a session's winner fields.
type OutcomeFlags struct {
	PlayerWon bool
	BotWon    bool
	LifeDiff  int
}

// SessionRecord is one gameplay session of one participant.
type SessionRecord struct {
	Alias string
	// Values is aligned with the owning ModeTable's Columns.
	Values  []string
	Outcome OutcomeFlags
	Derived bool
}

// Column names every metrics file has to provide.
const (
	ColumnBot      = "bot"
	ColumnWinner   = "winner"
	ColumnWinnerHP = "winnerHP"
	ColumnAlias    = "alias"
)

// WinnerPlayer is the winner value recorded when the participant won.
const WinnerPlayer = "player"

// ModeTable holds every session played in one mode.
type ModeTable struct {
	Mode    string
	Columns []string
	Records []SessionRecord
}

// ColumnIndex returns the position of name in Columns or -1.
func (t *ModeTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Field returns the named field of rec, or "" when the column is absent.
func (t *ModeTable) Field(rec SessionRecord, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || idx >= len(rec.Values) {
		return ""
	}
	return rec.Values[idx]
}

// ParticipantAggregate summarizes one participant's sessions in one mode.
type ParticipantAggregate struct {
	Alias      string
	Mode       string
	Sessions   int
	PlayerWins float64
	LifeDiff   float64
}

// AnalysisRow is one row of the survey joined with the session aggregates.
type AnalysisRow struct {
	Alias string
	// Survey is nil for aliases that only have session data.
	Survey     *SurveyRecord
	PlayerWins NullFloat
	LifeDiff   NullFloat
}

// Mode returns the reported mode, or "" when the row has no survey answers.
func (r AnalysisRow) Mode() string {
	if r.Survey == nil {
		return ""
	}
	return r.Survey.Mode
}

// GroupMean is the mean of one column within one mode.
type GroupMean struct {
	Mode  string
	Mean  NullFloat
	Count int
}

// GroupValues holds the non-null values of one column within one mode.
type GroupValues struct {
	Mode   string
	Values []float64
}

// Metric names a numeric column of the joined analysis table.
type Metric string

// Metrics reported per mode.
const (
	MetricPlayerWins        Metric = "player_wins"
	MetricLifeDiff          Metric = "life_diff"
	MetricGeneralDifficulty Metric = "general_difficulty"
	MetricGameAbility       Metric = "game_ability"
	MetricEnjoyment         Metric = "enjoyment"
	MetricAdaptability      Metric = "adaptability"
)

// Metrics lists every metric in report order.
func Metrics() []Metric {
	return []Metric{
		MetricPlayerWins,
		MetricLifeDiff,
		MetricGeneralDifficulty,
		MetricGameAbility,
		MetricEnjoyment,
		MetricAdaptability,
	}
}
