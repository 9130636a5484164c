// Package survey loads the participant survey export.
package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/verte-zerg/duelstudy/internal/model"
)

// Columns is the canonical short-name schema, in file order.
var Columns = []string{
	"date",
	"alias",
	"hours_of_play",
	"genres",
	"game_ability",
	"enjoyment",
	"game_duration",
	"mode",
	"difficult_attack",
	"difficult_defend",
	"difficult_catch",
	"adaptability",
	"general_difficulty",
	"continue_playing",
	"feedback",
}

// ErrSchema reports a survey file whose columns cannot be mapped onto Columns.
var ErrSchema = errors.New("survey schema mismatch")

// Load reads the survey CSV at path. Header names are ignored; columns are
// mapped by position.
func Load(path string) ([]model.SurveyRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only survey.
			_ = cerr
		}
	}()

	records, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read survey %s: %w", path, err)
	}
	return records, nil
}

// Parse reads survey records from r.
func Parse(r io.Reader) ([]model.SurveyRecord, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrSchema)
		}
		return nil, err
	}
	if len(header) != len(Columns) {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", ErrSchema, len(Columns), len(header))
	}

	var records []model.SurveyRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, fromRow(row))
	}
	return records, nil
}

func fromRow(row []string) model.SurveyRecord {
	return model.SurveyRecord{
		Date:              row[0],
		Alias:             row[1],
		HoursOfPlay:       row[2],
		Genres:            row[3],
		GameAbility:       model.ParseNullFloat(row[4]),
		Enjoyment:         model.ParseNullFloat(row[5]),
		GameDuration:      row[6],
		Mode:              row[7],
		DifficultAttack:   model.ParseNullFloat(row[8]),
		DifficultDefend:   model.ParseNullFloat(row[9]),
		DifficultCatch:    model.ParseNullFloat(row[10]),
		Adaptability:      model.ParseNullFloat(row[11]),
		GeneralDifficulty: model.ParseNullFloat(row[12]),
		ContinuePlaying:   row[13],
		Feedback:          row[14],
	}
}
