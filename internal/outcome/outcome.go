// Package outcome cleans mode tables and derives per-session outcome flags.
package outcome

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/duelstudy/internal/model"
)

// ErrAlreadyDerived reports a table whose outcome flags were computed before.
var ErrAlreadyDerived = errors.New("outcome flags already derived")

// Clean drops calibration sessions when the mode excludes them. The returned
// table owns a dense record slice; the input table is not modified.
func Clean(table *model.ModeTable, spec model.ModeSpec) *model.ModeTable {
	out := &model.ModeTable{Mode: table.Mode, Columns: table.Columns}
	if !spec.ExcludeCalibration {
		out.Records = append([]model.SessionRecord(nil), table.Records...)
		return out
	}
	out.Records = make([]model.SessionRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		if table.Field(rec, model.ColumnBot) == spec.Bot {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

// Flags computes the outcome of one session against bot.
func Flags(winner, winnerHP, bot string) (model.OutcomeFlags, error) {
	hp, err := strconv.Atoi(strings.TrimSpace(winnerHP))
	if err != nil {
		return model.OutcomeFlags{}, fmt.Errorf("invalid winnerHP %q: %w", winnerHP, err)
	}
	flags := model.OutcomeFlags{
		PlayerWon: winner == model.WinnerPlayer,
		BotWon:    winner == bot,
		LifeDiff:  hp,
	}
	if flags.BotWon {
		flags.LifeDiff = -hp
	}
	return flags, nil
}

// Derive sets the outcome flags of every record in table.
func Derive(table *model.ModeTable, spec model.ModeSpec) error {
	for i := range table.Records {
		rec := &table.Records[i]
		if rec.Derived {
			return fmt.Errorf("%s row %d: %w", table.Mode, i, ErrAlreadyDerived)
		}
		flags, err := Flags(table.Field(*rec, model.ColumnWinner), table.Field(*rec, model.ColumnWinnerHP), spec.Bot)
		if err != nil {
			return fmt.Errorf("%s row %d (alias %s): %w", table.Mode, i, rec.Alias, err)
		}
		rec.Outcome = flags
		rec.Derived = true
	}
	return nil
}

// Process cleans and derives every table. tables and specs are matched by
// mode label.
func Process(tables []*model.ModeTable, specs []model.ModeSpec) ([]*model.ModeTable, error) {
	byLabel := make(map[string]model.ModeSpec, len(specs))
	for _, s := range specs {
		byLabel[s.Label] = s
	}
	out := make([]*model.ModeTable, 0, len(tables))
	for _, table := range tables {
		spec, ok := byLabel[table.Mode]
		if !ok {
			return nil, fmt.Errorf("no mode configured for table %q", table.Mode)
		}
		cleaned := Clean(table, spec)
		if err := Derive(cleaned, spec); err != nil {
			return nil, err
		}
		out = append(out, cleaned)
	}
	return out, nil
}
