// Package metrics loads per-participant gameplay session logs.
package metrics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/verte-zerg/duelstudy/internal/model"
)

// ErrMissingColumn reports a metrics header without a required column.
var ErrMissingColumn = errors.New("metrics file is missing a required column")

var requiredColumns = []string{model.ColumnBot, model.ColumnWinner, model.ColumnWinnerHP}

// Path returns the metrics file location for alias.
func Path(dir, alias string) string {
	return filepath.Join(dir, alias+".csv")
}

// Load reads the metrics file of every surveyed participant and routes its
// sessions into the table of the participant's reported mode. One table is
// returned per mode, in the order of modes. Participants reporting a mode
// that is not configured are dropped.
func Load(dir string, participants []model.SurveyRecord, modes []model.ModeSpec, log *zap.Logger) ([]*model.ModeTable, error) {
	tables := make([]*model.ModeTable, len(modes))
	byLabel := make(map[string]*model.ModeTable, len(modes))
	for i, m := range modes {
		tables[i] = &model.ModeTable{Mode: m.Label}
		byLabel[m.Label] = tables[i]
	}

	for _, p := range participants {
		path := Path(dir, p.Alias)
		columns, records, err := LoadFile(path, p.Alias)
		if err != nil {
			return nil, err
		}
		table, ok := byLabel[p.Mode]
		if !ok {
			log.Debug("dropping participant with unknown mode",
				zap.String("alias", p.Alias),
				zap.String("mode", p.Mode),
				zap.Int("sessions", len(records)))
			continue
		}
		appendRecords(table, columns, records)
		log.Debug("loaded sessions",
			zap.String("alias", p.Alias),
			zap.String("mode", p.Mode),
			zap.Int("sessions", len(records)))
	}
	return tables, nil
}

// LoadFile reads one participant's metrics file and tags every row with alias.
func LoadFile(path, alias string) ([]string, []model.SessionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open metrics: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only metrics.
			_ = cerr
		}
	}()

	columns, records, err := Parse(file, alias)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read metrics %s: %w", path, err)
	}
	return columns, records, nil
}

// Parse reads a metrics CSV. The last header column and everything from its
// position onward in each row are dropped, and an alias column is appended.
func Parse(r io.Reader, alias string) ([]string, []model.SessionRecord, error) {
	reader := csv.NewReader(r)
	// The trailing column holds unquoted lists; rows are truncated below.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("missing header row")
		}
		return nil, nil, err
	}
	if len(header) == 0 {
		return nil, nil, fmt.Errorf("empty header row")
	}
	keep := len(header) - 1
	columns := make([]string, 0, keep+1)
	columns = append(columns, header[:keep]...)
	columns = append(columns, model.ColumnAlias)
	for _, name := range requiredColumns {
		if indexOf(columns, name) < 0 {
			return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	var records []model.SessionRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line++
		if len(row) < keep {
			return nil, nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, keep, len(row))
		}
		values := make([]string, 0, keep+1)
		values = append(values, row[:keep]...)
		values = append(values, alias)
		records = append(records, model.SessionRecord{Alias: alias, Values: values})
	}
	return columns, records, nil
}

func appendRecords(table *model.ModeTable, columns []string, records []model.SessionRecord) {
	if table.Columns == nil {
		table.Columns = columns
		table.Records = append(table.Records, records...)
		return
	}
	if sameColumns(table.Columns, columns) {
		table.Records = append(table.Records, records...)
		return
	}
	// Align differing headers by name; columns unknown to the table are dropped.
	for _, rec := range records {
		values := make([]string, len(table.Columns))
		for i, name := range table.Columns {
			if idx := indexOf(columns, name); idx >= 0 {
				values[i] = rec.Values[idx]
			}
		}
		table.Records = append(table.Records, model.SessionRecord{Alias: rec.Alias, Values: values})
	}
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
