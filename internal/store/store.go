// Package store holds the joined analysis table in an in-memory SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/verte-zerg/duelstudy/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the analysis table.
type Store struct {
	db *sql.DB
}

// Open creates an empty in-memory database and applies migrations.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis (
			id INTEGER PRIMARY KEY,
			alias TEXT NOT NULL,
			mode TEXT,
			game_ability REAL,
			enjoyment REAL,
			adaptability REAL,
			general_difficulty REAL,
			player_wins REAL,
			life_diff REAL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_mode ON analysis(mode);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAnalysis stores the joined rows in order.
func (s *Store) InsertAnalysis(ctx context.Context, rows []model.AnalysisRow) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO analysis (alias, mode, game_ability, enjoyment, adaptability, general_difficulty, player_wins, life_diff)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for _, row := range rows {
		var mode any
		var ability, enjoyment, adaptability, difficulty model.NullFloat
		if row.Survey != nil {
			if row.Survey.Mode != "" {
				mode = row.Survey.Mode
			}
			ability = row.Survey.GameAbility
			enjoyment = row.Survey.Enjoyment
			adaptability = row.Survey.Adaptability
			difficulty = row.Survey.GeneralDifficulty
		}
		if _, err = stmt.ExecContext(ctx,
			row.Alias,
			mode,
			nullable(ability),
			nullable(enjoyment),
			nullable(adaptability),
			nullable(difficulty),
			nullable(row.PlayerWins),
			nullable(row.LifeDiff),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// MeanByMode averages metric per reported mode. Null values are skipped and
// rows without a mode are excluded. Modes are ordered by label.
func (s *Store) MeanByMode(ctx context.Context, metric model.Metric) ([]model.GroupMean, error) {
	col, err := column(metric)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT mode, AVG(%[1]s), COUNT(%[1]s)
		FROM analysis
		WHERE mode IS NOT NULL
		GROUP BY mode
		ORDER BY mode ASC`, col)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.GroupMean
	for rows.Next() {
		var g model.GroupMean
		var mean sql.NullFloat64
		if err := rows.Scan(&g.Mode, &mean, &g.Count); err != nil {
			return nil, err
		}
		g.Mean = model.NullFloat{Value: mean.Float64, Valid: mean.Valid}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ValuesByMode returns the non-null values of metric per reported mode. Every
// mode present in the table gets a group, even when all its values are null.
func (s *Store) ValuesByMode(ctx context.Context, metric model.Metric) ([]model.GroupValues, error) {
	col, err := column(metric)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT mode, %s
		FROM analysis
		WHERE mode IS NOT NULL
		ORDER BY mode ASC, id ASC`, col)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.GroupValues
	for rows.Next() {
		var mode string
		var value sql.NullFloat64
		if err := rows.Scan(&mode, &value); err != nil {
			return nil, err
		}
		if len(result) == 0 || result[len(result)-1].Mode != mode {
			result = append(result, model.GroupValues{Mode: mode})
		}
		if value.Valid {
			last := &result[len(result)-1]
			last.Values = append(last.Values, value.Float64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountRows returns the number of stored analysis rows.
func (s *Store) CountRows(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analysis`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func column(metric model.Metric) (string, error) {
	for _, m := range model.Metrics() {
		if m == metric {
			return string(m), nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", metric)
}

func nullable(f model.NullFloat) any {
	if !f.Valid {
		return nil
	}
	return f.Value
}
