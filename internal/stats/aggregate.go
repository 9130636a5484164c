// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"sort"

	"github.com/verte-zerg/duelstudy/internal/model"
)

type accumulator struct {
	wins     int
	lifeSum  int
	sessions int
}

// Aggregate computes each participant's mean win rate and mean life
// differential in table. Results are ordered by alias.
func Aggregate(table *model.ModeTable) ([]model.ParticipantAggregate, error) {
	groups := map[string]*accumulator{}
	for i, rec := range table.Records {
		if !rec.Derived {
			return nil, fmt.Errorf("%s row %d: outcome flags not derived", table.Mode, i)
		}
		acc, ok := groups[rec.Alias]
		if !ok {
			acc = &accumulator{}
			groups[rec.Alias] = acc
		}
		if rec.Outcome.PlayerWon {
			acc.wins++
		}
		acc.lifeSum += rec.Outcome.LifeDiff
		acc.sessions++
	}

	aliases := make([]string, 0, len(groups))
	for alias := range groups {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	out := make([]model.ParticipantAggregate, 0, len(aliases))
	for _, alias := range aliases {
		acc := groups[alias]
		n := float64(acc.sessions)
		out = append(out, model.ParticipantAggregate{
			Alias:      alias,
			Mode:       table.Mode,
			Sessions:   acc.sessions,
			PlayerWins: float64(acc.wins) / n,
			LifeDiff:   float64(acc.lifeSum) / n,
		})
	}
	return out, nil
}

// AggregateAll aggregates every table and concatenates the results in table order.
func AggregateAll(tables []*model.ModeTable) ([]model.ParticipantAggregate, error) {
	parts := make([][]model.ParticipantAggregate, 0, len(tables))
	for _, table := range tables {
		aggs, err := Aggregate(table)
		if err != nil {
			return nil, err
		}
		parts = append(parts, aggs)
	}
	return Concat(parts...), nil
}

// Concat joins per-mode aggregates, keeping their order.
func Concat(parts ...[]model.ParticipantAggregate) []model.ParticipantAggregate {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]model.ParticipantAggregate, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// OuterJoin joins survey records with aggregates on alias. Rows are ordered by
// alias; an alias matched on both sides yields every pairing of its rows.
// Unmatched survey rows get null aggregates and unmatched aggregates get a
// nil survey.
func OuterJoin(surveys []model.SurveyRecord, aggs []model.ParticipantAggregate) []model.AnalysisRow {
	left := map[string][]int{}
	right := map[string][]int{}
	var keys []string
	seen := map[string]struct{}{}
	addKey := func(alias string) {
		if _, ok := seen[alias]; ok {
			return
		}
		seen[alias] = struct{}{}
		keys = append(keys, alias)
	}
	for i, s := range surveys {
		left[s.Alias] = append(left[s.Alias], i)
		addKey(s.Alias)
	}
	for i, a := range aggs {
		right[a.Alias] = append(right[a.Alias], i)
		addKey(a.Alias)
	}
	sort.Strings(keys)

	var rows []model.AnalysisRow
	for _, alias := range keys {
		ls := left[alias]
		rs := right[alias]
		switch {
		case len(rs) == 0:
			for _, li := range ls {
				rec := surveys[li]
				rows = append(rows, model.AnalysisRow{Alias: alias, Survey: &rec})
			}
		case len(ls) == 0:
			for _, ri := range rs {
				rows = append(rows, joined(alias, nil, aggs[ri]))
			}
		default:
			for _, li := range ls {
				for _, ri := range rs {
					rec := surveys[li]
					rows = append(rows, joined(alias, &rec, aggs[ri]))
				}
			}
		}
	}
	return rows
}

func joined(alias string, survey *model.SurveyRecord, agg model.ParticipantAggregate) model.AnalysisRow {
	return model.AnalysisRow{
		Alias:      alias,
		Survey:     survey,
		PlayerWins: model.Float(agg.PlayerWins),
		LifeDiff:   model.Float(agg.LifeDiff),
	}
}
