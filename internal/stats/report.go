// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/duelstudy/internal/model"
	"github.com/verte-zerg/duelstudy/internal/store"
)

// Report contains precomputed per-mode data for rendering.
type Report struct {
	Rows   []model.AnalysisRow
	Means  map[model.Metric][]model.GroupMean
	Values map[model.Metric][]model.GroupValues
}

// BuildReport loads the joined rows into st and queries the per-mode
// statistics of every metric.
func BuildReport(ctx context.Context, st *store.Store, rows []model.AnalysisRow) (Report, error) {
	if err := st.InsertAnalysis(ctx, rows); err != nil {
		return Report{}, err
	}
	report := Report{
		Rows:   rows,
		Means:  make(map[model.Metric][]model.GroupMean),
		Values: make(map[model.Metric][]model.GroupValues),
	}
	for _, metric := range model.Metrics() {
		means, err := st.MeanByMode(ctx, metric)
		if err != nil {
			return Report{}, err
		}
		values, err := st.ValuesByMode(ctx, metric)
		if err != nil {
			return Report{}, err
		}
		report.Means[metric] = means
		report.Values[metric] = values
	}
	return report, nil
}
