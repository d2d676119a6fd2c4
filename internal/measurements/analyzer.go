package measurements

import (
	"context"
	"sort"

	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/tracing"
)

type measurementsLister interface {
	List(ctx context.Context, params ListParams) ([]Measurement, error)
}

// Analyzer derives measurement history views from raw measurement
// records. It never caches - history is recomputed per request so that
// edits and deletes are reflected immediately.
type Analyzer struct {
	repo measurementsLister
}

func NewAnalyzer(repo measurementsLister) *Analyzer {
	return &Analyzer{repo: repo}
}

// History returns the user's measurements newest-first, each annotated
// with the change relative to the previous measurement of the same
// type. Change is computed within a type only: a weight record is never
// compared against a bicep record. Records with identical timestamps
// are ordered by id, newer ids first.
func (a *Analyzer) History(ctx context.Context, userID int, measurementType string) ([]MeasurementWithChange, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "measurementsAnalyzer.history")
	var err error
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	measurements, err := a.repo.List(ctx, ListParams{
		UserID: userID,
		Type:   measurementType,
	})
	if err != nil {
		return nil, err
	}

	return AnnotateChanges(measurements), nil
}

// AnnotateChanges computes per-type deltas for a set of measurements.
// The input order is irrelevant, the output is newest-first. The oldest
// measurement of each type gets no change value.
func AnnotateChanges(measurements []Measurement) []MeasurementWithChange {
	annotated := make([]MeasurementWithChange, 0, len(measurements))

	byType := make(map[string][]Measurement)
	for _, m := range measurements {
		byType[m.Type] = append(byType[m.Type], m)
	}

	for _, sameType := range byType {
		sortNewestFirst(sameType)
		for i, m := range sameType {
			mwc := MeasurementWithChange{Measurement: m}
			if i < len(sameType)-1 {
				change := m.Value - sameType[i+1].Value
				mwc.Change = &change
			}
			annotated = append(annotated, mwc)
		}
	}

	sort.Slice(annotated, func(i, j int) bool {
		mi, mj := annotated[i].Measurement, annotated[j].Measurement
		if mi.CreatedAt.Equal(mj.CreatedAt) {
			return mi.ID > mj.ID
		}
		return mi.CreatedAt.After(mj.CreatedAt)
	})

	return annotated
}

func sortNewestFirst(measurements []Measurement) {
	sort.Slice(measurements, func(i, j int) bool {
		if measurements[i].CreatedAt.Equal(measurements[j].CreatedAt) {
			return measurements[i].ID > measurements[j].ID
		}
		return measurements[i].CreatedAt.After(measurements[j].CreatedAt)
	})
}
