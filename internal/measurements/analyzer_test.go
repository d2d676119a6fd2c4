package measurements

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateChanges(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.March, d, 8, 0, 0, 0, time.UTC)
	}

	measurements := []Measurement{
		{ID: 1, UserID: 1, Type: "weight", Value: 80, Unit: "kg", CreatedAt: day(1)},
		{ID: 2, UserID: 1, Type: "weight", Value: 78, Unit: "kg", CreatedAt: day(5)},
		{ID: 3, UserID: 1, Type: "weight", Value: 78.5, Unit: "kg", CreatedAt: day(9)},
		{ID: 4, UserID: 1, Type: "bicep", Value: 36, Unit: "cm", CreatedAt: day(2)},
		{ID: 5, UserID: 1, Type: "bicep", Value: 36.5, Unit: "cm", CreatedAt: day(8)},
	}

	annotated := AnnotateChanges(measurements)
	require.Len(t, annotated, len(measurements))

	byID := make(map[int]MeasurementWithChange)
	for _, m := range annotated {
		byID[m.ID] = m
	}

	// newest weight: 78.5 after 78
	require.NotNil(t, byID[3].Change)
	assert.InDelta(t, 0.5, *byID[3].Change, 0.001)

	// 78 after 80
	require.NotNil(t, byID[2].Change)
	assert.InDelta(t, -2, *byID[2].Change, 0.001)

	// oldest per type carries no change at all
	assert.Nil(t, byID[1].Change)
	assert.Nil(t, byID[4].Change)

	// bicep deltas never mix with weight records
	require.NotNil(t, byID[5].Change)
	assert.InDelta(t, 0.5, *byID[5].Change, 0.001)

	// output is newest first across types
	expectedOrder := []int{3, 5, 2, 4, 1}
	for i, id := range expectedOrder {
		assert.Equal(t, id, annotated[i].ID)
	}
}

func TestAnnotateChanges_inputOrderIrrelevant(t *testing.T) {
	ts := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	shuffled := []Measurement{
		{ID: 2, Type: "weight", Value: 79, CreatedAt: ts.Add(24 * time.Hour)},
		{ID: 1, Type: "weight", Value: 80, CreatedAt: ts},
		{ID: 3, Type: "weight", Value: 78, CreatedAt: ts.Add(48 * time.Hour)},
	}

	annotated := AnnotateChanges(shuffled)
	require.Len(t, annotated, 3)

	assert.Equal(t, 3, annotated[0].ID)
	require.NotNil(t, annotated[0].Change)
	assert.InDelta(t, -1, *annotated[0].Change, 0.001)

	assert.Equal(t, 2, annotated[1].ID)
	require.NotNil(t, annotated[1].Change)
	assert.InDelta(t, -1, *annotated[1].Change, 0.001)

	assert.Equal(t, 1, annotated[2].ID)
	assert.Nil(t, annotated[2].Change)
}

func TestAnnotateChanges_sameTimestampOrderedByID(t *testing.T) {
	ts := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	measurements := []Measurement{
		{ID: 10, Type: "weight", Value: 81, CreatedAt: ts},
		{ID: 11, Type: "weight", Value: 80, CreatedAt: ts},
	}

	annotated := AnnotateChanges(measurements)
	require.Len(t, annotated, 2)

	// identical timestamps: the higher id counts as newer
	assert.Equal(t, 11, annotated[0].ID)
	require.NotNil(t, annotated[0].Change)
	assert.InDelta(t, -1, *annotated[0].Change, 0.001)
	assert.Nil(t, annotated[1].Change)
}

func TestAnnotateChanges_empty(t *testing.T) {
	assert.Empty(t, AnnotateChanges(nil))
	assert.Empty(t, AnnotateChanges([]Measurement{}))
}

func TestAnalyzerHistory_typeFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()
	analyzer := NewAnalyzer(repo)

	ts := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	for i, v := range []float64{80, 79, 78} {
		_, err := repo.Add(ctx, Measurement{
			UserID: 1, Type: "weight", Value: v, Unit: "kg",
			CreatedAt: ts.Add(time.Duration(i) * 24 * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := repo.Add(ctx, Measurement{
		UserID: 1, Type: "bicep", Value: 36, Unit: "cm", CreatedAt: ts,
	})
	require.NoError(t, err)

	history, err := analyzer.History(ctx, 1, "weight")
	require.NoError(t, err)
	require.Len(t, history, 3)
	for _, m := range history {
		assert.Equal(t, "weight", m.Type)
	}

	all, err := analyzer.History(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	// other users never leak in
	none, err := analyzer.History(ctx, 2, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}
