package measurements

import (
	"context"
	"sort"

	"github.com/M0narcHzZ/FitnessTracker/internal/db"
)

// MockRepo is an in-memory measurements repo used in handler and
// analyzer tests.
type MockRepo struct {
	Measurements map[int]Measurement
	nextID       int
}

func NewMockRepo() *MockRepo {
	return &MockRepo{
		Measurements: make(map[int]Measurement),
		nextID:       1,
	}
}

func (r *MockRepo) Add(_ context.Context, m Measurement) (*Measurement, error) {
	m.ID = r.nextID
	r.nextID++
	r.Measurements[m.ID] = m
	return &m, nil
}

func (r *MockRepo) Get(_ context.Context, id int) (*Measurement, error) {
	m, ok := r.Measurements[id]
	if !ok {
		return nil, ErrMeasurementNotFound
	}
	return &m, nil
}

func (r *MockRepo) List(_ context.Context, params ListParams) ([]Measurement, error) {
	var measurements []Measurement
	for _, m := range r.Measurements {
		if m.UserID != params.UserID {
			continue
		}
		if params.Type != "" && m.Type != params.Type {
			continue
		}
		if params.From != nil && m.CreatedAt.Before(*params.From) {
			continue
		}
		if params.To != nil && m.CreatedAt.After(*params.To) {
			continue
		}
		measurements = append(measurements, m)
	}

	sort.Slice(measurements, func(i, j int) bool {
		if measurements[i].CreatedAt.Equal(measurements[j].CreatedAt) {
			return measurements[i].ID > measurements[j].ID
		}
		return measurements[i].CreatedAt.After(measurements[j].CreatedAt)
	})

	return measurements, nil
}

func (r *MockRepo) Update(ctx context.Context, id int, update MeasurementUpdate) (*Measurement, error) {
	m, ok := r.Measurements[id]
	if !ok {
		return nil, ErrMeasurementNotFound
	}

	// mirror the SQL path: an empty patch changes nothing
	if sqlStmt, _ := db.BuildUpdate("measurement", id, update.fields()); sqlStmt == "" {
		return r.Get(ctx, id)
	}

	if update.Type != nil {
		m.Type = *update.Type
	}
	if update.Value != nil {
		m.Value = *update.Value
	}
	if update.Unit != nil {
		m.Unit = *update.Unit
	}
	if update.CreatedAt != nil {
		m.CreatedAt = *update.CreatedAt
	}

	r.Measurements[id] = m
	return &m, nil
}

func (r *MockRepo) Delete(_ context.Context, id int) (bool, error) {
	if _, ok := r.Measurements[id]; !ok {
		return false, nil
	}
	delete(r.Measurements, id)
	return true, nil
}
