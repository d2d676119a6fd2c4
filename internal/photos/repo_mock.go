package photos

import (
	"context"
	"sort"

	"github.com/M0narcHzZ/FitnessTracker/internal/db"
	"github.com/M0narcHzZ/FitnessTracker/internal/measurements"
)

// MockRepo is an in-memory photos repo used in handler tests.
// Measurements stands in for the measurement table when resolving the
// weak link.
type MockRepo struct {
	Photos       map[int]Photo
	Measurements map[int]measurements.Measurement
	nextID       int
}

func NewMockRepo() *MockRepo {
	return &MockRepo{
		Photos:       make(map[int]Photo),
		Measurements: make(map[int]measurements.Measurement),
		nextID:       1,
	}
}

func (r *MockRepo) Add(_ context.Context, photo Photo) (*Photo, error) {
	photo.ID = r.nextID
	r.nextID++
	r.Photos[photo.ID] = photo
	return &photo, nil
}

func (r *MockRepo) Get(_ context.Context, id int) (*Photo, error) {
	photo, ok := r.Photos[id]
	if !ok {
		return nil, ErrPhotoNotFound
	}
	return &photo, nil
}

func (r *MockRepo) GetWithMeasurement(_ context.Context, id int) (*PhotoWithMeasurement, error) {
	photo, ok := r.Photos[id]
	if !ok {
		return nil, ErrPhotoNotFound
	}

	pwm := PhotoWithMeasurement{Photo: photo}
	if photo.MeasurementID != nil {
		if m, ok := r.Measurements[*photo.MeasurementID]; ok {
			pwm.Measurement = &m
		}
	}

	return &pwm, nil
}

func (r *MockRepo) List(_ context.Context, params ListParams) ([]Photo, error) {
	var photosList []Photo
	for _, photo := range r.Photos {
		if photo.UserID != params.UserID {
			continue
		}
		if params.Category != "" && photo.Category != params.Category {
			continue
		}
		photosList = append(photosList, photo)
	}
	sort.Slice(photosList, func(i, j int) bool {
		if photosList[i].CreatedAt.Equal(photosList[j].CreatedAt) {
			return photosList[i].ID > photosList[j].ID
		}
		return photosList[i].CreatedAt.After(photosList[j].CreatedAt)
	})
	return photosList, nil
}

func (r *MockRepo) Update(ctx context.Context, id int, update PhotoUpdate) (*Photo, error) {
	photo, ok := r.Photos[id]
	if !ok {
		return nil, ErrPhotoNotFound
	}

	if sqlStmt, _ := db.BuildUpdate("progress_photo", id, update.fields()); sqlStmt == "" {
		return r.Get(ctx, id)
	}

	if update.Category != nil {
		photo.Category = *update.Category
	}
	if update.Notes != nil {
		photo.Notes = *update.Notes
	}
	if update.MeasurementID != nil {
		photo.MeasurementID = update.MeasurementID
	}

	r.Photos[id] = photo
	return &photo, nil
}

func (r *MockRepo) Delete(_ context.Context, id int) (bool, error) {
	if _, ok := r.Photos[id]; !ok {
		return false, nil
	}
	delete(r.Photos, id)
	return true, nil
}
