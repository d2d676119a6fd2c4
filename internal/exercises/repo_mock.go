package exercises

import (
	"context"
	"sort"

	"github.com/M0narcHzZ/FitnessTracker/internal/db"
)

// MockRepo is an in-memory exercises repo used in handler tests. Links
// and Logs mark exercise ids referenced by workout programs and logged
// sets, so delete-in-use behavior can be exercised without a database.
type MockRepo struct {
	Exercises map[int]Exercise
	Links     map[int]bool
	Logs      map[int]bool
	nextID    int
}

func NewMockRepo() *MockRepo {
	return &MockRepo{
		Exercises: make(map[int]Exercise),
		Links:     make(map[int]bool),
		Logs:      make(map[int]bool),
		nextID:    1,
	}
}

func (r *MockRepo) Add(_ context.Context, exercise Exercise) (*Exercise, error) {
	exercise.ID = r.nextID
	r.nextID++
	r.Exercises[exercise.ID] = exercise
	return &exercise, nil
}

func (r *MockRepo) Get(_ context.Context, id int) (*Exercise, error) {
	exercise, ok := r.Exercises[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return &exercise, nil
}

func (r *MockRepo) List(_ context.Context, params ListParams) ([]Exercise, error) {
	var exercisesList []Exercise
	for _, exercise := range r.Exercises {
		if exercise.UserID != params.UserID {
			continue
		}
		if params.MuscleGroup != "" && exercise.MuscleGroup != params.MuscleGroup {
			continue
		}
		exercisesList = append(exercisesList, exercise)
	}
	sort.Slice(exercisesList, func(i, j int) bool {
		return exercisesList[i].Name < exercisesList[j].Name
	})
	return exercisesList, nil
}

func (r *MockRepo) Update(ctx context.Context, id int, update ExerciseUpdate) (*Exercise, error) {
	exercise, ok := r.Exercises[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}

	if sqlStmt, _ := db.BuildUpdate("exercise", id, update.fields()); sqlStmt == "" {
		return r.Get(ctx, id)
	}

	if update.Name != nil {
		exercise.Name = *update.Name
	}
	if update.MuscleGroup != nil {
		exercise.MuscleGroup = *update.MuscleGroup
	}
	if update.Description != nil {
		exercise.Description = *update.Description
	}

	r.Exercises[id] = exercise
	return &exercise, nil
}

func (r *MockRepo) Delete(_ context.Context, id int) (bool, error) {
	if r.Links[id] || r.Logs[id] {
		return false, ErrExerciseInUse
	}
	if _, ok := r.Exercises[id]; !ok {
		return false, nil
	}
	delete(r.Exercises, id)
	return true, nil
}
