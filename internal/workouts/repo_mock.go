package workouts

import (
	"context"
	"sort"

	"github.com/M0narcHzZ/FitnessTracker/internal/db"
	"github.com/M0narcHzZ/FitnessTracker/internal/exercises"
)

// MockProgramsRepo is an in-memory programs repo used in handler tests.
// Catalog stands in for the exercise table so composite reads can join
// link rows with exercise names.
type MockProgramsRepo struct {
	Programs map[int]WorkoutProgram
	Links    map[int]WorkoutExercise
	Catalog  map[int]exercises.Exercise
	nextID   int
}

func NewMockProgramsRepo() *MockProgramsRepo {
	return &MockProgramsRepo{
		Programs: make(map[int]WorkoutProgram),
		Links:    make(map[int]WorkoutExercise),
		Catalog:  make(map[int]exercises.Exercise),
		nextID:   1,
	}
}

func (r *MockProgramsRepo) Add(_ context.Context, program WorkoutProgram) (*WorkoutProgram, error) {
	program.ID = r.nextID
	r.nextID++
	r.Programs[program.ID] = program
	return &program, nil
}

func (r *MockProgramsRepo) Get(_ context.Context, id int) (*WorkoutProgram, error) {
	program, ok := r.Programs[id]
	if !ok {
		return nil, ErrProgramNotFound
	}
	return &program, nil
}

func (r *MockProgramsRepo) List(_ context.Context, userID int) ([]WorkoutProgram, error) {
	var programs []WorkoutProgram
	for _, program := range r.Programs {
		if program.UserID == userID {
			programs = append(programs, program)
		}
	}
	sort.Slice(programs, func(i, j int) bool {
		return programs[i].ID > programs[j].ID
	})
	return programs, nil
}

func (r *MockProgramsRepo) Update(ctx context.Context, id int, update WorkoutProgramUpdate) (*WorkoutProgram, error) {
	program, ok := r.Programs[id]
	if !ok {
		return nil, ErrProgramNotFound
	}

	if sqlStmt, _ := db.BuildUpdate("workout_program", id, update.fields()); sqlStmt == "" {
		return r.Get(ctx, id)
	}

	if update.Name != nil {
		program.Name = *update.Name
	}
	if update.Description != nil {
		program.Description = *update.Description
	}
	if update.Color != nil {
		program.Color = *update.Color
	}
	if update.Duration != nil {
		program.Duration = *update.Duration
	}

	r.Programs[id] = program
	return &program, nil
}

func (r *MockProgramsRepo) Delete(_ context.Context, id int) (bool, error) {
	if _, ok := r.Programs[id]; !ok {
		return false, nil
	}
	for linkID, link := range r.Links {
		if link.ProgramID == id {
			delete(r.Links, linkID)
		}
	}
	delete(r.Programs, id)
	return true, nil
}

func (r *MockProgramsRepo) GetWithExercises(ctx context.Context, id int) (*ProgramWithExercises, error) {
	program, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	programExercises, err := r.ListExercises(ctx, id)
	if err != nil {
		return nil, err
	}
	if programExercises == nil {
		programExercises = []ProgramExercise{}
	}

	return &ProgramWithExercises{
		WorkoutProgram: *program,
		Exercises:      programExercises,
	}, nil
}

func (r *MockProgramsRepo) AddExercise(_ context.Context, link WorkoutExercise) (*WorkoutExercise, error) {
	link.ID = r.nextID
	r.nextID++
	r.Links[link.ID] = link
	return &link, nil
}

func (r *MockProgramsRepo) ListExercises(_ context.Context, programID int) ([]ProgramExercise, error) {
	var programExercises []ProgramExercise
	for _, link := range r.Links {
		if link.ProgramID != programID {
			continue
		}
		pe := ProgramExercise{WorkoutExercise: link}
		if catalogEntry, ok := r.Catalog[link.ExerciseID]; ok {
			pe.Name = catalogEntry.Name
			pe.MuscleGroup = catalogEntry.MuscleGroup
		}
		programExercises = append(programExercises, pe)
	}
	sort.Slice(programExercises, func(i, j int) bool {
		return programExercises[i].Order < programExercises[j].Order
	})
	return programExercises, nil
}

func (r *MockProgramsRepo) UpdateExercise(_ context.Context, id int, update WorkoutExerciseUpdate) (*WorkoutExercise, error) {
	link, ok := r.Links[id]
	if !ok {
		return nil, ErrWorkoutExerciseNotFound
	}

	if update.Sets != nil {
		link.Sets = *update.Sets
	}
	if update.Reps != nil {
		link.Reps = *update.Reps
	}
	if update.Duration != nil {
		link.Duration = *update.Duration
	}
	if update.Order != nil {
		link.Order = *update.Order
	}

	r.Links[id] = link
	return &link, nil
}

func (r *MockProgramsRepo) DeleteExercise(_ context.Context, id int) (bool, error) {
	if _, ok := r.Links[id]; !ok {
		return false, nil
	}
	delete(r.Links, id)
	return true, nil
}

// MockLogsRepo is an in-memory workout logs repo used in handler tests.
type MockLogsRepo struct {
	Logs         map[int]WorkoutLog
	ExerciseLogs map[int]ExerciseLog
	Catalog      map[int]exercises.Exercise
	nextID       int
}

func NewMockLogsRepo() *MockLogsRepo {
	return &MockLogsRepo{
		Logs:         make(map[int]WorkoutLog),
		ExerciseLogs: make(map[int]ExerciseLog),
		Catalog:      make(map[int]exercises.Exercise),
		nextID:       1,
	}
}

func (r *MockLogsRepo) Add(_ context.Context, workoutLog WorkoutLog) (*WorkoutLog, error) {
	workoutLog.ID = r.nextID
	r.nextID++
	r.Logs[workoutLog.ID] = workoutLog
	return &workoutLog, nil
}

func (r *MockLogsRepo) Get(_ context.Context, id int) (*WorkoutLog, error) {
	workoutLog, ok := r.Logs[id]
	if !ok {
		return nil, ErrWorkoutLogNotFound
	}
	return &workoutLog, nil
}

func (r *MockLogsRepo) List(_ context.Context, userID int) ([]WorkoutLog, error) {
	var workoutLogs []WorkoutLog
	for _, workoutLog := range r.Logs {
		if workoutLog.UserID == userID {
			workoutLogs = append(workoutLogs, workoutLog)
		}
	}
	sort.Slice(workoutLogs, func(i, j int) bool {
		return workoutLogs[i].ID > workoutLogs[j].ID
	})
	return workoutLogs, nil
}

func (r *MockLogsRepo) Complete(_ context.Context, id int) (*WorkoutLog, error) {
	workoutLog, ok := r.Logs[id]
	if !ok {
		return nil, ErrWorkoutLogNotFound
	}
	workoutLog.Completed = true
	r.Logs[id] = workoutLog
	return &workoutLog, nil
}

func (r *MockLogsRepo) Delete(_ context.Context, id int) (bool, error) {
	if _, ok := r.Logs[id]; !ok {
		return false, nil
	}
	for elID, el := range r.ExerciseLogs {
		if el.WorkoutLogID == id {
			delete(r.ExerciseLogs, elID)
		}
	}
	delete(r.Logs, id)
	return true, nil
}

func (r *MockLogsRepo) AddExerciseLog(_ context.Context, exerciseLog ExerciseLog) (*ExerciseLog, error) {
	exerciseLog.ID = r.nextID
	r.nextID++
	r.ExerciseLogs[exerciseLog.ID] = exerciseLog
	return &exerciseLog, nil
}

func (r *MockLogsRepo) GetExerciseLogs(_ context.Context, workoutLogID int) ([]ExerciseLogWithExercise, error) {
	var exerciseLogs []ExerciseLogWithExercise
	for _, exerciseLog := range r.ExerciseLogs {
		if exerciseLog.WorkoutLogID != workoutLogID {
			continue
		}
		elwe := ExerciseLogWithExercise{ExerciseLog: exerciseLog}
		if catalogEntry, ok := r.Catalog[exerciseLog.ExerciseID]; ok {
			elwe.Name = catalogEntry.Name
			elwe.MuscleGroup = catalogEntry.MuscleGroup
		}
		exerciseLogs = append(exerciseLogs, elwe)
	}
	sort.Slice(exerciseLogs, func(i, j int) bool {
		return exerciseLogs[i].SetNumber < exerciseLogs[j].SetNumber
	})
	return exerciseLogs, nil
}

func (r *MockLogsRepo) UpdateExerciseLog(_ context.Context, id int, update ExerciseLogUpdate) (*ExerciseLog, error) {
	exerciseLog, ok := r.ExerciseLogs[id]
	if !ok {
		return nil, ErrExerciseLogNotFound
	}

	if update.SetNumber != nil {
		exerciseLog.SetNumber = *update.SetNumber
	}
	if update.Reps != nil {
		exerciseLog.Reps = update.Reps
	}
	if update.Weight != nil {
		exerciseLog.Weight = update.Weight
	}
	if update.Duration != nil {
		exerciseLog.Duration = *update.Duration
	}
	if update.Completed != nil {
		exerciseLog.Completed = *update.Completed
	}

	r.ExerciseLogs[id] = exerciseLog
	return &exerciseLog, nil
}

func (r *MockLogsRepo) DeleteExerciseLog(_ context.Context, id int) (bool, error) {
	if _, ok := r.ExerciseLogs[id]; !ok {
		return false, nil
	}
	delete(r.ExerciseLogs, id)
	return true, nil
}
