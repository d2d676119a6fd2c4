package workouts

import "time"

// WorkoutProgram is a user-defined training plan, an ordered set of
// exercise prescriptions.
type WorkoutProgram struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WorkoutExercise links a program to a catalog exercise with the
// program-specific prescription. Order is the 1-based sequence position
// within the program and defines execution order. The column it maps to
// is a reserved word, update statements quote it.
type WorkoutExercise struct {
	ID         int    `json:"id"`
	ProgramID  int    `json:"workoutProgramId"`
	ExerciseID int    `json:"exerciseId"`
	Sets       int    `json:"sets,omitempty"`
	Reps       int    `json:"reps,omitempty"`
	Duration   string `json:"duration,omitempty"`
	Order      int    `json:"order"`
}

// ProgramExercise is a WorkoutExercise joined with its catalog entry,
// as returned by the program-with-exercises composite read.
type ProgramExercise struct {
	WorkoutExercise
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
}

type ProgramWithExercises struct {
	WorkoutProgram
	Exercises []ProgramExercise `json:"exercises"`
}

type WorkoutProgramUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Duration    *string `json:"duration,omitempty"`
}

func (u WorkoutProgramUpdate) fields() map[string]any {
	fields := make(map[string]any)
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Color != nil {
		fields["color"] = *u.Color
	}
	if u.Duration != nil {
		fields["duration"] = *u.Duration
	}
	return fields
}

type WorkoutExerciseUpdate struct {
	Sets     *int    `json:"sets,omitempty"`
	Reps     *int    `json:"reps,omitempty"`
	Duration *string `json:"duration,omitempty"`
	Order    *int    `json:"order,omitempty"`
}

func (u WorkoutExerciseUpdate) fields() map[string]any {
	fields := make(map[string]any)
	if u.Sets != nil {
		fields["sets"] = *u.Sets
	}
	if u.Reps != nil {
		fields["reps"] = *u.Reps
	}
	if u.Duration != nil {
		fields["duration"] = *u.Duration
	}
	if u.Order != nil {
		fields["order"] = *u.Order
	}
	return fields
}
