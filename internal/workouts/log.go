package workouts

import "time"

// WorkoutLog is one performed or in-progress training session. It has
// exactly two states: in progress and completed, and the only
// transition is Complete.
type WorkoutLog struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	ProgramID int       `json:"workoutProgramId"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExerciseLog is one set performed within a session. SetNumber is
// 1-based and unique within the (log, exercise) pair.
type ExerciseLog struct {
	ID           int       `json:"id"`
	WorkoutLogID int       `json:"workoutLogId"`
	ExerciseID   int       `json:"exerciseId"`
	SetNumber    int       `json:"setNumber"`
	Reps         *int      `json:"reps,omitempty"`
	Weight       *float64  `json:"weight,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ExerciseLogWithExercise joins a logged set with its catalog entry.
type ExerciseLogWithExercise struct {
	ExerciseLog
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
}

type ExerciseLogUpdate struct {
	SetNumber *int     `json:"setNumber,omitempty"`
	Reps      *int     `json:"reps,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Duration  *string  `json:"duration,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
}

func (u ExerciseLogUpdate) fields() map[string]any {
	fields := make(map[string]any)
	if u.SetNumber != nil {
		fields["setNumber"] = *u.SetNumber
	}
	if u.Reps != nil {
		fields["reps"] = *u.Reps
	}
	if u.Weight != nil {
		fields["weight"] = *u.Weight
	}
	if u.Duration != nil {
		fields["duration"] = *u.Duration
	}
	if u.Completed != nil {
		fields["completed"] = *u.Completed
	}
	return fields
}
