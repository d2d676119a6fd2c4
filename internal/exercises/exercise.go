package exercises

import "time"

// Exercise is a catalog entry the user can reference from workout
// programs and logs, e.g. "Bench Press".
type Exercise struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscleGroup"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ExerciseUpdate is a sparse patch, nil fields stay untouched.
type ExerciseUpdate struct {
	Name        *string `json:"name,omitempty"`
	MuscleGroup *string `json:"muscleGroup,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (u ExerciseUpdate) fields() map[string]any {
	fields := make(map[string]any)
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.MuscleGroup != nil {
		fields["muscleGroup"] = *u.MuscleGroup
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	return fields
}
