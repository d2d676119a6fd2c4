package exercises

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// defaultCatalog is inserted for a user who has no exercises yet, so a
// fresh install is usable without manual catalog setup.
var defaultCatalog = []Exercise{
	{Name: "Bench Press", MuscleGroup: "chest"},
	{Name: "Incline Dumbbell Press", MuscleGroup: "chest"},
	{Name: "Squat", MuscleGroup: "legs"},
	{Name: "Leg Press", MuscleGroup: "legs"},
	{Name: "Deadlift", MuscleGroup: "back"},
	{Name: "Pull Up", MuscleGroup: "back"},
	{Name: "Barbell Row", MuscleGroup: "back"},
	{Name: "Overhead Press", MuscleGroup: "shoulders"},
	{Name: "Lateral Raise", MuscleGroup: "shoulders"},
	{Name: "Biceps Curl", MuscleGroup: "biceps"},
	{Name: "Triceps Pushdown", MuscleGroup: "triceps"},
	{Name: "Plank", MuscleGroup: "core"},
}

type exercisesAdder interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	List(ctx context.Context, params ListParams) ([]Exercise, error)
}

// SeedDefaultCatalog adds the default exercise catalog for the given
// user if they have no exercises at all. Returns the number of
// exercises added.
func SeedDefaultCatalog(ctx context.Context, repo exercisesAdder, userID int) (int, error) {
	existing, err := repo.List(ctx, ListParams{UserID: userID})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Tracef("user %d has %d exercises, skipping catalog seed", userID, len(existing))
		return 0, nil
	}

	now := time.Now()
	added := 0
	for _, exercise := range defaultCatalog {
		exercise.UserID = userID
		exercise.CreatedAt = now
		if _, err := repo.Add(ctx, exercise); err != nil {
			return added, err
		}
		added++
	}

	log.Debugf("seeded %d catalog exercises for user %d", added, userID)
	return added, nil
}
