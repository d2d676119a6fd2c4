package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/M0narcHzZ/FitnessTracker/internal/db"
	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/tracing"
	"github.com/M0narcHzZ/FitnessTracker/pkg"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	// ErrExerciseInUse is returned when a delete would orphan workout
	// program links or logged sets referencing the exercise.
	ErrExerciseInUse = errors.New("exercise is in use")
)

type ListParams struct {
	UserID      int
	MuscleGroup string
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercisesRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`INSERT INTO exercise (user_id, name, muscle_group, description, created_at)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		exercise.UserID, exercise.Name, exercise.MuscleGroup, exercise.Description, exercise.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		exercise.ID = id
		return &exercise, nil
	}

	err = errors.New("unexpected error, failed to insert exercise")
	return nil, err
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercisesRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exercise Exercise
	err = r.db.QueryRow(ctx,
		`SELECT id, user_id, name, muscle_group, description, created_at
			FROM exercise WHERE id = $1`, id,
	).Scan(
		&exercise.ID,
		&exercise.UserID,
		&exercise.Name,
		&exercise.MuscleGroup,
		&exercise.Description,
		&exercise.CreatedAt,
	)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("exercise [query row]: %w", err)
	}

	return &exercise, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercisesRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.MuscleGroup != "" {
		span.SetAttributes(attribute.String("params.muscleGroup", params.MuscleGroup))
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, muscle_group, description, created_at
			FROM exercise
			WHERE user_id = $1 AND ($2::text = '' OR muscle_group = $2)
			ORDER BY name`,
		params.UserID, params.MuscleGroup,
	)
	if err != nil {
		return nil, fmt.Errorf("exercises [query]: %w", err)
	}
	defer rows.Close()

	var exercisesList []Exercise
	for rows.Next() {
		var exercise Exercise
		if err = rows.Scan(
			&exercise.ID,
			&exercise.UserID,
			&exercise.Name,
			&exercise.MuscleGroup,
			&exercise.Description,
			&exercise.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("exercises [rows scan]: %w", err)
		}
		exercisesList = append(exercisesList, exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("exercises [rows error]: %w", err)
	}

	return exercisesList, nil
}

func (r *Repo) Update(ctx context.Context, id int, update ExerciseUpdate) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercisesRepo.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sqlStmt, args := db.BuildUpdate("exercise", id, update.fields())
	if sqlStmt == "" {
		return r.Get(ctx, id)
	}

	tag, err := r.db.Exec(ctx, sqlStmt, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		err = ErrExerciseNotFound
		return nil, err
	}

	return r.Get(ctx, id)
}

// Delete removes an exercise unless a workout program link or logged
// set still references it, in which case ErrExerciseInUse is returned.
// Deleting an unknown id reports false without an error.
func (r *Repo) Delete(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercisesRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var inUse bool
	err = r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM workout_exercise WHERE exercise_id = $1)
			OR EXISTS (SELECT 1 FROM exercise_log WHERE exercise_id = $1)`,
		id,
	).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("exercise in use [query row]: %w", err)
	}
	if inUse {
		err = ErrExerciseInUse
		return false, err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise WHERE id = $1`, id)
	if err != nil {
		// a link insert can slip in between the exists check and here
		if pkg.IsForeignKeyViolationError(err) {
			return false, ErrExerciseInUse
		}
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
