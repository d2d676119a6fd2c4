package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/M0narcHzZ/FitnessTracker/internal/db"
	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/tracing"
	"github.com/M0narcHzZ/FitnessTracker/pkg"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProgramNotFound         = errors.New("workout program not found")
	ErrWorkoutExerciseNotFound = errors.New("workout exercise not found")
)

type ProgramsRepo struct {
	db *pgxpool.Pool
}

func NewProgramsRepo(db *pgxpool.Pool) *ProgramsRepo {
	return &ProgramsRepo{db: db}
}

func (r *ProgramsRepo) Add(ctx context.Context, program WorkoutProgram) (_ *WorkoutProgram, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programsRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`INSERT INTO workout_program (user_id, name, description, color, duration, created_at)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		program.UserID, program.Name, program.Description, program.Color, program.Duration, program.CreatedAt,
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
		program.ID = id
		return &program, nil
	}

	err = errors.New("unexpected error, failed to insert workout program")
	return nil, err
}

func (r *ProgramsRepo) Get(ctx context.Context, id int) (_ *WorkoutProgram, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programsRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var program WorkoutProgram
	err = r.db.QueryRow(ctx,
		`SELECT id, user_id, name, description, color, duration, created_at
			FROM workout_program WHERE id = $1`, id,
	).Scan(
		&program.ID,
		&program.UserID,
		&program.Name,
		&program.Description,
		&program.Color,
		&program.Duration,
		&program.CreatedAt,
	)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("workout program [query row]: %w", err)
	}

	return &program, nil
}

func (r *ProgramsRepo) List(ctx context.Context, userID int) (_ []WorkoutProgram, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programsRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, description, color, duration, created_at
			FROM workout_program WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("workout programs [query]: %w", err)
	}
	defer rows.Close()

	var programs []WorkoutProgram
	for rows.Next() {
		var program WorkoutProgram
		if err = rows.Scan(
			&program.ID,
			&program.UserID,
			&program.Name,
			&program.Description,
			&program.Color,
			&program.Duration,
			&program.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("workout programs [rows scan]: %w", err)
		}
		programs = append(programs, program)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("workout programs [rows error]: %w", err)
	}

	return programs, nil
}

func (r *ProgramsRepo) Update(ctx context.Context, id int, update WorkoutProgramUpdate) (_ *WorkoutProgram, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programsRepo.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sqlStmt, args := db.BuildUpdate("workout_program", id, update.fields())
	if sqlStmt == "" {
		return r.Get(ctx, id)
	}

	tag, err := r.db.Exec(ctx, sqlStmt, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		err = ErrProgramNotFound
		return nil, err
	}

	return r.Get(ctx, id)
}

// Delete removes a program together with all of its exercise links, in
// one transaction so no orphaned links can survive.
func (r *ProgramsRepo) Delete(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programsRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM workout_exercise WHERE workout_program_id = $1`, id); err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM workout_program WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// GetWithExercises is the composite read: the program plus its links
// joined with their catalog entries, ordered by sequence position.
func (r *ProgramsRepo) GetWithExercises(ctx context.Context, id int) (_ *ProgramWithExercises, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programsRepo.getWithExercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	program, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exercises, err := r.ListExercises(ctx, id)
	if err != nil {
		return nil, err
	}
	if exercises == nil {
		exercises = []ProgramExercise{}
	}

	return &ProgramWithExercises{
		WorkoutProgram: *program,
		Exercises:      exercises,
	}, nil
}

func (r *ProgramsRepo) AddExercise(ctx context.Context, link WorkoutExercise) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programsRepo.addExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`INSERT INTO workout_exercise (workout_program_id, exercise_id, sets, reps, duration, "order")
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		link.ProgramID, link.ExerciseID, link.Sets, link.Reps, link.Duration, link.Order,
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
		link.ID = id
		return &link, nil
	}

	err = errors.New("unexpected error, failed to insert workout exercise")
	return nil, err
}

func (r *ProgramsRepo) ListExercises(ctx context.Context, programID int) (_ []ProgramExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programsRepo.listExercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT
			we.id, we.workout_program_id, we.exercise_id,
			we.sets, we.reps, we.duration, we."order",
			e.name, e.muscle_group
		FROM workout_exercise we
		JOIN exercise e ON e.id = we.exercise_id
		WHERE we.workout_program_id = $1
		ORDER BY we."order"`,
		programID,
	)
	if err != nil {
		return nil, fmt.Errorf("workout exercises [query]: %w", err)
	}
	defer rows.Close()

	var exercises []ProgramExercise
	for rows.Next() {
		var pe ProgramExercise
		if err = rows.Scan(
			&pe.ID,
			&pe.ProgramID,
			&pe.ExerciseID,
			&pe.Sets,
			&pe.Reps,
			&pe.Duration,
			&pe.Order,
			&pe.Name,
			&pe.MuscleGroup,
		); err != nil {
			return nil, fmt.Errorf("workout exercises [rows scan]: %w", err)
		}
		exercises = append(exercises, pe)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("workout exercises [rows error]: %w", err)
	}

	return exercises, nil
}

func (r *ProgramsRepo) UpdateExercise(ctx context.Context, id int, update WorkoutExerciseUpdate) (_ *WorkoutExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programsRepo.updateExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sqlStmt, args := db.BuildUpdate("workout_exercise", id, update.fields())
	if sqlStmt == "" {
		return r.getExercise(ctx, id)
	}

	tag, err := r.db.Exec(ctx, sqlStmt, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		err = ErrWorkoutExerciseNotFound
		return nil, err
	}

	return r.getExercise(ctx, id)
}

func (r *ProgramsRepo) DeleteExercise(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programsRepo.deleteExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_exercise WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *ProgramsRepo) getExercise(ctx context.Context, id int) (*WorkoutExercise, error) {
	var link WorkoutExercise
	err := r.db.QueryRow(ctx,
		`SELECT id, workout_program_id, exercise_id, sets, reps, duration, "order"
			FROM workout_exercise WHERE id = $1`, id,
	).Scan(
		&link.ID,
		&link.ProgramID,
		&link.ExerciseID,
		&link.Sets,
		&link.Reps,
		&link.Duration,
		&link.Order,
	)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrWorkoutExerciseNotFound
		}
		return nil, fmt.Errorf("workout exercise [query row]: %w", err)
	}

	return &link, nil
}
