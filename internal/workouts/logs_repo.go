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
	ErrWorkoutLogNotFound  = errors.New("workout log not found")
	ErrExerciseLogNotFound = errors.New("exercise log not found")
)

type LogsRepo struct {
	db *pgxpool.Pool
}

func NewLogsRepo(db *pgxpool.Pool) *LogsRepo {
	return &LogsRepo{db: db}
}

func (r *LogsRepo) Add(ctx context.Context, workoutLog WorkoutLog) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`INSERT INTO workout_log (user_id, workout_program_id, completed, created_at)
			VALUES ($1, $2, $3, $4) RETURNING id`,
		workoutLog.UserID, workoutLog.ProgramID, workoutLog.Completed, workoutLog.CreatedAt,
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
		workoutLog.ID = id
		return &workoutLog, nil
	}

	err = errors.New("unexpected error, failed to insert workout log")
	return nil, err
}

func (r *LogsRepo) Get(ctx context.Context, id int) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var workoutLog WorkoutLog
	err = r.db.QueryRow(ctx,
		`SELECT id, user_id, workout_program_id, completed, created_at
			FROM workout_log WHERE id = $1`, id,
	).Scan(
		&workoutLog.ID,
		&workoutLog.UserID,
		&workoutLog.ProgramID,
		&workoutLog.Completed,
		&workoutLog.CreatedAt,
	)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrWorkoutLogNotFound
		}
		return nil, fmt.Errorf("workout log [query row]: %w", err)
	}

	return &workoutLog, nil
}

func (r *LogsRepo) List(ctx context.Context, userID int) (_ []WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, workout_program_id, completed, created_at
			FROM workout_log WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("workout logs [query]: %w", err)
	}
	defer rows.Close()

	var workoutLogs []WorkoutLog
	for rows.Next() {
		var workoutLog WorkoutLog
		if err = rows.Scan(
			&workoutLog.ID,
			&workoutLog.UserID,
			&workoutLog.ProgramID,
			&workoutLog.Completed,
			&workoutLog.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("workout logs [rows scan]: %w", err)
		}
		workoutLogs = append(workoutLogs, workoutLog)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("workout logs [rows error]: %w", err)
	}

	return workoutLogs, nil
}

// Complete marks a session as done. The transition is one-way, a
// completed log stays completed. Completing an already completed log is
// a no-op.
func (r *LogsRepo) Complete(ctx context.Context, id int) (_ *WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsRepo.complete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `UPDATE workout_log SET completed = TRUE WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		err = ErrWorkoutLogNotFound
		return nil, err
	}

	return r.Get(ctx, id)
}

func (r *LogsRepo) Delete(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsRepo.delete")
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

	if _, err = tx.Exec(ctx, `DELETE FROM exercise_log WHERE workout_log_id = $1`, id); err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM workout_log WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *LogsRepo) AddExerciseLog(ctx context.Context, exerciseLog ExerciseLog) (_ *ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsRepo.addExerciseLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`INSERT INTO exercise_log
			(workout_log_id, exercise_id, set_number, reps, weight, duration, completed, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		exerciseLog.WorkoutLogID,
		exerciseLog.ExerciseID,
		exerciseLog.SetNumber,
		exerciseLog.Reps,
		exerciseLog.Weight,
		exerciseLog.Duration,
		exerciseLog.Completed,
		exerciseLog.CreatedAt,
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
		exerciseLog.ID = id
		return &exerciseLog, nil
	}

	err = errors.New("unexpected error, failed to insert exercise log")
	return nil, err
}

// GetExerciseLogs is the composite read: all sets of a session joined
// with their catalog entries, ordered by set number.
func (r *LogsRepo) GetExerciseLogs(ctx context.Context, workoutLogID int) (_ []ExerciseLogWithExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsRepo.getExerciseLogs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT
			el.id, el.workout_log_id, el.exercise_id, el.set_number,
			el.reps, el.weight, el.duration, el.completed, el.created_at,
			e.name, e.muscle_group
		FROM exercise_log el
		JOIN exercise e ON e.id = el.exercise_id
		WHERE el.workout_log_id = $1
		ORDER BY el.set_number`,
		workoutLogID,
	)
	if err != nil {
		return nil, fmt.Errorf("exercise logs [query]: %w", err)
	}
	defer rows.Close()

	var exerciseLogs []ExerciseLogWithExercise
	for rows.Next() {
		var elwe ExerciseLogWithExercise
		if err = rows.Scan(
			&elwe.ID,
			&elwe.WorkoutLogID,
			&elwe.ExerciseID,
			&elwe.SetNumber,
			&elwe.Reps,
			&elwe.Weight,
			&elwe.Duration,
			&elwe.Completed,
			&elwe.CreatedAt,
			&elwe.Name,
			&elwe.MuscleGroup,
		); err != nil {
			return nil, fmt.Errorf("exercise logs [rows scan]: %w", err)
		}
		exerciseLogs = append(exerciseLogs, elwe)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("exercise logs [rows error]: %w", err)
	}

	return exerciseLogs, nil
}

func (r *LogsRepo) UpdateExerciseLog(ctx context.Context, id int, update ExerciseLogUpdate) (_ *ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsRepo.updateExerciseLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sqlStmt, args := db.BuildUpdate("exercise_log", id, update.fields())
	if sqlStmt == "" {
		return r.getExerciseLog(ctx, id)
	}

	tag, err := r.db.Exec(ctx, sqlStmt, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		err = ErrExerciseLogNotFound
		return nil, err
	}

	return r.getExerciseLog(ctx, id)
}

func (r *LogsRepo) DeleteExerciseLog(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "logsRepo.deleteExerciseLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise_log WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *LogsRepo) getExerciseLog(ctx context.Context, id int) (*ExerciseLog, error) {
	var exerciseLog ExerciseLog
	err := r.db.QueryRow(ctx,
		`SELECT id, workout_log_id, exercise_id, set_number, reps, weight, duration, completed, created_at
			FROM exercise_log WHERE id = $1`, id,
	).Scan(
		&exerciseLog.ID,
		&exerciseLog.WorkoutLogID,
		&exerciseLog.ExerciseID,
		&exerciseLog.SetNumber,
		&exerciseLog.Reps,
		&exerciseLog.Weight,
		&exerciseLog.Duration,
		&exerciseLog.Completed,
		&exerciseLog.CreatedAt,
	)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrExerciseLogNotFound
		}
		return nil, fmt.Errorf("exercise log [query row]: %w", err)
	}

	return &exerciseLog, nil
}
