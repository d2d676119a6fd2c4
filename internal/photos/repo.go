package photos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/db"
	"github.com/M0narcHzZ/FitnessTracker/internal/measurements"
	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/tracing"
	"github.com/M0narcHzZ/FitnessTracker/pkg"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPhotoNotFound = errors.New("photo not found")

type ListParams struct {
	UserID   int
	Category string
}

// PhotoWithMeasurement is the composite read: the photo plus its linked
// measurement, nil when the photo has no link or the link dangles.
type PhotoWithMeasurement struct {
	Photo
	Measurement *measurements.Measurement `json:"measurement,omitempty"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, photo Photo) (_ *Photo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "photosRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`INSERT INTO progress_photo (user_id, file_path, category, notes, measurement_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		photo.UserID, photo.FilePath, photo.Category, photo.Notes, photo.MeasurementID, photo.CreatedAt,
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
		photo.ID = id
		return &photo, nil
	}

	err = errors.New("unexpected error, failed to insert photo")
	return nil, err
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Photo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "photosRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var photo Photo
	err = r.db.QueryRow(ctx,
		`SELECT id, user_id, file_path, category, notes, measurement_id, created_at
			FROM progress_photo WHERE id = $1`, id,
	).Scan(
		&photo.ID,
		&photo.UserID,
		&photo.FilePath,
		&photo.Category,
		&photo.Notes,
		&photo.MeasurementID,
		&photo.CreatedAt,
	)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("photo [query row]: %w", err)
	}

	return &photo, nil
}

// GetWithMeasurement resolves the weak measurement link via a left
// join, so a dangling reference simply comes back without a
// measurement instead of failing.
func (r *Repo) GetWithMeasurement(ctx context.Context, id int) (_ *PhotoWithMeasurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "photosRepo.getWithMeasurement")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var pwm PhotoWithMeasurement
	var mID, mUserID *int
	var mType, mUnit *string
	var mValue *float64
	var mCreatedAt *time.Time
	err = r.db.QueryRow(ctx,
		`SELECT
			p.id, p.user_id, p.file_path, p.category, p.notes, p.measurement_id, p.created_at,
			m.id, m.user_id, m.measurement_type, m.value, m.unit, m.created_at
		FROM progress_photo p
		LEFT JOIN measurement m ON m.id = p.measurement_id
		WHERE p.id = $1`, id,
	).Scan(
		&pwm.ID,
		&pwm.UserID,
		&pwm.FilePath,
		&pwm.Category,
		&pwm.Notes,
		&pwm.MeasurementID,
		&pwm.CreatedAt,
		&mID, &mUserID, &mType, &mValue, &mUnit, &mCreatedAt,
	)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("photo with measurement [query row]: %w", err)
	}

	if mID != nil {
		pwm.Measurement = &measurements.Measurement{
			ID:        *mID,
			UserID:    *mUserID,
			Type:      *mType,
			Value:     *mValue,
			Unit:      *mUnit,
			CreatedAt: *mCreatedAt,
		}
	}

	return &pwm, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Photo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "photosRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, file_path, category, notes, measurement_id, created_at
			FROM progress_photo
			WHERE user_id = $1 AND ($2::text = '' OR category = $2)
			ORDER BY created_at DESC, id DESC`,
		params.UserID, params.Category,
	)
	if err != nil {
		return nil, fmt.Errorf("photos [query]: %w", err)
	}
	defer rows.Close()

	var photosList []Photo
	for rows.Next() {
		var photo Photo
		if err = rows.Scan(
			&photo.ID,
			&photo.UserID,
			&photo.FilePath,
			&photo.Category,
			&photo.Notes,
			&photo.MeasurementID,
			&photo.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("photos [rows scan]: %w", err)
		}
		photosList = append(photosList, photo)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("photos [rows error]: %w", err)
	}

	return photosList, nil
}

func (r *Repo) Update(ctx context.Context, id int, update PhotoUpdate) (_ *Photo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "photosRepo.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sqlStmt, args := db.BuildUpdate("progress_photo", id, update.fields())
	if sqlStmt == "" {
		return r.Get(ctx, id)
	}

	tag, err := r.db.Exec(ctx, sqlStmt, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		err = ErrPhotoNotFound
		return nil, err
	}

	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "photosRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM progress_photo WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
