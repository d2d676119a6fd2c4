package measurements

import (
	"context"
	"errors"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/db"
	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/tracing"
	"github.com/M0narcHzZ/FitnessTracker/pkg"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMeasurementNotFound = errors.New("measurement not found")

// ListParams narrows a measurement listing. Zero values mean "no
// filter" for that dimension.
type ListParams struct {
	UserID int
	Type   string
	From   *time.Time
	To     *time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Add(ctx context.Context, m Measurement) (*Measurement, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "measurementsRepo.add")
	var err error
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`INSERT INTO measurement (user_id, measurement_type, value, unit, created_at)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.UserID, m.Type, m.Value, m.Unit, m.CreatedAt,
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
		m.ID = id
		return &m, nil
	}

	err = errors.New("unexpected error, failed to insert measurement")
	return nil, err
}

func (r *Repo) Get(ctx context.Context, id int) (*Measurement, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "measurementsRepo.get")
	var err error
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var m Measurement
	err = r.db.QueryRow(ctx,
		`SELECT id, user_id, measurement_type, value, unit, created_at
			FROM measurement WHERE id = $1`, id,
	).Scan(&m.ID, &m.UserID, &m.Type, &m.Value, &m.Unit, &m.CreatedAt)
	if err != nil {
		if pkg.IsNoRowsError(err) {
			return nil, ErrMeasurementNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]Measurement, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "measurementsRepo.list")
	var err error
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, measurement_type, value, unit, created_at
			FROM measurement
			WHERE user_id = $1
				AND ($2::text = '' OR measurement_type = $2)
				AND ($3::timestamptz IS NULL OR created_at >= $3)
				AND ($4::timestamptz IS NULL OR created_at <= $4)
			ORDER BY created_at DESC, id DESC`,
		params.UserID, params.Type, params.From, params.To,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var measurements []Measurement
	for rows.Next() {
		var m Measurement
		if err = rows.Scan(&m.ID, &m.UserID, &m.Type, &m.Value, &m.Unit, &m.CreatedAt); err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return measurements, nil
}

// Update applies a sparse patch. An empty patch is a no-op and simply
// returns the current record.
func (r *Repo) Update(ctx context.Context, id int, update MeasurementUpdate) (*Measurement, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "measurementsRepo.update")
	var err error
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sqlStmt, args := db.BuildUpdate("measurement", id, update.fields())
	if sqlStmt == "" {
		return r.Get(ctx, id)
	}

	tag, err := r.db.Exec(ctx, sqlStmt, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		err = ErrMeasurementNotFound
		return nil, err
	}

	return r.Get(ctx, id)
}

// Delete reports whether a record was actually removed. Deleting an
// unknown id is not an error.
func (r *Repo) Delete(ctx context.Context, id int) (bool, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "measurementsRepo.delete")
	var err error
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM measurement WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
