//go:build integration_test || all_tests

package photos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/db"
	"github.com/M0narcHzZ/FitnessTracker/internal/measurements"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepoSetup(t *testing.T) (*Repo, *measurements.Repo, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "fitness_tracker",
		TracingEnabled: false,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = dbPool.Exec(ctx, `DELETE FROM progress_photo`)
	require.NoError(t, err)
	_, err = dbPool.Exec(ctx, `DELETE FROM measurement`)
	require.NoError(t, err)

	return NewRepo(dbPool), measurements.NewRepo(dbPool), func() {
		dbPool.Close()
	}
}

func TestRepo_DanglingMeasurementLink(t *testing.T) {
	repo, measurementsRepo, shutdown := testRepoSetup(t)
	defer shutdown()

	ctx := context.Background()
	now := time.Now()

	measurement, err := measurementsRepo.Add(ctx, measurements.Measurement{
		UserID: 1, Type: "weight", Value: 78, Unit: "kg", CreatedAt: now,
	})
	require.NoError(t, err)

	photo, err := repo.Add(ctx, Photo{
		UserID: 1, FilePath: "user-1/front.jpg", Category: "front",
		MeasurementID: &measurement.ID, CreatedAt: now,
	})
	require.NoError(t, err)

	pwm, err := repo.GetWithMeasurement(ctx, photo.ID)
	require.NoError(t, err)
	require.NotNil(t, pwm.Measurement)
	assert.InDelta(t, 78, pwm.Measurement.Value, 0.001)

	// the weak link is not protected, deleting the measurement is fine
	wasDeleted, err := measurementsRepo.Delete(ctx, measurement.ID)
	require.NoError(t, err)
	require.True(t, wasDeleted)

	// the photo still reads, the link just resolves to nothing
	pwm, err = repo.GetWithMeasurement(ctx, photo.ID)
	require.NoError(t, err)
	assert.Nil(t, pwm.Measurement)
	require.NotNil(t, pwm.MeasurementID)
	assert.Equal(t, measurement.ID, *pwm.MeasurementID)

	_, err = repo.Delete(ctx, photo.ID)
	require.NoError(t, err)
}
