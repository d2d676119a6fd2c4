package workouts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/exercises"
	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/metrics"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logsTestRouter(repo *MockLogsRepo) *mux.Router {
	router := mux.NewRouter()
	NewLogsHandler(repo, metrics.NewTestManager()).SetupRoutes(router)
	return router
}

func TestLogsHandleAdd(t *testing.T) {
	repo := NewMockLogsRepo()
	router := logsTestRouter(repo)

	logJson, err := json.Marshal(WorkoutLog{ProgramID: 5})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/users/1/workout-logs", bytes.NewReader(logJson))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var added WorkoutLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, 1, added.UserID)
	assert.Equal(t, 5, added.ProgramID)
	assert.False(t, added.Completed)

	// a session can never be created pre-completed
	logJson, err = json.Marshal(WorkoutLog{ProgramID: 5, Completed: true})
	require.NoError(t, err)
	req = httptest.NewRequest("POST", "/users/1/workout-logs", bytes.NewReader(logJson))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.False(t, added.Completed)
}

func TestLogsHandleComplete(t *testing.T) {
	ctx := context.Background()
	repo := NewMockLogsRepo()
	router := logsTestRouter(repo)

	added, err := repo.Add(ctx, WorkoutLog{UserID: 1, ProgramID: 5, CreatedAt: time.Now()})
	require.NoError(t, err)
	require.False(t, added.Completed)

	req := httptest.NewRequest("POST", fmt.Sprintf("/workout-logs/%d/complete", added.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var completed WorkoutLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &completed))
	assert.True(t, completed.Completed)

	// completing twice stays completed
	req = httptest.NewRequest("POST", fmt.Sprintf("/workout-logs/%d/complete", added.ID), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &completed))
	assert.True(t, completed.Completed)

	req = httptest.NewRequest("POST", "/workout-logs/999/complete", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLogsHandleAddExerciseLog(t *testing.T) {
	ctx := context.Background()
	repo := NewMockLogsRepo()
	router := logsTestRouter(repo)

	workoutLog, err := repo.Add(ctx, WorkoutLog{UserID: 1, ProgramID: 5, CreatedAt: time.Now()})
	require.NoError(t, err)

	reps := 8
	weight := 60.5
	elJson, err := json.Marshal(ExerciseLog{ExerciseID: 10, SetNumber: 1, Reps: &reps, Weight: &weight})
	require.NoError(t, err)

	req := httptest.NewRequest("POST",
		fmt.Sprintf("/workout-logs/%d/exercise-logs", workoutLog.ID), bytes.NewReader(elJson))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var added ExerciseLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, workoutLog.ID, added.WorkoutLogID)
	require.NotNil(t, added.Reps)
	assert.Equal(t, 8, *added.Reps)
	require.NotNil(t, added.Weight)
	assert.InDelta(t, 60.5, *added.Weight, 0.001)

	// set number is 1-based
	elJson, err = json.Marshal(ExerciseLog{ExerciseID: 10, SetNumber: 0})
	require.NoError(t, err)
	req = httptest.NewRequest("POST",
		fmt.Sprintf("/workout-logs/%d/exercise-logs", workoutLog.ID), bytes.NewReader(elJson))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogsHandleGetExerciseLogs_orderedBySetNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewMockLogsRepo()
	router := logsTestRouter(repo)

	repo.Catalog[10] = exercises.Exercise{ID: 10, Name: "Squat", MuscleGroup: "legs"}

	workoutLog, err := repo.Add(ctx, WorkoutLog{UserID: 1, ProgramID: 5, CreatedAt: time.Now()})
	require.NoError(t, err)

	for _, setNumber := range []int{3, 1, 2} {
		_, err = repo.AddExerciseLog(ctx, ExerciseLog{
			WorkoutLogID: workoutLog.ID, ExerciseID: 10, SetNumber: setNumber, CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	req := httptest.NewRequest("GET", fmt.Sprintf("/workout-logs/%d/exercise-logs", workoutLog.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var exerciseLogs []ExerciseLogWithExercise
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &exerciseLogs))
	require.Len(t, exerciseLogs, 3)
	for i, el := range exerciseLogs {
		assert.Equal(t, i+1, el.SetNumber)
		assert.Equal(t, "Squat", el.Name)
	}
}

func TestLogsHandleDelete_cascadesExerciseLogs(t *testing.T) {
	ctx := context.Background()
	repo := NewMockLogsRepo()
	router := logsTestRouter(repo)

	workoutLog, err := repo.Add(ctx, WorkoutLog{UserID: 1, ProgramID: 5, CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = repo.AddExerciseLog(ctx, ExerciseLog{WorkoutLogID: workoutLog.ID, ExerciseID: 10, SetNumber: 1})
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/workout-logs/%d", workoutLog.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp DeleteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Deleted)
	assert.Empty(t, repo.Logs)
	assert.Empty(t, repo.ExerciseLogs)
}

func TestLogsHandleUpdateExerciseLog(t *testing.T) {
	ctx := context.Background()
	repo := NewMockLogsRepo()
	router := logsTestRouter(repo)

	workoutLog, err := repo.Add(ctx, WorkoutLog{UserID: 1, ProgramID: 5, CreatedAt: time.Now()})
	require.NoError(t, err)
	reps := 8
	added, err := repo.AddExerciseLog(ctx, ExerciseLog{
		WorkoutLogID: workoutLog.ID, ExerciseID: 10, SetNumber: 1, Reps: &reps,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("PATCH",
		fmt.Sprintf("/exercise-logs/%d", added.ID),
		bytes.NewReader([]byte(`{"weight": 62.5, "completed": true}`)),
	)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var updated ExerciseLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.Weight)
	assert.InDelta(t, 62.5, *updated.Weight, 0.001)
	require.NotNil(t, updated.Reps)
	assert.Equal(t, 8, *updated.Reps)
}
