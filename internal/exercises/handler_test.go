package exercises

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(repo *MockRepo) *mux.Router {
	router := mux.NewRouter()
	NewHandler(repo).SetupRoutes(router)
	return router
}

func TestHandleAdd(t *testing.T) {
	repo := NewMockRepo()
	router := testRouter(repo)

	exJson, err := json.Marshal(Exercise{Name: "Bench Press", MuscleGroup: "chest"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/users/1/exercises", bytes.NewReader(exJson))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var added Exercise
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, 1, added.ID)
	assert.Equal(t, 1, added.UserID)
	assert.Equal(t, "Bench Press", added.Name)

	// name is mandatory
	req = httptest.NewRequest("POST", "/users/1/exercises", bytes.NewReader([]byte(`{"muscleGroup":"chest"}`)))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleList_muscleGroupFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()
	router := testRouter(repo)

	for _, exercise := range []Exercise{
		{UserID: 1, Name: "Bench Press", MuscleGroup: "chest"},
		{UserID: 1, Name: "Squat", MuscleGroup: "legs"},
		{UserID: 1, Name: "Incline Press", MuscleGroup: "chest"},
		{UserID: 2, Name: "Deadlift", MuscleGroup: "back"},
	} {
		exercise.CreatedAt = time.Now()
		_, err := repo.Add(ctx, exercise)
		require.NoError(t, err)
	}

	req := httptest.NewRequest("GET", "/users/1/exercises?muscleGroup=chest", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var listed []Exercise
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "Bench Press", listed[0].Name)
	assert.Equal(t, "Incline Press", listed[1].Name)

	req = httptest.NewRequest("GET", "/users/1/exercises", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	assert.Len(t, listed, 3)
}

func TestHandleUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()
	router := testRouter(repo)

	added, err := repo.Add(ctx, Exercise{UserID: 1, Name: "Bench Press", MuscleGroup: "chest"})
	require.NoError(t, err)

	req := httptest.NewRequest("PATCH",
		fmt.Sprintf("/exercises/%d", added.ID),
		bytes.NewReader([]byte(`{"name":"Paused Bench Press"}`)),
	)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var updated Exercise
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Paused Bench Press", updated.Name)
	assert.Equal(t, "chest", updated.MuscleGroup)

	req = httptest.NewRequest("PATCH", "/exercises/999", bytes.NewReader([]byte(`{"name":"x"}`)))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()
	router := testRouter(repo)

	added, err := repo.Add(ctx, Exercise{UserID: 1, Name: "Bench Press", MuscleGroup: "chest"})
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/exercises/%d", added.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp DeleteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Deleted)

	// unknown ids are not an error
	req = httptest.NewRequest("DELETE", "/exercises/999", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Deleted)
}

func TestHandleDelete_inUse(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()
	router := testRouter(repo)

	added, err := repo.Add(ctx, Exercise{UserID: 1, Name: "Squat", MuscleGroup: "legs"})
	require.NoError(t, err)
	repo.Links[added.ID] = true

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/exercises/%d", added.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, repo.Exercises, added.ID)
}

func TestSeedDefaultCatalog(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()

	added, err := SeedDefaultCatalog(ctx, repo, 1)
	require.NoError(t, err)
	assert.Equal(t, len(defaultCatalog), added)

	seeded, err := repo.List(ctx, ListParams{UserID: 1})
	require.NoError(t, err)
	assert.Len(t, seeded, len(defaultCatalog))

	// seeding twice never duplicates the catalog
	added, err = SeedDefaultCatalog(ctx, repo, 1)
	require.NoError(t, err)
	assert.Zero(t, added)

	seeded, err = repo.List(ctx, ListParams{UserID: 1})
	require.NoError(t, err)
	assert.Len(t, seeded, len(defaultCatalog))
}
