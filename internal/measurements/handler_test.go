package measurements

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/metrics"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(repo *MockRepo) *mux.Router {
	handler := NewHandler(repo, NewAnalyzer(repo), metrics.NewTestManager())
	router := mux.NewRouter()
	handler.SetupRoutes(router)
	return router
}

func TestHandleAdd(t *testing.T) {
	repo := NewMockRepo()
	router := testRouter(repo)

	m := Measurement{Type: "weight", Value: 80.5, Unit: "kg"}
	mJson, err := json.Marshal(m)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/users/1/measurements", bytes.NewReader(mJson))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var added Measurement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, 1, added.ID)
	assert.Equal(t, 1, added.UserID)
	assert.Equal(t, "weight", added.Type)
	assert.InDelta(t, 80.5, added.Value, 0.001)
	assert.False(t, added.CreatedAt.IsZero())

	require.Len(t, repo.Measurements, 1)
}

func TestHandleAdd_invalid(t *testing.T) {
	router := testRouter(NewMockRepo())

	// missing type
	req := httptest.NewRequest("POST", "/users/1/measurements", bytes.NewReader([]byte(`{"value": 80}`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// bogus user id
	req = httptest.NewRequest("POST", "/users/nope/measurements", bytes.NewReader([]byte(`{"measurementType":"weight"}`)))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleList_typeFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()
	router := testRouter(repo)

	ts := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Add(ctx, Measurement{
			UserID: 1, Type: "weight", Value: 80 - float64(i), Unit: "kg",
			CreatedAt: ts.Add(time.Duration(i) * 24 * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := repo.Add(ctx, Measurement{UserID: 1, Type: "bicep", Value: 36, Unit: "cm", CreatedAt: ts})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/users/1/measurements?type=weight", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var listed []Measurement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 3)
	// newest first
	assert.Equal(t, 3, listed[0].ID)
	assert.Equal(t, 1, listed[2].ID)

	// range filter
	from := ts.Add(12 * time.Hour).Format(time.RFC3339)
	req = httptest.NewRequest("GET", fmt.Sprintf("/users/1/measurements?type=weight&from=%s", from), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestHandleHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()
	router := testRouter(repo)

	ts := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	for i, v := range []float64{80, 78} {
		_, err := repo.Add(ctx, Measurement{
			UserID: 1, Type: "weight", Value: v, Unit: "kg",
			CreatedAt: ts.Add(time.Duration(i) * 24 * time.Hour),
		})
		require.NoError(t, err)
	}

	req := httptest.NewRequest("GET", "/users/1/measurements/history?type=weight", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var history []MeasurementWithChange
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	require.Len(t, history, 2)

	require.NotNil(t, history[0].Change)
	assert.InDelta(t, -2, *history[0].Change, 0.001)
	assert.Nil(t, history[1].Change)
}

func TestHandleHistory_empty(t *testing.T) {
	router := testRouter(NewMockRepo())

	req := httptest.NewRequest("GET", "/users/1/measurements/history", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestHandleUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()
	router := testRouter(repo)

	added, err := repo.Add(ctx, Measurement{
		UserID: 1, Type: "weight", Value: 80, Unit: "kg", CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest("PATCH",
		fmt.Sprintf("/measurements/%d", added.ID),
		bytes.NewReader([]byte(`{"value": 79.2}`)),
	)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var updated Measurement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.InDelta(t, 79.2, updated.Value, 0.001)
	// untouched fields keep their values
	assert.Equal(t, "weight", updated.Type)
	assert.Equal(t, "kg", updated.Unit)

	// empty patch is a no-op, not an error
	req = httptest.NewRequest("PATCH",
		fmt.Sprintf("/measurements/%d", added.ID),
		bytes.NewReader([]byte(`{}`)),
	)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.InDelta(t, 79.2, updated.Value, 0.001)
}

func TestHandleUpdate_notFound(t *testing.T) {
	router := testRouter(NewMockRepo())

	req := httptest.NewRequest("PATCH", "/measurements/999", bytes.NewReader([]byte(`{"value": 1}`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepo()
	router := testRouter(repo)

	added, err := repo.Add(ctx, Measurement{UserID: 1, Type: "weight", Value: 80, CreatedAt: time.Now()})
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/measurements/%d", added.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp DeleteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Deleted)
	assert.Empty(t, repo.Measurements)

	// deleting an unknown id just reports false
	req = httptest.NewRequest("DELETE", "/measurements/999", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Deleted)
}
