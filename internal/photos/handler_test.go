package photos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/measurements"
	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/metrics"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandlerSetup(t *testing.T) (*MockRepo, *DiskStore, *mux.Router) {
	t.Helper()

	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	repo := NewMockRepo()
	router := mux.NewRouter()
	NewHandler(repo, store, metrics.NewTestManager()).SetupRoutes(router)

	return repo, store, router
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func TestHandleUpload_andGetFile(t *testing.T) {
	repo, _, router := testHandlerSetup(t)

	content := []byte("fake jpeg bytes")
	body, contentType := multipartBody(t, "front.jpg", content, map[string]string{
		"category": "front",
		"notes":    "after cut week 4",
	})

	req := httptest.NewRequest("POST", "/users/1/photos", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var added Photo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, 1, added.UserID)
	assert.Equal(t, "front", added.Category)
	assert.Equal(t, "after cut week 4", added.Notes)
	assert.NotEmpty(t, added.FilePath)
	assert.Nil(t, added.MeasurementID)
	require.Len(t, repo.Photos, 1)

	// stream the stored bytes back
	req = httptest.NewRequest("GET", fmt.Sprintf("/photos/%d/file", added.ID), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	served, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, content, served)
}

func TestHandleUpload_missingFile(t *testing.T) {
	_, _, router := testHandlerSetup(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("category", "front"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/users/1/photos", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleGet_measurementLink(t *testing.T) {
	ctx := context.Background()
	repo, _, router := testHandlerSetup(t)

	repo.Measurements[7] = measurements.Measurement{
		ID: 7, UserID: 1, Type: "weight", Value: 78, Unit: "kg", CreatedAt: time.Now(),
	}

	measurementID := 7
	linked, err := repo.Add(ctx, Photo{
		UserID: 1, FilePath: "user-1/a.jpg", MeasurementID: &measurementID, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	danglingID := 999
	dangling, err := repo.Add(ctx, Photo{
		UserID: 1, FilePath: "user-1/b.jpg", MeasurementID: &danglingID, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", fmt.Sprintf("/photos/%d", linked.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var pwm PhotoWithMeasurement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pwm))
	require.NotNil(t, pwm.Measurement)
	assert.InDelta(t, 78, pwm.Measurement.Value, 0.001)

	// a dangling link comes back without a measurement, never an error
	req = httptest.NewRequest("GET", fmt.Sprintf("/photos/%d", dangling.ID), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	pwm = PhotoWithMeasurement{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pwm))
	assert.Nil(t, pwm.Measurement)
	require.NotNil(t, pwm.MeasurementID)
	assert.Equal(t, danglingID, *pwm.MeasurementID)
}

func TestHandleList_categoryFilter(t *testing.T) {
	ctx := context.Background()
	repo, _, router := testHandlerSetup(t)

	now := time.Now()
	for i, category := range []string{"front", "side", "front"} {
		_, err := repo.Add(ctx, Photo{
			UserID: 1, FilePath: fmt.Sprintf("user-1/%d.jpg", i),
			Category: category, CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	req := httptest.NewRequest("GET", "/users/1/photos?category=front", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var listed []Photo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestHandleDelete_removesFile(t *testing.T) {
	ctx := context.Background()
	repo, store, router := testHandlerSetup(t)

	relPath, err := store.Save(ctx, 1, "front.jpg", bytes.NewReader([]byte("bytes")))
	require.NoError(t, err)

	added, err := repo.Add(ctx, Photo{UserID: 1, FilePath: relPath, CreatedAt: time.Now()})
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/photos/%d", added.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp DeleteResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Deleted)
	assert.Empty(t, repo.Photos)

	_, err = store.Open(ctx, relPath)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDiskStore_pathSafety(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	// directory parts in the client filename get stripped
	relPath, err := store.Save(ctx, 1, "../../etc/passwd", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	assert.Contains(t, relPath, "passwd")
	assert.NotContains(t, relPath, "..")

	// stored references never escape the root
	_, err = store.Open(ctx, "../outside.txt")
	assert.Error(t, err)
	assert.Error(t, store.Remove(ctx, "../outside.txt"))
}
