package photos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/metrics"
	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/tracing"
	"github.com/M0narcHzZ/FitnessTracker/internal/users"
	"github.com/M0narcHzZ/FitnessTracker/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// uploads above this size get rejected up front
const maxUploadedPhotoSize = 50 << 20

type photosRepo interface {
	Add(ctx context.Context, photo Photo) (*Photo, error)
	Get(ctx context.Context, id int) (*Photo, error)
	GetWithMeasurement(ctx context.Context, id int) (*PhotoWithMeasurement, error)
	List(ctx context.Context, params ListParams) ([]Photo, error)
	Update(ctx context.Context, id int, update PhotoUpdate) (*Photo, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type photosStore interface {
	Save(ctx context.Context, userID int, filename string, content io.Reader) (string, error)
	Open(ctx context.Context, relPath string) (io.ReadSeekCloser, error)
	Remove(ctx context.Context, relPath string) error
}

type Handler struct {
	repo    photosRepo
	store   photosStore
	metrics *metrics.Manager
}

func NewHandler(repo photosRepo, store photosStore, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		store:   store,
		metrics: metrics,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userId}/photos", handler.HandleUpload).Methods("POST", "OPTIONS")
	router.HandleFunc("/users/{userId}/photos", handler.HandleList).Methods("GET", "OPTIONS")
	router.HandleFunc("/photos/{id}", handler.HandleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/photos/{id}", handler.HandleUpdate).Methods("PATCH", "PUT", "OPTIONS")
	router.HandleFunc("/photos/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/photos/{id}/file", handler.HandleGetFile).Methods("GET", "OPTIONS")
}

type DeleteResponse struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}

func (handler *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "photos.upload")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxUploadedPhotoSize); err != nil {
		log.Errorf("upload photo, parse multipart form: %s", err)
		http.Error(w, "error, failed to parse upload", http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "error, photo file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	photo := Photo{
		UserID:    userID,
		Category:  r.FormValue("category"),
		Notes:     r.FormValue("notes"),
		CreatedAt: time.Now(),
	}
	if rawMeasurementID := r.FormValue("measurementId"); rawMeasurementID != "" {
		measurementID, err := strconv.Atoi(rawMeasurementID)
		if err != nil || measurementID < 1 {
			http.Error(w, fmt.Sprintf("measurement id NaN: [%s]", rawMeasurementID), http.StatusBadRequest)
			return
		}
		photo.MeasurementID = &measurementID
	}

	photo.FilePath, err = handler.store.Save(ctx, userID, fileHeader.Filename, file)
	if err != nil {
		log.Errorf("upload photo, save file: %s", err)
		http.Error(w, "error, failed to save photo", http.StatusInternalServerError)
		return
	}

	added, err := handler.repo.Add(ctx, photo)
	if err != nil {
		log.Errorf("failed to add photo: %s", err)
		// the record failed, do not keep the orphan file around
		if removeErr := handler.store.Remove(ctx, photo.FilePath); removeErr != nil {
			log.Errorf("failed to remove orphan photo file [%s]: %s", photo.FilePath, removeErr)
		}
		http.Error(w, "error, failed to add photo", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterPhotosUploaded.Inc()

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added photo: %s", err)
		http.Error(w, "error, failed to add photo", http.StatusInternalServerError)
		return
	}

	log.Debugf("photo %d uploaded for user %d: %s", added.ID, userID, added.FilePath)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "photos.get")
	defer span.End()

	id, err := photoIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	photo, err := handler.repo.GetWithMeasurement(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			http.Error(w, "photo not found", http.StatusNotFound)
			return
		}
		log.Errorf("get photo %d: %s", id, err)
		http.Error(w, "failed to get photo", http.StatusInternalServerError)
		return
	}

	photoJson, err := json.Marshal(photo)
	if err != nil {
		log.Errorf("marshal photo: %s", err)
		http.Error(w, "failed to get photo", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, photoJson)
}

func (handler *Handler) HandleGetFile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "photos.getFile")
	defer span.End()

	id, err := photoIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	photo, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Errorf("get photo %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	file, err := handler.store.Open(ctx, photo.FilePath)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Errorf("open photo file [%s]: %s", photo.FilePath, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	http.ServeContent(w, r, path.Base(photo.FilePath), photo.CreatedAt, file)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "photos.list")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	photosList, err := handler.repo.List(ctx, ListParams{
		UserID:   userID,
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		log.Errorf("list photos for user %d: %s", userID, err)
		http.Error(w, "failed to list photos", http.StatusInternalServerError)
		return
	}
	if photosList == nil {
		photosList = []Photo{}
	}

	photosJson, err := json.Marshal(photosList)
	if err != nil {
		log.Errorf("marshal photos: %s", err)
		http.Error(w, "failed to list photos", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, photosJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "photos.update")
	defer span.End()

	id, err := photoIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var update PhotoUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update photo, unmarshal json params: %s", err)
		http.Error(w, "update photo failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			http.Error(w, "photo not found", http.StatusNotFound)
			return
		}
		log.Errorf("update photo %d: %s", id, err)
		http.Error(w, "failed to update photo", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("marshal updated photo: %s", err)
		http.Error(w, "failed to update photo", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "photos.delete")
	defer span.End()

	id, err := photoIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	photo, err := handler.repo.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrPhotoNotFound) {
		log.Errorf("get photo %d before delete: %s", id, err)
		http.Error(w, "failed to delete photo", http.StatusInternalServerError)
		return
	}

	deleted, err := handler.repo.Delete(ctx, id)
	if err != nil {
		log.Errorf("delete photo %d: %s", id, err)
		http.Error(w, "failed to delete photo", http.StatusInternalServerError)
		return
	}

	if deleted && photo != nil {
		if err := handler.store.Remove(ctx, photo.FilePath); err != nil {
			// record is gone, the stray file is only noise
			log.Errorf("remove photo file [%s]: %s", photo.FilePath, err)
		}
	}

	respJson, err := json.Marshal(DeleteResponse{ID: id, Deleted: deleted})
	if err != nil {
		log.Errorf("marshal delete photo response: %s", err)
		http.Error(w, "failed to delete photo", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func photoIDFromRequest(r *http.Request) (int, error) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("photo id NaN: [%s]", vars["id"])
	}
	return id, nil
}
