package measurements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/metrics"
	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/tracing"
	"github.com/M0narcHzZ/FitnessTracker/internal/users"
	"github.com/M0narcHzZ/FitnessTracker/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type measurementsRepo interface {
	Add(ctx context.Context, m Measurement) (*Measurement, error)
	Get(ctx context.Context, id int) (*Measurement, error)
	List(ctx context.Context, params ListParams) ([]Measurement, error)
	Update(ctx context.Context, id int, update MeasurementUpdate) (*Measurement, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type historyProvider interface {
	History(ctx context.Context, userID int, measurementType string) ([]MeasurementWithChange, error)
}

type Handler struct {
	repo     measurementsRepo
	analyzer historyProvider
	metrics  *metrics.Manager
}

func NewHandler(repo measurementsRepo, analyzer historyProvider, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: analyzer,
		metrics:  metrics,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userId}/measurements", handler.HandleAdd).Methods("POST", "OPTIONS")
	router.HandleFunc("/users/{userId}/measurements", handler.HandleList).Methods("GET", "OPTIONS")
	router.HandleFunc("/users/{userId}/measurements/history", handler.HandleHistory).Methods("GET", "OPTIONS")
	router.HandleFunc("/measurements/{id}", handler.HandleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/measurements/{id}", handler.HandleUpdate).Methods("PATCH", "PUT", "OPTIONS")
	router.HandleFunc("/measurements/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS")
}

type DeleteResponse struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurements.add")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var m Measurement
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		log.Errorf("add measurement, unmarshal json params: %s", err)
		http.Error(w, "add measurement failed", http.StatusBadRequest)
		return
	}

	if m.Type == "" {
		http.Error(w, "error, measurement type empty", http.StatusBadRequest)
		return
	}
	m.UserID = userID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	added, err := handler.repo.Add(ctx, m)
	if err != nil {
		log.Errorf("failed to add measurement: %s", err)
		http.Error(w, "error, failed to add measurement", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterMeasurements.Inc()

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added measurement: %s", err)
		http.Error(w, "error, failed to add measurement", http.StatusInternalServerError)
		return
	}

	log.Tracef("measurement %d [%s] added for user %d", added.ID, added.Type, added.UserID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurements.get")
	defer span.End()

	id, err := measurementIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMeasurementNotFound) {
			http.Error(w, "measurement not found", http.StatusNotFound)
			return
		}
		log.Errorf("get measurement %d: %s", id, err)
		http.Error(w, "failed to get measurement", http.StatusInternalServerError)
		return
	}

	mJson, err := json.Marshal(m)
	if err != nil {
		log.Errorf("marshal measurement: %s", err)
		http.Error(w, "failed to get measurement", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, mJson)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurements.list")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := ListParams{
		UserID: userID,
		Type:   r.URL.Query().Get("type"),
	}
	if params.From, err = timeQueryParam(r, "from"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if params.To, err = timeQueryParam(r, "to"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	measurements, err := handler.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list measurements for user %d: %s", userID, err)
		http.Error(w, "failed to list measurements", http.StatusInternalServerError)
		return
	}
	if measurements == nil {
		measurements = []Measurement{}
	}

	measurementsJson, err := json.Marshal(measurements)
	if err != nil {
		log.Errorf("marshal measurements: %s", err)
		http.Error(w, "failed to list measurements", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, measurementsJson)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurements.history")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	history, err := handler.analyzer.History(ctx, userID, r.URL.Query().Get("type"))
	if err != nil {
		log.Errorf("measurement history for user %d: %s", userID, err)
		http.Error(w, "failed to get measurement history", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []MeasurementWithChange{}
	}

	historyJson, err := json.Marshal(history)
	if err != nil {
		log.Errorf("marshal measurement history: %s", err)
		http.Error(w, "failed to get measurement history", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, historyJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurements.update")
	defer span.End()

	id, err := measurementIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var update MeasurementUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update measurement, unmarshal json params: %s", err)
		http.Error(w, "update measurement failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrMeasurementNotFound) {
			http.Error(w, "measurement not found", http.StatusNotFound)
			return
		}
		log.Errorf("update measurement %d: %s", id, err)
		http.Error(w, "failed to update measurement", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("marshal updated measurement: %s", err)
		http.Error(w, "failed to update measurement", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "measurements.delete")
	defer span.End()

	id, err := measurementIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := handler.repo.Delete(ctx, id)
	if err != nil {
		log.Errorf("delete measurement %d: %s", id, err)
		http.Error(w, "failed to delete measurement", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteResponse{ID: id, Deleted: deleted})
	if err != nil {
		log.Errorf("marshal delete measurement response: %s", err)
		http.Error(w, "failed to delete measurement", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func measurementIDFromRequest(r *http.Request) (int, error) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("measurement id NaN: [%s]", vars["id"])
	}
	return id, nil
}

func timeQueryParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s timestamp: [%s]", name, raw)
	}
	return &t, nil
}
