package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/tracing"
	"github.com/M0narcHzZ/FitnessTracker/internal/users"
	"github.com/M0narcHzZ/FitnessTracker/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type exercisesRepo interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	Get(ctx context.Context, id int) (*Exercise, error)
	List(ctx context.Context, params ListParams) ([]Exercise, error)
	Update(ctx context.Context, id int, update ExerciseUpdate) (*Exercise, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type Handler struct {
	repo exercisesRepo
}

func NewHandler(repo exercisesRepo) *Handler {
	return &Handler{repo: repo}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userId}/exercises", handler.HandleAdd).Methods("POST", "OPTIONS")
	router.HandleFunc("/users/{userId}/exercises", handler.HandleList).Methods("GET", "OPTIONS")
	router.HandleFunc("/exercises/{id}", handler.HandleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/exercises/{id}", handler.HandleUpdate).Methods("PATCH", "PUT", "OPTIONS")
	router.HandleFunc("/exercises/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS")
}

type DeleteResponse struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercises.add")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var exercise Exercise
	if err := json.NewDecoder(r.Body).Decode(&exercise); err != nil {
		log.Errorf("add exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}

	if exercise.Name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}
	exercise.UserID = userID
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now()
	}

	added, err := handler.repo.Add(ctx, exercise)
	if err != nil {
		log.Errorf("failed to add exercise: %s", err)
		http.Error(w, "error, failed to add exercise", http.StatusInternalServerError)
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added exercise: %s", err)
		http.Error(w, "error, failed to add exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercises.get")
	defer span.End()

	id, err := exerciseIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exercise, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("get exercise %d: %s", id, err)
		http.Error(w, "failed to get exercise", http.StatusInternalServerError)
		return
	}

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("marshal exercise: %s", err)
		http.Error(w, "failed to get exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, exerciseJson)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercises.list")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exercisesList, err := handler.repo.List(ctx, ListParams{
		UserID:      userID,
		MuscleGroup: r.URL.Query().Get("muscleGroup"),
	})
	if err != nil {
		log.Errorf("list exercises for user %d: %s", userID, err)
		http.Error(w, "failed to list exercises", http.StatusInternalServerError)
		return
	}
	if exercisesList == nil {
		exercisesList = []Exercise{}
	}

	exercisesJson, err := json.Marshal(exercisesList)
	if err != nil {
		log.Errorf("marshal exercises: %s", err)
		http.Error(w, "failed to list exercises", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, exercisesJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercises.update")
	defer span.End()

	id, err := exerciseIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var update ExerciseUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update exercise, unmarshal json params: %s", err)
		http.Error(w, "update exercise failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("update exercise %d: %s", id, err)
		http.Error(w, "failed to update exercise", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("marshal updated exercise: %s", err)
		http.Error(w, "failed to update exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercises.delete")
	defer span.End()

	id, err := exerciseIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := handler.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExerciseInUse) {
			http.Error(w, "exercise is referenced by a workout program or log", http.StatusConflict)
			return
		}
		log.Errorf("delete exercise %d: %s", id, err)
		http.Error(w, "failed to delete exercise", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteResponse{ID: id, Deleted: deleted})
	if err != nil {
		log.Errorf("marshal delete exercise response: %s", err)
		http.Error(w, "failed to delete exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func exerciseIDFromRequest(r *http.Request) (int, error) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("exercise id NaN: [%s]", vars["id"])
	}
	return id, nil
}
