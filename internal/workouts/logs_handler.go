package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/metrics"
	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/tracing"
	"github.com/M0narcHzZ/FitnessTracker/internal/users"
	"github.com/M0narcHzZ/FitnessTracker/pkg"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type logsRepo interface {
	Add(ctx context.Context, workoutLog WorkoutLog) (*WorkoutLog, error)
	Get(ctx context.Context, id int) (*WorkoutLog, error)
	List(ctx context.Context, userID int) ([]WorkoutLog, error)
	Complete(ctx context.Context, id int) (*WorkoutLog, error)
	Delete(ctx context.Context, id int) (bool, error)
	AddExerciseLog(ctx context.Context, exerciseLog ExerciseLog) (*ExerciseLog, error)
	GetExerciseLogs(ctx context.Context, workoutLogID int) ([]ExerciseLogWithExercise, error)
	UpdateExerciseLog(ctx context.Context, id int, update ExerciseLogUpdate) (*ExerciseLog, error)
	DeleteExerciseLog(ctx context.Context, id int) (bool, error)
}

type LogsHandler struct {
	repo    logsRepo
	metrics *metrics.Manager
}

func NewLogsHandler(repo logsRepo, metrics *metrics.Manager) *LogsHandler {
	return &LogsHandler{
		repo:    repo,
		metrics: metrics,
	}
}

func (handler *LogsHandler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userId}/workout-logs", handler.HandleAdd).Methods("POST", "OPTIONS")
	router.HandleFunc("/users/{userId}/workout-logs", handler.HandleList).Methods("GET", "OPTIONS")
	router.HandleFunc("/workout-logs/{id}", handler.HandleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/workout-logs/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/workout-logs/{id}/complete", handler.HandleComplete).Methods("POST", "OPTIONS")
	router.HandleFunc("/workout-logs/{id}/exercise-logs", handler.HandleAddExerciseLog).Methods("POST", "OPTIONS")
	router.HandleFunc("/workout-logs/{id}/exercise-logs", handler.HandleGetExerciseLogs).Methods("GET", "OPTIONS")
	router.HandleFunc("/exercise-logs/{id}", handler.HandleUpdateExerciseLog).Methods("PATCH", "PUT", "OPTIONS")
	router.HandleFunc("/exercise-logs/{id}", handler.HandleDeleteExerciseLog).Methods("DELETE", "OPTIONS")
}

func (handler *LogsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutLogs.add")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var workoutLog WorkoutLog
	if err := json.NewDecoder(r.Body).Decode(&workoutLog); err != nil {
		log.Errorf("add workout log, unmarshal json params: %s", err)
		http.Error(w, "add workout log failed", http.StatusBadRequest)
		return
	}

	if workoutLog.ProgramID < 1 {
		http.Error(w, "error, workout program id missing", http.StatusBadRequest)
		return
	}
	workoutLog.UserID = userID
	// a new session always starts in progress
	workoutLog.Completed = false
	if workoutLog.CreatedAt.IsZero() {
		workoutLog.CreatedAt = time.Now()
	}

	added, err := handler.repo.Add(ctx, workoutLog)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			http.Error(w, "workout program not found", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add workout log: %s", err)
		http.Error(w, "error, failed to add workout log", http.StatusInternalServerError)
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added workout log: %s", err)
		http.Error(w, "error, failed to add workout log", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *LogsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutLogs.get")
	defer span.End()

	id, err := idFromRequest(r, "workout log")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workoutLog, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutLogNotFound) {
			http.Error(w, "workout log not found", http.StatusNotFound)
			return
		}
		log.Errorf("get workout log %d: %s", id, err)
		http.Error(w, "failed to get workout log", http.StatusInternalServerError)
		return
	}

	logJson, err := json.Marshal(workoutLog)
	if err != nil {
		log.Errorf("marshal workout log: %s", err)
		http.Error(w, "failed to get workout log", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, logJson)
}

func (handler *LogsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutLogs.list")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	workoutLogs, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list workout logs for user %d: %s", userID, err)
		http.Error(w, "failed to list workout logs", http.StatusInternalServerError)
		return
	}
	if workoutLogs == nil {
		workoutLogs = []WorkoutLog{}
	}

	logsJson, err := json.Marshal(workoutLogs)
	if err != nil {
		log.Errorf("marshal workout logs: %s", err)
		http.Error(w, "failed to list workout logs", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, logsJson)
}

func (handler *LogsHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutLogs.complete")
	defer span.End()

	id, err := idFromRequest(r, "workout log")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	completed, err := handler.repo.Complete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutLogNotFound) {
			http.Error(w, "workout log not found", http.StatusNotFound)
			return
		}
		log.Errorf("complete workout log %d: %s", id, err)
		http.Error(w, "failed to complete workout log", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterWorkoutsCompleted.Inc()

	completedJson, err := json.Marshal(completed)
	if err != nil {
		log.Errorf("marshal completed workout log: %s", err)
		http.Error(w, "failed to complete workout log", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout log %d completed", id)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, completedJson)
}

func (handler *LogsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutLogs.delete")
	defer span.End()

	id, err := idFromRequest(r, "workout log")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := handler.repo.Delete(ctx, id)
	if err != nil {
		log.Errorf("delete workout log %d: %s", id, err)
		http.Error(w, "failed to delete workout log", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteResponse{ID: id, Deleted: deleted})
	if err != nil {
		log.Errorf("marshal delete workout log response: %s", err)
		http.Error(w, "failed to delete workout log", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *LogsHandler) HandleAddExerciseLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutLogs.addExerciseLog")
	defer span.End()

	workoutLogID, err := idFromRequest(r, "workout log")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var exerciseLog ExerciseLog
	if err := json.NewDecoder(r.Body).Decode(&exerciseLog); err != nil {
		log.Errorf("add exercise log, unmarshal json params: %s", err)
		http.Error(w, "add exercise log failed", http.StatusBadRequest)
		return
	}

	if exerciseLog.ExerciseID < 1 {
		http.Error(w, "error, exercise id missing", http.StatusBadRequest)
		return
	}
	if exerciseLog.SetNumber < 1 {
		http.Error(w, "error, set number must be positive", http.StatusBadRequest)
		return
	}
	exerciseLog.WorkoutLogID = workoutLogID
	if exerciseLog.CreatedAt.IsZero() {
		exerciseLog.CreatedAt = time.Now()
	}

	added, err := handler.repo.AddExerciseLog(ctx, exerciseLog)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			http.Error(w, "workout log or exercise not found", http.StatusBadRequest)
			return
		}
		if pkg.IsUniqueViolationError(err) {
			http.Error(w, "set number already logged for this exercise", http.StatusConflict)
			return
		}
		log.Errorf("failed to add exercise log: %s", err)
		http.Error(w, "error, failed to add exercise log", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterExerciseSetsLogged.Inc()

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added exercise log: %s", err)
		http.Error(w, "error, failed to add exercise log", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *LogsHandler) HandleGetExerciseLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutLogs.getExerciseLogs")
	defer span.End()

	workoutLogID, err := idFromRequest(r, "workout log")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	exerciseLogs, err := handler.repo.GetExerciseLogs(ctx, workoutLogID)
	if err != nil {
		log.Errorf("get exercise logs for workout log %d: %s", workoutLogID, err)
		http.Error(w, "failed to get exercise logs", http.StatusInternalServerError)
		return
	}
	if exerciseLogs == nil {
		exerciseLogs = []ExerciseLogWithExercise{}
	}

	logsJson, err := json.Marshal(exerciseLogs)
	if err != nil {
		log.Errorf("marshal exercise logs: %s", err)
		http.Error(w, "failed to get exercise logs", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, logsJson)
}

func (handler *LogsHandler) HandleUpdateExerciseLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutLogs.updateExerciseLog")
	defer span.End()

	id, err := idFromRequest(r, "exercise log")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var update ExerciseLogUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update exercise log, unmarshal json params: %s", err)
		http.Error(w, "update exercise log failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.UpdateExerciseLog(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrExerciseLogNotFound) {
			http.Error(w, "exercise log not found", http.StatusNotFound)
			return
		}
		log.Errorf("update exercise log %d: %s", id, err)
		http.Error(w, "failed to update exercise log", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("marshal updated exercise log: %s", err)
		http.Error(w, "failed to update exercise log", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *LogsHandler) HandleDeleteExerciseLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutLogs.deleteExerciseLog")
	defer span.End()

	id, err := idFromRequest(r, "exercise log")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := handler.repo.DeleteExerciseLog(ctx, id)
	if err != nil {
		log.Errorf("delete exercise log %d: %s", id, err)
		http.Error(w, "failed to delete exercise log", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteResponse{ID: id, Deleted: deleted})
	if err != nil {
		log.Errorf("marshal delete exercise log response: %s", err)
		http.Error(w, "failed to delete exercise log", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
