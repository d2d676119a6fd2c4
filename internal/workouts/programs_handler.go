package workouts

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

type programsRepo interface {
	Add(ctx context.Context, program WorkoutProgram) (*WorkoutProgram, error)
	Get(ctx context.Context, id int) (*WorkoutProgram, error)
	List(ctx context.Context, userID int) ([]WorkoutProgram, error)
	Update(ctx context.Context, id int, update WorkoutProgramUpdate) (*WorkoutProgram, error)
	Delete(ctx context.Context, id int) (bool, error)
	GetWithExercises(ctx context.Context, id int) (*ProgramWithExercises, error)
	AddExercise(ctx context.Context, link WorkoutExercise) (*WorkoutExercise, error)
	ListExercises(ctx context.Context, programID int) ([]ProgramExercise, error)
	UpdateExercise(ctx context.Context, id int, update WorkoutExerciseUpdate) (*WorkoutExercise, error)
	DeleteExercise(ctx context.Context, id int) (bool, error)
}

type ProgramsHandler struct {
	repo programsRepo
}

func NewProgramsHandler(repo programsRepo) *ProgramsHandler {
	return &ProgramsHandler{repo: repo}
}

func (handler *ProgramsHandler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/users/{userId}/programs", handler.HandleAdd).Methods("POST", "OPTIONS")
	router.HandleFunc("/users/{userId}/programs", handler.HandleList).Methods("GET", "OPTIONS")
	router.HandleFunc("/programs/{id}", handler.HandleGet).Methods("GET", "OPTIONS")
	router.HandleFunc("/programs/{id}", handler.HandleUpdate).Methods("PATCH", "PUT", "OPTIONS")
	router.HandleFunc("/programs/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/programs/{id}/exercises", handler.HandleAddExercise).Methods("POST", "OPTIONS")
	router.HandleFunc("/programs/{id}/exercises", handler.HandleListExercises).Methods("GET", "OPTIONS")
	router.HandleFunc("/program-exercises/{id}", handler.HandleUpdateExercise).Methods("PATCH", "PUT", "OPTIONS")
	router.HandleFunc("/program-exercises/{id}", handler.HandleDeleteExercise).Methods("DELETE", "OPTIONS")
}

type DeleteResponse struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}

func (handler *ProgramsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "programs.add")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var program WorkoutProgram
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		log.Errorf("add workout program, unmarshal json params: %s", err)
		http.Error(w, "add workout program failed", http.StatusBadRequest)
		return
	}

	if program.Name == "" {
		http.Error(w, "error, workout program name empty", http.StatusBadRequest)
		return
	}
	program.UserID = userID
	if program.CreatedAt.IsZero() {
		program.CreatedAt = time.Now()
	}

	added, err := handler.repo.Add(ctx, program)
	if err != nil {
		log.Errorf("failed to add workout program: %s", err)
		http.Error(w, "error, failed to add workout program", http.StatusInternalServerError)
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added workout program: %s", err)
		http.Error(w, "error, failed to add workout program", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

// HandleGet returns the program together with its exercises, ordered by
// sequence position.
func (handler *ProgramsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "programs.get")
	defer span.End()

	id, err := idFromRequest(r, "program")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	program, err := handler.repo.GetWithExercises(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "workout program not found", http.StatusNotFound)
			return
		}
		log.Errorf("get workout program %d: %s", id, err)
		http.Error(w, "failed to get workout program", http.StatusInternalServerError)
		return
	}

	programJson, err := json.Marshal(program)
	if err != nil {
		log.Errorf("marshal workout program: %s", err)
		http.Error(w, "failed to get workout program", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, programJson)
}

func (handler *ProgramsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "programs.list")
	defer span.End()

	userID, err := users.UserIDFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	programs, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("list workout programs for user %d: %s", userID, err)
		http.Error(w, "failed to list workout programs", http.StatusInternalServerError)
		return
	}
	if programs == nil {
		programs = []WorkoutProgram{}
	}

	programsJson, err := json.Marshal(programs)
	if err != nil {
		log.Errorf("marshal workout programs: %s", err)
		http.Error(w, "failed to list workout programs", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, programsJson)
}

func (handler *ProgramsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "programs.update")
	defer span.End()

	id, err := idFromRequest(r, "program")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var update WorkoutProgramUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update workout program, unmarshal json params: %s", err)
		http.Error(w, "update workout program failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			http.Error(w, "workout program not found", http.StatusNotFound)
			return
		}
		log.Errorf("update workout program %d: %s", id, err)
		http.Error(w, "failed to update workout program", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("marshal updated workout program: %s", err)
		http.Error(w, "failed to update workout program", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *ProgramsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "programs.delete")
	defer span.End()

	id, err := idFromRequest(r, "program")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := handler.repo.Delete(ctx, id)
	if err != nil {
		log.Errorf("delete workout program %d: %s", id, err)
		http.Error(w, "failed to delete workout program", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteResponse{ID: id, Deleted: deleted})
	if err != nil {
		log.Errorf("marshal delete workout program response: %s", err)
		http.Error(w, "failed to delete workout program", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *ProgramsHandler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "programs.addExercise")
	defer span.End()

	programID, err := idFromRequest(r, "program")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var link WorkoutExercise
	if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
		log.Errorf("add workout exercise, unmarshal json params: %s", err)
		http.Error(w, "add workout exercise failed", http.StatusBadRequest)
		return
	}

	if link.ExerciseID < 1 {
		http.Error(w, "error, exercise id missing", http.StatusBadRequest)
		return
	}
	if link.Order < 1 {
		http.Error(w, "error, sequence position must be positive", http.StatusBadRequest)
		return
	}
	link.ProgramID = programID

	added, err := handler.repo.AddExercise(ctx, link)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			http.Error(w, "workout program or exercise not found", http.StatusBadRequest)
			return
		}
		if pkg.IsUniqueViolationError(err) {
			http.Error(w, "sequence position already taken", http.StatusConflict)
			return
		}
		log.Errorf("failed to add workout exercise: %s", err)
		http.Error(w, "error, failed to add workout exercise", http.StatusInternalServerError)
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal added workout exercise: %s", err)
		http.Error(w, "error, failed to add workout exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *ProgramsHandler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "programs.listExercises")
	defer span.End()

	programID, err := idFromRequest(r, "program")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	programExercises, err := handler.repo.ListExercises(ctx, programID)
	if err != nil {
		log.Errorf("list workout exercises for program %d: %s", programID, err)
		http.Error(w, "failed to list workout exercises", http.StatusInternalServerError)
		return
	}
	if programExercises == nil {
		programExercises = []ProgramExercise{}
	}

	exercisesJson, err := json.Marshal(programExercises)
	if err != nil {
		log.Errorf("marshal workout exercises: %s", err)
		http.Error(w, "failed to list workout exercises", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, exercisesJson)
}

func (handler *ProgramsHandler) HandleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "programs.updateExercise")
	defer span.End()

	id, err := idFromRequest(r, "workout exercise")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var update WorkoutExerciseUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update workout exercise, unmarshal json params: %s", err)
		http.Error(w, "update workout exercise failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.UpdateExercise(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrWorkoutExerciseNotFound) {
			http.Error(w, "workout exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("update workout exercise %d: %s", id, err)
		http.Error(w, "failed to update workout exercise", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("marshal updated workout exercise: %s", err)
		http.Error(w, "failed to update workout exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *ProgramsHandler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "programs.deleteExercise")
	defer span.End()

	id, err := idFromRequest(r, "workout exercise")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	deleted, err := handler.repo.DeleteExercise(ctx, id)
	if err != nil {
		log.Errorf("delete workout exercise %d: %s", id, err)
		http.Error(w, "failed to delete workout exercise", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(DeleteResponse{ID: id, Deleted: deleted})
	if err != nil {
		log.Errorf("marshal delete workout exercise response: %s", err)
		http.Error(w, "failed to delete workout exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func idFromRequest(r *http.Request, what string) (int, error) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%s id NaN: [%s]", what, vars["id"])
	}
	return id, nil
}
