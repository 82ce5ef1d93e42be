package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/kardemumma/internal/app"
	"github.com/shrimpsizemoose/kardemumma/internal/metrics"
	"github.com/shrimpsizemoose/kardemumma/internal/models"
	"github.com/shrimpsizemoose/kardemumma/internal/store"
)

type StudentHandler struct {
	service *app.Service
}

func NewStudentHandler(service *app.Service) *StudentHandler {
	return &StudentHandler{
		service: service,
	}
}

func observe(op, method string, status *int, start time.Time) {
	metrics.APIRequestDuration.WithLabelValues(
		op,
		method,
		strconv.Itoa(*status),
	).Observe(time.Since(start).Seconds())
}

// parseID extracts the {id} path segment, which must be an integer
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// decodeStudent reads and validates a student payload. Any decode or
// validation failure counts as an unprocessable payload.
func decodeStudent(r *http.Request) (*models.Student, string) {
	var student models.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		return nil, "invalid request body"
	}

	if err := student.Validate(); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			return nil, validationMessage(validateErrs)
		}
		return nil, "invalid request body"
	}

	return &student, ""
}

func (h *StudentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusCreated
	defer observe("create", r.Method, &status, start)

	student, msg := decodeStudent(r)
	if msg != "" {
		status = http.StatusUnprocessableEntity
		writeError(w, status, msg)
		return
	}

	// The source of truth for uniqueness is the UNIQUE constraint; this
	// lookup exists to report duplicates before touching the row.
	if _, err := h.service.Store.GetStudentByEmail(student.Email); err == nil {
		status = http.StatusBadRequest
		writeError(w, status, store.ErrDuplicateEmail.Error())
		return
	} else if !errors.Is(err, store.ErrStudentNotFound) {
		logger.Error.Printf("Failed to check email %s: %v", student.Email, err)
		status = http.StatusInternalServerError
		writeError(w, status, "failed to create student")
		return
	}

	id, err := h.service.Store.CreateStudent(student)
	if errors.Is(err, store.ErrDuplicateEmail) {
		status = http.StatusBadRequest
		writeError(w, status, store.ErrDuplicateEmail.Error())
		return
	}
	if err != nil {
		logger.Error.Printf("Failed to create student: %v", err)
		status = http.StatusInternalServerError
		writeError(w, status, "failed to create student")
		return
	}

	student.ID = id
	metrics.StudentOpsTotal.WithLabelValues("create").Inc()

	writeJSON(w, http.StatusCreated, student)
}

func (h *StudentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer observe("list", r.Method, &status, start)

	students, err := h.service.Store.ListStudents()
	if err != nil {
		logger.Error.Printf("Failed to list students: %v", err)
		status = http.StatusInternalServerError
		writeError(w, status, "failed to list students")
		return
	}

	writeJSON(w, http.StatusOK, students)
}

func (h *StudentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer observe("get", r.Method, &status, start)

	id, err := parseID(r)
	if err != nil {
		status = http.StatusUnprocessableEntity
		writeError(w, status, "student id must be an integer")
		return
	}

	student, err := h.service.Store.GetStudent(id)
	if errors.Is(err, store.ErrStudentNotFound) {
		status = http.StatusNotFound
		writeError(w, status, "student not found")
		return
	}
	if err != nil {
		logger.Error.Printf("Failed to get student %d: %v", id, err)
		status = http.StatusInternalServerError
		writeError(w, status, "failed to get student")
		return
	}

	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer observe("update", r.Method, &status, start)

	id, err := parseID(r)
	if err != nil {
		status = http.StatusUnprocessableEntity
		writeError(w, status, "student id must be an integer")
		return
	}

	student, msg := decodeStudent(r)
	if msg != "" {
		status = http.StatusUnprocessableEntity
		writeError(w, status, msg)
		return
	}

	err = h.service.Store.UpdateStudent(id, student)
	switch {
	case errors.Is(err, store.ErrStudentNotFound):
		status = http.StatusNotFound
		writeError(w, status, "student not found")
		return
	case errors.Is(err, store.ErrDuplicateEmail):
		status = http.StatusBadRequest
		writeError(w, status, store.ErrDuplicateEmail.Error())
		return
	case err != nil:
		logger.Error.Printf("Failed to update student %d: %v", id, err)
		status = http.StatusInternalServerError
		writeError(w, status, "failed to update student")
		return
	}

	updated, err := h.service.Store.GetStudent(id)
	if err != nil {
		logger.Error.Printf("Failed to reload student %d after update: %v", id, err)
		status = http.StatusInternalServerError
		writeError(w, status, "failed to update student")
		return
	}

	metrics.StudentOpsTotal.WithLabelValues("update").Inc()

	writeJSON(w, http.StatusOK, updated)
}

func (h *StudentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusNoContent
	defer observe("delete", r.Method, &status, start)

	id, err := parseID(r)
	if err != nil {
		status = http.StatusUnprocessableEntity
		writeError(w, status, "student id must be an integer")
		return
	}

	err = h.service.Store.DeleteStudent(id)
	if errors.Is(err, store.ErrStudentNotFound) {
		status = http.StatusNotFound
		writeError(w, status, "student not found")
		return
	}
	if err != nil {
		logger.Error.Printf("Failed to delete student %d: %v", id, err)
		status = http.StatusInternalServerError
		writeError(w, status, "failed to delete student")
		return
	}

	metrics.StudentOpsTotal.WithLabelValues("delete").Inc()

	w.WriteHeader(http.StatusNoContent)
}
