package courses

import (
	"context"
	"errors"
	"net/http"

	"log/slog"

	"github.com/google/uuid"

	"coursehub/internal/auth"
	"coursehub/internal/httpx"
	"coursehub/internal/validate"
)

// CourseStore is the store surface the handlers use; *Store implements it.
type CourseStore interface {
	List(ctx context.Context) ([]Course, error)
	ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]Course, error)
	ListEnrolled(ctx context.Context, studentID uuid.UUID) ([]Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	Create(ctx context.Context, c *Course) error
	Count(ctx context.Context) (int, error)
	CountByInstructor(ctx context.Context, instructorID uuid.UUID) (int, error)
	CountEnrolled(ctx context.Context, studentID uuid.UUID) (int, error)
	CountTeachingStudents(ctx context.Context, instructorID uuid.UUID) (int, error)
	TotalEarnings(ctx context.Context, instructorID uuid.UUID) (float64, error)
	Enroll(ctx context.Context, courseID, studentID uuid.UUID) error
	Unenroll(ctx context.Context, courseID, studentID uuid.UUID) error
}

type Handler struct {
	Store  CourseStore
	Logger *slog.Logger
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req validate.CourseRequest
	if err := validate.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	course := &Course{
		Title:        req.Title,
		Category:     req.Category,
		Price:        req.Price,
		InstructorID: user.ID,
		Instructor: InstructorView{
			Username: user.Username,
			Email:    user.Email,
		},
	}
	if err := h.Store.Create(r.Context(), course); err != nil {
		h.Logger.Error("create course", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":   "Course created successfully",
		"newCourse": course,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Store.List(r.Context())
	if err != nil {
		h.Logger.Error("list courses", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Courses fetched successfully",
		"courses": courses,
	})
}

func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.Store.Count(r.Context())
	if err != nil {
		h.Logger.Error("count courses", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":       "Courses number fetched successfully",
		"coursesNumber": n,
	})
}

func (h *Handler) Enrolled(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	courses, err := h.Store.ListEnrolled(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list enrolled courses", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(courses) == 0 {
		httpx.Error(w, http.StatusNotFound, "No enrolled courses found")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Enrolled courses fetched successfully",
		"courses": courses,
	})
}

func (h *Handler) EnrolledCount(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	n, err := h.Store.CountEnrolled(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("count enrolled courses", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":       "Enrolled courses number fetched successfully",
		"coursesNumber": n,
	})
}

func (h *Handler) Teaching(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	courses, err := h.Store.ListByInstructor(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list teaching courses", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Teaching courses fetched successfully",
		"courses": courses,
	})
}

func (h *Handler) TeachingCount(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	n, err := h.Store.CountByInstructor(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("count teaching courses", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":       "Teaching courses number fetched successfully",
		"coursesNumber": n,
	})
}

func (h *Handler) TeachingStudents(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	n, err := h.Store.CountTeachingStudents(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("count teaching students", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":        "Teaching students number fetched successfully",
		"studentsNumber": n,
	})
}

func (h *Handler) TotalEarnings(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	total, err := h.Store.TotalEarnings(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("total earnings", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":       "Total earnings fetched successfully",
		"totalEarnings": total,
	})
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}
	if err := h.Store.Enroll(r.Context(), courseID, user.ID); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyEnrolled):
			httpx.Error(w, http.StatusBadRequest, "You are already enrolled in this course")
		default:
			h.Logger.Error("enroll", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Enrolled Successfully"})
}

func (h *Handler) Unenroll(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}
	if err := h.Store.Unenroll(r.Context(), courseID, user.ID); err != nil {
		switch {
		case errors.Is(err, ErrNotEnrolled):
			httpx.Error(w, http.StatusBadRequest, "You are not enrolled in this course")
		default:
			h.Logger.Error("unenroll", "err", err)
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Unenrolled Successfully"})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Course not found")
		return
	}
	course, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			httpx.Error(w, http.StatusNotFound, "Course not found")
			return
		}
		h.Logger.Error("get course", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Course fetched successfully",
		"course":  course,
	})
}

// courseID resolves the {id} path segment to an existing course, writing
// the 404 itself when the course does not exist.
func (h *Handler) courseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Course not found")
		return uuid.Nil, false
	}
	if _, err := h.Store.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			httpx.Error(w, http.StatusNotFound, "Course not found")
			return uuid.Nil, false
		}
		h.Logger.Error("get course", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return uuid.Nil, false
	}
	return id, true
}
