package httpserver

import (
	"net/http"
	"time"

	"log/slog"

	"coursehub/internal/auth"
	"coursehub/internal/courses"
	"coursehub/internal/httpx"
)

func NewRouter(
	logger *slog.Logger,
	authSvc *auth.Service,
	userStore auth.UserRegistry,
	courseStore courses.CourseStore,
	frontendOrigin string,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})

	authHandler := &auth.Handler{
		Users:   userStore,
		Service: authSvc,
		Logger:  logger,
	}
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/auth/logout", authHandler.Logout)

	courseHandler := &courses.Handler{
		Store:  courseStore,
		Logger: logger,
	}
	// Public browse view; the same listing is served authenticated below.
	mux.HandleFunc("GET /api/auth/courses", courseHandler.List)

	secured := auth.JWTMiddleware(authSvc)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, secured(h))
	}

	handle("POST /api/auth/update-password", authHandler.UpdatePassword)

	handle("POST /api/courses", auth.RequireRole(courseHandler.Create,
		auth.RoleInstructor, "You are not authorized to create a course"))
	handle("GET /api/courses", courseHandler.List)
	handle("GET /api/courses/number", courseHandler.Count)
	handle("GET /api/courses/enrolled", auth.RequireRole(courseHandler.Enrolled,
		auth.RoleStudent, "You are not authorized to view enrolled courses"))
	handle("GET /api/courses/enrolled-number", auth.RequireRole(courseHandler.EnrolledCount,
		auth.RoleStudent, "You are not authorized to view enrolled courses"))
	handle("GET /api/courses/teaching-courses", auth.RequireRole(courseHandler.Teaching,
		auth.RoleInstructor, "You are not authorized to view teaching courses"))
	handle("GET /api/courses/teaching-number", auth.RequireRole(courseHandler.TeachingCount,
		auth.RoleInstructor, "You are not authorized to view teaching courses"))
	handle("GET /api/courses/teaching-students-number", auth.RequireRole(courseHandler.TeachingStudents,
		auth.RoleInstructor, "You are not authorized to view teaching students"))
	handle("GET /api/courses/total-earnings", auth.RequireRole(courseHandler.TotalEarnings,
		auth.RoleInstructor, "You are not authorized to view total earnings"))
	handle("POST /api/courses/enroll/{id}", auth.RequireRole(courseHandler.Enroll,
		auth.RoleStudent, "You are not authorized to enroll in a course"))
	handle("POST /api/courses/unenroll/{id}", auth.RequireRole(courseHandler.Unenroll,
		auth.RoleStudent, "You are not authorized to unenroll from a course"))
	handle("GET /api/courses/{id}", courseHandler.Get)

	return withSecurityHeaders(withRateLimit(withCORS(mux, frontendOrigin)))
}
