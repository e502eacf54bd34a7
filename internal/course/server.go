package course

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"main/internal/api/middleware"
	"main/internal/config"
	"main/internal/models"
)

// Server is the course data service, the second backend behind the
// gateway. Same contract as the student service.
type Server struct {
	router *chi.Mux
	logger *zap.Logger
	store  *Store
	http   *http.Server
}

func NewServer(cfg *config.Config, log *zap.Logger, port string) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: log,
		store:  NewStore(),
	}

	s.router.Use(middleware.RequestLogger(log, "course"))
	s.router.Use(middleware.Cors(cfg))
	s.setupRoutes()

	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	s.logger.Info("Course service starting", zap.String("addr", s.http.Addr))
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.HealthCheckResponse{
			Status:    "healthy",
			Service:   "course",
			Timestamp: time.Now().UTC(),
		})
	})

	s.router.Route("/api/courses", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	record, found := s.store.Get(id)
	if !found {
		writeDetail(w, http.StatusNotFound, "Course not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in models.CourseCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "request body must be valid JSON")
		return
	}

	if errs := validateCreate(in); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": errs})
		return
	}

	record := s.store.Create(in)
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in models.CourseUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "request body must be valid JSON")
		return
	}

	record, found := s.store.Update(id, in)
	if !found {
		writeDetail(w, http.StatusNotFound, "Course not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if !s.store.Delete(id) {
		writeDetail(w, http.StatusNotFound, "Course not found")
		return
	}
	writeJSON(w, http.StatusOK, models.DeleteResponse{
		Success: true,
		Message: "Course deleted successfully",
	})
}

func validateCreate(in models.CourseCreate) []map[string]string {
	var errs []map[string]string
	if in.Title == "" {
		errs = append(errs, map[string]string{"field": "title", "error": "field required"})
	}
	if in.Description == "" {
		errs = append(errs, map[string]string{"field": "description", "error": "field required"})
	}
	if in.DurationWeeks <= 0 {
		errs = append(errs, map[string]string{"field": "duration_weeks", "error": "must be a positive integer"})
	}
	if in.Instructor == "" {
		errs = append(errs, map[string]string{"field": "instructor", "error": "field required"})
	}
	if in.MaxStudents <= 0 {
		errs = append(errs, map[string]string{"field": "max_students", "error": "must be a positive integer"})
	}
	return errs
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "id must be an integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
