package meeting

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/steffin35/student-report-app/internal/auth"
	"github.com/steffin35/student-report-app/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes mounts endpoints available to any authenticated session
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/meetings", h.Create)
	r.Get("/meetings/{rollNo}/latest", h.LatestForStudent)
}

// RegisterTeacherRoutes mounts the teacher-only endpoints
func (h *Handler) RegisterTeacherRoutes(r chi.Router) {
	r.Get("/meetings", h.List)
	r.Post("/meetings/{id}/decision", h.Decide)
}

type CreateRequest struct {
	MeetingDate     string `json:"meetingDate" validate:"required,datetime=2006-01-02"`
	TeacherUsername string `json:"teacherUsername" validate:"required"`
}

type DecideRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
	Notes  string `json:"notes"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, _ := auth.FromContext(r.Context())

	h.logger.InfoContext(r.Context(), "creating meeting request", "teacher", req.TeacherUsername)
	request, err := h.service.Create(r.Context(), session, req.MeetingDate, req.TeacherUsername)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, request)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	all := r.URL.Query().Get("all") == "true"

	requests, err := h.service.ListForTeacher(r.Context(), session, all)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, requests)
}

func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, _ := auth.FromContext(r.Context())

	h.logger.InfoContext(r.Context(), "deciding meeting request", "request_id", id, "status", req.Status)
	request, err := h.service.Decide(r.Context(), session, id, req.Status, req.Notes)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, request)
}

func (h *Handler) LatestForStudent(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")
	session, _ := auth.FromContext(r.Context())

	request, err := h.service.LatestForStudent(r.Context(), session, rollNo)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, request)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "meeting request not found")
	case errors.Is(err, ErrForbidden):
		httputil.RespondWithError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrAlreadyDecided), errors.Is(err, ErrInvalidStatus):
		httputil.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "meeting operation failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
