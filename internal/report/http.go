package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/steffin35/student-report-app/internal/auth"
	"github.com/steffin35/student-report-app/internal/httputil"
	"github.com/steffin35/student-report-app/internal/predict"

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

// RegisterRoutes mounts endpoints available to any authenticated session;
// ownership checks happen in the service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/{rollNo}/latest", h.Latest)
	r.Get("/reports/{rollNo}/history", h.History)
	r.Get("/reports/{rollNo}/prediction", h.Prediction)
	r.Get("/reports/{rollNo}/pdf", h.PDF)
}

// RegisterTeacherRoutes mounts the teacher-only endpoints
func (h *Handler) RegisterTeacherRoutes(r chi.Router) {
	r.Post("/reports", h.Save)
	r.Get("/reports", h.All)
}

// Scores carries no required tag: an all-zero mark set is a legal report and
// the per-field min/max tags still apply to whatever is sent.
type SaveReportRequest struct {
	RollNo string `json:"rollNo" validate:"required"`
	Scores Scores `json:"scores"`
}

type PredictionResponse struct {
	Available  bool    `json:"available"`
	Percentage float64 `json:"percentage,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveReportRequest
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

	h.logger.InfoContext(r.Context(), "saving report", "roll_no", req.RollNo)
	report, err := h.service.Save(r.Context(), session, req.RollNo, req.Scores)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, report)
}

func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.All(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, reports)
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")
	session, _ := auth.FromContext(r.Context())

	report, err := h.service.Latest(r.Context(), session, rollNo)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, report)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")
	session, _ := auth.FromContext(r.Context())

	reports, err := h.service.History(r.Context(), session, rollNo)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, reports)
}

// Prediction degrades to {"available": false} instead of an error when the
// history is too short or the fit fails.
func (h *Handler) Prediction(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")
	session, _ := auth.FromContext(r.Context())

	percentage, err := h.service.Predict(r.Context(), session, rollNo)
	if err != nil {
		if errors.Is(err, predict.ErrInsufficientHistory) || errors.Is(err, predict.ErrUnavailable) {
			httputil.RespondWithJSON(w, http.StatusOK, PredictionResponse{
				Available: false,
				Reason:    err.Error(),
			})
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, PredictionResponse{
		Available:  true,
		Percentage: percentage,
	})
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")
	session, _ := auth.FromContext(r.Context())

	pdfBytes, err := h.service.PDF(r.Context(), session, rollNo)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report_card.pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "no report found")
	case errors.Is(err, ErrUnknownStudent):
		httputil.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		httputil.RespondWithError(w, http.StatusForbidden, "forbidden")
	default:
		h.logger.ErrorContext(r.Context(), "report operation failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
