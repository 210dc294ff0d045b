package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/steffin35/student-report-app/internal/auth"
	"github.com/steffin35/student-report-app/internal/httputil"
	"github.com/steffin35/student-report-app/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service   Service
	otp       *auth.OTPIssuer
	validate  *validator.Validate
	logger    *slog.Logger
	metrics   *metrics.Metrics
	jwtSecret string
	tokenTTL  time.Duration
}

func NewHandler(service Service, otp *auth.OTPIssuer, logger *slog.Logger, m *metrics.Metrics, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{
		service:   service,
		otp:       otp,
		validate:  validator.New(),
		logger:    logger,
		metrics:   m,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// RegisterAuthRoutes mounts the public login endpoints
func (h *Handler) RegisterAuthRoutes(r chi.Router) {
	r.Post("/auth/teacher/login", h.TeacherLogin)
	r.Post("/auth/student/login", h.StudentLogin)
	r.Post("/auth/parent/otp", h.ParentOTP)
	r.Post("/auth/parent/login", h.ParentLogin)
	r.Post("/auth/logout", h.Logout)
}

// RegisterRoutes mounts endpoints available to any authenticated session
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/teachers", h.ListTeachers)
}

// RegisterTeacherRoutes mounts the teacher-only endpoints
func (h *Handler) RegisterTeacherRoutes(r chi.Router) {
	r.Get("/students", h.GetAllStudents)
	r.Post("/students", h.CreateStudent)
	r.Get("/students/{rollNo}/parent-email", h.GetParentEmail)
	r.Put("/students/{rollNo}/parent-email", h.SetParentEmail)
	r.Post("/teachers", h.CreateTeacher)
}

type TeacherLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type StudentLoginRequest struct {
	RollNo   string `json:"rollNo" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ParentOTPRequest struct {
	RollNo string `json:"rollNo" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
}

type ParentLoginRequest struct {
	RollNo string `json:"rollNo" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Code   string `json:"code" validate:"required,len=6"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type CreateStudentRequest struct {
	RollNo   string `json:"rollNo" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required"`
	Class    string `json:"class" validate:"required"`
	Section  string `json:"section" validate:"required"`
}

type CreateTeacherRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

type SetParentEmailRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

func (h *Handler) TeacherLogin(w http.ResponseWriter, r *http.Request) {
	var req TeacherLoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.AuthenticateTeacher(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondWithError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	h.respondWithSession(w, r, session)
}

func (h *Handler) StudentLogin(w http.ResponseWriter, r *http.Request) {
	var req StudentLoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.service.AuthenticateStudent(r.Context(), req.RollNo, req.Password)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondWithError(w, http.StatusUnauthorized, "invalid roll number or password")
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	h.respondWithSession(w, r, session)
}

// ParentOTP issues the current one-time code after the first factor (a
// registered roll number/email pair) checks out.
func (h *Handler) ParentOTP(w http.ResponseWriter, r *http.Request) {
	var req ParentOTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	ok, err := h.service.ValidateParentEmail(r.Context(), req.RollNo, req.Email)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "invalid roll number/email combination")
		return
	}

	code, err := h.otp.Code()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to generate one-time code", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (h *Handler) ParentLogin(w http.ResponseWriter, r *http.Request) {
	var req ParentLoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	ok, err := h.service.ValidateParentEmail(r.Context(), req.RollNo, req.Email)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if !ok || !h.otp.Verify(req.Code) {
		httputil.RespondWithError(w, http.StatusUnauthorized, "invalid credentials or code")
		return
	}

	student, err := h.service.GetStudent(r.Context(), req.RollNo)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	session := &auth.Session{
		Role:    auth.RoleParent,
		Subject: student.RollNo,
		Name:    student.FullName,
	}
	h.respondWithSession(w, r, session)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearAuthCookie(w)
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.logger.InfoContext(r.Context(), "creating student", "roll_no", req.RollNo)
	student, err := h.service.CreateStudent(r.Context(), CreateStudentInput{
		RollNo:   req.RollNo,
		Password: req.Password,
		FullName: req.FullName,
		Class:    req.Class,
		Section:  req.Section,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, student)
}

func (h *Handler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req CreateTeacherRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, _ := auth.FromContext(r.Context())

	h.logger.InfoContext(r.Context(), "creating teacher", "username", req.Username)
	teacher, err := h.service.CreateTeacher(r.Context(), session, CreateTeacherInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, teacher)
}

func (h *Handler) GetAllStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.GetAllStudents(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, students)
}

func (h *Handler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.service.ListTeachers(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, teachers)
}

func (h *Handler) GetParentEmail(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")

	email, err := h.service.GetParentEmail(r.Context(), rollNo)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"email": email})
}

func (h *Handler) SetParentEmail(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")

	var req SetParentEmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.SetParentEmail(r.Context(), rollNo, req.Email); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *Handler) respondWithSession(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	token, err := auth.GenerateToken(session, h.jwtSecret, h.tokenTTL)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to generate token", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.Domain.RecordLogin(r.Context(), session.Role)

	auth.SetAuthCookie(w, token, int(h.tokenTTL.Seconds()))
	httputil.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Token:   token,
		Role:    session.Role,
		Subject: session.Subject,
		Name:    session.Name,
		IsAdmin: session.IsAdmin,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrDuplicate):
		httputil.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrForbidden):
		httputil.RespondWithError(w, http.StatusForbidden, "forbidden")
	default:
		h.logger.ErrorContext(r.Context(), "account operation failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
