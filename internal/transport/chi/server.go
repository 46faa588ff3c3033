package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pfin/internal/domain"
	domuser "github.com/kailas-cloud/pfin/internal/domain/user"
	"github.com/kailas-cloud/pfin/internal/logger"
	authuc "github.com/kailas-cloud/pfin/internal/usecase/auth"
	galleryuc "github.com/kailas-cloud/pfin/internal/usecase/gallery"
	healthuc "github.com/kailas-cloud/pfin/internal/usecase/health"
	usersuc "github.com/kailas-cloud/pfin/internal/usecase/users"
)

// maxFormBytes caps the login form body.
const maxFormBytes = 16 << 10

// msgLoginRejected is the single answer for every failed login.
const msgLoginRejected = "invalid email or password"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the portal HTTP API.
type Server struct {
	gallery       *galleryuc.Service
	users         *usersuc.Service
	auth          *authuc.Service
	health        *healthuc.Service
	sessions      SessionStore
	cookie        CookieConfig
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	gallery *galleryuc.Service,
	users *usersuc.Service,
	auth *authuc.Service,
	health *healthuc.Service,
	sessions SessionStore,
	cookie CookieConfig,
	logger *zap.Logger,
) *Server {
	s := &Server{
		gallery:  gallery,
		users:    users,
		auth:     auth,
		health:   health,
		sessions: sessions,
		cookie:   cookie,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrAuthRejected, http.StatusUnauthorized, ErrorCodeUnauthorized, msgLoginRejected),
		invalidArgumentHandler,
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, ErrorCodeForbidden, domain.ErrForbidden.Error()),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound, domain.ErrNotFound.Error()),
	}
	return s
}

// Routes mounts every endpoint on r. SessionMiddleware must run before.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/login", s.Login)
	r.Post("/logout", s.Logout)

	r.Group(func(r chi.Router) {
		r.Use(RequireRole(domuser.Guest))
		r.Get("/me", s.Me)
		r.Get("/images/search", s.SearchImages)
		r.Get("/images/random", s.RandomImages)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireRole(domuser.National))
		r.Get("/users", s.ListUsers)
	})
}

// Login handles POST /login with form fields email and password.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid form body")
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "email and password are required")
		return
	}

	u, err := s.auth.Authenticate(r.Context(), email, password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	token := s.sessions.Create(u)
	setSessionCookie(w, s.cookie, token, s.sessions.TTL())
	logger.FromContextOr(r.Context(), s.logger).Info("login",
		zap.String("user_id", u.MongoID), zap.String("group", string(u.Role)))
	writeJSON(w, http.StatusOK, userToResponse(u))
}

// Logout handles POST /logout. It succeeds without a session too.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.cookie.name()); err == nil && c.Value != "" {
		s.sessions.Delete(c.Value)
	}
	clearSessionCookie(w, s.cookie)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, userToResponse(u))
}

// SearchImages handles GET /images/search.
func (s *Server) SearchImages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := bindImageCriteria(q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	limit, err := bindLimit(q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.gallery.Search(r.Context(), c, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// RandomImages handles GET /images/random.
func (s *Server) RandomImages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := bindImageCriteria(q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	limit, err := bindLimit(q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.gallery.Random(r.Context(), limit, c)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// ListUsers handles GET /users.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := bindUserCriteria(q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	limit, err := bindLimit(q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	list, err := s.users.List(r.Context(), c, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items := make([]UserResponse, len(list))
	for i, u := range list {
		items[i] = userToResponse(u)
	}
	writeJSON(w, http.StatusOK, UserListResponse{Items: items, Total: len(items)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler answers a fixed message for a sentinel error, so internals
// never reach the client.
func sentinelHandler(sentinel error, status int, code ErrorCode, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidArgumentHandler names the offending argument when known.
func invalidArgumentHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidArgument) {
		return false
	}
	msg := domain.ErrInvalidArgument.Error()
	var iae *domain.InvalidArgumentError
	if errors.As(err, &iae) {
		msg = iae.Error()
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Info("request rejected", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
