package stubapi

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	apperrors "github.com/ministryofjustice/claims-ui/internal/errors"
	httpx "github.com/ministryofjustice/claims-ui/internal/http"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Options configures the stub API server.
type Options struct {
	Store Store
	// Token, when set, must be presented as a bearer token on every API
	// request.
	Token  string
	Logger *slog.Logger
}

// Server serves the claims API routes from a Store.
type Server struct {
	store  Store
	token  string
	logger *slog.Logger
}

// NewServer validates opts and returns a Server.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: opts.Store, token: opts.Token, logger: logger.With("component", "stubapi")}, nil
}

// Handler returns the routed handler wrapped in recovery and access
// logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/claims", s.listClaims)
	mux.HandleFunc("GET /api/v1/claims/{id}", s.getClaim)
	mux.HandleFunc("GET /api/v1/submissions", s.listSubmissions)
	mux.HandleFunc("GET /api/v1/submissions/{id}", s.getSubmission)
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var h http.Handler = mux
	h = s.requireToken(h)
	h = httpx.Logging(s.logger)(h)
	return httpx.Recover(s.logger)(h)
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	if s.token == "" {
		return next
	}
	want := []byte("Bearer " + s.token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" && subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), want) != 1 {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listClaims(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := s.store.ListClaims(r.Context(), opts)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listJSON[claimJSON]{
		Data: mapSlice(page.Items, toClaimJSON),
		Meta: page.Meta,
	})
}

func (s *Server) getClaim(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeMessage(w, http.StatusNotFound, "Claim not found")
		return
	}
	claim, err := s.store.GetClaim(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toClaimJSON(claim))
}

func (s *Server) listSubmissions(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := s.store.ListSubmissions(r.Context(), opts)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listJSON[submissionJSON]{
		Data: mapSlice(page.Items, toSubmissionJSON),
		Meta: page.Meta,
	})
}

func (s *Server) getSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Submission not found")
		return
	}
	sub, err := s.store.GetSubmission(r.Context(), id.String())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if sub.Claims == nil {
		sub.Claims = []model.Claim{}
	}
	httpx.WriteJSON(w, http.StatusOK, toSubmissionJSON(sub))
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotFound:
		writeMessage(w, http.StatusNotFound, "Not found")
	case apperrors.ErrCodeValidation:
		writeMessage(w, http.StatusBadRequest, "Invalid request")
	case apperrors.ErrCodeUnavailable, apperrors.ErrCodeTimeout:
		s.logger.ErrorContext(r.Context(), "store unavailable", "error", err)
		writeMessage(w, http.StatusServiceUnavailable, "Service unavailable")
	default:
		s.logger.ErrorContext(r.Context(), "store query failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	httpx.WriteJSON(w, status, map[string]string{"message": msg})
}

// parseListOptions reads page and limit. Missing values take defaults;
// limit is capped at maxLimit.
func parseListOptions(r *http.Request) (model.ListOptions, error) {
	opts := model.ListOptions{Page: 1, Limit: defaultLimit}
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return opts, errors.New("page must be a positive integer")
		}
		opts.Page = n
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return opts, errors.New("limit must be a positive integer")
		}
		opts.Limit = min(n, maxLimit)
	}
	return opts, nil
}
