package ingestapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/logging"
)

var validate = validator.New()

// Server is the ingest REST facade: a fixed pre-shared key exchanges for
// a bearer token, which every vertex/edge write then requires.
type Server struct {
	graph      *graph.Graph
	jwtManager *JWTManager
	apiKey     string
	logger     logging.Logger
}

// NewServer builds a Server writing into g. apiKey is the pre-shared
// secret /token exchanges for a bearer token; jwtManager signs and
// validates those tokens.
func NewServer(g *graph.Graph, jwtManager *JWTManager, apiKey string, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Server{
		graph:      g,
		jwtManager: jwtManager,
		apiKey:     apiKey,
		logger:     logger.With(logging.Component("ingestapi")),
	}
}

// Routes builds the HTTP handler serving this Server's endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/token", s.handleToken)
	mux.HandleFunc("/vertices", s.requireAuth(s.handleAddVertex))
	mux.HandleFunc("/edges", s.requireAuth(s.handleAddEdge))
	return mux
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// constantTimeEqual compares two secrets without leaking timing
// information about where they first differ.
func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
