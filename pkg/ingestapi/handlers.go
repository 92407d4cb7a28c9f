package ingestapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/logging"
	"github.com/dd0wney/chronograph/pkg/tprop"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !constantTimeEqual(req.APIKey, s.apiKey) {
		s.respondError(w, http.StatusUnauthorized, "invalid api key")
		return
	}

	token, err := s.jwtManager.GenerateToken(req.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to issue token: %v", err))
		return
	}
	s.respondJSON(w, http.StatusOK, TokenResponse{Token: token})
}

func (s *Server) handleAddVertex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AddVertexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	props, err := propUpdatesFromJSON(req.Properties)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.graph.AddVertex(req.Time, req.Gid, props); err != nil {
		s.logger.Warn("add vertex failed", logging.Vertex(req.Gid), logging.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{"gid": req.Gid, "time": req.Time})
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AddEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	props, err := propUpdatesFromJSON(req.Properties)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.graph.AddEdge(req.Time, req.Src, req.Dst, props); err != nil {
		s.logger.Warn("add edge failed", logging.Edge(req.Src, req.Dst), logging.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{"src": req.Src, "dst": req.Dst, "time": req.Time})
}

// propUpdatesFromJSON converts a JSON properties object into typed prop
// updates. JSON numbers are always float64; an integral value is stored
// as I64 so round-tripping through PropertyHistory compares equal to
// values ingested as Go int64 literals, and a fractional value is stored
// as F64.
func propUpdatesFromJSON(raw map[string]any) ([]graph.PropUpdate, error) {
	out := make([]graph.PropUpdate, 0, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case string:
			out = append(out, graph.PropUpdate{Name: name, Value: tprop.StrProp(val)})
		case bool:
			out = append(out, graph.PropUpdate{Name: name, Value: tprop.BoolProp(val)})
		case float64:
			if val == float64(int64(val)) {
				out = append(out, graph.PropUpdate{Name: name, Value: tprop.I64Prop(int64(val))})
			} else {
				out = append(out, graph.PropUpdate{Name: name, Value: tprop.F64Prop(val)})
			}
		default:
			return nil, fmt.Errorf("property %q has unsupported type %T", name, v)
		}
	}
	return out, nil
}
