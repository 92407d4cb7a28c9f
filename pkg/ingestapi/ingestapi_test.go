package ingestapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/chronograph/pkg/graph"
)

func newTestServer(t *testing.T) (*Server, *JWTManager) {
	t.Helper()
	jwtManager, err := NewJWTManager("a-test-secret-at-least-32-bytes-long", time.Hour)
	require.NoError(t, err)
	return NewServer(graph.New(2), jwtManager, "shared-secret", nil), jwtManager
}

func issueToken(t *testing.T, s *Server) string {
	t.Helper()
	body, _ := json.Marshal(TokenRequest{UserID: "writer-1", APIKey: "shared-secret"})
	req := httptest.NewRequest(http.MethodPost, "/token", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestTokenRejectsWrongAPIKey(t *testing.T) {
	s, _ := newTestServer(t)
	body, _ := json.Marshal(TokenRequest{UserID: "writer-1", APIKey: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/token", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddVertexRequiresAuth(t *testing.T) {
	s, _ := newTestServer(t)
	body, _ := json.Marshal(AddVertexRequest{Time: 0, Gid: 1})
	req := httptest.NewRequest(http.MethodPost, "/vertices", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddVertexAndEdgeRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	token := issueToken(t, s)

	vertexBody, _ := json.Marshal(AddVertexRequest{
		Time:       0,
		Gid:        1,
		Properties: map[string]any{"weight": 1.5, "label": "a"},
	})
	req := httptest.NewRequest(http.MethodPost, "/vertices", bytes.NewReader(vertexBody))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	vertexBody2, _ := json.Marshal(AddVertexRequest{Time: 0, Gid: 2})
	req2 := httptest.NewRequest(http.MethodPost, "/vertices", bytes.NewReader(vertexBody2))
	req2.Header.Set("Authorization", "Bearer "+token)
	rec2 := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec2, req2)
	require.Equal(t, http.StatusCreated, rec2.Code)

	edgeBody, _ := json.Marshal(AddEdgeRequest{
		Time:       0,
		Src:        1,
		Dst:        2,
		Properties: map[string]any{"kind": "knows"},
	})
	req3 := httptest.NewRequest(http.MethodPost, "/edges", bytes.NewReader(edgeBody))
	req3.Header.Set("Authorization", "Bearer "+token)
	rec3 := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec3, req3)
	require.Equal(t, http.StatusCreated, rec3.Code)

	assert.Equal(t, 2, s.graph.NumVertices())
	assert.Equal(t, 1, s.graph.NumEdges())

	hist, err := s.graph.PropertyHistory(1, "weight")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	v, ok := hist[0].Value.AsF64()
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 0.0001)
}

func TestAddVertexRejectsUnsupportedPropertyType(t *testing.T) {
	s, _ := newTestServer(t)
	token := issueToken(t, s)

	body, _ := json.Marshal(map[string]any{
		"time":       0,
		"gid":        1,
		"properties": map[string]any{"nested": map[string]any{"a": 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/vertices", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpointRequiresNoAuth(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
