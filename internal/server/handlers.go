package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"nlquery/internal/common/errors"
	"nlquery/internal/common/validation"
	"nlquery/internal/models"
	"nlquery/internal/translator"
)

const invalidQueryMessage = "Invalid query. Please provide a valid query string."

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := s.authSvc.Register(r.Context(), body["username"].(string), body["password"].(string))
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"token":   token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := s.authSvc.Login(r.Context(), body["username"].(string), body["password"].(string))
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	nlQuery, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	var result *models.QueryResult
	if r.URL.Query().Get("analyze") == "true" {
		result = s.queries.Analyze(r.Context(), nlQuery)
	} else {
		result = s.queries.Process(r.Context(), nlQuery)
	}

	status := "success"
	if !result.Success {
		status = "error"
	}
	s.obs.RecordQueryProcessed(r.Context(), status)
	s.obs.RecordQueryDuration(r.Context(), time.Since(start), status)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	nlQuery, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"explanation": translator.Explain(nlQuery),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	nlQuery, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"validation": translator.Validate(nlQuery),
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	tables, err := s.inspector.Tables(r.Context())
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, errors.NewSchemaInspectionFailedError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"schemas": tables,
	})
}

// decodeQuery reads and validates a {"query": ...} body. On failure it writes
// the error response and returns ok=false.
func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, invalidQueryMessage)
		return "", false
	}

	result, err := validation.ValidateQueryRequest(body)
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return "", false
	}
	if !result.Valid {
		respondError(w, http.StatusBadRequest, invalidQueryMessage)
		return "", false
	}

	nlQuery, _ := body["query"].(string)
	if strings.TrimSpace(nlQuery) == "" {
		respondError(w, http.StatusBadRequest, invalidQueryMessage)
		return "", false
	}
	return nlQuery, true
}

func (s *Server) decodeCredentials(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	result, err := validation.ValidateCredentials(body)
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return nil, false
	}
	if !result.Valid {
		respondError(w, http.StatusBadRequest, strings.Join(result.GetErrorMessages(), "; "))
		return nil, false
	}
	return body, true
}
