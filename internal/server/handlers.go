package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/benchray/benchray/pkg/errors"
	"github.com/benchray/benchray/pkg/pipeline"
	"github.com/benchray/benchray/pkg/sceneio"
	"github.com/benchray/benchray/pkg/store"
)

// sceneSummary is the list-view projection of a stored scene.
type sceneSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Elements  int       `json:"elements"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// sceneRequest is the body of POST /scenes and PUT /scenes/{id}.
type sceneRequest struct {
	Name     string           `json:"name"`
	Document sceneio.Document `json:"document"`
}

type errorResponse struct {
	Error string          `json:"error"`
	Code  apperrors.Code  `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListScenes(w http.ResponseWriter, req *http.Request) {
	recs, err := s.store.List(req.Context())
	if err != nil {
		s.respondError(w, req, err)
		return
	}
	summaries := make([]sceneSummary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, sceneSummary{
			ID:        rec.ID,
			Name:      rec.Name,
			Elements:  len(rec.Document.Elements),
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}
	s.respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCreateScene(w http.ResponseWriter, req *http.Request) {
	body, ok := s.decodeSceneRequest(w, req)
	if !ok {
		return
	}
	rec, err := s.store.Save(req.Context(), store.Record{
		Name:     body.Name,
		Document: body.Document,
	})
	if err != nil {
		s.respondError(w, req, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetScene(w http.ResponseWriter, req *http.Request) {
	rec, err := s.store.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.respondError(w, req, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePutScene(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	existing, err := s.store.Get(req.Context(), id)
	if err != nil {
		s.respondError(w, req, err)
		return
	}

	body, ok := s.decodeSceneRequest(w, req)
	if !ok {
		return
	}
	existing.Document = body.Document
	if body.Name != "" {
		existing.Name = body.Name
	}

	rec, err := s.store.Save(req.Context(), existing)
	if err != nil {
		s.respondError(w, req, err)
		return
	}
	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, req *http.Request) {
	if err := s.store.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
		s.respondError(w, req, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderScene(w http.ResponseWriter, req *http.Request) {
	rec, err := s.store.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		s.respondError(w, req, err)
		return
	}

	format := req.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, req, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid format"))
		return
	}

	opts := pipeline.Options{
		Formats:    []string{format},
		Labels:     queryBool(req, "labels"),
		HideRays:   !queryBoolDefault(req, "rays", true),
		ShowHidden: queryBool(req, "hidden"),
		Refresh:    queryBool(req, "refresh"),
		Logger:     s.logger,
	}
	if width, err := strconv.ParseFloat(req.URL.Query().Get("width"), 64); err == nil {
		opts.Width = width
	}
	if height, err := strconv.ParseFloat(req.URL.Query().Get("height"), 64); err == nil {
		opts.Height = height
	}

	result, err := s.runner.Execute(req.Context(), rec.Document, opts)
	if err != nil {
		s.respondError(w, req, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

func queryBool(req *http.Request, name string) bool {
	v, err := strconv.ParseBool(req.URL.Query().Get(name))
	return err == nil && v
}

func queryBoolDefault(req *http.Request, name string, def bool) bool {
	v, err := strconv.ParseBool(req.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

func (s *Server) decodeSceneRequest(w http.ResponseWriter, req *http.Request) (sceneRequest, bool) {
	var body sceneRequest
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.respondError(w, req, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "malformed request body"))
		return sceneRequest{}, false
	}
	if err := apperrors.ValidateSceneName(body.Name); err != nil {
		s.respondError(w, req, err)
		return sceneRequest{}, false
	}
	// Reject documents the pipeline could not load.
	if _, err := body.Document.ToScene(); err != nil {
		s.respondError(w, req, apperrors.Wrap(apperrors.ErrCodeInvalidScene, err, "invalid scene document"))
		return sceneRequest{}, false
	}
	return body, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateName):
		status = http.StatusConflict
	case apperrors.GetCode(err) == apperrors.ErrCodeInvalidInput,
		apperrors.GetCode(err) == apperrors.ErrCodeInvalidScene,
		apperrors.GetCode(err) == apperrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
	}
	s.respondJSON(w, status, errorResponse{
		Error: apperrors.UserMessage(err),
		Code:  apperrors.GetCode(err),
	})
}
