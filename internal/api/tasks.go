package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/metalagman/taskdeck/internal/task"
)

const parseErrorMessage = "failed to parse request body"

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.svc.List(r.Context(), task.Query{
		Status:    q.Get("status"),
		Priority:  q.Get("priority"),
		Search:    q.Get("search"),
		MatchTags: true,
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if items == nil {
		items = []task.Task{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var d task.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("decode create body")
		writeError(w, http.StatusInternalServerError, parseErrorMessage)
		return
	}
	created, err := s.svc.Create(r.Context(), d)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("task_id", created.ID).Msg("task created")
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	item, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.svc.Get(r.Context(), id); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	var p task.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("decode update body")
		writeError(w, http.StatusInternalServerError, parseErrorMessage)
		return
	}
	updated, err := s.svc.Update(r.Context(), id, p)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("task_id", id).Msg("task deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

// writeFailure maps service errors onto status codes.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, task.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if verr, ok := task.AsValidationError(err); ok {
		writeError(w, http.StatusBadRequest, verr.First())
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("task request failed")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
