package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/expertprofile/internal/common"
	"github.com/dmitrijs2005/expertprofile/internal/models"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type revisionResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	u, err := s.profiles.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) saveProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	var req models.SaveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	u, err := s.profiles.Save(r.Context(), id, &req.Data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) getRevision(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFrom(r.Context())

	version, err := strconv.ParseInt(chi.URLParam(r, "version"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "version must be an integer")
		return
	}

	url, err := s.profiles.RevisionURL(r.Context(), id, version)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, revisionResponse{URL: url})
}

// fail maps service errors to status codes. common.ErrorInternal has been
// logged by the service already; anything else unknown is logged here. Both
// are reported as 500 without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrVersionConflict):
		writeError(w, http.StatusConflict, "profile was changed by another session, reload and try again")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorInternal):
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
	default:
		s.logger.Error(r.Context(), "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
