package rest

import (
	"net/http"

	"github.com/dmitrijs2005/piiquante/internal/server/assets"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListSauces(w http.ResponseWriter, r *http.Request) {
	list, err := s.sauces.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSauce(w http.ResponseWriter, r *http.Request) {
	sauce, err := s.sauces.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sauce)
}

func (s *Server) handleCreateSauce(w http.ResponseWriter, r *http.Request) {
	req, img, err := s.decodeSauceForm(w, r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sauce, err := s.sauces.Create(r.Context(), userID(r.Context()), req.details(), img)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sauceResponse{Message: "sauce created", Sauce: sauce})
}

// handleUpdateSauce accepts either a JSON body with the sauce fields, or a
// multipart form that may carry a replacement image.
func (s *Server) handleUpdateSauce(w http.ResponseWriter, r *http.Request) {
	var (
		req *sauceRequest
		img *assets.Image
		err error
	)
	if isMultipart(r) {
		req, img, err = s.decodeSauceForm(w, r, false)
	} else {
		req = &sauceRequest{}
		err = s.decodeJSON(w, r, req)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sauce, err := s.sauces.Update(r.Context(), chi.URLParam(r, "id"), userID(r.Context()), req.details(), img)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sauceResponse{Message: "sauce updated", Sauce: sauce})
}

func (s *Server) handleDeleteSauce(w http.ResponseWriter, r *http.Request) {
	if err := s.sauces.Delete(r.Context(), chi.URLParam(r, "id"), userID(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "sauce deleted"})
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sauce, err := s.sauces.Vote(r.Context(), chi.URLParam(r, "id"), userID(r.Context()), *req.Like)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sauceResponse{Message: "vote recorded", Sauce: sauce})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
