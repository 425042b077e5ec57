package server

import (
	"encoding/json"
	"net/http"
)

// NewsletterRequest is the payload for subscribe and unsubscribe.
type NewsletterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) handleSubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if err := s.db.SubscribeNewsletter(r.Context(), req.Email); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "subscribed"})
}

func (s *Server) handleUnsubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	if err := s.db.UnsubscribeNewsletter(r.Context(), req.Email); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "unsubscribed"})
}
