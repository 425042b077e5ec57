package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vnykmshr/geetanjali/internal/db"
	"github.com/vnykmshr/geetanjali/internal/moderation"
	"github.com/vnykmshr/geetanjali/internal/types"
)

// CreateCaseRequest is the case submission payload. Exactly one of
// user_id and session_id must be set.
type CreateCaseRequest struct {
	Title        string     `json:"title" validate:"required,min=3,max=200"`
	Description  string     `json:"description" validate:"required,min=10,max=5000"`
	Role         string     `json:"role" validate:"max=100"`
	Stakeholders []string   `json:"stakeholders" validate:"max=10,dive,max=100"`
	Horizon      string     `json:"horizon" validate:"max=100"`
	UserID       *uuid.UUID `json:"user_id"`
	SessionID    *string    `json:"session_id"`
}

func (s *Server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	var req CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	c := &types.Case{
		Title:        req.Title,
		Description:  req.Description,
		Role:         req.Role,
		Stakeholders: req.Stakeholders,
		Horizon:      req.Horizon,
		UserID:       req.UserID,
		SessionID:    req.SessionID,
		Status:       types.StatusPending,
	}

	if err := c.ValidateOwner(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Blocked submissions are rejected before anything is persisted;
	// the response carries only the fixed message, never the match.
	if result := s.blocklist.Check(req.Title + "\n" + req.Description); result.Blocked {
		s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]string{
			"error":          "content_blocked",
			"message":        moderation.BlockedMessage,
			"violation_type": string(result.Violation),
		})
		return
	}

	created, err := s.db.CreateCase(r.Context(), c)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	// The description doubles as the opening turn of the conversation.
	_, err = s.db.CreateMessage(r.Context(), &types.Message{
		CaseID:  created.ID,
		Role:    types.RoleUser,
		Content: created.Description,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid case ID")
		return
	}

	c, err := s.db.GetCase(r.Context(), caseID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if c == nil {
		s.errorResponse(w, http.StatusNotFound, "Case not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleListCases(w http.ResponseWriter, r *http.Request) {
	filters := db.CaseFilters{
		SessionID: r.URL.Query().Get("session_id"),
		Status:    types.CaseStatus(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("user_id"); v != "" {
		userID, err := uuid.Parse(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid user_id")
			return
		}
		filters.UserID = userID
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > 200 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filters.Limit = limit
	}

	cases, err := s.db.ListCases(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"cases": cases,
		"count": len(cases),
	})
}

func (s *Server) handleDeleteCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid case ID")
		return
	}

	if err := s.db.DeleteCase(r.Context(), caseID); err != nil {
		if err.Error() == "case not found: "+caseID.String() {
			s.errorResponse(w, http.StatusNotFound, "Case not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleRetryCase re-queues a failed case. Only failed cases are
// retryable; a compare-and-set guards against concurrent retries.
func (s *Server) handleRetryCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid case ID")
		return
	}

	ok, err := s.db.TransitionCaseStatus(r.Context(), caseID, types.StatusFailed, types.StatusPending)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !ok {
		c, err := s.db.GetCase(r.Context(), caseID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if c == nil {
			s.errorResponse(w, http.StatusNotFound, "Case not found")
			return
		}
		s.errorResponse(w, http.StatusConflict, "Only failed cases can be retried (current status: "+string(c.Status)+")")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": string(types.StatusPending)})
}

func (s *Server) handleGetCaseOutput(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid case ID")
		return
	}

	out, err := s.db.GetOutputByCase(r.Context(), caseID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if out == nil {
		s.errorResponse(w, http.StatusNotFound, "No output for this case yet")
		return
	}

	s.jsonResponse(w, http.StatusOK, out)
}

// CreateMessageRequest is a follow-up conversation turn.
type CreateMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid case ID")
		return
	}

	var req CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	// Follow-ups pass through the same blocklist as initial submissions.
	if result := s.blocklist.Check(req.Content); result.Blocked {
		s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]string{
			"error":          "content_blocked",
			"message":        moderation.BlockedMessage,
			"violation_type": string(result.Violation),
		})
		return
	}

	c, err := s.db.GetCase(r.Context(), caseID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if c == nil {
		s.errorResponse(w, http.StatusNotFound, "Case not found")
		return
	}

	msg, err := s.db.CreateMessage(r.Context(), &types.Message{
		CaseID:  caseID,
		Role:    types.RoleUser,
		Content: req.Content,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, msg)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid case ID")
		return
	}

	messages, err := s.db.ListMessages(r.Context(), caseID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"messages": messages,
		"count":    len(messages),
	})
}

// ShareCaseRequest selects the rendering mode for a public link.
type ShareCaseRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=full summary"`
}

func (s *Server) handleShareCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid case ID")
		return
	}

	var req ShareCaseRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.validate.Struct(req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
			return
		}
	}
	mode := types.ShareMode(req.Mode)
	if mode == "" {
		mode = types.ShareModeSummary
	}

	c, err := s.db.GetCase(r.Context(), caseID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if c == nil {
		s.errorResponse(w, http.StatusNotFound, "Case not found")
		return
	}
	if c.Status != types.StatusCompleted {
		s.errorResponse(w, http.StatusConflict, "Only completed cases can be shared")
		return
	}

	// Sharing is idempotent: an existing slug is reused.
	slug := newShareSlug()
	if c.ShareSlug != nil && *c.ShareSlug != "" {
		slug = *c.ShareSlug
	}

	if err := s.db.ShareCase(r.Context(), caseID, slug, mode); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"share_slug": slug,
		"share_mode": string(mode),
	})
}

func (s *Server) handleGetSharedCase(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	c, err := s.db.GetCaseBySlug(r.Context(), slug)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if c == nil {
		s.errorResponse(w, http.StatusNotFound, "Shared case not found")
		return
	}

	out, err := s.db.GetOutputByCase(r.Context(), c.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	// Ownership identifiers never leave the server on shared links.
	c.UserID = nil
	c.SessionID = nil
	if c.ShareMode == types.ShareModeSummary {
		c.Description = ""
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"case":   c,
		"output": out,
	})
}

// newShareSlug derives a short opaque slug for public links.
func newShareSlug() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
