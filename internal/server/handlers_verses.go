package server

import (
	"net/http"
	"regexp"
	"strconv"
)

// canonicalIDPattern matches "chapter_verse", e.g. "2_47".
var canonicalIDPattern = regexp.MustCompile(`^\d{1,2}_\d{1,3}$`)

func (s *Server) handleListVerses(w http.ResponseWriter, r *http.Request) {
	verses, err := s.db.ListVerses(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"verses": verses,
		"count":  len(verses),
	})
}

func (s *Server) handleGetVerse(w http.ResponseWriter, r *http.Request) {
	canonicalID := r.PathValue("canonical_id")
	if !canonicalIDPattern.MatchString(canonicalID) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid canonical verse ID")
		return
	}

	verse, err := s.db.GetVerse(r.Context(), canonicalID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if verse == nil {
		s.errorResponse(w, http.StatusNotFound, "Verse not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, verse)
}

func (s *Server) handleListChapterVerses(w http.ResponseWriter, r *http.Request) {
	chapter, err := strconv.Atoi(r.PathValue("chapter"))
	if err != nil || chapter < 1 || chapter > 18 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid chapter number")
		return
	}

	verses, err := s.db.ListVersesByChapter(r.Context(), chapter)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"chapter": chapter,
		"verses":  verses,
		"count":   len(verses),
	})
}
