package http

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"diaria/internal/services"
)

type createEntryRequest struct {
	UserID      string      `json:"userId"`
	Date        string      `json:"date"`
	DayOfWeek   string      `json:"dayOfWeek"`
	Gross       json.Number `json:"gross"`
	Expenses    json.Number `json:"expenses"`
	Description string      `json:"description"`
}

type updateEntryRequest struct {
	Date        *string      `json:"date"`
	DayOfWeek   *string      `json:"dayOfWeek"`
	Gross       *json.Number `json:"gross"`
	Expenses    *json.Number `json:"expenses"`
	Description *string      `json:"description"`
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	gross, err := parseMoney(req.Gross)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeUnprocessable, "invalid gross amount: "+err.Error())
		return
	}
	expenses, err := parseMoney(req.Expenses)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeUnprocessable, "invalid expenses amount: "+err.Error())
		return
	}

	entry, err := s.entries.Create(r.Context(), services.CreateEntryInput{
		UserID:      req.UserID,
		Date:        date,
		DayOfWeek:   req.DayOfWeek,
		Gross:       gross,
		Expenses:    expenses,
		Description: req.Description,
	})
	if err != nil {
		mapError(w, err)
		return
	}

	atomic.AddInt64(&s.appMetrics.entriesCreated, 1)
	s.invalidateUser(entry.UserID)
	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.entries.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	userID, err := requiredQuery(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	skip, err := queryInt(r, "skip", 0, 0, 1<<30)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	take, err := queryInt(r, "take", 20, 1, 100)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	entries, total, err := s.entries.List(r.Context(), userID, skip, take)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": toEntryDTOs(entries),
		"total":   total,
		"skip":    skip,
		"take":    take,
	})
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req updateEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	var in services.UpdateEntryInput
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
			return
		}
		in.Date = &date
	}
	in.DayOfWeek = req.DayOfWeek
	if req.Gross != nil {
		gross, err := parseMoney(*req.Gross)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, codeUnprocessable, "invalid gross amount: "+err.Error())
			return
		}
		in.Gross = &gross
	}
	if req.Expenses != nil {
		expenses, err := parseMoney(*req.Expenses)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, codeUnprocessable, "invalid expenses amount: "+err.Error())
			return
		}
		in.Expenses = &expenses
	}
	in.Description = req.Description

	entry, err := s.entries.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		mapError(w, err)
		return
	}

	s.invalidateUser(entry.UserID)
	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Fetch first so the owning user's cached reports can be invalidated.
	var userID string
	if entry, err := s.entries.Get(r.Context(), id); err == nil {
		userID = entry.UserID
	}

	if err := s.entries.Delete(r.Context(), id); err != nil {
		mapError(w, err)
		return
	}

	if userID != "" {
		s.invalidateUser(userID)
	}
	w.WriteHeader(http.StatusNoContent)
}
