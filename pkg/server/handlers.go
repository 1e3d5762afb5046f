package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/0xmhha/year-in-code/pkg/adapter"
	"github.com/0xmhha/year-in-code/pkg/github"
	"github.com/0xmhha/year-in-code/pkg/leaderboard"
	"github.com/0xmhha/year-in-code/pkg/stats"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type leaderboardResponse struct {
	Success bool `json:"success"`
	*leaderboard.Page
}

type submitResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Entry   *leaderboard.Entry `json:"entry"`
}

type statsResponse struct {
	Success bool             `json:"success"`
	Stats   *stats.YearStats `json:"stats"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Leaderboard unavailable", "")
		return
	}

	q := r.URL.Query()
	var query leaderboard.Query

	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err.Error())
			return
		}
		query.Year = year
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", v)
			return
		}
		query.Limit = limit
	}
	category, err := leaderboard.ParseCategory(q.Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category", err.Error())
		return
	}
	query.Category = category
	query.Search = q.Get("search")

	page, err := s.store.Query(query)
	if err != nil {
		s.logger.Error("leaderboard query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch leaderboard", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{Success: true, Page: page})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Leaderboard unavailable", "")
		return
	}

	var req leaderboard.SubmitRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	entry, err := s.store.Submit(req)
	if err != nil {
		if errors.Is(err, leaderboard.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, "Missing required fields", err.Error())
			return
		}
		s.logger.Error("leaderboard submission failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit to leaderboard", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success: true,
		Message: "Submitted to leaderboard!",
		Entry:   entry,
	})
}

func (s *Server) handleGitHub(w http.ResponseWriter, r *http.Request) {
	if s.github == nil {
		writeError(w, http.StatusServiceUnavailable, "GitHub lookups unavailable", "")
		return
	}

	username := r.PathValue("username")
	if err := github.ValidateUsername(username); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid username", err.Error())
		return
	}

	year := 0
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err.Error())
			return
		}
		year = y
	}

	report, err := adapter.GitHub(r.Context(), s.github, username, year, s.opts)
	if err != nil {
		var statusErr *github.StatusError
		if errors.As(err, &statusErr) && statusErr.NotFound() {
			writeError(w, http.StatusNotFound, "GitHub user not found", err.Error())
			return
		}
		s.logger.Warn("GitHub report failed", "username", username, "error", err)
		writeError(w, http.StatusBadGateway,
			"Failed to fetch GitHub data. Please check the username and try again.", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: report})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format, err := adapter.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid format", err.Error())
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to read upload", err.Error())
		return
	}

	report, err := adapter.FromBytes(data, format, s.opts)
	if err != nil {
		switch {
		case errors.Is(err, adapter.ErrEmptyInput), errors.Is(err, adapter.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Failed to parse upload", err.Error())
		default:
			s.logger.Error("report failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to build report", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: report})
}
