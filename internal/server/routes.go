package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ziadkadry99/codelocate/internal/keywords"
	"github.com/ziadkadry99/codelocate/internal/locator"
	"github.com/ziadkadry99/codelocate/internal/model"
	"github.com/ziadkadry99/codelocate/internal/strategy"
)

// maxBodyBytes bounds request bodies; issue text with stack traces fits
// comfortably.
const maxBodyBytes = 1 << 20

type locateRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Strategy string `json:"strategy"`
	Root     string `json:"root"`
}

type keywordsRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	var body locateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	req := locator.Request{
		Root:  s.cfg.Root,
		Issue: model.Issue{Title: body.Title, Body: body.Body},
	}
	if body.Root != "" {
		if !s.cfg.AllowRoots {
			writeError(w, http.StatusForbidden, "root override is disabled")
			return
		}
		req.Root = body.Root
	}
	if body.Strategy != "" {
		kind, err := strategy.ParseKind(body.Strategy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Strategy = kind
	}

	res, err := s.locator.Locate(r.Context(), req)
	if err != nil {
		if errors.Is(err, locator.ErrNoWorkspace) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("locate failed", "err", err)
		writeError(w, http.StatusInternalServerError, "locate failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func handleKeywords(w http.ResponseWriter, r *http.Request) {
	var body keywordsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	writeJSON(w, http.StatusOK, keywords.Extract(body.Text))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
