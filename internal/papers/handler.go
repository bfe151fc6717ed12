package papers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/vnQ-coder/exam-generator/internal/models"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreatePaper handles POST /papers
func (h *Handler) CreatePaper(w http.ResponseWriter, r *http.Request) {
	var cfg models.PaperConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	cfg.Title = strings.TrimSpace(cfg.Title)
	if cfg.Title == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "title is required"})
		return
	}
	if cfg.TotalMarks < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "total_marks must be positive"})
		return
	}
	if cfg.MCQ.Count < 0 || cfg.Short.Count < 0 || cfg.Long.Count < 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "section counts cannot be negative"})
		return
	}
	if cfg.MCQ.Count+cfg.Short.Count+cfg.Long.Count == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "at least one section must request questions"})
		return
	}

	paper, err := h.service.CreatePaper(r.Context(), cfg)
	if err != nil {
		h.writePaperError(w, err, "create")
		return
	}

	writeJSON(w, http.StatusCreated, paper)
}

// RegeneratePaper handles POST /papers/{id}/regenerate
func (h *Handler) RegeneratePaper(w http.ResponseWriter, r *http.Request) {
	paperID, ok := pathID(w, r)
	if !ok {
		return
	}

	paper, err := h.service.RegeneratePaper(r.Context(), paperID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Paper not found"})
			return
		}
		h.writePaperError(w, err, "regenerate")
		return
	}

	writeJSON(w, http.StatusCreated, paper)
}

// ListPapers handles GET /papers
func (h *Handler) ListPapers(w http.ResponseWriter, r *http.Request) {
	limit := intQueryParam(r, "limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := intQueryParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	resp, err := h.service.ListPapers(limit, offset)
	if err != nil {
		log.Printf("Error listing papers: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list papers"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPaper handles GET /papers/{id}
func (h *Handler) GetPaper(w http.ResponseWriter, r *http.Request) {
	paperID, ok := pathID(w, r)
	if !ok {
		return
	}

	paper, err := h.service.GetPaper(paperID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Paper not found"})
			return
		}
		log.Printf("Error fetching paper %d: %v", paperID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch paper"})
		return
	}

	writeJSON(w, http.StatusOK, paper)
}

// DeletePaper handles DELETE /papers/{id}
func (h *Handler) DeletePaper(w http.ResponseWriter, r *http.Request) {
	paperID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePaper(paperID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Paper not found"})
			return
		}
		log.Printf("Error deleting paper %d: %v", paperID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete paper"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writePaperError maps assembly failures to 400s with the assembler's
// message; anything else is a 500.
func (h *Handler) writePaperError(w http.ResponseWriter, err error, action string) {
	var asmErr *AssemblyError
	if errors.As(err, &asmErr) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: asmErr.Message})
		return
	}
	log.Printf("Error during paper %s: %v", action, err)
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to " + action + " paper"})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid paper ID"})
		return 0, false
	}
	return id, true
}

func intQueryParam(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
