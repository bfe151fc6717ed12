package questions

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
	maxSourceTextLen = 50000
	maxCountPerType  = 20
	defaultCount     = 5
	defaultListLimit = 20
	maxListLimit     = 100
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GenerateQuestions handles POST /questions/generate
func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.SourceText = strings.TrimSpace(req.SourceText)
	if req.SourceText == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "source_text is required"})
		return
	}
	if len(req.SourceText) > maxSourceTextLen {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "source_text exceeds maximum length"})
		return
	}
	if len(req.Types) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "at least one question type is required"})
		return
	}
	for _, t := range req.Types {
		if !models.ValidQuestionTypes[t] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question type: " + string(t)})
			return
		}
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}
	if !models.ValidDifficulties[req.Difficulty] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid difficulty: " + string(req.Difficulty)})
		return
	}
	if req.Count == 0 {
		req.Count = defaultCount
	}
	if req.Count < 1 || req.Count > maxCountPerType {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "count must be between 1 and 20"})
		return
	}

	resp, err := h.service.GenerateQuestions(r.Context(), req)
	if err != nil {
		log.Printf("Error generating questions: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate questions"})
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// ListQuestions handles GET /questions
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	filter := models.QuestionFilter{
		Limit:  intQueryParam(r, "limit", defaultListLimit),
		Offset: intQueryParam(r, "offset", 0),
	}
	if filter.Limit < 1 || filter.Limit > maxListLimit {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if v := r.URL.Query().Get("type"); v != "" {
		t := models.QuestionType(v)
		if !models.ValidQuestionTypes[t] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question type: " + v})
			return
		}
		filter.Type = &t
	}
	if v := r.URL.Query().Get("difficulty"); v != "" {
		d := models.Difficulty(v)
		if !models.ValidDifficulties[d] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid difficulty: " + v})
			return
		}
		filter.Difficulty = &d
	}
	filter.Tag = r.URL.Query().Get("tag")
	filter.Search = r.URL.Query().Get("search")

	resp, err := h.service.ListQuestions(filter)
	if err != nil {
		log.Printf("Error listing questions: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list questions"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetQuestion handles GET /questions/{id}
func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r)
	if !ok {
		return
	}

	question, err := h.service.GetQuestion(questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
			return
		}
		log.Printf("Error fetching question %d: %v", questionID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch question"})
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// UpdateQuestion handles PUT /questions/{id}
func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Text != nil && strings.TrimSpace(*req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "text cannot be empty"})
		return
	}
	if req.Difficulty != nil && !models.ValidDifficulties[*req.Difficulty] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid difficulty: " + string(*req.Difficulty)})
		return
	}

	question, err := h.service.UpdateQuestion(questionID, req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
			return
		}
		log.Printf("Error updating question %d: %v", questionID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update question"})
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteQuestion(questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
			return
		}
		if errors.Is(err, ErrQuestionInUse) {
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Question is used by an existing paper and cannot be deleted"})
			return
		}
		log.Printf("Error deleting question %d: %v", questionID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete question"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question ID"})
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
