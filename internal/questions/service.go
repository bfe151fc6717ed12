package questions

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/vnQ-coder/exam-generator/internal/generator"
	"github.com/vnQ-coder/exam-generator/internal/models"
)

type Service struct {
	store     *Store
	generator *generator.Generator
	reviewer  *generator.Reviewer
}

func NewService(store *Store, gen *generator.Generator, reviewer *generator.Reviewer) *Service {
	return &Service{store: store, generator: gen, reviewer: reviewer}
}

// GenerateQuestions runs the full pipeline for one request: call the model
// once per requested type, optionally review each batch, score every
// question, discard anything below the confidence floor, and persist the
// survivors.
func (s *Service) GenerateQuestions(ctx context.Context, req models.GenerateQuestionsRequest) (*models.GenerateQuestionsResponse, error) {
	requested := len(req.Types) * req.Count
	var accepted []models.Question
	rejected := 0

	for _, qtype := range req.Types {
		set, _, err := s.generator.GenerateQuestions(ctx, qtype, req.Difficulty, req.Count, req.SourceText, req.Topics)
		if err != nil {
			// A failed batch should not sink the whole request;
			// report what the other types produced.
			log.Printf("WARN: generation failed for type %s: %v", qtype, err)
			rejected += req.Count
			continue
		}

		var reviews []generator.ReviewResult
		if s.reviewer.Enabled() {
			reviews, err = s.reviewer.ReviewSet(ctx, set, qtype, req.SourceText)
			if err != nil {
				log.Printf("WARN: review failed for type %s, falling back to structural scoring: %v", qtype, err)
				reviews = nil
			}
		}

		for i, gq := range set.Questions {
			structural := generator.ComputeStructuralScore(gq, qtype)
			var review *generator.ReviewResult
			if reviews != nil && i < len(reviews) {
				review = &reviews[i]
			}
			confidence := generator.ComputeConfidence(structural, review)
			if confidence < generator.MinimumConfidence {
				log.Printf("WARN: discarding low-confidence question (%.1f): %s", confidence, truncate(gq.Text, 80))
				rejected++
				continue
			}
			accepted = append(accepted, buildQuestion(gq, qtype, req, confidence))
		}
	}

	// Persist with a background context so an impatient client disconnect
	// does not lose questions the model already produced.
	saved, err := s.store.SaveGenerated(context.Background(), accepted)
	if err != nil {
		return nil, fmt.Errorf("save generated questions: %w", err)
	}

	resp := &models.GenerateQuestionsResponse{
		Questions: saved,
		Requested: requested,
		Saved:     len(saved),
		Rejected:  rejected,
	}
	if resp.Saved < resp.Requested {
		resp.Message = fmt.Sprintf("%d of %d questions passed quality checks", resp.Saved, resp.Requested)
	}
	return resp, nil
}

func buildQuestion(gq generator.GeneratedQuestion, qtype models.QuestionType, req models.GenerateQuestionsRequest, confidence float64) models.Question {
	q := models.Question{
		Text:       gq.Text,
		Type:       qtype,
		Difficulty: req.Difficulty,
		Options:    gq.Options,
		Tags:       req.Topics,
		Confidence: confidence,
		SourceText: req.SourceText,
	}
	if answer := strings.TrimSpace(gq.Answer); answer != "" {
		q.Answer = &answer
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	return q
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func (s *Service) GetQuestion(questionID int64) (*models.Question, error) {
	return s.store.GetQuestion(questionID)
}

func (s *Service) ListQuestions(filter models.QuestionFilter) (*models.QuestionListResponse, error) {
	questions, total, err := s.store.ListQuestions(filter)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return &models.QuestionListResponse{
		Questions: questions,
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}, nil
}

func (s *Service) UpdateQuestion(questionID int64, req models.UpdateQuestionRequest) (*models.Question, error) {
	if req.Difficulty != nil && !models.ValidDifficulties[*req.Difficulty] {
		return nil, fmt.Errorf("invalid difficulty: %s", *req.Difficulty)
	}
	return s.store.UpdateQuestion(questionID, req)
}

func (s *Service) DeleteQuestion(questionID int64) error {
	return s.store.DeleteQuestion(questionID)
}
