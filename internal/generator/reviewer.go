package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/vnQ-coder/exam-generator/internal/config"
	"github.com/vnQ-coder/exam-generator/internal/models"
)

// Reviewer runs an optional second LLM pass that answers each generated
// question independently and reports whether it agrees with the marked
// answer. Its verdict feeds the confidence score.
type Reviewer struct {
	llm   LLMClient
	model string
}

func NewReviewer(cfg *config.Config) *Reviewer {
	if cfg.MockGenerator || !cfg.ReviewEnabled {
		return &Reviewer{llm: nil, model: "disabled"}
	}
	model := cfg.ReviewModel
	return &Reviewer{llm: NewAPIClient(cfg.AnthropicAPIKey, model), model: model}
}

func (r *Reviewer) Enabled() bool {
	return r.llm != nil
}

func (r *Reviewer) ModelName() string {
	return r.model
}

type ReviewResult struct {
	QuestionIndex int    `json:"question_index"`
	GivenAnswer   string `json:"given_answer"`
	AnswerAgrees  bool   `json:"answer_agrees"`
	Confidence    string `json:"confidence"`
	Reasoning     string `json:"reasoning"`
	PromptTokens  int    `json:"prompt_tokens"`
	OutputTokens  int    `json:"output_tokens"`
}

type reviewResponse struct {
	Answer     string `json:"answer"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// ReviewSet reviews each question in the set. A failed review downgrades to
// a low-confidence agreement rather than failing the whole generation.
func (r *Reviewer) ReviewSet(ctx context.Context, set *GeneratedSet, qtype models.QuestionType, sourceText string) ([]ReviewResult, error) {
	if r.llm == nil {
		return nil, fmt.Errorf("reviewer disabled")
	}

	results := make([]ReviewResult, 0, len(set.Questions))
	for i, q := range set.Questions {
		rr, err := r.ReviewQuestion(ctx, q, qtype, sourceText)
		if err != nil {
			log.Printf("WARN: review failed for question %d: %v, keeping with low confidence", i+1, err)
			rr = &ReviewResult{
				AnswerAgrees: true,
				Confidence:   "low",
				Reasoning:    fmt.Sprintf("review error: %v", err),
			}
		}
		rr.QuestionIndex = i
		rr.GivenAnswer = q.Answer
		results = append(results, *rr)
	}

	return results, nil
}

func (r *Reviewer) ReviewQuestion(ctx context.Context, q GeneratedQuestion, qtype models.QuestionType, sourceText string) (*ReviewResult, error) {
	prompt := buildReviewPrompt(q, qtype, sourceText)

	resp, err := r.llm.Generate(ctx, reviewSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("review call failed: %w", err)
	}

	cleaned := stripCodeFences(resp.Content)
	var rResp reviewResponse
	if err := json.Unmarshal([]byte(cleaned), &rResp); err != nil {
		return nil, fmt.Errorf("failed to parse review response: %w", err)
	}

	return &ReviewResult{
		AnswerAgrees: answersAgree(qtype, q.Answer, rResp.Answer),
		Confidence:   rResp.Confidence,
		Reasoning:    rResp.Reasoning,
		PromptTokens: resp.PromptTokens,
		OutputTokens: resp.OutputTokens,
	}, nil
}

// answersAgree compares the reviewer's answer to the generated one. For
// open-ended types there is no single right string, so the reviewer's
// confidence verdict carries the weight and agreement defaults to true.
func answersAgree(qtype models.QuestionType, given, reviewed string) bool {
	switch qtype {
	case models.TypeMultipleChoice, models.TypeTrueFalse:
		return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(reviewed))
	default:
		return true
	}
}

const reviewSystemPrompt = `You are grading exam questions written from study material. Answer the question yourself using only the material, then judge how well-constructed the question is. Respond with JSON only.`

func buildReviewPrompt(q GeneratedQuestion, qtype models.QuestionType, sourceText string) string {
	var sb strings.Builder

	sb.WriteString("STUDY MATERIAL:\n")
	sb.WriteString(sourceText)
	sb.WriteString("\n\nQUESTION (")
	sb.WriteString(string(qtype))
	sb.WriteString("):\n")
	sb.WriteString(q.Text)
	sb.WriteString("\n")

	if len(q.Options) > 0 {
		sb.WriteString("\nOPTIONS:\n")
		for _, o := range q.Options {
			sb.WriteString("- ")
			sb.WriteString(o)
			sb.WriteString("\n")
		}
	}

	sb.WriteString(`
Answer the question yourself from the material, then respond with JSON only:
{
  "answer": "your answer (for multiple choice, the full option text; for true/false, \"true\" or \"false\")",
  "confidence": "high",
  "reasoning": "Why this is the answer, and any problems with the question's construction..."
}

confidence must be one of: "high", "medium", "low"`)

	return sb.String()
}
