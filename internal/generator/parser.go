package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vnQ-coder/exam-generator/internal/models"
)

type GeneratedSet struct {
	Questions []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Text        string   `json:"text"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseResponse decodes an LLM response into a GeneratedSet and validates
// its structure against the requested question type.
func ParseResponse(responseBody string, qtype models.QuestionType) (*GeneratedSet, error) {
	cleaned := stripCodeFences(responseBody)

	var set GeneratedSet
	if err := json.Unmarshal([]byte(cleaned), &set); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateSet(&set, qtype); err != nil {
		return nil, err
	}

	return &set, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateSet(set *GeneratedSet, qtype models.QuestionType) error {
	var errs []string

	if len(set.Questions) == 0 {
		return &ValidationError{Errors: []string{"no questions in response"}}
	}

	for i, q := range set.Questions {
		qNum := i + 1

		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty text", qNum))
			continue
		}

		switch qtype {
		case models.TypeMultipleChoice:
			if len(q.Options) != 4 {
				errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", qNum, len(q.Options)))
				continue
			}
			if q.Answer == "" {
				errs = append(errs, fmt.Sprintf("question %d: missing answer", qNum))
				continue
			}
			if !containsOption(q.Options, q.Answer) {
				errs = append(errs, fmt.Sprintf("question %d: answer is not one of the options", qNum))
			}
		case models.TypeTrueFalse:
			answer := strings.ToLower(strings.TrimSpace(q.Answer))
			if answer != "true" && answer != "false" {
				errs = append(errs, fmt.Sprintf("question %d: true/false answer is %q", qNum, q.Answer))
			}
			if len(q.Options) != 0 {
				errs = append(errs, fmt.Sprintf("question %d: true/false question has %d options", qNum, len(q.Options)))
			}
		case models.TypeShortAnswer, models.TypeEssay:
			// Answer is a model answer and may be empty; options are not allowed.
			if len(q.Options) != 0 {
				errs = append(errs, fmt.Sprintf("question %d: %s question has %d options", qNum, qtype, len(q.Options)))
			}
		default:
			errs = append(errs, fmt.Sprintf("question %d: unknown question type %q", qNum, qtype))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}

func containsOption(options []string, answer string) bool {
	target := strings.TrimSpace(answer)
	for _, o := range options {
		if strings.TrimSpace(o) == target {
			return true
		}
	}
	return false
}
