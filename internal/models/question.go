package models

import "time"

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeShortAnswer    QuestionType = "short_answer"
	TypeEssay          QuestionType = "essay"
)

var ValidQuestionTypes = map[QuestionType]bool{
	TypeMultipleChoice: true,
	TypeTrueFalse:      true,
	TypeShortAnswer:    true,
	TypeEssay:          true,
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// ── Core Structs ───────────────────────────────────────

// Question is a stored, AI-generated question. Confidence is assigned once
// when the question is generated and scored; the edit endpoint never
// changes it.
type Question struct {
	ID         int64        `json:"id"`
	Text       string       `json:"text"`
	Type       QuestionType `json:"type"`
	Difficulty Difficulty   `json:"difficulty"`
	Answer     *string      `json:"answer,omitempty"`
	Options    []string     `json:"options,omitempty"`
	Tags       []string     `json:"tags"`
	Confidence float64      `json:"confidence"`
	SourceText string       `json:"source_text,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// ── Request Types ─────────────────────────────────────

type GenerateQuestionsRequest struct {
	SourceText string         `json:"source_text"`
	Types      []QuestionType `json:"types"`
	Difficulty Difficulty     `json:"difficulty"`
	Count      int            `json:"count"` // per requested type
	Topics     []string       `json:"topics,omitempty"`
}

type UpdateQuestionRequest struct {
	Text       *string     `json:"text,omitempty"`
	Answer     *string     `json:"answer,omitempty"`
	Options    []string    `json:"options,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Difficulty *Difficulty `json:"difficulty,omitempty"`
}

type QuestionFilter struct {
	Type       *QuestionType
	Difficulty *Difficulty
	Tag        string
	Search     string
	Limit      int
	Offset     int
}

// ── Response Types ────────────────────────────────────

type GenerateQuestionsResponse struct {
	Questions []Question `json:"questions"`
	Requested int        `json:"requested"`
	Saved     int        `json:"saved"`
	Rejected  int        `json:"rejected"`
	Message   string     `json:"message"`
}

type QuestionListResponse struct {
	Questions []Question `json:"questions"`
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}
