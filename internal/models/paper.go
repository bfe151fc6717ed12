package models

import "time"

// Section labels for the three fixed paper categories.
const (
	SectionMCQ   = "mcq"
	SectionShort = "short"
	SectionLong  = "long"
)

// SectionConfig is the per-category slice of a paper configuration.
// TotalMarks is Count * MarksEach, computed client-side and re-checked
// against the paper total during assembly.
type SectionConfig struct {
	Count      int `json:"count"`
	MarksEach  int `json:"marks_each"`
	TotalMarks int `json:"total_marks"`
}

// DifficultyDistribution holds the three percentages. They must sum to 100.
type DifficultyDistribution struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// PaperConfig is the target a paper is assembled against. It is stored
// verbatim on the paper as a snapshot.
type PaperConfig struct {
	Title           string                 `json:"title"`
	Subject         string                 `json:"subject"`
	TotalMarks      int                    `json:"total_marks"`
	DurationMinutes int                    `json:"duration_minutes"`
	Difficulty      Difficulty             `json:"difficulty"`
	MCQ             SectionConfig          `json:"mcq"`
	Short           SectionConfig          `json:"short"`
	Long            SectionConfig          `json:"long"`
	Topics          []string               `json:"topics"`
	Distribution    DifficultyDistribution `json:"difficulty_distribution"`
}

// PaperQuestion is one selected question reference inside a paper,
// annotated with its assigned section and marks value.
type PaperQuestion struct {
	QuestionID int64     `json:"question_id"`
	Section    string    `json:"section"`
	Marks      int       `json:"marks"`
	Position   int       `json:"position"`
	Question   *Question `json:"question,omitempty"`
}

// QuestionPaper is an immutable record of one assembly run: the config
// snapshot plus the ordered selection it produced. Regenerating creates a
// new paper, never mutates an existing one.
type QuestionPaper struct {
	ID        int64           `json:"id"`
	Config    PaperConfig     `json:"config"`
	Questions []PaperQuestion `json:"questions"`
	CreatedAt time.Time       `json:"created_at"`
}

type PaperListResponse struct {
	Papers []QuestionPaper `json:"papers"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
