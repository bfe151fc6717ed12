package papers

import (
	"errors"
	"testing"

	"github.com/vnQ-coder/exam-generator/internal/models"
)

var nextID int64

func q(qtype models.QuestionType, difficulty models.Difficulty, confidence float64, tags ...string) models.Question {
	nextID++
	if len(tags) == 0 {
		tags = []string{"biology"}
	}
	return models.Question{
		ID:         nextID,
		Text:       "question text",
		Type:       qtype,
		Difficulty: difficulty,
		Confidence: confidence,
		Tags:       tags,
	}
}

func makePool(qtype models.QuestionType, easy, medium, hard int) []models.Question {
	var pool []models.Question
	for i := 0; i < easy; i++ {
		pool = append(pool, q(qtype, models.DifficultyEasy, float64(90-i)))
	}
	for i := 0; i < medium; i++ {
		pool = append(pool, q(qtype, models.DifficultyMedium, float64(90-i)))
	}
	for i := 0; i < hard; i++ {
		pool = append(pool, q(qtype, models.DifficultyHard, float64(90-i)))
	}
	return pool
}

func validConfig() models.PaperConfig {
	return models.PaperConfig{
		Title:           "Unit Test Paper",
		Subject:         "Biology",
		TotalMarks:      40,
		DurationMinutes: 90,
		Difficulty:      models.DifficultyMedium,
		MCQ:             models.SectionConfig{Count: 10, MarksEach: 1, TotalMarks: 10},
		Short:           models.SectionConfig{Count: 5, MarksEach: 2, TotalMarks: 10},
		Long:            models.SectionConfig{Count: 4, MarksEach: 5, TotalMarks: 20},
		Topics:          []string{"Biology"},
		Distribution:    models.DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20},
	}
}

func assemblyKind(t *testing.T, err error) AssemblyErrorKind {
	t.Helper()
	var ae *AssemblyError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *AssemblyError, got %T: %v", err, err)
	}
	return ae.Kind
}

func TestAssembleMarksMismatchRejected(t *testing.T) {
	cfg := validConfig()
	cfg.TotalMarks = 50 // sections still sum to 40

	paper, err := Assemble(makePool(models.TypeMultipleChoice, 10, 10, 10), cfg)
	if paper != nil {
		t.Fatalf("expected no paper, got %+v", paper)
	}
	if kind := assemblyKind(t, err); kind != KindConfigInvalid {
		t.Errorf("error kind = %q, want %q", kind, KindConfigInvalid)
	}
}

func TestAssemblePercentageMismatchRejected(t *testing.T) {
	cfg := validConfig()
	cfg.Distribution = models.DifficultyDistribution{Easy: 30, Medium: 50, Hard: 30}

	paper, err := Assemble(makePool(models.TypeMultipleChoice, 10, 10, 10), cfg)
	if paper != nil {
		t.Fatalf("expected no paper, got %+v", paper)
	}
	if kind := assemblyKind(t, err); kind != KindConfigInvalid {
		t.Errorf("error kind = %q, want %q", kind, KindConfigInvalid)
	}
}

func TestAssembleEmptyPool(t *testing.T) {
	_, err := Assemble(nil, validConfig())
	if kind := assemblyKind(t, err); kind != KindNoMatchingQuestions {
		t.Errorf("error kind = %q, want %q", kind, KindNoMatchingQuestions)
	}
}

func TestAssembleNoTopicMatch(t *testing.T) {
	pool := []models.Question{
		q(models.TypeMultipleChoice, models.DifficultyEasy, 80, "cell division"),
		q(models.TypeShortAnswer, models.DifficultyMedium, 70, "genetics"),
	}
	cfg := validConfig()
	cfg.Topics = []string{"Photosynthesis"}

	paper, err := Assemble(pool, cfg)
	if paper != nil {
		t.Fatalf("expected no paper, got %+v", paper)
	}
	if kind := assemblyKind(t, err); kind != KindNoMatchingQuestions {
		t.Errorf("error kind = %q, want %q", kind, KindNoMatchingQuestions)
	}
}

// 10 easy, 10 medium, 5 hard MCQs; count=10 at 30/50/20
// → 3 easy, 5 medium, 2 hard, in difficulty blocks, each block sorted by
// descending confidence.
func TestAssembleDifficultySplit(t *testing.T) {
	pool := makePool(models.TypeMultipleChoice, 10, 10, 5)
	cfg := validConfig()
	cfg.MCQ = models.SectionConfig{Count: 10, MarksEach: 1, TotalMarks: 10}
	cfg.Short = models.SectionConfig{Count: 0, MarksEach: 2, TotalMarks: 0}
	cfg.Long = models.SectionConfig{Count: 0, MarksEach: 5, TotalMarks: 0}
	cfg.TotalMarks = 10

	paper, err := Assemble(pool, cfg)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(paper.Questions) != 10 {
		t.Fatalf("selected %d questions, want 10", len(paper.Questions))
	}

	byID := make(map[int64]models.Question)
	for _, pq := range pool {
		byID[pq.ID] = pq
	}

	counts := map[models.Difficulty]int{}
	for _, pq := range paper.Questions {
		counts[byID[pq.QuestionID].Difficulty]++
	}
	if counts[models.DifficultyEasy] != 3 || counts[models.DifficultyMedium] != 5 || counts[models.DifficultyHard] != 2 {
		t.Errorf("difficulty split = easy:%d medium:%d hard:%d, want 3/5/2",
			counts[models.DifficultyEasy], counts[models.DifficultyMedium], counts[models.DifficultyHard])
	}

	// Block order: easy then medium then hard.
	wantOrder := []models.Difficulty{
		models.DifficultyEasy, models.DifficultyEasy, models.DifficultyEasy,
		models.DifficultyMedium, models.DifficultyMedium, models.DifficultyMedium, models.DifficultyMedium, models.DifficultyMedium,
		models.DifficultyHard, models.DifficultyHard,
	}
	for i, pq := range paper.Questions {
		if byID[pq.QuestionID].Difficulty != wantOrder[i] {
			t.Errorf("position %d difficulty = %s, want %s", i, byID[pq.QuestionID].Difficulty, wantOrder[i])
		}
	}

	// Descending confidence within each block.
	prev := -1.0
	prevDiff := models.Difficulty("")
	for _, pq := range paper.Questions {
		sel := byID[pq.QuestionID]
		if sel.Difficulty == prevDiff && sel.Confidence > prev {
			t.Errorf("confidence %f follows %f inside %s block", sel.Confidence, prev, sel.Difficulty)
		}
		prev = sel.Confidence
		prevDiff = sel.Difficulty
	}
}

// 5 essays requested, only 3 exist: paper holds 3, no error.
func TestAssembleUndersupplyReturnsFewer(t *testing.T) {
	pool := makePool(models.TypeEssay, 1, 1, 1)
	cfg := validConfig()
	cfg.MCQ = models.SectionConfig{Count: 0, MarksEach: 1, TotalMarks: 0}
	cfg.Short = models.SectionConfig{Count: 0, MarksEach: 2, TotalMarks: 0}
	cfg.Long = models.SectionConfig{Count: 5, MarksEach: 5, TotalMarks: 25}
	cfg.TotalMarks = 25

	paper, err := Assemble(pool, cfg)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(paper.Questions) != 3 {
		t.Errorf("selected %d questions, want 3", len(paper.Questions))
	}
	for _, pq := range paper.Questions {
		if pq.Section != models.SectionLong {
			t.Errorf("question %d assigned to section %q, want %q", pq.QuestionID, pq.Section, models.SectionLong)
		}
		if pq.Marks != 5 {
			t.Errorf("question %d marks = %d, want 5", pq.QuestionID, pq.Marks)
		}
	}
}

func TestAssembleGlobalUniqueness(t *testing.T) {
	pool := append(makePool(models.TypeMultipleChoice, 8, 8, 8),
		append(makePool(models.TypeShortAnswer, 8, 8, 8),
			makePool(models.TypeEssay, 8, 8, 8)...)...)

	paper, err := Assemble(pool, validConfig())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	seen := make(map[int64]bool)
	for _, pq := range paper.Questions {
		if seen[pq.QuestionID] {
			t.Errorf("question %d appears twice in paper", pq.QuestionID)
		}
		seen[pq.QuestionID] = true
	}
}

func TestAssembleCountBounds(t *testing.T) {
	cfg := validConfig()
	wantTotal := cfg.MCQ.Count + cfg.Short.Count + cfg.Long.Count

	// Sufficient coverage: count equals configured sum.
	full := append(makePool(models.TypeMultipleChoice, 10, 10, 10),
		append(makePool(models.TypeShortAnswer, 10, 10, 10),
			makePool(models.TypeEssay, 10, 10, 10)...)...)
	paper, err := Assemble(full, cfg)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(paper.Questions) != wantTotal {
		t.Errorf("full pool: selected %d, want %d", len(paper.Questions), wantTotal)
	}

	// Thin pool: never more than the configured sum.
	thin := append(makePool(models.TypeMultipleChoice, 2, 1, 0),
		makePool(models.TypeEssay, 1, 0, 0)...)
	paper, err = Assemble(thin, cfg)
	if err != nil {
		t.Fatalf("Assemble thin: %v", err)
	}
	if len(paper.Questions) > wantTotal {
		t.Errorf("thin pool: selected %d, want <= %d", len(paper.Questions), wantTotal)
	}
}

func TestAssembleCategoryOrder(t *testing.T) {
	pool := append(makePool(models.TypeMultipleChoice, 4, 4, 4),
		append(makePool(models.TypeShortAnswer, 4, 4, 4),
			makePool(models.TypeEssay, 4, 4, 4)...)...)

	cfg := validConfig()
	cfg.MCQ = models.SectionConfig{Count: 4, MarksEach: 1, TotalMarks: 4}
	cfg.Short = models.SectionConfig{Count: 4, MarksEach: 2, TotalMarks: 8}
	cfg.Long = models.SectionConfig{Count: 4, MarksEach: 5, TotalMarks: 20}
	cfg.TotalMarks = 32

	paper, err := Assemble(pool, cfg)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	sectionRank := map[string]int{models.SectionMCQ: 0, models.SectionShort: 1, models.SectionLong: 2}
	prev := 0
	for i, pq := range paper.Questions {
		rank := sectionRank[pq.Section]
		if rank < prev {
			t.Errorf("position %d: section %q appears after a later section", i, pq.Section)
		}
		prev = rank
		if pq.Position != i+1 {
			t.Errorf("position field = %d at index %d", pq.Position, i)
		}
	}
}

func TestAssembleRoundingRemainderToHard(t *testing.T) {
	// 33/33/34 over 10 questions: easy=round(3.3)=3, medium=round(3.3)=3,
	// hard absorbs the remainder = 4.
	pool := makePool(models.TypeMultipleChoice, 10, 10, 10)
	cfg := validConfig()
	cfg.MCQ = models.SectionConfig{Count: 10, MarksEach: 1, TotalMarks: 10}
	cfg.Short = models.SectionConfig{Count: 0, MarksEach: 2, TotalMarks: 0}
	cfg.Long = models.SectionConfig{Count: 0, MarksEach: 5, TotalMarks: 0}
	cfg.TotalMarks = 10
	cfg.Distribution = models.DifficultyDistribution{Easy: 33, Medium: 33, Hard: 34}

	paper, err := Assemble(pool, cfg)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	byID := make(map[int64]models.Question)
	for _, pq := range pool {
		byID[pq.ID] = pq
	}
	counts := map[models.Difficulty]int{}
	for _, pq := range paper.Questions {
		counts[byID[pq.QuestionID].Difficulty]++
	}
	if counts[models.DifficultyEasy] != 3 || counts[models.DifficultyMedium] != 3 || counts[models.DifficultyHard] != 4 {
		t.Errorf("split = %d/%d/%d, want 3/3/4",
			counts[models.DifficultyEasy], counts[models.DifficultyMedium], counts[models.DifficultyHard])
	}
}

// 50/50/0 over an odd count rounds both easy and medium up; the selection
// must still respect the configured count instead of taking one extra.
func TestAssembleHalfRoundingStaysWithinCount(t *testing.T) {
	pool := makePool(models.TypeMultipleChoice, 5, 5, 5)
	cfg := validConfig()
	cfg.MCQ = models.SectionConfig{Count: 3, MarksEach: 1, TotalMarks: 3}
	cfg.Short = models.SectionConfig{Count: 0, MarksEach: 2, TotalMarks: 0}
	cfg.Long = models.SectionConfig{Count: 0, MarksEach: 5, TotalMarks: 0}
	cfg.TotalMarks = 3
	cfg.Distribution = models.DifficultyDistribution{Easy: 50, Medium: 50, Hard: 0}

	paper, err := Assemble(pool, cfg)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(paper.Questions) != 3 {
		t.Fatalf("selected %d questions for a section configured for 3", len(paper.Questions))
	}

	byID := make(map[int64]models.Question)
	for _, pq := range pool {
		byID[pq.ID] = pq
	}
	counts := map[models.Difficulty]int{}
	for _, pq := range paper.Questions {
		counts[byID[pq.QuestionID].Difficulty]++
	}
	// easy rounds to 2, medium is capped at the single remaining slot.
	if counts[models.DifficultyEasy] != 2 || counts[models.DifficultyMedium] != 1 || counts[models.DifficultyHard] != 0 {
		t.Errorf("split = %d/%d/%d, want 2/1/0",
			counts[models.DifficultyEasy], counts[models.DifficultyMedium], counts[models.DifficultyHard])
	}
}

func TestMatchesAnyTopic(t *testing.T) {
	tests := []struct {
		tags   []string
		topics []string
		want   bool
	}{
		{[]string{"Photosynthesis"}, []string{"photosynthesis"}, true},
		{[]string{"photosynthesis basics"}, []string{"Photosynthesis"}, true},
		{[]string{"photo"}, []string{"Photosynthesis"}, true}, // substring either direction
		{[]string{"cell division"}, []string{"Photosynthesis"}, false},
		{[]string{}, []string{"Photosynthesis"}, false},
		{[]string{"GENETICS"}, []string{"genetics"}, true},
	}

	for _, tt := range tests {
		got := matchesAnyTopic(tt.tags, tt.topics)
		if got != tt.want {
			t.Errorf("matchesAnyTopic(%v, %v) = %v, want %v", tt.tags, tt.topics, got, tt.want)
		}
	}
}

func TestFilterByTopicsEmptyMeansNoRestriction(t *testing.T) {
	pool := makePool(models.TypeMultipleChoice, 2, 2, 2)
	got := filterByTopics(pool, nil)
	if len(got) != len(pool) {
		t.Errorf("empty topics filtered pool to %d, want %d", len(got), len(pool))
	}
}
