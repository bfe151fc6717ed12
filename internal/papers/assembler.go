package papers

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vnQ-coder/exam-generator/internal/models"
)

// AssemblyErrorKind discriminates assembly failures so the HTTP layer can
// render a specific 400 message per failure mode.
type AssemblyErrorKind string

const (
	KindConfigInvalid       AssemblyErrorKind = "configuration_invalid"
	KindNoMatchingQuestions AssemblyErrorKind = "no_matching_questions"
)

type AssemblyError struct {
	Kind    AssemblyErrorKind
	Message string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func configInvalid(format string, args ...interface{}) *AssemblyError {
	return &AssemblyError{Kind: KindConfigInvalid, Message: fmt.Sprintf(format, args...)}
}

func noMatch(format string, args ...interface{}) *AssemblyError {
	return &AssemblyError{Kind: KindNoMatchingQuestions, Message: fmt.Sprintf(format, args...)}
}

// category binds a paper section label to the question type it draws from.
type category struct {
	Section string
	Type    models.QuestionType
	Config  models.SectionConfig
}

func categories(cfg models.PaperConfig) []category {
	return []category{
		{models.SectionMCQ, models.TypeMultipleChoice, cfg.MCQ},
		{models.SectionShort, models.TypeShortAnswer, cfg.Short},
		{models.SectionLong, models.TypeEssay, cfg.Long},
	}
}

// Assemble selects questions from the pool to satisfy cfg and packages them
// into a paper. It is a pure function: no I/O, no shared state. The returned
// paper is not yet persisted and has no ID.
//
// A bucket with fewer available questions than requested yields a smaller
// paper rather than an error; questions are never fabricated.
func Assemble(pool []models.Question, cfg models.PaperConfig) (*models.QuestionPaper, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	if len(pool) == 0 {
		return nil, noMatch("question pool is empty")
	}

	filtered := filterByTopics(pool, cfg.Topics)
	if len(filtered) == 0 {
		return nil, noMatch("no questions match the requested topics: %s", strings.Join(cfg.Topics, ", "))
	}

	// Global used set threaded through the three category selections so a
	// question can never appear in two sections of the same paper.
	used := make(map[int64]bool)
	var selected []models.PaperQuestion

	for _, cat := range categories(cfg) {
		picks := selectForCategory(filtered, cat.Type, cat.Config.Count, cfg.Distribution, used)
		for _, q := range picks {
			used[q.ID] = true
			selected = append(selected, models.PaperQuestion{
				QuestionID: q.ID,
				Section:    cat.Section,
				Marks:      cat.Config.MarksEach,
				Position:   len(selected) + 1,
			})
		}
	}

	return &models.QuestionPaper{
		Config:    cfg,
		Questions: selected,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func validateConfig(cfg models.PaperConfig) error {
	sectionTotal := cfg.MCQ.TotalMarks + cfg.Short.TotalMarks + cfg.Long.TotalMarks
	if sectionTotal != cfg.TotalMarks {
		return configInvalid("section marks sum to %d but total_marks is %d", sectionTotal, cfg.TotalMarks)
	}

	d := cfg.Distribution
	if d.Easy+d.Medium+d.Hard != 100 {
		return configInvalid("difficulty percentages sum to %d, must sum to 100", d.Easy+d.Medium+d.Hard)
	}

	return nil
}

// filterByTopics keeps questions whose tags match any requested topic.
// A match is a case-insensitive substring in either direction, so the tag
// "photosynthesis basics" matches the topic "Photosynthesis" and vice versa.
// An empty topic list means no topic restriction.
func filterByTopics(pool []models.Question, topics []string) []models.Question {
	if len(topics) == 0 {
		return pool
	}

	var out []models.Question
	for _, q := range pool {
		if matchesAnyTopic(q.Tags, topics) {
			out = append(out, q)
		}
	}
	return out
}

func matchesAnyTopic(tags, topics []string) bool {
	for _, tag := range tags {
		lt := strings.ToLower(tag)
		for _, topic := range topics {
			lo := strings.ToLower(topic)
			if strings.Contains(lt, lo) || strings.Contains(lo, lt) {
				return true
			}
		}
	}
	return false
}

// selectForCategory picks up to total questions of one type, split across
// difficulty buckets by the configured percentages. Hard absorbs the
// rounding remainder so the three bucket targets always sum to total.
func selectForCategory(pool []models.Question, qtype models.QuestionType, total int, dist models.DifficultyDistribution, used map[int64]bool) []models.Question {
	if total <= 0 {
		return nil
	}

	var ofType []models.Question
	for _, q := range pool {
		if q.Type == qtype {
			ofType = append(ofType, q)
		}
	}

	// Rounding both easy and medium up (e.g. 50/50/0 over an odd count) can
	// push their sum past total, so each bucket is capped by what remains.
	// Hard still absorbs the remainder and can never go negative.
	easyCount := int(math.Round(float64(total) * float64(dist.Easy) / 100))
	if easyCount > total {
		easyCount = total
	}
	mediumCount := int(math.Round(float64(total) * float64(dist.Medium) / 100))
	if mediumCount > total-easyCount {
		mediumCount = total - easyCount
	}
	hardCount := total - easyCount - mediumCount

	var picks []models.Question
	for _, bucket := range []struct {
		difficulty models.Difficulty
		count      int
	}{
		{models.DifficultyEasy, easyCount},
		{models.DifficultyMedium, mediumCount},
		{models.DifficultyHard, hardCount},
	} {
		picks = append(picks, takeTop(ofType, bucket.difficulty, bucket.count, used)...)
	}

	return picks
}

// takeTop returns the highest-confidence unused questions of one difficulty,
// at most count of them. Fewer available than requested is not an error.
func takeTop(pool []models.Question, difficulty models.Difficulty, count int, used map[int64]bool) []models.Question {
	if count <= 0 {
		return nil
	}

	var candidates []models.Question
	for _, q := range pool {
		if q.Difficulty != difficulty || used[q.ID] {
			continue
		}
		candidates = append(candidates, q)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}
