package generator

import (
	"math"
	"strings"
	"testing"

	"github.com/vnQ-coder/exam-generator/internal/models"
)

func TestComputeStructuralScoreAllChecksPass(t *testing.T) {
	q := GeneratedQuestion{
		Text:        "Which organelle carries out photosynthesis in plant cells?",
		Options:     []string{"Chloroplast", "Mitochondrion", "Ribosome", "Nucleus"},
		Answer:      "Chloroplast",
		Explanation: "The material names the chloroplast as the site of photosynthesis.",
	}

	score := ComputeStructuralScore(q, models.TypeMultipleChoice)
	if !score.TextLengthOK || !score.AnswerPresent || !score.OptionsDistinct || !score.ExplanationPresent {
		t.Errorf("expected all checks to pass, got %+v", score)
	}
}

func TestComputeStructuralScoreDuplicateOptions(t *testing.T) {
	q := GeneratedQuestion{
		Text:    "Which organelle carries out photosynthesis in plant cells?",
		Options: []string{"Chloroplast", "chloroplast ", "Ribosome", "Nucleus"},
		Answer:  "Chloroplast",
	}

	score := ComputeStructuralScore(q, models.TypeMultipleChoice)
	if score.OptionsDistinct {
		t.Error("case-insensitive duplicate options should fail the distinctness check")
	}
}

func TestComputeStructuralScoreTextLengthBounds(t *testing.T) {
	short := GeneratedQuestion{Text: "Too short?", Answer: "x"}
	if ComputeStructuralScore(short, models.TypeShortAnswer).TextLengthOK {
		t.Error("text under 20 chars should fail the length check")
	}

	long := GeneratedQuestion{Text: strings.Repeat("a", 601), Answer: "x"}
	if ComputeStructuralScore(long, models.TypeShortAnswer).TextLengthOK {
		t.Error("text over 600 chars should fail the length check")
	}
}

func TestComputeStructuralScoreEssayAnswerOptional(t *testing.T) {
	q := GeneratedQuestion{Text: "Discuss how light intensity limits the rate of photosynthesis."}
	if !ComputeStructuralScore(q, models.TypeEssay).AnswerPresent {
		t.Error("essay without an answer should still pass the answer check")
	}

	if ComputeStructuralScore(q, models.TypeShortAnswer).AnswerPresent {
		t.Error("short answer without an answer should fail the answer check")
	}
}

func TestComputeConfidenceNeutralWithoutReview(t *testing.T) {
	full := StructuralScore{TextLengthOK: true, AnswerPresent: true, OptionsDistinct: true, ExplanationPresent: true}

	// 0.6*0.60 + 1.0*0.40 = 0.76
	got := ComputeConfidence(full, nil)
	if math.Abs(got-76.0) > 0.001 {
		t.Errorf("expected 76.0, got %.2f", got)
	}
}

func TestComputeConfidenceReviewDisagreement(t *testing.T) {
	full := StructuralScore{TextLengthOK: true, AnswerPresent: true, OptionsDistinct: true, ExplanationPresent: true}
	review := &ReviewResult{AnswerAgrees: false, Confidence: "high"}

	// Disagreement overrides the reported confidence: 0.1*0.60 + 1.0*0.40 = 0.46
	got := ComputeConfidence(full, review)
	if math.Abs(got-46.0) > 0.001 {
		t.Errorf("expected 46.0, got %.2f", got)
	}
}

func TestComputeConfidenceHighReview(t *testing.T) {
	full := StructuralScore{TextLengthOK: true, AnswerPresent: true, OptionsDistinct: true, ExplanationPresent: true}
	review := &ReviewResult{AnswerAgrees: true, Confidence: "high"}

	got := ComputeConfidence(full, review)
	if math.Abs(got-100.0) > 0.001 {
		t.Errorf("expected 100.0, got %.2f", got)
	}
}

func TestComputeConfidenceFloorCatchesWeakQuestions(t *testing.T) {
	// Nothing structural passes and the reviewer disagrees:
	// 0.1*0.60 + 0*0.40 = 6.0, well under the floor.
	got := ComputeConfidence(StructuralScore{}, &ReviewResult{AnswerAgrees: false})
	if got >= MinimumConfidence {
		t.Errorf("expected score under the %.0f floor, got %.2f", MinimumConfidence, got)
	}

	// A structurally clean unreviewed question clears it.
	full := StructuralScore{TextLengthOK: true, AnswerPresent: true, OptionsDistinct: true, ExplanationPresent: true}
	if got := ComputeConfidence(full, nil); got < MinimumConfidence {
		t.Errorf("expected score over the floor, got %.2f", got)
	}
}
