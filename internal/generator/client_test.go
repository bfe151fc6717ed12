package generator

import (
	"context"
	"testing"

	"github.com/vnQ-coder/exam-generator/internal/models"
)

func TestGenerateQuestionsWithMockClient(t *testing.T) {
	g := &Generator{llm: NewMockClient(), model: "mock"}

	for qtype := range models.ValidQuestionTypes {
		set, resp, err := g.GenerateQuestions(context.Background(), qtype, models.DifficultyMedium, 5,
			"Photosynthesis converts light energy into chemical energy.", nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", qtype, err)
		}
		if len(set.Questions) == 0 {
			t.Errorf("%s: expected questions, got none", qtype)
		}
		if resp.OutputTokens == 0 {
			t.Errorf("%s: expected token usage to be reported", qtype)
		}
	}
}

func TestMockOutputSurvivesScoring(t *testing.T) {
	g := &Generator{llm: NewMockClient(), model: "mock"}

	set, _, err := g.GenerateQuestions(context.Background(), models.TypeMultipleChoice,
		models.DifficultyEasy, 5, "source material", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, q := range set.Questions {
		structural := ComputeStructuralScore(q, models.TypeMultipleChoice)
		if confidence := ComputeConfidence(structural, nil); confidence < MinimumConfidence {
			t.Errorf("mock question %d scored %.2f, under the save floor", i+1, confidence)
		}
	}
}
