package generator

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/vnQ-coder/exam-generator/internal/models"
)

// MockClient serves canned responses for local development so the full
// generate-parse-score-store path works without an API key.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	qtype := mockTypeFromPrompt(userPrompt)
	return &LLMResponse{
		Content:      buildMockJSON(qtype),
		PromptTokens: 1200,
		OutputTokens: 2400,
	}, nil
}

// mockTypeFromPrompt sniffs the requested question type out of the user
// prompt so the mock answers with structurally valid questions.
func mockTypeFromPrompt(prompt string) models.QuestionType {
	switch {
	case strings.Contains(prompt, string(models.TypeTrueFalse)):
		return models.TypeTrueFalse
	case strings.Contains(prompt, string(models.TypeShortAnswer)):
		return models.TypeShortAnswer
	case strings.Contains(prompt, string(models.TypeEssay)):
		return models.TypeEssay
	default:
		return models.TypeMultipleChoice
	}
}

func buildMockJSON(qtype models.QuestionType) string {
	topics := []string{
		"cell structure", "energy transfer", "ecosystem dynamics",
		"chemical bonding", "plate tectonics", "electric circuits",
	}

	var questions []GeneratedQuestion
	for i := 0; i < 5; i++ {
		topic := topics[i%len(topics)]
		gq := GeneratedQuestion{
			Text:        "[Mock] Based on the provided material, which statement about " + topic + " is best supported?",
			Explanation: "[Mock] The source text states this directly in its discussion of " + topic + ".",
		}

		switch qtype {
		case models.TypeMultipleChoice:
			gq.Options = []string{
				"[Mock] A claim about " + topic + " that the source text supports directly.",
				"[Mock] A claim about " + topic + " that overstates the evidence.",
				"[Mock] A claim about " + topic + " that contradicts the source text.",
				"[Mock] A claim about " + topic + " that the source text never addresses.",
			}
			gq.Answer = gq.Options[0]
		case models.TypeTrueFalse:
			gq.Text = "[Mock] The source text claims that " + topic + " is the primary factor discussed. True or false?"
			gq.Answer = "true"
		case models.TypeShortAnswer:
			gq.Text = "[Mock] In one or two sentences, summarize what the material says about " + topic + "."
			gq.Answer = "[Mock] A concise model answer restating the source text's position on " + topic + "."
		case models.TypeEssay:
			gq.Text = "[Mock] Discuss the role of " + topic + " as presented in the material, citing specific evidence."
			gq.Answer = "[Mock] A model outline: define " + topic + ", summarize the evidence, evaluate the author's conclusion."
		}

		questions = append(questions, gq)
	}

	payload, _ := json.Marshal(GeneratedSet{Questions: questions})
	return string(payload)
}
