package generator

import (
	"fmt"
	"strings"

	"github.com/vnQ-coder/exam-generator/internal/models"
)

func GenerationSystemPrompt() string {
	return `You are an experienced teacher writing exam questions from study material. Every question must be answerable from the provided material alone, never requiring outside knowledge. Write clear, unambiguous questions at the requested difficulty. Respond with JSON only, no commentary, no markdown fences.`
}

var typeInstructions = map[models.QuestionType]string{
	models.TypeMultipleChoice: `
QUESTION TYPE: multiple_choice
- Each question has exactly 4 options
- Exactly one option is correct; "answer" must be the full text of that option
- Distractors must be plausible but clearly wrong given the material
- Do not use "all of the above" or "none of the above"`,

	models.TypeTrueFalse: `
QUESTION TYPE: true_false
- Each question is a single declarative statement about the material
- "answer" must be exactly "true" or "false"
- Do not include an "options" array
- Avoid trick statements that hinge on a single word`,

	models.TypeShortAnswer: `
QUESTION TYPE: short_answer
- Each question is answerable in one to three sentences
- "answer" is a concise model answer drawn from the material
- Do not include an "options" array`,

	models.TypeEssay: `
QUESTION TYPE: essay
- Each question asks for extended discussion or analysis of the material
- "answer" is a brief model outline of the points a good response covers
- Do not include an "options" array`,
}

var difficultyGuidance = map[models.Difficulty]string{
	models.DifficultyEasy:   "Target recall: definitions, directly stated facts, simple identification.",
	models.DifficultyMedium: "Target comprehension: relationships between ideas, cause and effect, applying a stated concept.",
	models.DifficultyHard:   "Target analysis: synthesis across the material, evaluating implications, multi-step reasoning.",
}

// BuildGenerationPrompt assembles the user prompt for one generation call.
func BuildGenerationPrompt(qtype models.QuestionType, difficulty models.Difficulty, count int, sourceText string, topics []string) string {
	var sb strings.Builder

	sb.WriteString("STUDY MATERIAL:\n")
	sb.WriteString(sourceText)
	sb.WriteString("\n\n")

	if len(topics) > 0 {
		sb.WriteString("FOCUS TOPICS: ")
		sb.WriteString(strings.Join(topics, ", "))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("DIFFICULTY: %s. %s\n", difficulty, difficultyGuidance[difficulty]))
	sb.WriteString(typeInstructions[qtype])
	sb.WriteString(fmt.Sprintf("\n\nGenerate exactly %d questions.\n", count))

	sb.WriteString(`
Respond with JSON only, in this shape:
{
  "questions": [
    {
      "text": "The question itself...",
      "options": ["first option", "second option", "third option", "fourth option"],
      "answer": "the correct answer",
      "explanation": "Why this is the correct answer, citing the material..."
    }
  ]
}

Omit "options" entirely for non-multiple-choice types.`)

	return sb.String()
}
