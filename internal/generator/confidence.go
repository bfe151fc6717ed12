package generator

import (
	"strings"

	"github.com/vnQ-coder/exam-generator/internal/models"
)

// StructuralScore holds the individual structural compliance checks for a
// generated question.
type StructuralScore struct {
	TextLengthOK       bool
	AnswerPresent      bool
	OptionsDistinct    bool
	ExplanationPresent bool
}

// ComputeStructuralScore evaluates structural compliance for one question.
func ComputeStructuralScore(q GeneratedQuestion, qtype models.QuestionType) StructuralScore {
	textLen := len(q.Text)

	answerOK := q.Answer != ""
	if qtype == models.TypeEssay {
		// Essay model answers are optional.
		answerOK = true
	}

	distinct := true
	if qtype == models.TypeMultipleChoice {
		seen := make(map[string]bool)
		for _, o := range q.Options {
			key := strings.ToLower(strings.TrimSpace(o))
			if seen[key] {
				distinct = false
				break
			}
			seen[key] = true
		}
	}

	return StructuralScore{
		TextLengthOK:       textLen >= 20 && textLen <= 600,
		AnswerPresent:      answerOK,
		OptionsDistinct:    distinct,
		ExplanationPresent: q.Explanation != "",
	}
}

// ComputeConfidence calculates a question's confidence score on the 0-100
// scale stored with it.
//
// Formula: review_confidence * 0.60 + structural * 0.40. Without a review
// pass, the review component sits at a neutral 0.6 so unreviewed questions
// land mid-range rather than at either extreme.
func ComputeConfidence(structural StructuralScore, review *ReviewResult) float64 {
	reviewScore := 0.6
	if review != nil {
		if !review.AnswerAgrees {
			reviewScore = 0.1
		} else {
			switch review.Confidence {
			case "high":
				reviewScore = 1.0
			case "medium":
				reviewScore = 0.7
			case "low":
				reviewScore = 0.4
			}
		}
	}

	// Four structural checks, each worth 0.25.
	structuralScore := 0.0
	if structural.TextLengthOK {
		structuralScore += 0.25
	}
	if structural.AnswerPresent {
		structuralScore += 0.25
	}
	if structural.OptionsDistinct {
		structuralScore += 0.25
	}
	if structural.ExplanationPresent {
		structuralScore += 0.25
	}

	return (reviewScore*0.60 + structuralScore*0.40) * 100
}

// MinimumConfidence is the floor below which a generated question is
// discarded instead of saved.
const MinimumConfidence = 35.0
