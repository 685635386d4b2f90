package pipeline

import (
	"strings"
	"testing"
)

func TestFilterQuestionsDropsOutOfBoundsLengths(t *testing.T) {
	questions := []string{
		"abcd",                                 // 4 chars, too short
		"Is the unemployment rate below 4%?",   // valid
		strings.Repeat("x", 400),               // too long
		"   Did the program reduce costs?   ",  // valid after trim
		"",                                     // empty
		"Has federal spending grown since 2020?", // valid
	}

	got := FilterQuestions(questions, 25)
	if len(got) != 3 {
		t.Fatalf("expected 3 valid questions, got %d: %v", len(got), got)
	}
	if got[1] != "Did the program reduce costs?" {
		t.Fatalf("expected trimmed question, got %q", got[1])
	}
}

func TestFilterQuestionsCapsCount(t *testing.T) {
	var questions []string
	for i := 0; i < 40; i++ {
		questions = append(questions, "Is claim number several words long true?")
	}
	got := FilterQuestions(questions, 25)
	if len(got) != 25 {
		t.Fatalf("expected cap at 25, got %d", len(got))
	}
}

func TestFilterQuestionsPreservesOrder(t *testing.T) {
	questions := []string{"First valid question here?", "ab", "Second valid question here?"}
	got := FilterQuestions(questions, 25)
	if len(got) != 2 || got[0] != "First valid question here?" || got[1] != "Second valid question here?" {
		t.Fatalf("order not preserved: %v", got)
	}
}
