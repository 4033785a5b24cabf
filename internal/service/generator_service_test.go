package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aulago/campus/internal/model"
)

// fakeCompletion returns canned responses and records the prompts it saw.
type fakeCompletion struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompletion) Complete(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestGenerateSplitsOnDelimiter(t *testing.T) {
	completion := &fakeCompletion{
		response: "Escribe una función factorial.\nSOLUCION\ndef factorial(n):\n    return 1 if n <= 1 else n * factorial(n-1)",
	}
	gen := NewExerciseGeneratorService(completion, DefaultPromptCatalog())

	statement, solution, err := gen.Generate(context.Background(), 1, model.DifficultyEasy)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if statement != "Escribe una función factorial." {
		t.Errorf("statement = %q", statement)
	}
	if !strings.HasPrefix(solution, "def factorial") {
		t.Errorf("solution = %q", solution)
	}
}

func TestGenerateMissingDelimiterKeepsStatement(t *testing.T) {
	completion := &fakeCompletion{response: "Escribe una función que invierta una cadena."}
	gen := NewExerciseGeneratorService(completion, DefaultPromptCatalog())

	statement, solution, err := gen.Generate(context.Background(), 5, model.DifficultyMedium)
	if err != nil {
		t.Fatalf("a missing delimiter must not be an error, got: %v", err)
	}
	if statement != "Escribe una función que invierta una cadena." {
		t.Errorf("statement = %q", statement)
	}
	if solution != "" {
		t.Errorf("solution = %q, want empty", solution)
	}
}

func TestGenerateUnknownTopic(t *testing.T) {
	completion := &fakeCompletion{response: "irrelevant"}
	gen := NewExerciseGeneratorService(completion, DefaultPromptCatalog())

	if _, _, err := gen.Generate(context.Background(), 99, model.DifficultyEasy); err == nil {
		t.Fatal("expected error for unknown topic")
	}
	if len(completion.prompts) != 0 {
		t.Error("the model must not be called for an unknown topic")
	}
}

func TestGenerateCompletionError(t *testing.T) {
	completion := &fakeCompletion{err: errors.New("model unavailable")}
	gen := NewExerciseGeneratorService(completion, DefaultPromptCatalog())

	if _, _, err := gen.Generate(context.Background(), 1, model.DifficultyHard); err == nil {
		t.Fatal("expected completion error to propagate")
	}
}

func TestGeneratePromptCoversAllCatalogPairs(t *testing.T) {
	catalog := DefaultPromptCatalog()
	completion := &fakeCompletion{response: "enunciado\nSOLUCION\nsolución"}
	gen := NewExerciseGeneratorService(completion, catalog)

	for topic := range catalog.Topics {
		for difficulty := range catalog.Difficulties {
			statement, _, err := gen.Generate(context.Background(), topic, difficulty)
			if err != nil {
				t.Fatalf("Generate(%d, %s) error: %v", topic, difficulty, err)
			}
			if statement == "" {
				t.Errorf("Generate(%d, %s): empty statement", topic, difficulty)
			}
		}
	}

	for _, prompt := range completion.prompts {
		if !strings.Contains(prompt, SolutionDelimiter) {
			t.Errorf("prompt does not instruct the delimiter: %q", prompt)
		}
	}
}

func TestSplitOnDelimiterFirstOccurrenceWins(t *testing.T) {
	statement, solution := splitOnDelimiter("parte A SOLUCION parte B SOLUCION parte C")
	if statement != "parte A" {
		t.Errorf("statement = %q", statement)
	}
	if solution != "parte B SOLUCION parte C" {
		t.Errorf("solution = %q", solution)
	}
}
