package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aulago/campus/internal/model"
	"github.com/rs/zerolog/log"
)

// SolutionDelimiter is the literal token the model is told to emit between
// the exercise statement and its reference solution.
const SolutionDelimiter = "SOLUCION"

const (
	generationMaxTokens   int32   = 1024
	generationTemperature float32 = 0.7
)

// PromptCatalog holds the fixed prompt fragments keyed by topic and
// difficulty. It is built once and injected; nothing mutates it afterwards.
type PromptCatalog struct {
	Topics       map[int]string
	Difficulties map[model.Difficulty]string
}

// DefaultPromptCatalog covers the programming topics of the course. The
// difficulty fragments frame the expected completion time.
func DefaultPromptCatalog() PromptCatalog {
	return PromptCatalog{
		Topics: map[int]string{
			1: "El ejercicio debe tratar sobre recursividad.",
			2: "El ejercicio debe tratar sobre bucles y condicionales.",
			3: "El ejercicio debe tratar sobre listas y arrays.",
			4: "El ejercicio debe tratar sobre diccionarios y mapas.",
			5: "El ejercicio debe tratar sobre manipulación de cadenas de texto.",
			6: "El ejercicio debe tratar sobre árboles binarios.",
		},
		Difficulties: map[model.Difficulty]string{
			model.DifficultyEasy:   "Genera un ejercicio de programación sencillo que un estudiante pueda resolver en unos 10 minutos.",
			model.DifficultyMedium: "Genera un ejercicio de programación de dificultad media que un estudiante pueda resolver en unos 20 minutos.",
			model.DifficultyHard:   "Genera un ejercicio de programación difícil que un estudiante pueda resolver en unos 30 minutos.",
		},
	}
}

// ExerciseGeneratorService produces a statement/solution pair for a topic
// and difficulty via the external model.
type ExerciseGeneratorService interface {
	Generate(ctx context.Context, topic int, difficulty model.Difficulty) (statement, solution string, err error)
}

type exerciseGeneratorService struct {
	completion CompletionService
	catalog    PromptCatalog
}

func NewExerciseGeneratorService(completion CompletionService, catalog PromptCatalog) ExerciseGeneratorService {
	return &exerciseGeneratorService{completion: completion, catalog: catalog}
}

func (s *exerciseGeneratorService) buildPrompt(topic int, difficulty model.Difficulty) (string, error) {
	difficultyInstruction, ok := s.catalog.Difficulties[difficulty]
	if !ok {
		return "", fmt.Errorf("unknown difficulty %q", difficulty)
	}
	topicInstruction, ok := s.catalog.Topics[topic]
	if !ok {
		return "", fmt.Errorf("unknown topic %d", topic)
	}

	var b strings.Builder
	b.WriteString(difficultyInstruction)
	b.WriteString(" ")
	b.WriteString(topicInstruction)
	b.WriteString(" Escribe primero el enunciado del ejercicio. Después escribe una línea que contenga únicamente la palabra ")
	b.WriteString(SolutionDelimiter)
	b.WriteString(" y a continuación la solución completa del ejercicio.")
	return b.String(), nil
}

func (s *exerciseGeneratorService) Generate(ctx context.Context, topic int, difficulty model.Difficulty) (string, string, error) {
	prompt, err := s.buildPrompt(topic, difficulty)
	if err != nil {
		return "", "", err
	}

	raw, err := s.completion.Complete(ctx, prompt, generationMaxTokens, generationTemperature)
	if err != nil {
		return "", "", fmt.Errorf("exercise generation failed: %w", err)
	}

	statement, solution := splitOnDelimiter(raw)
	if solution == "" {
		// Degraded but usable: the exercise is kept with an empty
		// reference solution rather than rejected.
		log.Warn().Int("topic", topic).Str("difficulty", string(difficulty)).Msg("Model response missing solution delimiter; storing statement only.")
	}
	return statement, solution, nil
}

// splitOnDelimiter cuts the raw response at the first occurrence of the
// delimiter token. Without a delimiter the whole response is the statement.
func splitOnDelimiter(raw string) (statement, solution string) {
	idx := strings.Index(raw, SolutionDelimiter)
	if idx == -1 {
		return strings.TrimSpace(raw), ""
	}
	return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+len(SolutionDelimiter):])
}
