package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"github.com/aulago/campus/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	evaluationMaxTokens   = 32
	evaluationTemperature = 0
)

type ExamSubmissionService interface {
	// Submit closes the exam exactly once, grades every exercise and
	// returns the archived view. A second call returns ErrAlreadySubmitted.
	Submit(ctx context.Context, requester *model.User, examID uint, req dto.ExamSubmitDTO) (*dto.ArchivedExamDTO, error)
}

type examSubmissionService struct {
	examRepo     repository.ExamRepository
	exerciseRepo repository.ExerciseRepository
	completion   CompletionService
	verdicts     VerdictParser
}

func NewExamSubmissionService(
	examRepo repository.ExamRepository,
	exerciseRepo repository.ExerciseRepository,
	completion CompletionService,
	verdicts VerdictParser,
) ExamSubmissionService {
	return &examSubmissionService{
		examRepo:     examRepo,
		exerciseRepo: exerciseRepo,
		completion:   completion,
		verdicts:     verdicts,
	}
}

type evaluationResult struct {
	index    int
	exercise model.Exercise
	failed   bool
}

func (s *examSubmissionService) Submit(ctx context.Context, requester *model.User, examID uint, req dto.ExamSubmitDTO) (*dto.ArchivedExamDTO, error) {
	exam, err := s.examRepo.FindByIDWithExercises(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching exam %d: %w", examID, err)
	}
	if exam.StudentID != requester.ID {
		return nil, ErrForbidden
	}

	now := time.Now()
	// Conditional update; the first submission wins, every later one is
	// rejected here regardless of interleaving.
	ok, err := s.examRepo.MarkSubmitted(exam.ID, now)
	if err != nil {
		return nil, fmt.Errorf("error closing exam %d: %w", exam.ID, err)
	}
	if !ok {
		return nil, ErrAlreadySubmitted
	}
	if TimeRemaining(exam, now) == 0 {
		log.Warn().Uint("examID", exam.ID).Time("startedAt", exam.StartedAt).
			Msg("Submit: submission received after the exam window closed")
	}

	answers := make(map[uint]string, len(req.Answers))
	for _, a := range req.Answers {
		answers[a.ExerciseID] = a.Answer
	}

	var wg sync.WaitGroup
	results := make(chan evaluationResult, len(exam.Exercises))

	for i := range exam.Exercises {
		wg.Add(1)
		go func(index int, exercise model.Exercise) {
			defer wg.Done()
			answer := answers[exercise.ID]
			results <- s.evaluate(ctx, exercise, index, answer)
		}(i, exam.Exercises[i])
	}

	wg.Wait()
	close(results)

	anyFailed := false
	for res := range results {
		exam.Exercises[res.index] = res.exercise
		if res.failed {
			anyFailed = true
		}
		if err := s.exerciseRepo.Update(&exam.Exercises[res.index]); err != nil {
			log.Error().Err(err).Uint("exerciseID", res.exercise.ID).
				Msg("Submit: failed to persist evaluated exercise")
			anyFailed = true
		}
	}

	exam.SubmittedAt = &now
	exam.IsSubmitted = true
	if anyFailed {
		exam.Status = model.ExamStatusCompletedWithErrors
	} else {
		exam.Status = model.ExamStatusCompleted
	}
	if err := s.examRepo.Update(exam); err != nil {
		return nil, fmt.Errorf("error finalizing exam %d: %w", exam.ID, err)
	}

	log.Info().Uint("examID", exam.ID).Str("status", exam.Status).
		Float64("grade", exam.Grade()).Msg("Exam submitted and graded")
	return newArchivedExamDTO(exam), nil
}

// evaluate grades a single exercise. An unanswered exercise is graded as
// incorrect without consulting the model; a model failure leaves the
// exercise in the failed state with score zero and never aborts the rest
// of the submission.
func (s *examSubmissionService) evaluate(ctx context.Context, exercise model.Exercise, index int, answer string) evaluationResult {
	exercise.StudentSolution = &answer
	exercise.IsCorrect = false
	exercise.Score = 0

	if strings.TrimSpace(answer) == "" {
		exercise.EvalStatus = model.EvalGraded
		return evaluationResult{index: index, exercise: exercise}
	}

	callCtx, cancel := context.WithTimeout(ctx, completionCallTimeout)
	defer cancel()

	raw, err := s.completion.Complete(callCtx, evaluationPrompt(&exercise, answer), evaluationMaxTokens, evaluationTemperature)
	if err != nil {
		log.Error().Err(err).Uint("exerciseID", exercise.ID).Msg("evaluate: completion call failed")
		exercise.EvalStatus = model.EvalFailed
		return evaluationResult{index: index, exercise: exercise, failed: true}
	}

	exercise.EvalStatus = model.EvalGraded
	if s.verdicts.IsCorrect(raw) {
		exercise.IsCorrect = true
		exercise.Score = exercise.Weight
	}
	return evaluationResult{index: index, exercise: exercise}
}

func evaluationPrompt(exercise *model.Exercise, answer string) string {
	var b strings.Builder
	b.WriteString("Eres un profesor de programación corrigiendo un examen.\n\n")
	b.WriteString("Enunciado del ejercicio:\n")
	b.WriteString(exercise.Statement)
	b.WriteString("\n\nSolución de referencia:\n")
	b.WriteString(exercise.Solution)
	b.WriteString("\n\nRespuesta del estudiante:\n")
	b.WriteString(answer)
	b.WriteString("\n\nEvalúa si la respuesta del estudiante resuelve el ejercicio. ")
	b.WriteString("La respuesta no tiene que coincidir con la solución de referencia, basta con que sea correcta. ")
	b.WriteString("Responde únicamente con 'Correcto' o 'Incorrecto' como primera palabra, ")
	b.WriteString("seguida opcionalmente de una breve justificación.")
	return b.String()
}
