package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
)

type fakeExerciseRepo struct {
	updated []model.Exercise
}

func (r *fakeExerciseRepo) Update(exercise *model.Exercise) error {
	r.updated = append(r.updated, *exercise)
	return nil
}

// funcCompletion lets a test script the reply per prompt.
type funcCompletion struct {
	fn func(prompt string) (string, error)
}

func (f *funcCompletion) Complete(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error) {
	return f.fn(prompt)
}

func seedExam(repo *fakeExamRepo, startedAt time.Time) *model.Exam {
	exam := &model.Exam{
		ID:        1,
		StudentID: 7,
		Name:      "Parcial 1",
		StartedAt: startedAt,
		Status:    model.ExamStatusCreated,
		Exercises: []model.Exercise{
			{ID: 1, StudentID: 7, Statement: "ejercicio uno", Solution: "sol uno", Difficulty: model.DifficultyEasy, OrderInExam: 1, Weight: 1.5, EvalStatus: model.EvalPending},
			{ID: 2, StudentID: 7, Statement: "ejercicio dos", Solution: "sol dos", Difficulty: model.DifficultyEasy, OrderInExam: 2, Weight: 1.5, EvalStatus: model.EvalPending},
			{ID: 3, StudentID: 7, Statement: "ejercicio tres", Solution: "sol tres", Difficulty: model.DifficultyMedium, OrderInExam: 3, Weight: 2.75, EvalStatus: model.EvalPending},
			{ID: 4, StudentID: 7, Statement: "ejercicio cuatro", Solution: "sol cuatro", Difficulty: model.DifficultyHard, OrderInExam: 4, Weight: 4.25, EvalStatus: model.EvalPending},
		},
	}
	repo.exams[1] = exam
	repo.nextID = 2
	return exam
}

func TestSubmitGradesAndArchives(t *testing.T) {
	repo := newFakeExamRepo()
	seedExam(repo, time.Now().Add(-10*time.Minute))
	exerciseRepo := &fakeExerciseRepo{}
	completion := &funcCompletion{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "respuesta buena") {
			return "Correcto, bien resuelto.", nil
		}
		return "Incorrecto: la lógica falla.", nil
	}}
	svc := NewExamSubmissionService(repo, exerciseRepo, completion, NewPrefixVerdictParser())

	result, err := svc.Submit(context.Background(), student(), 1, dto.ExamSubmitDTO{Answers: []dto.ExamAnswerDTO{
		{ExerciseID: 1, Answer: "respuesta buena 1"},
		{ExerciseID: 2, Answer: "respuesta buena 2"},
		// exercise 3 left unanswered
		{ExerciseID: 4, Answer: "respuesta buena 4"},
	}})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	if result.Status != model.ExamStatusCompleted {
		t.Errorf("status = %s, want %s", result.Status, model.ExamStatusCompleted)
	}
	if result.Grade != 7.25 {
		t.Errorf("grade = %v, want 7.25", result.Grade)
	}
	if result.SubmittedAt == nil {
		t.Error("SubmittedAt must be set")
	}
	if len(exerciseRepo.updated) != 4 {
		t.Fatalf("persisted %d exercises, want 4", len(exerciseRepo.updated))
	}

	byID := make(map[uint]dto.ArchivedExerciseDTO)
	for _, ex := range result.Exercises {
		byID[ex.ID] = ex
	}

	if !byID[1].IsCorrect || byID[1].Score != 1.5 {
		t.Errorf("exercise 1: correct=%v score=%v", byID[1].IsCorrect, byID[1].Score)
	}
	if !byID[2].IsCorrect || byID[2].Score != 1.5 {
		t.Errorf("exercise 2: correct=%v score=%v", byID[2].IsCorrect, byID[2].Score)
	}
	if !byID[4].IsCorrect || byID[4].Score != 4.25 {
		t.Errorf("exercise 4: correct=%v score=%v", byID[4].IsCorrect, byID[4].Score)
	}

	// The unanswered exercise is archived with an empty-string answer,
	// graded without calling the model.
	missing := byID[3]
	if missing.StudentSolution == nil || *missing.StudentSolution != "" {
		t.Errorf("exercise 3 student solution = %v, want empty string", missing.StudentSolution)
	}
	if missing.EvalStatus != model.EvalGraded || missing.IsCorrect || missing.Score != 0 {
		t.Errorf("exercise 3: status=%s correct=%v score=%v", missing.EvalStatus, missing.IsCorrect, missing.Score)
	}

	for _, ex := range result.Exercises {
		if ex.EvalStatus != model.EvalGraded {
			t.Errorf("exercise %d eval status = %s, want graded", ex.ID, ex.EvalStatus)
		}
	}
}

func TestSubmitSecondAttemptRejected(t *testing.T) {
	repo := newFakeExamRepo()
	seedExam(repo, time.Now())
	completion := &funcCompletion{fn: func(string) (string, error) { return "Incorrecto", nil }}
	svc := NewExamSubmissionService(repo, &fakeExerciseRepo{}, completion, NewPrefixVerdictParser())

	if _, err := svc.Submit(context.Background(), student(), 1, dto.ExamSubmitDTO{}); err != nil {
		t.Fatalf("first submit error: %v", err)
	}
	if _, err := svc.Submit(context.Background(), student(), 1, dto.ExamSubmitDTO{}); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second submit: err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmitEvaluationFailureIsIsolated(t *testing.T) {
	repo := newFakeExamRepo()
	seedExam(repo, time.Now())
	exerciseRepo := &fakeExerciseRepo{}
	completion := &funcCompletion{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "ejercicio dos") {
			return "", errors.New("model timeout")
		}
		return "Correcto", nil
	}}
	svc := NewExamSubmissionService(repo, exerciseRepo, completion, NewPrefixVerdictParser())

	result, err := svc.Submit(context.Background(), student(), 1, dto.ExamSubmitDTO{Answers: []dto.ExamAnswerDTO{
		{ExerciseID: 1, Answer: "a"},
		{ExerciseID: 2, Answer: "b"},
		{ExerciseID: 3, Answer: "c"},
		{ExerciseID: 4, Answer: "d"},
	}})
	if err != nil {
		t.Fatalf("a single evaluation failure must not fail the submission: %v", err)
	}

	if result.Status != model.ExamStatusCompletedWithErrors {
		t.Errorf("status = %s, want %s", result.Status, model.ExamStatusCompletedWithErrors)
	}

	byID := make(map[uint]dto.ArchivedExerciseDTO)
	for _, ex := range result.Exercises {
		byID[ex.ID] = ex
	}
	failed := byID[2]
	if failed.EvalStatus != model.EvalFailed || failed.IsCorrect || failed.Score != 0 {
		t.Errorf("failed exercise: status=%s correct=%v score=%v", failed.EvalStatus, failed.IsCorrect, failed.Score)
	}
	for _, id := range []uint{1, 3, 4} {
		if byID[id].EvalStatus != model.EvalGraded || !byID[id].IsCorrect {
			t.Errorf("exercise %d: status=%s correct=%v, want graded and correct", id, byID[id].EvalStatus, byID[id].IsCorrect)
		}
	}
	if result.Grade != 1.5+2.75+4.25 {
		t.Errorf("grade = %v, want %v", result.Grade, 1.5+2.75+4.25)
	}
}

func TestSubmitAfterWindowStillAccepted(t *testing.T) {
	repo := newFakeExamRepo()
	seedExam(repo, time.Now().Add(-2*time.Hour))
	completion := &funcCompletion{fn: func(string) (string, error) { return "Correcto", nil }}
	svc := NewExamSubmissionService(repo, &fakeExerciseRepo{}, completion, NewPrefixVerdictParser())

	result, err := svc.Submit(context.Background(), student(), 1, dto.ExamSubmitDTO{Answers: []dto.ExamAnswerDTO{
		{ExerciseID: 1, Answer: "tarde pero presente"},
	}})
	if err != nil {
		t.Fatalf("late submission must be accepted: %v", err)
	}
	if !result.Exercises[0].IsCorrect {
		t.Error("late answers are still graded")
	}
}

func TestSubmitForeignExamForbidden(t *testing.T) {
	repo := newFakeExamRepo()
	seedExam(repo, time.Now())
	completion := &funcCompletion{fn: func(string) (string, error) { return "Correcto", nil }}
	svc := NewExamSubmissionService(repo, &fakeExerciseRepo{}, completion, NewPrefixVerdictParser())

	intruder := &model.User{ID: 99, Role: model.RoleStudent}
	if _, err := svc.Submit(context.Background(), intruder, 1, dto.ExamSubmitDTO{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}
