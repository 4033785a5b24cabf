package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"github.com/aulago/campus/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ExamDuration is the fixed submission window measured from exam creation.
const ExamDuration = 90 * time.Minute

// completionCallTimeout bounds every single call to the external model.
const completionCallTimeout = 60 * time.Second

// examSlots fixes the difficulty escalation and the rubric weight of each
// exercise slot. Weights are copied onto the exercises at creation time so
// scoring never depends on collection position. Total possible: 10.0.
var examSlots = [4]struct {
	Difficulty model.Difficulty
	Weight     float64
}{
	{model.DifficultyEasy, 1.5},
	{model.DifficultyEasy, 1.5},
	{model.DifficultyMedium, 2.75},
	{model.DifficultyHard, 4.25},
}

// TimeRemaining reports how much of the submission window is left. It
// floors at zero; expiry is never signalled through a negative value.
func TimeRemaining(exam *model.Exam, now time.Time) time.Duration {
	deadline := exam.StartedAt.Add(ExamDuration)
	if !now.Before(deadline) {
		return 0
	}
	return deadline.Sub(now)
}

// canAccessExam: the owning student or any approved teacher.
func canAccessExam(requester *model.User, exam *model.Exam) bool {
	if requester.ID == exam.StudentID {
		return true
	}
	return requester.IsApprovedTeacher()
}

type ExamService interface {
	CreateExam(ctx context.Context, student *model.User, req dto.ExamCreateDTO) (*dto.ExamDetailDTO, error)
	ListExams(student *model.User) ([]dto.ExamSummaryDTO, error)
	// GetExam returns the live view; for an already submitted exam it
	// returns ErrAlreadySubmitted so the caller can redirect to the
	// archived view.
	GetExam(requester *model.User, examID uint) (*dto.ExamDetailDTO, error)
	GetArchivedExam(requester *model.User, examID uint) (*dto.ArchivedExamDTO, error)
}

type examService struct {
	examRepo  repository.ExamRepository
	generator ExerciseGeneratorService
}

func NewExamService(examRepo repository.ExamRepository, generator ExerciseGeneratorService) ExamService {
	return &examService{examRepo: examRepo, generator: generator}
}

func (s *examService) CreateExam(ctx context.Context, student *model.User, req dto.ExamCreateDTO) (*dto.ExamDetailDTO, error) {
	if len(req.Topics) != len(examSlots) {
		return nil, fmt.Errorf("an exam requires exactly %d topics, received %d", len(examSlots), len(req.Topics))
	}

	exercises := make([]model.Exercise, 0, len(examSlots))
	for i, slot := range examSlots {
		callCtx, cancel := context.WithTimeout(ctx, completionCallTimeout)
		statement, solution, err := s.generator.Generate(callCtx, req.Topics[i], slot.Difficulty)
		cancel()
		if err != nil {
			log.Error().Err(err).Int("slot", i).Int("topic", req.Topics[i]).Msg("CreateExam: exercise generation failed")
			return nil, fmt.Errorf("failed to generate exercise %d: %w", i+1, err)
		}
		exercises = append(exercises, model.Exercise{
			StudentID:   student.ID,
			Statement:   statement,
			Solution:    solution,
			Difficulty:  slot.Difficulty,
			Topic:       req.Topics[i],
			OrderInExam: i + 1,
			Weight:      slot.Weight,
			EvalStatus:  model.EvalPending,
		})
	}

	exam := model.Exam{
		StudentID: student.ID,
		Name:      req.Name,
		StartedAt: time.Now(),
		Status:    model.ExamStatusCreated,
		Exercises: exercises,
	}
	// The mirror set shares the exam's name; its exam_id link keeps it out
	// of the plain exercise-set listing.
	set := model.ExerciseSet{
		StudentID: student.ID,
		Name:      req.Name,
	}

	if err := s.examRepo.CreateWithSet(&exam, &set); err != nil {
		log.Error().Err(err).Uint("studentID", student.ID).Msg("CreateExam: failed to persist exam")
		return nil, fmt.Errorf("database error creating exam: %w", err)
	}

	log.Info().Uint("examID", exam.ID).Uint("studentID", student.ID).Msg("Exam created")
	return s.liveExamDTO(&exam, time.Now()), nil
}

func (s *examService) ListExams(student *model.User) ([]dto.ExamSummaryDTO, error) {
	exams, err := s.examRepo.FindAllByStudent(student.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching exams: %w", err)
	}

	summaries := make([]dto.ExamSummaryDTO, 0, len(exams))
	for _, exam := range exams {
		var summary dto.ExamSummaryDTO
		if err := copier.Copy(&summary, &exam); err != nil {
			log.Error().Err(err).Uint("examID", exam.ID).Msg("ListExams: error copying exam to summary DTO")
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *examService) GetExam(requester *model.User, examID uint) (*dto.ExamDetailDTO, error) {
	exam, err := s.loadExam(requester, examID)
	if err != nil {
		return nil, err
	}
	if exam.IsSubmitted {
		return nil, ErrAlreadySubmitted
	}
	return s.liveExamDTO(exam, time.Now()), nil
}

func (s *examService) GetArchivedExam(requester *model.User, examID uint) (*dto.ArchivedExamDTO, error) {
	exam, err := s.loadExam(requester, examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsSubmitted {
		return nil, ErrNotFound
	}
	return newArchivedExamDTO(exam), nil
}

func (s *examService) loadExam(requester *model.User, examID uint) (*model.Exam, error) {
	exam, err := s.examRepo.FindByIDWithExercises(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching exam %d: %w", examID, err)
	}
	if !canAccessExam(requester, exam) {
		return nil, ErrForbidden
	}
	return exam, nil
}

func (s *examService) liveExamDTO(exam *model.Exam, now time.Time) *dto.ExamDetailDTO {
	resp := dto.ExamDetailDTO{
		ID:               exam.ID,
		Name:             exam.Name,
		StartedAt:        exam.StartedAt,
		RemainingSeconds: int64(TimeRemaining(exam, now).Seconds()),
	}
	for _, ex := range exam.Exercises {
		resp.Exercises = append(resp.Exercises, dto.ExerciseResponseDTO{
			ID:          ex.ID,
			Statement:   ex.Statement,
			Difficulty:  string(ex.Difficulty),
			Topic:       ex.Topic,
			OrderInExam: ex.OrderInExam,
			Weight:      ex.Weight,
		})
	}
	return &resp
}

// newArchivedExamDTO builds the read-only view of a submitted exam, grade
// recomputed from the exercises.
func newArchivedExamDTO(exam *model.Exam) *dto.ArchivedExamDTO {
	resp := dto.ArchivedExamDTO{
		ID:          exam.ID,
		Name:        exam.Name,
		StartedAt:   exam.StartedAt,
		SubmittedAt: exam.SubmittedAt,
		Status:      exam.Status,
		Grade:       exam.Grade(),
	}
	for _, ex := range exam.Exercises {
		resp.Exercises = append(resp.Exercises, dto.ArchivedExerciseDTO{
			ID:              ex.ID,
			Statement:       ex.Statement,
			Solution:        ex.Solution,
			StudentSolution: ex.StudentSolution,
			Difficulty:      string(ex.Difficulty),
			Topic:           ex.Topic,
			OrderInExam:     ex.OrderInExam,
			Weight:          ex.Weight,
			IsCorrect:       ex.IsCorrect,
			Score:           ex.Score,
			EvalStatus:      ex.EvalStatus,
		})
	}
	return &resp
}
