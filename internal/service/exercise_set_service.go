package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"github.com/aulago/campus/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ExerciseSetService interface {
	CreateSet(ctx context.Context, student *model.User, req dto.ExerciseSetCreateDTO) (*dto.ExerciseSetDetailDTO, error)
	ListSets(student *model.User) ([]dto.ExerciseSetSummaryDTO, error)
	GetSet(requester *model.User, setID uint) (*dto.ExerciseSetDetailDTO, error)
}

type exerciseSetService struct {
	setRepo   repository.ExerciseSetRepository
	generator ExerciseGeneratorService
}

func NewExerciseSetService(setRepo repository.ExerciseSetRepository, generator ExerciseGeneratorService) ExerciseSetService {
	return &exerciseSetService{setRepo: setRepo, generator: generator}
}

func (s *exerciseSetService) CreateSet(ctx context.Context, student *model.User, req dto.ExerciseSetCreateDTO) (*dto.ExerciseSetDetailDTO, error) {
	difficulty := model.Difficulty(req.Difficulty)

	exercises := make([]model.Exercise, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		callCtx, cancel := context.WithTimeout(ctx, completionCallTimeout)
		statement, solution, err := s.generator.Generate(callCtx, req.Topic, difficulty)
		cancel()
		if err != nil {
			log.Error().Err(err).Int("topic", req.Topic).Str("difficulty", req.Difficulty).
				Msg("CreateSet: exercise generation failed")
			return nil, fmt.Errorf("failed to generate exercise %d: %w", i+1, err)
		}
		exercises = append(exercises, model.Exercise{
			StudentID:  student.ID,
			Statement:  statement,
			Solution:   solution,
			Difficulty: difficulty,
			Topic:      req.Topic,
			EvalStatus: model.EvalPending,
		})
	}

	set := model.ExerciseSet{
		StudentID: student.ID,
		Name:      req.Name,
		Exercises: exercises,
	}
	if err := s.setRepo.Create(&set); err != nil {
		return nil, fmt.Errorf("database error creating exercise set: %w", err)
	}

	log.Info().Uint("setID", set.ID).Uint("studentID", student.ID).Int("count", len(exercises)).
		Msg("Exercise set created")
	return setDetailDTO(&set), nil
}

func (s *exerciseSetService) ListSets(student *model.User) ([]dto.ExerciseSetSummaryDTO, error) {
	rows, err := s.setRepo.FindStandaloneByStudent(student.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching exercise sets: %w", err)
	}

	summaries := make([]dto.ExerciseSetSummaryDTO, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, dto.ExerciseSetSummaryDTO{
			ID:            row.ID,
			Name:          row.Name,
			Archived:      row.Archived,
			ExerciseCount: row.ExerciseCount,
			CreatedAt:     row.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *exerciseSetService) GetSet(requester *model.User, setID uint) (*dto.ExerciseSetDetailDTO, error) {
	set, err := s.setRepo.FindByIDWithExercises(setID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching exercise set %d: %w", setID, err)
	}
	if set.StudentID != requester.ID && !requester.IsApprovedTeacher() {
		return nil, ErrForbidden
	}
	return setDetailDTO(set), nil
}

func setDetailDTO(set *model.ExerciseSet) *dto.ExerciseSetDetailDTO {
	resp := dto.ExerciseSetDetailDTO{
		ID:        set.ID,
		Name:      set.Name,
		Archived:  set.Archived,
		CreatedAt: set.CreatedAt,
	}
	for _, ex := range set.Exercises {
		resp.Exercises = append(resp.Exercises, dto.SetExerciseDTO{
			ID:         ex.ID,
			Statement:  ex.Statement,
			Solution:   ex.Solution,
			Difficulty: string(ex.Difficulty),
			Topic:      ex.Topic,
		})
	}
	return &resp
}
