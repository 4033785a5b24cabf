package service

import (
	"errors"
	"fmt"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"github.com/aulago/campus/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ForumService interface {
	// CreateForum is restricted to approved teachers; commenting is open to
	// every authenticated user.
	CreateForum(creator *model.User, req dto.ForumCreateDTO) (*dto.ForumSummaryDTO, error)
	ListForums() ([]dto.ForumSummaryDTO, error)
	GetForum(forumID uint) (*dto.ForumDetailDTO, error)
	AddComment(author *model.User, forumID uint, req dto.ForumCommentCreateDTO) (*dto.ForumCommentDTO, error)
	DeleteForum(requester *model.User, forumID uint) error
}

type forumService struct {
	forumRepo repository.ForumRepository
}

func NewForumService(forumRepo repository.ForumRepository) ForumService {
	return &forumService{forumRepo: forumRepo}
}

func (s *forumService) CreateForum(creator *model.User, req dto.ForumCreateDTO) (*dto.ForumSummaryDTO, error) {
	if !creator.IsApprovedTeacher() {
		return nil, ErrForbidden
	}

	forum := model.Forum{
		Title:       req.Title,
		Description: req.Description,
		CreatedByID: creator.ID,
	}
	if err := s.forumRepo.Create(&forum); err != nil {
		return nil, fmt.Errorf("database error creating forum: %w", err)
	}
	forum.CreatedBy = *creator

	log.Info().Uint("forumID", forum.ID).Uint("creatorID", creator.ID).Msg("Forum created")
	return forumSummaryDTO(&forum), nil
}

func (s *forumService) ListForums() ([]dto.ForumSummaryDTO, error) {
	forums, err := s.forumRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching forums: %w", err)
	}
	out := make([]dto.ForumSummaryDTO, 0, len(forums))
	for i := range forums {
		out = append(out, *forumSummaryDTO(&forums[i]))
	}
	return out, nil
}

func (s *forumService) GetForum(forumID uint) (*dto.ForumDetailDTO, error) {
	forum, err := s.loadForum(forumID)
	if err != nil {
		return nil, err
	}

	resp := dto.ForumDetailDTO{
		ID:          forum.ID,
		Title:       forum.Title,
		Description: forum.Description,
		CreatedByID: forum.CreatedByID,
		CreatedBy:   forum.CreatedBy.Username,
		CreatedAt:   forum.CreatedAt,
		Comments:    make([]dto.ForumCommentDTO, 0, len(forum.Comments)),
	}
	for _, c := range forum.Comments {
		resp.Comments = append(resp.Comments, commentDTO(&c))
	}
	return &resp, nil
}

func (s *forumService) AddComment(author *model.User, forumID uint, req dto.ForumCommentCreateDTO) (*dto.ForumCommentDTO, error) {
	if _, err := s.loadForum(forumID); err != nil {
		return nil, err
	}

	comment := model.ForumComment{
		ForumID: forumID,
		UserID:  author.ID,
		Content: req.Content,
	}
	if err := s.forumRepo.CreateComment(&comment); err != nil {
		return nil, fmt.Errorf("database error creating comment: %w", err)
	}
	comment.User = *author

	resp := commentDTO(&comment)
	return &resp, nil
}

func (s *forumService) DeleteForum(requester *model.User, forumID uint) error {
	forum, err := s.loadForum(forumID)
	if err != nil {
		return err
	}
	if forum.CreatedByID != requester.ID {
		return ErrForbidden
	}

	if err := s.forumRepo.Delete(forumID); err != nil {
		return fmt.Errorf("error deleting forum %d: %w", forumID, err)
	}
	log.Info().Uint("forumID", forumID).Msg("Forum deleted")
	return nil
}

func (s *forumService) loadForum(forumID uint) (*model.Forum, error) {
	forum, err := s.forumRepo.FindByIDWithComments(forumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching forum %d: %w", forumID, err)
	}
	return forum, nil
}

func forumSummaryDTO(forum *model.Forum) *dto.ForumSummaryDTO {
	return &dto.ForumSummaryDTO{
		ID:          forum.ID,
		Title:       forum.Title,
		Description: forum.Description,
		CreatedByID: forum.CreatedByID,
		CreatedBy:   forum.CreatedBy.Username,
		CreatedAt:   forum.CreatedAt,
	}
}

func commentDTO(comment *model.ForumComment) dto.ForumCommentDTO {
	return dto.ForumCommentDTO{
		ID:        comment.ID,
		UserID:    comment.UserID,
		Username:  comment.User.Username,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
