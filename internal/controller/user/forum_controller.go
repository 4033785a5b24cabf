package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aulago/campus/internal/controller/middleware"
	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ForumController struct {
	forumService service.ForumService
}

func NewForumController(forumService service.ForumService) *ForumController {
	return &ForumController{forumService: forumService}
}

// CreateForum godoc
// @Summary (Teacher) Create a forum
// @Description Only approved teachers can open forums; every user can comment in them.
// @Tags Forums
// @Accept json
// @Produce json
// @Param forum body dto.ForumCreateDTO true "Forum data"
// @Success 201 {object} dto.ForumSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Approved teacher account required"
// @Security BearerAuth
// @Router /forums [post]
func (c *ForumController) CreateForum(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.ForumCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	forum, err := c.forumService.CreateForum(user, req)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Only approved teachers can create forums"})
			return
		}
		log.Error().Err(err).Uint("userID", user.ID).Msg("CreateForum: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create forum"})
		return
	}
	ctx.JSON(http.StatusCreated, forum)
}

// ListForums godoc
// @Summary List forums
// @Tags Forums
// @Produce json
// @Success 200 {array} dto.ForumSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /forums [get]
func (c *ForumController) ListForums(ctx *gin.Context) {
	forums, err := c.forumService.ListForums()
	if err != nil {
		log.Error().Err(err).Msg("ListForums: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve forums"})
		return
	}
	ctx.JSON(http.StatusOK, forums)
}

// GetForum godoc
// @Summary Get a forum with its comments
// @Tags Forums
// @Produce json
// @Param forum_id path int true "Forum ID"
// @Success 200 {object} dto.ForumDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid forum ID"
// @Failure 404 {object} dto.ErrorResponse "Forum not found"
// @Security BearerAuth
// @Router /forums/{forum_id} [get]
func (c *ForumController) GetForum(ctx *gin.Context) {
	forumID, ok := forumPathID(ctx)
	if !ok {
		return
	}

	forum, err := c.forumService.GetForum(forumID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Forum not found"})
			return
		}
		log.Error().Err(err).Uint("forumID", forumID).Msg("GetForum: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve forum"})
		return
	}
	ctx.JSON(http.StatusOK, forum)
}

// AddComment godoc
// @Summary Comment in a forum
// @Tags Forums
// @Accept json
// @Produce json
// @Param forum_id path int true "Forum ID"
// @Param comment body dto.ForumCommentCreateDTO true "Comment"
// @Success 201 {object} dto.ForumCommentDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Forum not found"
// @Security BearerAuth
// @Router /forums/{forum_id}/comments [post]
func (c *ForumController) AddComment(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	forumID, ok := forumPathID(ctx)
	if !ok {
		return
	}

	var req dto.ForumCommentCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	comment, err := c.forumService.AddComment(user, forumID, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Forum not found"})
			return
		}
		log.Error().Err(err).Uint("forumID", forumID).Msg("AddComment: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to add comment"})
		return
	}
	ctx.JSON(http.StatusCreated, comment)
}

// DeleteForum godoc
// @Summary (Teacher) Delete an own forum
// @Description Deletes the forum and its comments. Only the creating teacher may delete it.
// @Tags Forums
// @Produce json
// @Param forum_id path int true "Forum ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid forum ID"
// @Failure 403 {object} dto.ErrorResponse "Not the creator"
// @Failure 404 {object} dto.ErrorResponse "Forum not found"
// @Security BearerAuth
// @Router /forums/{forum_id} [delete]
func (c *ForumController) DeleteForum(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	forumID, ok := forumPathID(ctx)
	if !ok {
		return
	}

	if err := c.forumService.DeleteForum(user, forumID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Forum not found"})
		case errors.Is(err, service.ErrForbidden):
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Only the creator can delete this forum"})
		default:
			log.Error().Err(err).Uint("forumID", forumID).Msg("DeleteForum: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete forum"})
		}
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Forum deleted"})
}

func forumPathID(ctx *gin.Context) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param("forum_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid forum_id format"})
		return 0, false
	}
	return uint(val), true
}
