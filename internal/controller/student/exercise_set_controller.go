package student

import (
	"errors"
	"net/http"

	"github.com/aulago/campus/internal/controller/middleware"
	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ExerciseSetController struct {
	setService service.ExerciseSetService
}

func NewExerciseSetController(setService service.ExerciseSetService) *ExerciseSetController {
	return &ExerciseSetController{setService: setService}
}

// CreateSet godoc
// @Summary (Student) Generate a practice exercise set
// @Description Generates up to ten ungraded exercises for one topic and difficulty, reference solutions included.
// @Tags Student - Exercise Sets
// @Accept json
// @Produce json
// @Param set body dto.ExerciseSetCreateDTO true "Set parameters"
// @Success 201 {object} dto.ExerciseSetDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "Exercise generation failed"
// @Security BearerAuth
// @Router /student/exercise-sets [post]
func (c *ExerciseSetController) CreateSet(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.ExerciseSetCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	set, err := c.setService.CreateSet(ctx.Request.Context(), user, req)
	if err != nil {
		log.Error().Err(err).Uint("studentID", user.ID).Msg("CreateSet: service error")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Failed to create exercise set", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, set)
}

// ListSets godoc
// @Summary (Student) List own practice sets
// @Description Lists standalone practice sets; the sets mirroring exams are excluded.
// @Tags Student - Exercise Sets
// @Produce json
// @Success 200 {array} dto.ExerciseSetSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /student/exercise-sets [get]
func (c *ExerciseSetController) ListSets(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	sets, err := c.setService.ListSets(user)
	if err != nil {
		log.Error().Err(err).Uint("studentID", user.ID).Msg("ListSets: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve exercise sets"})
		return
	}
	ctx.JSON(http.StatusOK, sets)
}

// GetSet godoc
// @Summary (Student) Get a practice set
// @Tags Student - Exercise Sets
// @Produce json
// @Param set_id path int true "Exercise set ID"
// @Success 200 {object} dto.ExerciseSetDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid set ID"
// @Failure 403 {object} dto.ErrorResponse "Not your set"
// @Failure 404 {object} dto.ErrorResponse "Set not found"
// @Security BearerAuth
// @Router /student/exercise-sets/{set_id} [get]
func (c *ExerciseSetController) GetSet(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	setID, ok := pathID(ctx, "set_id")
	if !ok {
		return
	}

	set, err := c.setService.GetSet(user, setID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Exercise set not found"})
		case errors.Is(err, service.ErrForbidden):
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "You do not have access to this exercise set"})
		default:
			log.Error().Err(err).Uint("setID", setID).Msg("GetSet: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve exercise set"})
		}
		return
	}
	ctx.JSON(http.StatusOK, set)
}
