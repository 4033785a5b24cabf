package user

import (
	"errors"
	"net/http"

	"github.com/aulago/campus/internal/controller/middleware"
	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ProfileController struct {
	authService service.AuthService
}

func NewProfileController(authService service.AuthService) *ProfileController {
	return &ProfileController{authService: authService}
}

// GetProfile godoc
// @Summary Get own profile
// @Tags Profile
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	profile, err := c.authService.GetProfile(user.ID)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("GetProfile: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve profile"})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Updates email, phone, degree or group. Omitted fields keep their value.
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body dto.ProfileUpdateDTO true "Fields to update"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.ProfileUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	profile, err := c.authService.UpdateProfile(user.ID, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "User not found"})
			return
		}
		log.Error().Err(err).Uint("userID", user.ID).Msg("UpdateProfile: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update profile"})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}
