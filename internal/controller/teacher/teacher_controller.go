package teacher

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type TeacherController struct {
	authService service.AuthService
}

func NewTeacherController(authService service.AuthService) *TeacherController {
	return &TeacherController{authService: authService}
}

// ListPendingTeachers godoc
// @Summary (Teacher) List teachers awaiting verification
// @Tags Teacher - Verification
// @Produce json
// @Success 200 {array} dto.UserResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /teacher/pending [get]
func (c *TeacherController) ListPendingTeachers(ctx *gin.Context) {
	teachers, err := c.authService.ListPendingTeachers()
	if err != nil {
		log.Error().Err(err).Msg("ListPendingTeachers: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve pending teachers"})
		return
	}
	ctx.JSON(http.StatusOK, teachers)
}

// ApproveTeacher godoc
// @Summary (Teacher) Approve a pending teacher
// @Tags Teacher - Verification
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid teacher ID"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Security BearerAuth
// @Router /teacher/pending/{teacher_id}/approve [post]
func (c *TeacherController) ApproveTeacher(ctx *gin.Context) {
	c.setVerification(ctx, c.authService.ApproveTeacher, "Teacher approved")
}

// RejectTeacher godoc
// @Summary (Teacher) Reject a pending teacher
// @Tags Teacher - Verification
// @Produce json
// @Param teacher_id path int true "Teacher ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid teacher ID"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Security BearerAuth
// @Router /teacher/pending/{teacher_id}/reject [post]
func (c *TeacherController) RejectTeacher(ctx *gin.Context) {
	c.setVerification(ctx, c.authService.RejectTeacher, "Teacher rejected")
}

func (c *TeacherController) setVerification(ctx *gin.Context, fn func(uint) error, message string) {
	val, err := strconv.ParseUint(ctx.Param("teacher_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid teacher_id format"})
		return
	}

	if err := fn(uint(val)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Teacher not found"})
			return
		}
		log.Error().Err(err).Uint64("teacherID", val).Msg("setVerification: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update teacher"})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}
