package student

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aulago/campus/internal/controller/middleware"
	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ExamController struct {
	examService       service.ExamService
	submissionService service.ExamSubmissionService
}

func NewExamController(examService service.ExamService, submissionService service.ExamSubmissionService) *ExamController {
	return &ExamController{examService: examService, submissionService: submissionService}
}

// CreateExam godoc
// @Summary (Student) Create and start an exam
// @Description Generates four exercises (Easy, Easy, Medium, Hard) for the chosen topics and starts the 90-minute window.
// @Tags Student - Exams
// @Accept json
// @Produce json
// @Param exam body dto.ExamCreateDTO true "Exam name and four topic ids"
// @Success 201 {object} dto.ExamDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "Exercise generation failed"
// @Security BearerAuth
// @Router /student/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.ExamCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	exam, err := c.examService.CreateExam(ctx.Request.Context(), user, req)
	if err != nil {
		log.Error().Err(err).Uint("studentID", user.ID).Msg("CreateExam: service error")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Failed to create exam", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, exam)
}

// ListExams godoc
// @Summary (Student) List own exams
// @Tags Student - Exams
// @Produce json
// @Success 200 {array} dto.ExamSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /student/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	exams, err := c.examService.ListExams(user)
	if err != nil {
		log.Error().Err(err).Uint("studentID", user.ID).Msg("ListExams: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve exams"})
		return
	}
	ctx.JSON(http.StatusOK, exams)
}

// GetExam godoc
// @Summary (Student) Get a running exam
// @Description Returns the live view with remaining seconds. An already submitted exam redirects to its archived view.
// @Tags Student - Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ExamDetailDTO
// @Success 303 "Redirect to /student/exams/{exam_id}/archive"
// @Failure 400 {object} dto.ErrorResponse "Invalid exam ID"
// @Failure 403 {object} dto.ErrorResponse "Not your exam"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Security BearerAuth
// @Router /student/exams/{exam_id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}

	exam, err := c.examService.GetExam(user, examID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadySubmitted):
			ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/api/student/exams/%d/archive", examID))
		case errors.Is(err, service.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Exam not found"})
		case errors.Is(err, service.ErrForbidden):
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "You do not have access to this exam"})
		default:
			log.Error().Err(err).Uint("examID", examID).Msg("GetExam: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve exam"})
		}
		return
	}
	ctx.JSON(http.StatusOK, exam)
}

// GetArchivedExam godoc
// @Summary (Student) Get a submitted exam
// @Description Read-only view with reference solutions, per-exercise outcomes and the recomputed grade.
// @Tags Student - Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ArchivedExamDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid exam ID"
// @Failure 403 {object} dto.ErrorResponse "Not your exam"
// @Failure 404 {object} dto.ErrorResponse "Exam not found or not submitted yet"
// @Security BearerAuth
// @Router /student/exams/{exam_id}/archive [get]
func (c *ExamController) GetArchivedExam(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}

	exam, err := c.examService.GetArchivedExam(user, examID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Exam not found or not submitted yet"})
		case errors.Is(err, service.ErrForbidden):
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "You do not have access to this exam"})
		default:
			log.Error().Err(err).Uint("examID", examID).Msg("GetArchivedExam: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve exam"})
		}
		return
	}
	ctx.JSON(http.StatusOK, exam)
}

// SubmitExam godoc
// @Summary (Student) Submit an exam
// @Description Closes the exam exactly once and grades every answer. Unanswered exercises score zero; evaluation failures leave the exercise in the failed state without blocking the rest.
// @Tags Student - Exams
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param answers body dto.ExamSubmitDTO true "Answers keyed by exercise id"
// @Success 200 {object} dto.ArchivedExamDTO
// @Success 303 "Already submitted; redirect to /student/exams/{exam_id}/archive"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Not your exam"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Security BearerAuth
// @Router /student/exams/{exam_id}/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	examID, ok := pathID(ctx, "exam_id")
	if !ok {
		return
	}

	var req dto.ExamSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.submissionService.Submit(ctx.Request.Context(), user, examID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadySubmitted):
			// The losing submission is benign; send it to the archive
			// like any other view of a closed exam.
			ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("/api/student/exams/%d/archive", examID))
		case errors.Is(err, service.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Exam not found"})
		case errors.Is(err, service.ErrForbidden):
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "You do not have access to this exam"})
		default:
			log.Error().Err(err).Uint("examID", examID).Msg("SubmitExam: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to submit exam", Details: []string{err.Error()}})
		}
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// pathID parses a uint path parameter, answering 400 itself on bad input.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
