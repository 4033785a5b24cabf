package student

import (
	"net/http"

	"github.com/aulago/campus/internal/controller/middleware"
	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ChatController struct {
	chatService service.ChatService
}

func NewChatController(chatService service.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// GetChat godoc
// @Summary (Student) Get the tutoring conversation
// @Description Returns the archived conversation with the tutor, creating an empty one on first access.
// @Tags Student - Tutor Chat
// @Produce json
// @Success 200 {object} dto.ChatResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /student/chat [get]
func (c *ChatController) GetChat(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	chat, err := c.chatService.GetChat(user)
	if err != nil {
		log.Error().Err(err).Uint("studentID", user.ID).Msg("GetChat: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve chat"})
		return
	}
	ctx.JSON(http.StatusOK, chat)
}

// SendMessage godoc
// @Summary (Student) Ask the tutor
// @Description Sends a message to the tutor and returns the updated conversation including the reply.
// @Tags Student - Tutor Chat
// @Accept json
// @Produce json
// @Param message body dto.ChatMessageSendDTO true "Message"
// @Success 200 {object} dto.ChatResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "Tutor unavailable"
// @Security BearerAuth
// @Router /student/chat [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.ChatMessageSendDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	chat, err := c.chatService.SendMessage(ctx.Request.Context(), user, req)
	if err != nil {
		log.Error().Err(err).Uint("studentID", user.ID).Msg("SendMessage: service error")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Failed to send message", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, chat)
}
