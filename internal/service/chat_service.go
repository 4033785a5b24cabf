package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"github.com/aulago/campus/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	chatMaxTokens   = 1024
	chatTemperature = 0.7
	// chatHistoryWindow caps how many archived messages are replayed into
	// the prompt.
	chatHistoryWindow = 20
)

type ChatService interface {
	// GetChat returns the student's conversation, creating an empty one on
	// first access.
	GetChat(student *model.User) (*dto.ChatResponseDTO, error)
	SendMessage(ctx context.Context, student *model.User, req dto.ChatMessageSendDTO) (*dto.ChatResponseDTO, error)
}

type chatService struct {
	chatRepo   repository.ChatRepository
	completion CompletionService
}

func NewChatService(chatRepo repository.ChatRepository, completion CompletionService) ChatService {
	return &chatService{chatRepo: chatRepo, completion: completion}
}

func (s *chatService) GetChat(student *model.User) (*dto.ChatResponseDTO, error) {
	chat, err := s.loadOrCreate(student.ID)
	if err != nil {
		return nil, err
	}
	return chatDTO(chat)
}

func (s *chatService) SendMessage(ctx context.Context, student *model.User, req dto.ChatMessageSendDTO) (*dto.ChatResponseDTO, error) {
	chat, err := s.loadOrCreate(student.ID)
	if err != nil {
		return nil, err
	}

	history, err := chat.Messages()
	if err != nil {
		return nil, fmt.Errorf("corrupt conversation for chat %d: %w", chat.ID, err)
	}

	// The student message is archived before calling the tutor so a
	// completion failure never loses it.
	if err := chat.AppendMessage(model.ChatRoleUser, req.Content, time.Now()); err != nil {
		return nil, fmt.Errorf("error archiving message: %w", err)
	}
	if err := s.chatRepo.Update(chat); err != nil {
		return nil, fmt.Errorf("error persisting chat %d: %w", chat.ID, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, completionCallTimeout)
	defer cancel()

	reply, err := s.completion.Complete(callCtx, tutorPrompt(history, req.Content), chatMaxTokens, chatTemperature)
	if err != nil {
		log.Error().Err(err).Uint("chatID", chat.ID).Msg("SendMessage: completion call failed")
		return nil, fmt.Errorf("tutor is unavailable: %w", err)
	}

	if err := chat.AppendMessage(model.ChatRoleAssistant, reply, time.Now()); err != nil {
		return nil, fmt.Errorf("error archiving reply: %w", err)
	}
	if err := s.chatRepo.Update(chat); err != nil {
		return nil, fmt.Errorf("error persisting chat %d: %w", chat.ID, err)
	}
	return chatDTO(chat)
}

func (s *chatService) loadOrCreate(studentID uint) (*model.Chat, error) {
	chat, err := s.chatRepo.FindByStudent(studentID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error fetching chat: %w", err)
	}

	chat = &model.Chat{StudentID: studentID, Conversation: "[]"}
	if err := s.chatRepo.Create(chat); err != nil {
		return nil, fmt.Errorf("error creating chat: %w", err)
	}
	return chat, nil
}

func tutorPrompt(history []model.ChatMessage, content string) string {
	var b strings.Builder
	b.WriteString("Eres un tutor de programación que ayuda a estudiantes universitarios. ")
	b.WriteString("Responde en español, de forma clara y pedagógica, guiando al estudiante ")
	b.WriteString("en lugar de entregar la solución completa de inmediato.\n\n")

	start := 0
	if len(history) > chatHistoryWindow {
		start = len(history) - chatHistoryWindow
	}
	for _, msg := range history[start:] {
		if msg.Role == model.ChatRoleAssistant {
			b.WriteString("Tutor: ")
		} else {
			b.WriteString("Estudiante: ")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}

	b.WriteString("Estudiante: ")
	b.WriteString(content)
	b.WriteString("\nTutor:")
	return b.String()
}

func chatDTO(chat *model.Chat) (*dto.ChatResponseDTO, error) {
	msgs, err := chat.Messages()
	if err != nil {
		return nil, fmt.Errorf("corrupt conversation for chat %d: %w", chat.ID, err)
	}

	resp := dto.ChatResponseDTO{ID: chat.ID, Messages: make([]dto.ChatMessageDTO, 0, len(msgs))}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, dto.ChatMessageDTO{Role: m.Role, Content: m.Content, SentAt: m.SentAt})
	}
	return &resp, nil
}
