package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"gorm.io/gorm"
)

type fakeChatRepo struct {
	chats  map[uint]*model.Chat
	nextID uint
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[uint]*model.Chat), nextID: 1}
}

func (r *fakeChatRepo) FindByStudent(studentID uint) (*model.Chat, error) {
	for _, chat := range r.chats {
		if chat.StudentID == studentID {
			copied := *chat
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChatRepo) Create(chat *model.Chat) error {
	chat.ID = r.nextID
	r.nextID++
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepo) Update(chat *model.Chat) error {
	r.chats[chat.ID] = chat
	return nil
}

func TestGetChatCreatesEmptyConversation(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewChatService(repo, &fakeCompletion{response: "hola"})

	chat, err := svc.GetChat(student())
	if err != nil {
		t.Fatalf("GetChat error: %v", err)
	}
	if len(chat.Messages) != 0 {
		t.Errorf("new chat has %d messages, want 0", len(chat.Messages))
	}
	if len(repo.chats) != 1 {
		t.Errorf("chat was not persisted")
	}

	// Second access reuses the same conversation.
	again, err := svc.GetChat(student())
	if err != nil {
		t.Fatalf("second GetChat error: %v", err)
	}
	if again.ID != chat.ID {
		t.Errorf("second access created a new chat: %d != %d", again.ID, chat.ID)
	}
}

func TestSendMessageArchivesBothSides(t *testing.T) {
	repo := newFakeChatRepo()
	completion := &fakeCompletion{response: "Piensa primero en el caso base."}
	svc := NewChatService(repo, completion)

	chat, err := svc.SendMessage(context.Background(), student(), dto.ChatMessageSendDTO{Content: "¿Cómo planteo la recursión?"})
	if err != nil {
		t.Fatalf("SendMessage error: %v", err)
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(chat.Messages))
	}
	if chat.Messages[0].Role != model.ChatRoleUser || chat.Messages[1].Role != model.ChatRoleAssistant {
		t.Errorf("roles = %s, %s", chat.Messages[0].Role, chat.Messages[1].Role)
	}
	if chat.Messages[1].Content != "Piensa primero en el caso base." {
		t.Errorf("assistant content = %q", chat.Messages[1].Content)
	}

	// A further message carries the history into the prompt.
	if _, err := svc.SendMessage(context.Background(), student(), dto.ChatMessageSendDTO{Content: "¿Y después?"}); err != nil {
		t.Fatalf("second SendMessage error: %v", err)
	}
	lastPrompt := completion.prompts[len(completion.prompts)-1]
	if !strings.Contains(lastPrompt, "¿Cómo planteo la recursión?") {
		t.Error("prompt must replay the earlier conversation")
	}
}

func TestSendMessageCompletionFailureKeepsStudentMessage(t *testing.T) {
	repo := newFakeChatRepo()
	svc := NewChatService(repo, &fakeCompletion{err: context.DeadlineExceeded})

	if _, err := svc.SendMessage(context.Background(), student(), dto.ChatMessageSendDTO{Content: "hola"}); err == nil {
		t.Fatal("expected completion failure to propagate")
	}

	chat, err := svc.GetChat(student())
	if err != nil {
		t.Fatalf("GetChat error: %v", err)
	}
	if len(chat.Messages) != 1 {
		t.Fatalf("got %d messages, want the student message alone", len(chat.Messages))
	}
	if chat.Messages[0].Role != model.ChatRoleUser || chat.Messages[0].Content != "hola" {
		t.Errorf("archived message = %+v", chat.Messages[0])
	}
}
