package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
)

var _ contract.IChatService = (*ChatService)(nil)

// ChatService validates inbound payloads and turns them into orchestrator calls.
type ChatService struct {
	log              *slog.Logger
	orchestrator     contract.IOrchestrator
	validate         *validator.Validate
	maxNameLength    int
	maxContentLength int
}

func NewChatService(log *slog.Logger, o contract.IOrchestrator, maxNameLength, maxContentLength int) *ChatService {
	return &ChatService{
		log:              log,
		orchestrator:     o,
		validate:         validator.New(),
		maxNameLength:    maxNameLength,
		maxContentLength: maxContentLength,
	}
}

func (s *ChatService) Connect(ctx context.Context, participantID string) error {
	return s.orchestrator.Connect(ctx, participantID)
}

// Login trims the name; a blank or oversized name is rejected.
func (s *ChatService) Login(ctx context.Context, participantID, name string) error {
	name = strings.TrimSpace(name)
	if err := s.validate.Var(name, fmt.Sprintf("required,max=%d", s.maxNameLength)); err != nil {
		return fmt.Errorf("%w: name: %v", errors.ErrInvalidPayload, err)
	}
	return s.orchestrator.Login(ctx, participantID, name)
}

// ChooseLanguage rejects a malformed key before it reaches the registry.
func (s *ChatService) ChooseLanguage(ctx context.Context, participantID, key, display string) error {
	lang, err := domain.NewLanguage(key, display)
	if err != nil {
		s.log.Warn("Language rejected", "participant_id", participantID, "key", key, "error", err)
		return err
	}
	return s.orchestrator.ChooseLanguage(ctx, participantID, lang)
}

func (s *ChatService) SendMessage(participantID, content string) error {
	if err := s.validate.Var(content, fmt.Sprintf("required,max=%d", s.maxContentLength)); err != nil {
		return fmt.Errorf("%w: content: %v", errors.ErrInvalidPayload, err)
	}
	return s.orchestrator.SendMessage(participantID, content)
}

func (s *ChatService) Disconnect(ctx context.Context, participantID string) {
	s.orchestrator.Disconnect(ctx, participantID)
}
