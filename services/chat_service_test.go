package services

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newChatService(t *testing.T) (*ChatService, *mocks.MockIOrchestrator) {
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	orchestrator := mocks.NewMockIOrchestrator(ctrl)
	return NewChatService(log, orchestrator, 10, 20), orchestrator
}

func TestChatService_Login(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		description string
		name        string
		expected    string
		wantErr     bool
	}{
		{"Should trim the name", "  Ann ", "Ann", false},
		{"Should accept a name at the limit", strings.Repeat("é", 10), strings.Repeat("é", 10), false},
		{"Should fail on a blank name", "   ", "", true},
		{"Should fail on a name over the limit", strings.Repeat("a", 11), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)
			service, orchestrator := newChatService(t)
			if !tt.wantErr {
				orchestrator.EXPECT().Login(gomock.Any(), "id1", tt.expected).Return(nil)
			}

			err := service.Login(ctx, "id1", tt.name)

			if tt.wantErr {
				req.ErrorIs(err, errors.ErrInvalidPayload)
				return
			}
			req.NoError(err)
		})
	}
}

func TestChatService_ChooseLanguage(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, orchestrator := newChatService(t)

	// Given a valid key and no display name, the display name is derived
	orchestrator.EXPECT().ChooseLanguage(gomock.Any(), "id1", domain.Language{Key: "es", Display: "español"}).Return(nil)
	req.NoError(service.ChooseLanguage(ctx, "id1", " es ", ""))

	// When the key is malformed, the orchestrator is never called
	err := service.ChooseLanguage(ctx, "id1", "not a language", "Nope")
	req.ErrorIs(err, errors.ErrMalformedLanguage)
}

func TestChatService_SendMessage(t *testing.T) {
	req := require.New(t)
	service, orchestrator := newChatService(t)

	orchestrator.EXPECT().SendMessage("id1", "hello").Return(nil)
	req.NoError(service.SendMessage("id1", "hello"))

	req.ErrorIs(service.SendMessage("id1", ""), errors.ErrInvalidPayload)
	req.ErrorIs(service.SendMessage("id1", strings.Repeat("x", 21)), errors.ErrInvalidPayload)
}

func TestChatService_ConnectAndDisconnect(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, orchestrator := newChatService(t)

	gomock.InOrder(
		orchestrator.EXPECT().Connect(gomock.Any(), "id1").Return(nil),
		orchestrator.EXPECT().Disconnect(gomock.Any(), "id1"),
	)

	req.NoError(service.Connect(ctx, "id1"))
	service.Disconnect(ctx, "id1")
}
