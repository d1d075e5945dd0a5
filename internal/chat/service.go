package chat

import (
	"context"
	"io"
	"strings"

	"github.com/lumenline/quotedesk/internal/backend"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	errorReply = "Error connecting to AI."
)

// Backend covers both chat surfaces of the upstream API.
type Backend interface {
	DocChatSessions(ctx context.Context, id *backend.Identity) ([]backend.ChatSession, error)
	DocChatHistory(ctx context.Context, id *backend.Identity, sessionID string) ([]backend.ChatMessage, error)
	DocChat(ctx context.Context, id *backend.Identity, sessionID, message string) (*backend.ChatResult, error)
	DocChatUpload(ctx context.Context, id *backend.Identity, filename string, file io.Reader) error

	DataChatSessions(ctx context.Context, id *backend.Identity) ([]backend.ChatSession, error)
	DataChatHistory(ctx context.Context, id *backend.Identity, sessionID string) ([]backend.ChatMessage, error)
	DataChat(ctx context.Context, id *backend.Identity, sessionID, message string) (*backend.ChatResult, error)
}

type Service struct {
	backend Backend
	logger  *logger.Logger
}

func NewService(b Backend, logg *logger.Logger) *Service {
	return &Service{backend: b, logger: logg}
}

// Exchange is one question and its reply. When the assistant backend is
// unreachable the exchange still succeeds with a stock error reply, so
// the conversation survives transient outages.
type Exchange struct {
	User      backend.ChatMessage `json:"user"`
	Assistant backend.ChatMessage `json:"assistant"`
	SessionID string              `json:"session_id"`
	Failed    bool                `json:"failed"`
}

func (s *Service) DocSessions(ctx context.Context, id *backend.Identity) ([]backend.ChatSession, error) {
	return s.sessions(s.backend.DocChatSessions(ctx, id))
}

func (s *Service) DocHistory(ctx context.Context, id *backend.Identity, sessionID string) ([]backend.ChatMessage, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.history(s.backend.DocChatHistory(ctx, id, sessionID))
}

func (s *Service) DocSend(ctx context.Context, id *backend.Identity, sessionID, message string) (*Exchange, error) {
	return s.send(ctx, id, sessionID, message, s.backend.DocChat)
}

// DocUpload adds a document to the retrieval index behind the doc chat.
func (s *Service) DocUpload(ctx context.Context, id *backend.Identity, filename string, file io.Reader) error {
	return s.backend.DocChatUpload(ctx, id, filename, file)
}

func (s *Service) DataSessions(ctx context.Context, id *backend.Identity) ([]backend.ChatSession, error) {
	return s.sessions(s.backend.DataChatSessions(ctx, id))
}

func (s *Service) DataHistory(ctx context.Context, id *backend.Identity, sessionID string) ([]backend.ChatMessage, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.history(s.backend.DataChatHistory(ctx, id, sessionID))
}

func (s *Service) DataSend(ctx context.Context, id *backend.Identity, sessionID, message string) (*Exchange, error) {
	return s.send(ctx, id, sessionID, message, s.backend.DataChat)
}

type sendFunc func(ctx context.Context, id *backend.Identity, sessionID, message string) (*backend.ChatResult, error)

func (s *Service) send(ctx context.Context, id *backend.Identity, sessionID, message string, call sendFunc) (*Exchange, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	exchange := &Exchange{
		User:      backend.ChatMessage{Role: RoleUser, Content: message},
		SessionID: sessionID,
	}

	result, err := call(ctx, id, sessionID, message)
	if err != nil {
		if s.logger != nil {
			s.logger.Error(ctx, "chat backend call failed", err)
		}
		exchange.Assistant = backend.ChatMessage{Role: RoleAssistant, Content: errorReply}
		exchange.Failed = true
		return exchange, nil
	}

	exchange.Assistant = backend.ChatMessage{
		Role:    RoleAssistant,
		Content: result.Response,
		SQL:     result.SQL,
		Data:    result.Data,
	}
	if result.SessionID != "" {
		exchange.SessionID = result.SessionID
	}
	return exchange, nil
}

func (s *Service) sessions(list []backend.ChatSession, err error) ([]backend.ChatSession, error) {
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []backend.ChatSession{}
	}
	return list, nil
}

func (s *Service) history(list []backend.ChatMessage, err error) ([]backend.ChatMessage, error) {
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []backend.ChatMessage{}
	}
	return list, nil
}
