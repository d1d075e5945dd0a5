package chat

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenline/quotedesk/internal/backend"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
)

type stubBackend struct {
	docResult  *backend.ChatResult
	docErr     error
	dataResult *backend.ChatResult
	history    []backend.ChatMessage
	docCalls   []string
	uploaded   string
}

func (s *stubBackend) DocChatSessions(context.Context, *backend.Identity) ([]backend.ChatSession, error) {
	return nil, nil
}

func (s *stubBackend) DocChatHistory(context.Context, *backend.Identity, string) ([]backend.ChatMessage, error) {
	return []backend.ChatMessage{{Role: RoleUser, Content: "hi"}}, nil
}

func (s *stubBackend) DocChat(_ context.Context, _ *backend.Identity, sessionID, message string) (*backend.ChatResult, error) {
	s.docCalls = append(s.docCalls, sessionID+"|"+message)
	if s.docErr != nil {
		return nil, s.docErr
	}
	return s.docResult, nil
}

func (s *stubBackend) DocChatUpload(_ context.Context, _ *backend.Identity, filename string, _ io.Reader) error {
	s.uploaded = filename
	return nil
}

func (s *stubBackend) DataChatSessions(context.Context, *backend.Identity) ([]backend.ChatSession, error) {
	return []backend.ChatSession{{SessionID: "d1", Title: "Revenue by month"}}, nil
}

func (s *stubBackend) DataChatHistory(context.Context, *backend.Identity, string) ([]backend.ChatMessage, error) {
	return s.history, nil
}

func (s *stubBackend) DataChat(context.Context, *backend.Identity, string, string) (*backend.ChatResult, error) {
	return s.dataResult, nil
}

func TestDocSendThreadsSessionID(t *testing.T) {
	stub := &stubBackend{docResult: &backend.ChatResult{Response: "Section 4 covers IP ratings.", SessionID: "s-new"}}
	svc := NewService(stub, nil)

	exchange, err := svc.DocSend(context.Background(), nil, "", "  What about IP ratings?  ")
	require.NoError(t, err)

	assert.Equal(t, RoleUser, exchange.User.Role)
	assert.Equal(t, "What about IP ratings?", exchange.User.Content)
	assert.Equal(t, "Section 4 covers IP ratings.", exchange.Assistant.Content)
	assert.Equal(t, "s-new", exchange.SessionID)
	assert.False(t, exchange.Failed)
	require.Len(t, stub.docCalls, 1)
	assert.Equal(t, "|What about IP ratings?", stub.docCalls[0])
}

func TestDocSendDegradesToErrorReply(t *testing.T) {
	stub := &stubBackend{docErr: pkgerrors.New(pkgerrors.CodeDependency, "backend down")}
	svc := NewService(stub, nil)

	exchange, err := svc.DocSend(context.Background(), nil, "s1", "hello")
	require.NoError(t, err)

	assert.True(t, exchange.Failed)
	assert.Equal(t, "Error connecting to AI.", exchange.Assistant.Content)
	assert.Equal(t, "s1", exchange.SessionID)
}

func TestDataSendCarriesSQLAndRows(t *testing.T) {
	stub := &stubBackend{dataResult: &backend.ChatResult{
		Response:  "Top client is Cordia.",
		SQL:       "SELECT client_name, SUM(total_price) FROM quotations GROUP BY client_name",
		Data:      json.RawMessage(`[{"client_name":"Cordia","sum":9500}]`),
		SessionID: "d-new",
	}}
	svc := NewService(stub, nil)

	exchange, err := svc.DataSend(context.Background(), nil, "", "who is our top client?")
	require.NoError(t, err)

	assert.Equal(t, "Top client is Cordia.", exchange.Assistant.Content)
	assert.Contains(t, exchange.Assistant.SQL, "GROUP BY client_name")
	assert.JSONEq(t, `[{"client_name":"Cordia","sum":9500}]`, string(exchange.Assistant.Data))
	assert.Equal(t, "d-new", exchange.SessionID)
}

func TestDataHistoryKeepsSnapshots(t *testing.T) {
	stub := &stubBackend{history: []backend.ChatMessage{
		{Role: RoleUser, Content: "who is our top client?"},
		{
			Role:    RoleAssistant,
			Content: "Top client is Cordia.",
			SQL:     "SELECT 1",
			Data:    json.RawMessage(`[{"n":1}]`),
		},
	}}
	svc := NewService(stub, nil)

	history, err := svc.DataHistory(context.Background(), nil, "d1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "SELECT 1", history[1].SQL)
	assert.JSONEq(t, `[{"n":1}]`, string(history[1].Data))
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	svc := NewService(&stubBackend{}, nil)

	_, err := svc.DocSend(context.Background(), nil, "s1", "   ")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.DataSend(context.Background(), nil, "s1", "")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestHistoryAndSessionsNeverNil(t *testing.T) {
	svc := NewService(&stubBackend{}, nil)
	ctx := context.Background()

	sessions, err := svc.DocSessions(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, sessions)

	history, err := svc.DataHistory(ctx, nil, "d1")
	require.NoError(t, err)
	assert.NotNil(t, history)

	_, err = svc.DataHistory(ctx, nil, " ")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestDocUploadForwardsFilename(t *testing.T) {
	stub := &stubBackend{}
	svc := NewService(stub, nil)

	require.NoError(t, svc.DocUpload(context.Background(), nil, "datasheet.pdf", nil))
	assert.Equal(t, "datasheet.pdf", stub.uploaded)
}
