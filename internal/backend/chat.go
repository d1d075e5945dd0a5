package backend

import (
	"context"
	"io"
)

// DocChatSessions lists stored document chat threads.
func (c *Client) DocChatSessions(ctx context.Context, id *Identity) ([]ChatSession, error) {
	var result []ChatSession
	if err := c.getJSON(ctx, "rag.sessions", "/rag/sessions", id, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DocChatHistory returns the transcript for one document chat session.
func (c *Client) DocChatHistory(ctx context.Context, id *Identity, sessionID string) ([]ChatMessage, error) {
	var result []ChatMessage
	if err := c.getJSON(ctx, "rag.history", "/rag/history/"+sessionID, id, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DocChat sends a message grounded on uploaded documents. An empty session
// ID asks the backend to open a new thread.
func (c *Client) DocChat(ctx context.Context, id *Identity, sessionID, message string) (*ChatResult, error) {
	body := map[string]string{"message": message}
	if sessionID != "" {
		body["session_id"] = sessionID
	}
	var result ChatResult
	if err := c.postJSON(ctx, "rag.chat", "/rag/chat", id, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DocChatUpload indexes a document for retrieval.
func (c *Client) DocChatUpload(ctx context.Context, id *Identity, filename string, file io.Reader) error {
	return c.postMultipart(ctx, "rag.upload", "/rag/upload", id, "file", filename, file, nil, nil)
}

// DataChatSessions lists stored database chat threads.
func (c *Client) DataChatSessions(ctx context.Context, id *Identity) ([]ChatSession, error) {
	var result []ChatSession
	if err := c.getJSON(ctx, "dbchat.sessions", "/db-chat/sessions", id, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DataChatHistory returns the transcript for one database chat session.
func (c *Client) DataChatHistory(ctx context.Context, id *Identity, sessionID string) ([]ChatMessage, error) {
	var result []ChatMessage
	if err := c.getJSON(ctx, "dbchat.history", "/db-chat/history/"+sessionID, id, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DataChat sends a natural-language question over the sales database.
func (c *Client) DataChat(ctx context.Context, id *Identity, sessionID, message string) (*ChatResult, error) {
	body := map[string]string{"message": message}
	if sessionID != "" {
		body["session_id"] = sessionID
	}
	var result ChatResult
	if err := c.postJSON(ctx, "dbchat.message", "/db-chat/message", id, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
