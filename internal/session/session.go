package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/lumenline/quotedesk/internal/backend"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
	qdredis "github.com/lumenline/quotedesk/pkg/redis"
)

// Session is the explicit auth context threaded to everything that needs
// identity, with a load/clear lifecycle instead of ambient global state.
type Session struct {
	ID        string       `json:"id"`
	User      backend.User `json:"user"`
	Token     string       `json:"token"`
	CreatedAt time.Time    `json:"created_at"`
}

// Identity shapes the session for upstream calls.
func (s *Session) Identity() *backend.Identity {
	if s == nil {
		return nil
	}
	return &backend.Identity{
		UserID: s.User.ID,
		Email:  s.User.Email,
		Token:  s.Token,
	}
}

// KV is the key-value surface the manager needs from Redis.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
}

// Manager stores sessions in Redis with a sliding TTL.
type Manager struct {
	kv     KV
	ttl    time.Duration
	logger *logger.Logger
}

func NewManager(kv KV, ttl time.Duration, logg *logger.Logger) *Manager {
	return &Manager{kv: kv, ttl: ttl, logger: logg}
}

// Create opens a session for a freshly authenticated user.
func (m *Manager) Create(ctx context.Context, user backend.User, token string) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		User:      user,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Load resolves a session ID. Missing, expired, or corrupt sessions all
// surface as an authentication failure. A successful load slides the TTL.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, unauthenticated()
	}
	payload, err := m.kv.Get(ctx, m.kv.SessionKey(sessionID))
	if err != nil {
		if qdredis.IsNil(err) {
			return nil, unauthenticated()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session")
	}
	var sess Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, unauthenticated()
	}
	if err := m.save(ctx, &sess); err != nil && m.logger != nil {
		m.logger.Warn(ctx, "slide session ttl failed")
	}
	return &sess, nil
}

// Clear ends a session.
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := m.kv.Del(ctx, m.kv.SessionKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear session")
	}
	return nil
}

func (m *Manager) save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	if err := m.kv.Set(ctx, m.kv.SessionKey(sess.ID), string(payload), m.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store session")
	}
	return nil
}

func unauthenticated() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
}
