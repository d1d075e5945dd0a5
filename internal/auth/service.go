package auth

import (
	"context"

	"github.com/lumenline/quotedesk/internal/backend"
	"github.com/lumenline/quotedesk/internal/session"
	"github.com/lumenline/quotedesk/pkg/logger"
)

// Backend is the authentication slice of the upstream API.
type Backend interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
	Register(ctx context.Context, params backend.RegisterParams) error
	Verify(ctx context.Context, params backend.VerifyParams) error
	ResendCode(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, params backend.ResetPasswordParams) error
}

// Sessions is the session lifecycle the auth flows drive.
type Sessions interface {
	Create(ctx context.Context, user backend.User, token string) (*session.Session, error)
	Clear(ctx context.Context, sessionID string) error
}

type Service struct {
	backend  Backend
	sessions Sessions
	logger   *logger.Logger
}

func NewService(b Backend, sessions Sessions, logg *logger.Logger) *Service {
	return &Service{backend: b, sessions: sessions, logger: logg}
}

type LoginView struct {
	SessionID string       `json:"session_id"`
	User      backend.User `json:"user"`
}

// Login authenticates against the backend and opens a gateway session.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginView, error) {
	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Create(ctx, result.User, result.Token)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info(s.logger.WithUserEmail(ctx, result.User.Email), "user logged in")
	}
	return &LoginView{SessionID: sess.ID, User: result.User}, nil
}

// Logout drops the session. Clearing an already-gone session is fine.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Clear(ctx, sessionID)
}

func (s *Service) Register(ctx context.Context, params backend.RegisterParams) error {
	return s.backend.Register(ctx, params)
}

func (s *Service) Verify(ctx context.Context, params backend.VerifyParams) error {
	return s.backend.Verify(ctx, params)
}

func (s *Service) ResendCode(ctx context.Context, email string) error {
	return s.backend.ResendCode(ctx, email)
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	return s.backend.ForgotPassword(ctx, email)
}

func (s *Service) ResetPassword(ctx context.Context, params backend.ResetPasswordParams) error {
	return s.backend.ResetPassword(ctx, params)
}
