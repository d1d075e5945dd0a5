package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumenline/quotedesk/internal/activity"
	"github.com/lumenline/quotedesk/internal/auth"
	"github.com/lumenline/quotedesk/internal/backend"
	"github.com/lumenline/quotedesk/internal/catalog"
	"github.com/lumenline/quotedesk/internal/chat"
	"github.com/lumenline/quotedesk/internal/editor"
	"github.com/lumenline/quotedesk/internal/opportunity"
	"github.com/lumenline/quotedesk/internal/quotes"
	"github.com/lumenline/quotedesk/internal/session"
	"github.com/lumenline/quotedesk/pkg/config"
	"github.com/lumenline/quotedesk/pkg/logger"
	"github.com/lumenline/quotedesk/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type fakeKV struct {
	values map[string]string
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeKV) SessionKey(sessionID string) string { return "qd:session:" + sessionID }

// stubUpstream satisfies every service's backend interface with empty data.
type stubUpstream struct{}

func (stubUpstream) Login(context.Context, string, string) (*backend.LoginResult, error) {
	return &backend.LoginResult{User: backend.User{ID: 1, Email: "rep@lumenline.io"}, Token: "t"}, nil
}
func (stubUpstream) Register(context.Context, backend.RegisterParams) error { return nil }
func (stubUpstream) Verify(context.Context, backend.VerifyParams) error     { return nil }
func (stubUpstream) ResendCode(context.Context, string) error               { return nil }
func (stubUpstream) ForgotPassword(context.Context, string) error           { return nil }
func (stubUpstream) ResetPassword(context.Context, backend.ResetPasswordParams) error {
	return nil
}

func (stubUpstream) ListQuotations(context.Context, *backend.Identity) ([]backend.Quotation, error) {
	return []backend.Quotation{{ID: 1, RFPTitle: "Hotel Phoenix Retrofit", Status: backend.StatusDraft, TotalPrice: 1200}}, nil
}
func (stubUpstream) UploadRFP(context.Context, *backend.Identity, string, io.Reader) (*backend.Quotation, error) {
	return &backend.Quotation{ID: 2}, nil
}

func (stubUpstream) GetQuotation(context.Context, *backend.Identity, int64) (*backend.Quotation, error) {
	return &backend.Quotation{ID: 1, Status: backend.StatusDraft}, nil
}
func (stubUpstream) UpdateQuotation(context.Context, *backend.Identity, int64, backend.UpdateQuotationParams) (*backend.UpdateQuotationResult, error) {
	return &backend.UpdateQuotationResult{}, nil
}
func (stubUpstream) RematchQuotation(context.Context, *backend.Identity, int64, []backend.Requirement) (*backend.RematchResult, error) {
	return &backend.RematchResult{}, nil
}
func (stubUpstream) SetQuotationStatus(context.Context, *backend.Identity, int64, string) error {
	return nil
}
func (stubUpstream) SendQuotation(context.Context, *backend.Identity, int64, string) error {
	return nil
}
func (stubUpstream) DownloadQuotation(context.Context, *backend.Identity, int64) ([]byte, string, error) {
	return nil, "", nil
}

func (stubUpstream) ListItems(context.Context, *backend.Identity) ([]backend.CatalogItem, error) {
	return nil, nil
}
func (stubUpstream) SearchItems(context.Context, *backend.Identity, string) ([]backend.CatalogItem, error) {
	return nil, nil
}
func (stubUpstream) AddItem(_ context.Context, _ *backend.Identity, item backend.CatalogItem) (*backend.CatalogItem, error) {
	return &item, nil
}
func (stubUpstream) UpdateItem(_ context.Context, _ *backend.Identity, item backend.CatalogItem) (*backend.CatalogItem, error) {
	return &item, nil
}
func (stubUpstream) EmbedAllItems(context.Context, *backend.Identity) error { return nil }
func (stubUpstream) UploadItemImage(context.Context, *backend.Identity, int64, string, io.Reader) (string, error) {
	return "", nil
}
func (stubUpstream) VisualSearch(context.Context, *backend.Identity, string, io.Reader) ([]backend.VisualMatch, error) {
	return nil, nil
}

func (stubUpstream) ListOpportunities(context.Context, *backend.Identity) ([]backend.Opportunity, error) {
	return nil, nil
}
func (stubUpstream) SearchOpportunities(context.Context, *backend.Identity, string) ([]backend.Opportunity, error) {
	return nil, nil
}
func (stubUpstream) GetOpportunity(context.Context, *backend.Identity, int64) (*backend.Opportunity, error) {
	return &backend.Opportunity{ID: 1}, nil
}
func (stubUpstream) AddOpportunity(_ context.Context, _ *backend.Identity, opp backend.Opportunity) (*backend.Opportunity, error) {
	return &opp, nil
}
func (stubUpstream) UpdateOpportunity(_ context.Context, _ *backend.Identity, opp backend.Opportunity) (*backend.Opportunity, error) {
	return &opp, nil
}

func (stubUpstream) DocChatSessions(context.Context, *backend.Identity) ([]backend.ChatSession, error) {
	return nil, nil
}
func (stubUpstream) DocChatHistory(context.Context, *backend.Identity, string) ([]backend.ChatMessage, error) {
	return nil, nil
}
func (stubUpstream) DocChat(context.Context, *backend.Identity, string, string) (*backend.ChatResult, error) {
	return &backend.ChatResult{Response: "ok"}, nil
}
func (stubUpstream) DocChatUpload(context.Context, *backend.Identity, string, io.Reader) error {
	return nil
}
func (stubUpstream) DataChatSessions(context.Context, *backend.Identity) ([]backend.ChatSession, error) {
	return nil, nil
}
func (stubUpstream) DataChatHistory(context.Context, *backend.Identity, string) ([]backend.ChatMessage, error) {
	return nil, nil
}
func (stubUpstream) DataChat(context.Context, *backend.Identity, string, string) (*backend.ChatResult, error) {
	return &backend.ChatResult{Response: "ok"}, nil
}

func (stubUpstream) Activity(context.Context, *backend.Identity, string) ([]backend.ActivityEntry, error) {
	return nil, nil
}

func testRouter(t *testing.T) (http.Handler, *session.Manager) {
	t.Helper()

	cfg := &config.Config{
		App:    config.AppConfig{Env: "dev", CORSOrigins: []string{"http://localhost:3000"}},
		Upload: config.UploadConfig{MaxUploadMB: 25},
		Editor: config.EditorConfig{CostRatio: 0.6},
		ROI:    config.ROIConfig{LegacyWattageMultiplier: 2.5, CO2FactorKgPerKWh: 0.4},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	sessions := session.NewManager(&fakeKV{values: map[string]string{}}, time.Hour, logg)
	upstream := stubUpstream{}

	svcs := Services{
		Sessions:    sessions,
		Auth:        auth.NewService(upstream, sessions, logg),
		Quotes:      quotes.NewService(upstream, logg),
		Editor:      editor.NewService(upstream, editor.NewStore(nil, logg), logg, cfg.Editor, cfg.ROI),
		Catalog:     catalog.NewService(upstream, logg),
		Opportunity: opportunity.NewService(upstream, logg),
		Chat:        chat.NewService(upstream, logg),
		Activity:    activity.NewService(upstream, logg),
	}
	return NewRouter(cfg, logg, stubPinger{}, nil, svcs, nil), sessions
}

func TestRouterHealthEndpointsAreOpen(t *testing.T) {
	router, _ := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", w.Code)
	}
}

func TestRouterGatesPrivateRoutes(t *testing.T) {
	router, sessions := testRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 but got %d", w.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if envelope.Error.Redirect != "/login" {
		t.Fatalf("expected login redirect, got %q", envelope.Error.Redirect)
	}

	sess, err := sessions.Create(context.Background(), backend.User{ID: 1, Email: "rep@lumenline.io"}, "t")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("X-Session-Id", sess.ID)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouterEditorRoundtrip(t *testing.T) {
	router, sessions := testRouter(t)

	sess, err := sessions.Create(context.Background(), backend.User{ID: 1, Email: "rep@lumenline.io"}, "t")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations/1/editor", nil)
	req.Header.Set("X-Session-Id", sess.ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/quotations/1/editor", nil)
	req.Header.Set("X-Session-Id", sess.ID)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d: %s", w.Code, w.Body.String())
	}
}
