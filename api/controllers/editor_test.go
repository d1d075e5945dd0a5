package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lumenline/quotedesk/internal/backend"
	"github.com/lumenline/quotedesk/internal/editor"
	"github.com/lumenline/quotedesk/internal/session"
	"github.com/lumenline/quotedesk/pkg/config"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
	"github.com/lumenline/quotedesk/pkg/types"
)

type testQuotationBackend struct {
	quotation *backend.Quotation
	sendCalls []string
}

func (b *testQuotationBackend) GetQuotation(context.Context, *backend.Identity, int64) (*backend.Quotation, error) {
	return b.quotation, nil
}

func (b *testQuotationBackend) UpdateQuotation(context.Context, *backend.Identity, int64, backend.UpdateQuotationParams) (*backend.UpdateQuotationResult, error) {
	return &backend.UpdateQuotationResult{}, nil
}

func (b *testQuotationBackend) RematchQuotation(context.Context, *backend.Identity, int64, []backend.Requirement) (*backend.RematchResult, error) {
	return &backend.RematchResult{}, nil
}

func (b *testQuotationBackend) SetQuotationStatus(context.Context, *backend.Identity, int64, string) error {
	return nil
}

func (b *testQuotationBackend) SendQuotation(_ context.Context, _ *backend.Identity, _ int64, recipient string) error {
	b.sendCalls = append(b.sendCalls, recipient)
	return nil
}

func (b *testQuotationBackend) DownloadQuotation(context.Context, *backend.Identity, int64) ([]byte, string, error) {
	return []byte("%PDF-1.7"), "application/pdf", nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newEditorService(b *testQuotationBackend) *editor.Service {
	store := editor.NewStore(nil, nil)
	return editor.NewService(b, store, nil,
		config.EditorConfig{CostRatio: 0.6},
		config.ROIConfig{LegacyWattageMultiplier: 2.5, CO2FactorKgPerKWh: 0.4},
	)
}

func editorFixture() *backend.Quotation {
	return &backend.Quotation{
		ID:       42,
		RFPTitle: "Hotel Phoenix Retrofit",
		Status:   backend.StatusDraft,
		Content: &backend.QuotationContent{
			ClientName: "Phoenix Group",
			Matches: []backend.Match{{
				ProductID:    3,
				ProductTitle: "LED Panel 36W",
				Quantity:     10,
				UnitPrice:    40,
			}},
		},
	}
}

func editorRequest(method, path string, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	sess := &session.Session{ID: "sess-1", User: backend.User{ID: 7, Email: "dana@lumenline.io"}}
	req = req.WithContext(session.WithSession(req.Context(), sess))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("quotationId", "42")
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) editor.View {
	t.Helper()
	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("failed to re-encode data: %v", err)
	}
	var view editor.View
	if err := json.Unmarshal(raw, &view); err != nil {
		t.Fatalf("failed to decode view: %v", err)
	}
	return view
}

func TestEditorOpenReturnsNormalizedView(t *testing.T) {
	svc := newEditorService(&testQuotationBackend{quotation: editorFixture()})

	w := httptest.NewRecorder()
	EditorOpen(svc, testLogger()).ServeHTTP(w, editorRequest(http.MethodPost, "/api/v1/quotations/42/editor", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d: %s", w.Code, w.Body.String())
	}
	view := decodeView(t, w)
	if view.QuotationID != 42 {
		t.Fatalf("unexpected quotation id %d", view.QuotationID)
	}
	if view.ClientName != "Phoenix Group" {
		t.Fatalf("unexpected client name %q", view.ClientName)
	}
	if len(view.Lines) != 1 || view.Lines[0].Total != 400 {
		t.Fatalf("unexpected lines %+v", view.Lines)
	}
}

func TestEditorSetQuantityRecalculatesTotal(t *testing.T) {
	svc := newEditorService(&testQuotationBackend{quotation: editorFixture()})

	w := httptest.NewRecorder()
	EditorOpen(svc, testLogger()).ServeHTTP(w, editorRequest(http.MethodPost, "/api/v1/quotations/42/editor", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("open failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	EditorSetQuantity(svc, testLogger()).ServeHTTP(w, editorRequest(
		http.MethodPost, "/api/v1/quotations/42/editor/lines/quantity", `{"index":0,"quantity":7}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d: %s", w.Code, w.Body.String())
	}
	view := decodeView(t, w)
	if view.Lines[0].Total != 280 {
		t.Fatalf("expected total 280 but got %v", view.Lines[0].Total)
	}
	if view.GrandTotal != 280 {
		t.Fatalf("expected grand total 280 but got %v", view.GrandTotal)
	}
}

func TestEditorSetQuantityRejectsZero(t *testing.T) {
	svc := newEditorService(&testQuotationBackend{quotation: editorFixture()})

	w := httptest.NewRecorder()
	EditorOpen(svc, testLogger()).ServeHTTP(w, editorRequest(http.MethodPost, "/api/v1/quotations/42/editor", ""))

	w = httptest.NewRecorder()
	EditorSetQuantity(svc, testLogger()).ServeHTTP(w, editorRequest(
		http.MethodPost, "/api/v1/quotations/42/editor/lines/quantity", `{"index":0,"quantity":0}`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", w.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestEditorSendValidatesRecipient(t *testing.T) {
	stub := &testQuotationBackend{quotation: editorFixture()}
	svc := newEditorService(stub)

	w := httptest.NewRecorder()
	EditorOpen(svc, testLogger()).ServeHTTP(w, editorRequest(http.MethodPost, "/api/v1/quotations/42/editor", ""))

	w = httptest.NewRecorder()
	EditorSend(svc, testLogger()).ServeHTTP(w, editorRequest(
		http.MethodPost, "/api/v1/quotations/42/editor/send", `{"recipient":""}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", w.Code)
	}
	if len(stub.sendCalls) != 0 {
		t.Fatalf("send should not reach the backend")
	}

	w = httptest.NewRecorder()
	EditorSend(svc, testLogger()).ServeHTTP(w, editorRequest(
		http.MethodPost, "/api/v1/quotations/42/editor/send", `{"recipient":"buyer@phoenix.example"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d: %s", w.Code, w.Body.String())
	}
	view := decodeView(t, w)
	if view.Status != backend.StatusSent {
		t.Fatalf("expected sent status but got %s", view.Status)
	}
	if len(stub.sendCalls) != 1 || stub.sendCalls[0] != "buyer@phoenix.example" {
		t.Fatalf("unexpected send calls %v", stub.sendCalls)
	}
}

func TestEditorROIHonorsLegacyMultiplierParam(t *testing.T) {
	fixture := editorFixture()
	fixture.Content.Requirements = []backend.Requirement{{ID: "R1", Wattage: "36W"}}
	fixture.Content.Matches[0].RequirementID = "R1"
	svc := newEditorService(&testQuotationBackend{quotation: fixture})

	w := httptest.NewRecorder()
	EditorOpen(svc, testLogger()).ServeHTTP(w, editorRequest(http.MethodPost, "/api/v1/quotations/42/editor", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("open failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	EditorROI(svc, testLogger()).ServeHTTP(w, editorRequest(
		http.MethodGet, "/api/v1/quotations/42/editor/roi?legacy_multiplier=3", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d: %s", w.Code, w.Body.String())
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("failed to re-encode data: %v", err)
	}
	var analysis editor.ROIAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		t.Fatalf("failed to decode analysis: %v", err)
	}
	if analysis.NewWattage != 360 {
		t.Fatalf("unexpected new wattage %v", analysis.NewWattage)
	}
	if analysis.OldWattage != 1080 {
		t.Fatalf("expected multiplier 3 to yield 1080, got %v", analysis.OldWattage)
	}

	w = httptest.NewRecorder()
	EditorROI(svc, testLogger()).ServeHTTP(w, editorRequest(
		http.MethodGet, "/api/v1/quotations/42/editor/roi?legacy_multiplier=-1", ""))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", w.Code)
	}
}

func TestEditorDownloadSetsHeaders(t *testing.T) {
	svc := newEditorService(&testQuotationBackend{quotation: editorFixture()})

	w := httptest.NewRecorder()
	EditorDownload(svc, testLogger()).ServeHTTP(w, editorRequest(http.MethodGet, "/api/v1/quotations/42/editor/download", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "quotation-42.pdf") {
		t.Fatalf("unexpected content disposition %s", cd)
	}
}

func TestEditorRejectsBadQuotationID(t *testing.T) {
	svc := newEditorService(&testQuotationBackend{quotation: editorFixture()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotations/abc/editor", nil)
	sess := &session.Session{ID: "sess-1"}
	req = req.WithContext(session.WithSession(req.Context(), sess))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("quotationId", "abc")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	w := httptest.NewRecorder()
	EditorGet(svc, testLogger()).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", w.Code)
	}
}
