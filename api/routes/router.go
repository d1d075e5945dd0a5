package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumenline/quotedesk/api/controllers"
	"github.com/lumenline/quotedesk/api/middleware"
	"github.com/lumenline/quotedesk/internal/activity"
	"github.com/lumenline/quotedesk/internal/auth"
	"github.com/lumenline/quotedesk/internal/catalog"
	"github.com/lumenline/quotedesk/internal/chat"
	"github.com/lumenline/quotedesk/internal/editor"
	"github.com/lumenline/quotedesk/internal/opportunity"
	"github.com/lumenline/quotedesk/internal/quotes"
	"github.com/lumenline/quotedesk/internal/session"
	"github.com/lumenline/quotedesk/pkg/config"
	"github.com/lumenline/quotedesk/pkg/logger"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Sessions    *session.Manager
	Auth        *auth.Service
	Quotes      *quotes.Service
	Editor      *editor.Service
	Catalog     *catalog.Service
	Opportunity *opportunity.Service
	Chat        *chat.Service
	Activity    *activity.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisP controllers.Pinger,
	limiter middleware.RateLimiterStore,
	svcs Services,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
		r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.Post("/verify", controllers.AuthVerify(svcs.Auth, logg))
		r.Post("/resend-code", controllers.AuthResendCode(svcs.Auth, logg))
		r.Post("/forgot-password", controllers.AuthForgotPassword(svcs.Auth, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(svcs.Sessions, logg))

		r.Get("/dashboard", controllers.QuotationDashboard(svcs.Quotes, logg))

		r.Route("/quotations", func(r chi.Router) {
			r.Get("/", controllers.QuotationList(svcs.Quotes, logg))
			r.Post("/upload", controllers.QuotationUpload(svcs.Quotes, cfg.Upload.MaxUploadMB, logg))

			r.Route("/{quotationId}/editor", func(r chi.Router) {
				r.Post("/", controllers.EditorOpen(svcs.Editor, logg))
				r.Get("/", controllers.EditorGet(svcs.Editor, logg))
				r.Delete("/", controllers.EditorClose(svcs.Editor, logg))
				r.Post("/tab", controllers.EditorSwitchTab(svcs.Editor, logg))
				r.Post("/specs", controllers.EditorUpdateSpec(svcs.Editor, logg))
				r.Post("/client-name", controllers.EditorSetClientName(svcs.Editor, logg))
				r.Post("/lines/quantity", controllers.EditorSetQuantity(svcs.Editor, logg))
				r.Post("/lines/unit-price", controllers.EditorSetUnitPrice(svcs.Editor, logg))
				r.Post("/lines/alternative", controllers.EditorSelectAlternative(svcs.Editor, logg))
				r.Post("/margin", controllers.EditorApplyMargin(svcs.Editor, logg))
				r.Post("/rematch", controllers.EditorRematch(svcs.Editor, logg))
				r.Post("/save", controllers.EditorSavePricing(svcs.Editor, logg))
				r.Post("/status", controllers.EditorSetStatus(svcs.Editor, logg))
				r.Post("/finalize", controllers.EditorFinalize(svcs.Editor, logg))
				r.Post("/send", controllers.EditorSend(svcs.Editor, logg))
				r.Get("/download", controllers.EditorDownload(svcs.Editor, logg))
				r.Get("/roi", controllers.EditorROI(svcs.Editor, logg))
			})
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(svcs.Catalog, logg))
			r.Post("/", controllers.CatalogSave(svcs.Catalog, logg))
			r.Post("/reindex", controllers.CatalogReindex(svcs.Catalog, logg))
			r.Post("/{itemId}/image", controllers.CatalogAttachImage(svcs.Catalog, cfg.Upload.MaxUploadMB, logg))
		})
		r.Post("/visual-search", controllers.CatalogVisualSearch(svcs.Catalog, cfg.Upload.MaxUploadMB, logg))

		r.Route("/opportunities", func(r chi.Router) {
			r.Get("/", controllers.OpportunityList(svcs.Opportunity, logg))
			r.Post("/", controllers.OpportunitySave(svcs.Opportunity, logg))
			r.Get("/{opportunityId}", controllers.OpportunityGet(svcs.Opportunity, logg))
		})

		r.Route("/doc-chat", func(r chi.Router) {
			r.Get("/sessions", controllers.DocChatSessions(svcs.Chat, logg))
			r.Get("/history/{sessionId}", controllers.DocChatHistory(svcs.Chat, logg))
			r.Post("/message", controllers.DocChatSend(svcs.Chat, logg))
			r.Post("/upload", controllers.DocChatUpload(svcs.Chat, cfg.Upload.MaxUploadMB, logg))
		})

		r.Route("/data-chat", func(r chi.Router) {
			r.Get("/sessions", controllers.DataChatSessions(svcs.Chat, logg))
			r.Get("/history/{sessionId}", controllers.DataChatHistory(svcs.Chat, logg))
			r.Post("/message", controllers.DataChatSend(svcs.Chat, logg))
		})

		r.Get("/activity", controllers.ActivityList(svcs.Activity, logg))
	})

	return r
}
