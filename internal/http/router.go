package http

import (
	"log/slog"
	"net/http"
	"time"

	"jobpack/internal/auth"
	"jobpack/internal/config"
	"jobpack/internal/export"
	"jobpack/internal/http/handler"
	mw "jobpack/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Users  handler.UserStore
	JWT    *auth.JWT
	Export *export.Service
	Logger *slog.Logger
}

func NewRouter(cfg config.Config, d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{Users: d.Users, JWT: d.JWT, Logger: d.Logger}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{Accounts: d.Export.Accounts, Access: d.Export.Policy.Access, Logger: d.Logger}
	r.With(auth.RequireAuth(d.JWT)).Get("/me", me.Me)

	eh := &handler.ExportHandler{Svc: d.Export, Logger: d.Logger}
	r.Route("/jobs/{id}", func(r chi.Router) {
		// The export service answers anonymous callers itself so every
		// refusal shares one JSON shape.
		r.Use(auth.Identify(d.JWT))

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(d.Logger, cfg.ExportRateLimit, time.Minute))
			r.Post("/export", eh.Export)
			r.Get("/export", eh.Export)
		})

		r.Get("/estimate", eh.Estimate)
		r.Get("/materials/reconciliation", eh.Reconciliation)
	})

	return r
}
