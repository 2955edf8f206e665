package http

import (
	"net/http"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/http/handler"
	mw "quill/internal/http/middleware"
	"quill/internal/note"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	svc := &note.Service{DB: db}
	noteH := &handler.NoteHandler{Svc: svc}
	versionH := &handler.VersionHandler{Svc: svc}
	sendH := &handler.SendHandler{Svc: svc}
	tagH := &handler.TagHandler{Svc: svc}
	analyticsH := &handler.AnalyticsHandler{Svc: svc}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))
		r.Use(mw.ActorContext())

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteH.List)
			r.Post("/", noteH.Create)

			r.Get("/{id}", noteH.Get)
			r.Put("/{id}", noteH.Update)
			r.Delete("/{id}", noteH.Delete)
			r.Post("/{id}/toggle-pin", noteH.TogglePin)
			r.Post("/{id}/toggle-archive", noteH.ToggleArchive)

			r.Get("/{id}/versions", versionH.List)
			r.Post("/{id}/versions", versionH.CreateSnapshot)
			r.Post("/{id}/versions/{versionID}/restore", versionH.Restore)
			r.Delete("/{id}/versions", versionH.DeleteAll)

			r.Post("/{id}/send", sendH.Send)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tagH.List)
			r.Post("/", tagH.Create)
			r.Put("/{id}", tagH.Rename)
			r.Delete("/{id}", tagH.Delete)
		})

		r.Get("/analytics/notes", analyticsH.Notes)
	})

	return r
}
