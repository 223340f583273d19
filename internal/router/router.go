package router

import (
	"net/http"

	"lumo-assistant-api/internal/handler"
	"lumo-assistant-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Config holds the configuration for creating a router.
type Config struct {
	Logger          *zap.Logger
	Handler         *handler.Handler
	TaskHandler     *handler.TaskHandler
	EventHandler    *handler.EventHandler
	ReminderHandler *handler.ReminderHandler
	OrderHandler    *handler.OrderHandler
	EmailHandler    *handler.EmailHandler
	ChatHandler     *handler.ChatHandler
	AccountHandler  *handler.AccountHandler
	AdminHandler    *handler.AdminHandler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Actor)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-User-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Unified status endpoint for external monitoring
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		if cfg.AccountHandler != nil {
			r.Get("/me", cfg.AccountHandler.Me)
		}

		if cfg.TaskHandler != nil {
			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", cfg.TaskHandler.Create)
				r.Get("/", cfg.TaskHandler.List)
				r.Get("/{id}", cfg.TaskHandler.Get)
				r.Put("/{id}", cfg.TaskHandler.Update)
				r.Delete("/{id}", cfg.TaskHandler.Delete)
			})
		}

		if cfg.EventHandler != nil {
			r.Route("/events", func(r chi.Router) {
				r.Post("/", cfg.EventHandler.Create)
				r.Get("/", cfg.EventHandler.List)
				r.Get("/{id}", cfg.EventHandler.Get)
				r.Put("/{id}", cfg.EventHandler.Update)
				r.Delete("/{id}", cfg.EventHandler.Delete)
			})
		}

		if cfg.ReminderHandler != nil {
			r.Route("/reminders", func(r chi.Router) {
				r.Post("/", cfg.ReminderHandler.Create)
				r.Get("/", cfg.ReminderHandler.List)
				r.Get("/{id}", cfg.ReminderHandler.Get)
				r.Put("/{id}", cfg.ReminderHandler.Update)
				r.Delete("/{id}", cfg.ReminderHandler.Delete)
			})
		}

		if cfg.OrderHandler != nil {
			r.Route("/orders", func(r chi.Router) {
				r.Post("/", cfg.OrderHandler.Place)
				r.Get("/", cfg.OrderHandler.List)
				r.Get("/{id}", cfg.OrderHandler.Get)
				r.Delete("/{id}", cfg.OrderHandler.Cancel)
			})
		}

		if cfg.EmailHandler != nil {
			r.Route("/emails", func(r chi.Router) {
				r.Route("/drafts", func(r chi.Router) {
					r.Post("/", cfg.EmailHandler.CreateDraft)
					r.Get("/", cfg.EmailHandler.ListDrafts)
					r.Get("/{id}", cfg.EmailHandler.GetDraft)
					r.Put("/{id}", cfg.EmailHandler.UpdateDraft)
					r.Delete("/{id}", cfg.EmailHandler.DeleteDraft)
					r.Post("/{id}/send", cfg.EmailHandler.SendDraft)
				})
				r.Route("/scheduled", func(r chi.Router) {
					r.Post("/", cfg.EmailHandler.Schedule)
					r.Get("/", cfg.EmailHandler.ListScheduled)
					r.Delete("/{id}", cfg.EmailHandler.CancelScheduled)
				})
			})
		}

		if cfg.ChatHandler != nil {
			r.Route("/chat", func(r chi.Router) {
				r.Post("/", cfg.ChatHandler.Send)
				r.Get("/history", cfg.ChatHandler.History)
				r.Get("/ws", cfg.ChatHandler.Socket)
			})
		}

		if cfg.AdminHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", cfg.AdminHandler.GetStats)
				r.Post("/cache/flush", cfg.AdminHandler.FlushCache)
			})
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"route not found"}}`))
	})

	return r
}
