package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/ragvault/app"
	"github.com/upb/ragvault/handlers"
	"github.com/upb/ragvault/middleware"
)

// SetupRoutes wires every HTTP endpoint the service exposes onto a chi
// router, with the ambient middleware chain applied first.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.BridgeRequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(deps.Config.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	health := handlers.NewHealthHandler(deps.DB, deps.Logger)
	r.Get("/health", health.HandleHealth)
	r.Get("/ready", health.HandleReadiness)

	vaults := handlers.NewVaultHandler(deps.Vaults, deps.Logger)
	r.Route("/vaults", func(r chi.Router) {
		r.Post("/", vaults.HandleCreate)
		r.Get("/", vaults.HandleList)
		r.Get("/{id}", vaults.HandleGet)
		r.Delete("/{id}", vaults.HandleDelete)
	})

	ingest := handlers.NewIngestHandler(deps.Pipeline, deps.Logger)
	r.Post("/ingest", ingest.HandleIngest)

	chat := handlers.NewChatHandler(deps.Core, deps.Logger)
	r.Post("/chat", chat.HandleChat)

	documents := handlers.NewDocumentHandler(deps.Documents, deps.Logger)
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", documents.HandleList)
		r.Get("/{id}", documents.HandleGet)
		r.Delete("/{id}", documents.HandleDelete)
	})

	agents := handlers.NewAgentHandler(deps.Agents, deps.Logger)
	r.Route("/agents", func(r chi.Router) {
		r.Post("/", agents.HandleCreate)
		r.Get("/", agents.HandleList)
		r.Get("/{id}", agents.HandleGet)
		r.Delete("/{id}", agents.HandleDelete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found","detail":"endpoint not found","code":"not_found"}`))
	})

	return r
}
