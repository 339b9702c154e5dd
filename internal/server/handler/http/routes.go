package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/atinyakov/HumiTrack/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves
// the HumiTrack API under /api.
//
// Routes:
//
//	POST   /api/auth/signup        → authHandler.SignUp   (rate limited)
//	POST   /api/auth/signin        → authHandler.SignIn   (rate limited)
//	POST   /api/auth/signout       → authHandler.SignOut  (token)
//	GET    /api/auth/user          → authHandler.User     (token)
//	GET    /api/cigars             → collections.ListCigars
//	POST   /api/cigars             → collections.CreateCigar
//	PUT    /api/cigars/{id}        → collections.UpdateCigar
//	PATCH  /api/cigars/{id}        → collections.PatchCigar
//	DELETE /api/cigars/{id}        → collections.DeleteCigar
//	GET    /api/tasting_notes      → collections.ListTastingNotes
//	POST   /api/tasting_notes      → collections.CreateTastingNote
//	DELETE /api/tasting_notes/{id} → collections.DeleteTastingNote
//	GET    /api/user_tags          → collections.ListUserTags
//	POST   /api/user_tags          → collections.CreateUserTag
//	GET    /api/humidors           → collections.ListHumidors
//	POST   /api/humidors           → collections.CreateHumidor
//	PUT    /api/humidors/{id}      → collections.UpdateHumidor
//	DELETE /api/humidors/{id}      → collections.DeleteHumidor
//
// Every table route requires a bearer token.
func NewRouter(
	authHandler *AuthHandler,
	collections *CollectionHandler,
	authn middleware.Authenticator,
	limiter middleware.Limiter,
	allowedOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	requireToken := middleware.TokenAuth(authn)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(limiter))
				r.Post("/signup", authHandler.SignUp)
				r.Post("/signin", authHandler.SignIn)
			})
			r.Group(func(r chi.Router) {
				r.Use(requireToken)
				r.Post("/signout", authHandler.SignOut)
				r.Get("/user", authHandler.User)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireToken)

			r.Route("/cigars", func(r chi.Router) {
				r.Get("/", collections.ListCigars)
				r.Post("/", collections.CreateCigar)
				r.Put("/{id}", collections.UpdateCigar)
				r.Patch("/{id}", collections.PatchCigar)
				r.Delete("/{id}", collections.DeleteCigar)
			})
			r.Route("/tasting_notes", func(r chi.Router) {
				r.Get("/", collections.ListTastingNotes)
				r.Post("/", collections.CreateTastingNote)
				r.Delete("/{id}", collections.DeleteTastingNote)
			})
			r.Route("/user_tags", func(r chi.Router) {
				r.Get("/", collections.ListUserTags)
				r.Post("/", collections.CreateUserTag)
			})
			r.Route("/humidors", func(r chi.Router) {
				r.Get("/", collections.ListHumidors)
				r.Post("/", collections.CreateHumidor)
				r.Put("/{id}", collections.UpdateHumidor)
				r.Delete("/{id}", collections.DeleteHumidor)
			})
		})
	})

	return r
}
