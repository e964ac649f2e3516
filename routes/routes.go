package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rufinoratti/zonadepor-api/docs"
	"github.com/rufinoratti/zonadepor-api/handlers"
	"github.com/rufinoratti/zonadepor-api/middleware"
)

// SetupRoutes собирает все маршруты API поверх переданного роутера.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	matchHandler *handlers.MatchHandler,
	matchmakingHandler *handlers.MatchmakingHandler,
	invitationHandler *handlers.InvitationHandler,
	userHandler *handlers.UserHandler,
	sportHandler *handlers.SportHandler,
	zoneHandler *handlers.ZoneHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(docs.OpenAPISpec))
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/auth/signup", authHandler.Signup)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/partidos", func(r chi.Router) {
		r.Get("/", matchHandler.List)
		r.Get("/{partidoID}", matchHandler.GetByID)
		r.Get("/usuario/{usuarioID}", matchHandler.ListByUser)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/", matchHandler.Create)
			r.Put("/{partidoID}", matchHandler.Update)
			r.Put("/{partidoID}/cambiar-estado", matchHandler.ChangeStatus)
			r.Put("/{partidoID}/ganador", matchHandler.SetWinner)
			r.Post("/{partidoID}/unirse", matchHandler.Join)
			r.Delete("/{partidoID}/abandonar", matchHandler.Leave)
		})
	})

	router.Route("/emparejamiento", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Post("/ejecutar/{partidoID}", matchmakingHandler.Execute)
	})

	router.Route("/invitaciones", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/usuario/{usuarioID}", invitationHandler.ListByUser)
		r.Put("/{invitacionID}/aceptar", invitationHandler.Accept)
		r.Put("/{invitacionID}/rechazar", invitationHandler.Reject)
	})

	router.Route("/deportes", func(r chi.Router) {
		r.Get("/", sportHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", sportHandler.Create)
			r.Post("/{deporteID}/icono", sportHandler.UploadIcon)
		})
	})

	router.Route("/zonas", func(r chi.Router) {
		r.Get("/", zoneHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Post("/", zoneHandler.Create)
		})
	})

	router.Route("/usuarios", func(r chi.Router) {
		r.Get("/{usuarioID}", userHandler.GetProfile)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Put("/{usuarioID}", userHandler.UpdateProfile)
			r.Put("/{usuarioID}/firebase-token", userHandler.UpdateFirebaseToken)
			r.Post("/{usuarioID}/avatar", userHandler.UploadAvatar)
		})
	})

	router.Route("/ws", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/usuarios/{usuarioID}", webSocketHandler.ServeWs)
	})
}
