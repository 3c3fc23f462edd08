package main

import (
	"context"
	"log"
	"net/http"

	_ "github.com/jonahkeegan/pairwatch/docs" // swagger docs

	"github.com/jonahkeegan/pairwatch/internal/cache"
	"github.com/jonahkeegan/pairwatch/internal/config"
	"github.com/jonahkeegan/pairwatch/internal/db"
	"github.com/jonahkeegan/pairwatch/internal/handler"
	"github.com/jonahkeegan/pairwatch/internal/omdb"
	"github.com/jonahkeegan/pairwatch/internal/repository"
	"github.com/jonahkeegan/pairwatch/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Pairwatch API
// @version 1.0
// @description Votación por pares de películas/series con recomendaciones (Mongo, Redis)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// repos
	userRepo := repository.NewUserRepository()
	contentRepo := repository.NewContentRepository()
	interactionRepo := repository.NewInteractionRepository()
	voteRepo := repository.NewVoteRepository()
	sessionRepo := repository.NewSessionRepository()
	recRepo := repository.NewRecommendationRepository()

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	sessionSvc := service.NewSessionService(sessionRepo)
	catalogSvc := service.NewCatalogService(contentRepo, omdb.NewClient(cfg.OMDBAPIKey))

	// un solo resolver de exclusiones para TODOS los selectores
	exclusionSvc := service.NewExclusionService(interactionRepo, contentRepo)
	recommendSvc := service.NewRecommendService(recRepo, contentRepo, interactionRepo, voteRepo, exclusionSvc)
	refreshSvc := service.NewRefreshService(recommendSvc, voteRepo, interactionRepo, recRepo)
	pairSvc := service.NewPairService(contentRepo, voteRepo, exclusionSvc)
	voteSvc := service.NewVoteService(voteRepo, contentRepo, sessionRepo, refreshSvc)
	interactionSvc := service.NewInteractionService(interactionRepo, contentRepo, refreshSvc)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	pairH := handler.NewPairHandler(pairSvc)
	voteH := handler.NewVoteHandler(voteSvc)
	interactionH := handler.NewInteractionHandler(interactionSvc)
	recommendH := handler.NewRecommendHandler(recommendSvc, refreshSvc)

	// sweep horario: regenera lotes con más de 3 días sin esperar a que
	// el usuario vuelva a votar
	c := cron.New()
	c.AddFunc("@hourly", func() {
		refreshSvc.SweepStale(context.Background())
	})
	c.Start()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	r.Post("/session", sessionH.Create)
	r.Get("/session/{id}", sessionH.Get)

	r.Post("/initialize-content", catalogH.Initialize)
	r.Get("/content/{id}", catalogH.Get)

	// ==========================================
	// Rutas con identidad (JWT o sesión invitado)
	// ==========================================
	identityMw := handler.RequireIdentity(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(identityMw)

		r.Get("/voting-pair", pairH.GetVotingPair)
		r.Get("/voting-pair-replacement/{survivingId}", pairH.GetReplacement)

		r.Post("/vote", voteH.Submit)
		r.Get("/stats", voteH.Stats)

		r.Post("/content/interact", interactionH.Record)
		r.Delete("/content/interact/{contentId}", interactionH.Remove)

		r.Get("/recommendations", recommendH.List)
		r.Delete("/recommendations/{contentId}", recommendH.Remove)

		// WebSocket
		r.Get("/ws/recommendations", recommendH.Live)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
