package router

import (
	"time"

	"tutorbridge/config"
	"tutorbridge/internal/handler"
	"tutorbridge/internal/middleware"
	"tutorbridge/internal/repository"
	"tutorbridge/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	instRepo := repository.NewInstitutionRepository(db)
	partnershipRepo := repository.NewPartnershipRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	creditRepo := repository.NewCreditRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	enrollmentSvc := service.NewEnrollmentService(memberRepo, partnershipRepo, instRepo)
	matchingSvc := service.NewMatchingService(cfg.Matching, matchRepo, prefRepo, instRepo, memberRepo)
	creditSvc := service.NewCreditService(creditRepo, memberRepo, instRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	instHandler := handler.NewInstitutionHandler(instRepo, partnershipRepo)
	memberHandler := handler.NewMemberHandler(memberRepo, matchRepo, enrollmentSvc, creditSvc)
	prefHandler := handler.NewPreferenceHandler(prefRepo, memberRepo)
	matchHandler := handler.NewMatchHandler(matchingSvc, matchRepo, memberRepo)
	creditHandler := handler.NewCreditHandler(creditSvc, creditRepo, memberRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	coordMw := middleware.CoordinatorRequired()
	adminMw := middleware.AdminRequired()

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		institutions := api.Group("/institutions")
		{
			institutions.GET("", authMw, instHandler.List)
			institutions.GET("/:id/policy", authMw, instHandler.GetPolicy)
			institutions.POST("", authMw, adminMw, instHandler.Create)
			institutions.PUT("/:id/partnership", authMw, adminMw, instHandler.UpsertPartnership)
			institutions.DELETE("/:id", authMw, adminMw, instHandler.Deactivate)
			institutions.GET("/:id/credits", authMw, coordMw, creditHandler.ReviewQueue)
		}

		api.POST("/members", authMw, memberHandler.Enroll)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/memberships", memberHandler.ListMine)
			me.GET("/credits", memberHandler.CreditSummary)
			me.GET("/matches", memberHandler.Matches)
			me.GET("/preference", prefHandler.GetMine)
			me.PUT("/preference", prefHandler.Upsert)
		}

		matches := api.Group("/matches")
		matches.Use(authMw)
		{
			matches.POST("/propose", coordMw, matchHandler.Propose)
			matches.POST("", coordMw, matchHandler.CreateManual)
			matches.POST("/:id/respond", matchHandler.Respond)
			matches.POST("/:id/sessions", matchHandler.RecordSession)
		}

		credits := api.Group("/credits")
		credits.Use(authMw)
		{
			credits.GET("", creditHandler.ListMine)
			credits.POST("/:id/review", coordMw, creditHandler.Review)
			credits.POST("/:id/credit", coordMw, creditHandler.Credit)
		}

		// Booking-completion webhook from the external booking service.
		api.POST("/bookings/completed", authMw, creditHandler.IngestBooking)
	}

	return r
}
