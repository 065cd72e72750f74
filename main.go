package main

import (
	"srs-backend/cache"
	"srs-backend/config"
	"srs-backend/handlers"
	"srs-backend/helper"
	"srs-backend/middleware"
	"srs-backend/models"
	"srs-backend/repositories"
	"srs-backend/services"

	"github.com/gin-gonic/gin"
	en "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/joho/godotenv"
	"gopkg.in/go-playground/validator.v9"
	enTranslations "gopkg.in/go-playground/validator.v9/translations/en"
)

func main() {
	godotenv.Load()

	helper.InitLogger()
	log := helper.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	db, err := config.InitDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	var listCache *cache.Cache
	redisClient, err := config.InitRedis(cfg, log)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, list caching disabled")
	} else {
		listCache = cache.New(redisClient, log)
	}

	httpHelper := newHTTPHelper()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	queryRepo := repositories.NewQueryRepository(db)
	kbRepo := repositories.NewKnowledgeBaseRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	kbService := services.NewKnowledgeBaseService(kbRepo, listCache)
	queryService := services.NewQueryService(queryRepo, kbService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, httpHelper)
	queryHandler := handlers.NewQueryHandler(queryService, httpHelper)
	kbHandler := handlers.NewKnowledgeBaseHandler(kbService, httpHelper)

	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public knowledge base search.
		v1.GET("/knowledge-base/search", kbHandler.Search)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(httpHelper))
		{
			protected.GET("/profile", authHandler.GetProfile)

			queries := protected.Group("/queries")
			{
				queries.POST("", queryHandler.CreateQuery)
				queries.GET("", queryHandler.GetQueries)
				queries.GET("/stats", middleware.RequireRole(httpHelper, models.RoleAdmin, models.RoleManager), queryHandler.GetStats)
				queries.GET("/:id", queryHandler.GetQuery)
				queries.PATCH("/:id", queryHandler.UpdateQuery)
				queries.DELETE("/:id", queryHandler.DeleteQuery)
				queries.POST("/:id/answers", middleware.RequireRole(httpHelper, models.RoleAdmin, models.RoleManager), queryHandler.AddAnswer)
				queries.POST("/:id/solution", middleware.RequireRole(httpHelper, models.RoleAdmin, models.RoleManager), queryHandler.ProvideSolution)
				queries.PATCH("/:id/review", middleware.RequireRole(httpHelper, models.RoleAdmin, models.RoleManager), queryHandler.ReviewSolution)
				queries.POST("/:id/comments", queryHandler.AddComment)
			}

			kb := protected.Group("/knowledge-base")
			{
				kb.POST("", middleware.RequireRole(httpHelper, models.RoleAdmin, models.RoleManager), kbHandler.CreateEntry)
				kb.GET("", kbHandler.GetEntries)
				kb.GET("/featured", kbHandler.GetFeatured)
				kb.GET("/popular", kbHandler.GetPopular)
				kb.GET("/stats", middleware.RequireRole(httpHelper, models.RoleAdmin, models.RoleManager), kbHandler.GetStats)
				kb.GET("/:id", kbHandler.GetEntry)
				kb.PATCH("/:id", middleware.RequireRole(httpHelper, models.RoleAdmin, models.RoleManager), kbHandler.UpdateEntry)
				kb.DELETE("/:id", middleware.RequireRole(httpHelper, models.RoleAdmin), kbHandler.DeleteEntry)
				kb.POST("/:id/rate", kbHandler.RateEntry)
				kb.POST("/:id/helpful", kbHandler.MarkHelpful)
			}
		}
	}

	log.WithField("port", cfg.Server.Port).Info("starting server")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func newHTTPHelper() *helper.HTTPHelper {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	enTranslations.RegisterDefaultTranslations(validate, translator)

	return &helper.HTTPHelper{
		Validate:   validate,
		Translator: translator,
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
