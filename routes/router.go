package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hexpertify/moodlift/config"
	"github.com/hexpertify/moodlift/controllers"
	"github.com/hexpertify/moodlift/middleware"
	"github.com/hexpertify/moodlift/services"
	"github.com/hexpertify/moodlift/utils"
)

// Services groups the service layer handed to controllers.
type Services struct {
	Auth        *services.AuthService
	Activities  *services.ActivityService
	Streaks     *services.StreakService
	Progress    *services.ProgressService
	Seo         *services.SeoService
	Consultants *services.ConsultantService
	Games       *services.GameService
}

// NewServices builds every service over one database handle.
func NewServices(db *gorm.DB, cfg config.AppConfig) *Services {
	activities := services.NewActivityService(db, cfg)
	return &Services{
		Auth:        services.NewAuthService(db, cfg),
		Activities:  activities,
		Streaks:     services.NewStreakService(db, activities, cfg),
		Progress:    services.NewProgressService(db, activities, cfg),
		Seo:         services.NewSeoService(db, cfg),
		Consultants: services.NewConsultantService(db),
		Games:       services.NewGameService(db),
	}
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// gin access log goes to its own rolling file
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err != nil {
		utils.Logger.Warn("gin log file unavailable, using app logger", zap.Error(err))
		gl = utils.Logger
	}
	return NewRouter(cfg, NewServices(db, cfg), gl)
}

// NewRouter builds the engine over prepared services. accessLog receives request and panic logs.
func NewRouter(cfg config.AppConfig, svc *Services, accessLog *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(utils.Ginzap(accessLog, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(accessLog, false))
	r.Use(middleware.Metrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	authController := controllers.NewAuthController(svc.Auth, cfg.SiteOrigin())
	streakController := controllers.NewStreakController(svc.Streaks)
	progressController := controllers.NewProgressController(svc.Progress)
	rewardsController := controllers.NewRewardsController(svc.Activities)
	seoController := controllers.NewSeoController(svc.Seo)
	consultantController := controllers.NewConsultantController(svc.Consultants)
	gameController := controllers.NewGameController(svc.Games)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/sitemap.xml", seoController.SitemapXML)

	oauth := r.Group("/auth")
	oauth.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	oauth.GET("/login/:provider", authController.Login)
	oauth.GET("/callback", authController.Callback)

	api := r.Group("/api/v1")
	api.GET("/sitemap", seoController.Sitemap)
	api.GET("/seo", seoController.GetSeo)
	api.GET("/consultants", consultantController.Carousel)
	api.GET("/games", gameController.ListGames)
	api.GET("/games/:slug", gameController.GetGame)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRequired())
	authGroup.GET("/me", authController.Me)
	authGroup.POST("/logout", authController.Logout)

	// Guests get null streak data rather than 401
	streak := api.Group("/streak")
	streak.Use(middleware.OptionalAuth())
	streak.GET("", streakController.GetStreak)
	streak.POST("/check-in", streakController.CheckIn)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	protected.POST("/sessions", progressController.SaveGameSession)
	protected.POST("/assessments", progressController.SaveAssessment)
	protected.GET("/progress", progressController.GetProgress)
	protected.GET("/progress/heatmap", progressController.GetHeatmap)
	protected.GET("/rewards/activities", rewardsController.ListActivities)
	protected.POST("/rewards/activities", rewardsController.AddActivity)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40401, "not found")
	})

	return r
}
