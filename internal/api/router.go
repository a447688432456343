package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/escola-conecta/blog-api/docs"
	"github.com/escola-conecta/blog-api/internal/api/handler"
	"github.com/escola-conecta/blog-api/internal/api/middleware"
	"github.com/escola-conecta/blog-api/internal/core/domain"
	"github.com/escola-conecta/blog-api/internal/core/service"
	"github.com/escola-conecta/blog-api/internal/infrastructure/config"
	mongodb "github.com/escola-conecta/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/escola-conecta/blog-api/internal/infrastructure/db/redis"
)

// Deps bundles everything the router needs to assemble the application.
type Deps struct {
	DB     *mongo.Database
	Redis  *goredis.Client
	Config *config.Config
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, *service.AuthService) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("blog"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(d.DB)
	postRepo := mongodb.NewPostRepository(d.DB)
	postCache := redisdb.NewPostCache(d.Redis, d.Logger)

	tokens := service.NewTokenManager(d.Config.JWTSecret, d.Config.AccessTokenTTL, d.Config.RefreshTokenTTL)
	authService := service.NewAuthService(userRepo, tokens, d.Logger)
	postService := service.NewPostService(postRepo, postCache, d.Logger)

	authHandler := handler.NewAuthHandler(authService)
	postHandler := handler.NewPostHandler(postService)

	requireAuth := middleware.Auth(tokens, authService)
	optionalAuth := middleware.OptionalAuth(tokens, authService)
	staffOnly := middleware.RequireRoles(domain.RoleTeacher, domain.RoleAdmin)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", authHandler.Profile, requireAuth)
	auth.PATCH("/profile", authHandler.UpdateProfile, requireAuth)
	auth.PATCH("/change-password", authHandler.ChangePassword, requireAuth)
	auth.GET("/teachers", authHandler.Teachers, requireAuth, adminOnly)
	auth.GET("/students", authHandler.Students, requireAuth, adminOnly)
	auth.DELETE("/users/:id", authHandler.DeleteUser, requireAuth, adminOnly)

	// --- Post routes ---
	// Static segments before :id so /posts/all and /posts/search resolve.
	posts := e.Group("/posts")
	posts.POST("", postHandler.Create, requireAuth, staffOnly)
	posts.GET("", postHandler.List, optionalAuth)
	posts.GET("/all", postHandler.ListAll, requireAuth, staffOnly)
	posts.GET("/search", postHandler.Search, optionalAuth)
	posts.GET("/:id", postHandler.Get, optionalAuth)
	posts.PATCH("/:id", postHandler.Update, requireAuth, staffOnly)
	posts.DELETE("/:id", postHandler.Delete, requireAuth, staffOnly)
	posts.POST("/:id/comments", postHandler.AddComment, requireAuth)
	posts.PATCH("/:id/comments/:commentId", postHandler.UpdateComment, requireAuth)
	posts.DELETE("/:id/comments/:commentId", postHandler.DeleteComment, requireAuth)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.DB, d.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, authService
}
