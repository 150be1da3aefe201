package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/karmic/marketplace/docs"
	"github.com/karmic/marketplace/internal/api/handler"
	"github.com/karmic/marketplace/internal/api/middleware"
	"github.com/karmic/marketplace/internal/core/ports"
)

// Deps carries everything the router needs. The composition root in cmd/api
// builds the services and hands them over here.
type Deps struct {
	JWTSecret string
	Logger    zerolog.Logger

	Mongo *mongo.Database
	Redis *redis.Client

	Auth        ports.AuthService
	Tasks       ports.TaskService
	Settlement  ports.SettlementService
	Chat        ports.ChatService
	Leaderboard ports.LeaderboardService
	Users       ports.UserRepository
	Events      ports.EventRepository
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("karmic"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	taskHandler := handler.NewTaskHandler(d.Tasks, d.Settlement)
	chatHandler := handler.NewChatHandler(d.Chat)
	userHandler := handler.NewUserHandler(d.Users, d.Leaderboard)
	eventHandler := handler.NewEventHandler(d.Events)
	healthHandler := handler.NewHealthHandler(d.Mongo, d.Redis)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(d.JWTSecret))

	v1.GET("/me", userHandler.Me)
	v1.GET("/leaderboard", userHandler.Leaderboard)

	v1.POST("/tasks", taskHandler.Create)
	v1.GET("/tasks", taskHandler.List)
	v1.GET("/tasks/:task_number", taskHandler.Get)

	v1.POST("/tasks/:task_number/claim", taskHandler.Claim)
	v1.POST("/tasks/:task_number/confirm", taskHandler.Confirm)
	v1.POST("/tasks/:task_number/approve", taskHandler.Approve)
	v1.POST("/tasks/:task_number/reject", taskHandler.Reject)
	v1.POST("/tasks/:task_number/cancel", taskHandler.Cancel)

	v1.POST("/tasks/:task_number/messages", chatHandler.Post)
	v1.GET("/tasks/:task_number/messages", chatHandler.List)

	// Audit trail is operator-facing.
	v1.GET("/tasks/:task_number/events", eventHandler.ListByTask, middleware.RBAC("admin"))

	return e
}
