package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dtroode/medapp-server/internal/api/rest/handler"
	"github.com/dtroode/medapp-server/internal/api/rest/middleware"
	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// Services groups the application services exposed over HTTP.
type Services struct {
	Auth     handler.AuthService
	Tokens   handler.TokenService
	Deletion handler.DeletionService
	Profile  handler.ProfileService
	Messages handler.MessageService
	Sessions handler.SessionHub
}

// Router builds the HTTP API.
type Router struct {
	services       Services
	contextManager model.ContextManager
	logger         *logger.Logger
}

func New(services Services, contextManager model.ContextManager, logger *logger.Logger) *Router {
	return &Router{
		services:       services,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register returns an echo instance with every route and middleware in place.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewErrorHandler(r.logger)

	e.Use(echomw.Recover())
	e.Use(middleware.NewLogging(r.logger).Handle)
	e.Use(echomw.BodyLimit("6M"))
	e.Use(middleware.ClientIP(r.contextManager))

	authenticate := middleware.NewAuthenticate(r.services.Tokens, r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.services.Auth, r.logger)
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	wsHandler := handler.NewWebSocket(r.services.Tokens, r.services.Sessions, r.logger)
	e.GET("/ws", wsHandler.Connect)

	r.registerUserRoutes(e.Group("/user", authenticate.Handle))
	r.registerMessageRoutes(e.Group("/dm", authenticate.Handle))

	deletionHandler := handler.NewDeletion(r.services.Deletion, r.contextManager, r.logger)
	admin := e.Group("/admin", authenticate.Handle)
	admin.GET("/audit-log", deletionHandler.AuditLog)

	return e
}

func (r *Router) registerUserRoutes(g *echo.Group) {
	deletionHandler := handler.NewDeletion(r.services.Deletion, r.contextManager, r.logger)
	g.POST("/request-delete", deletionHandler.RequestDeletion)
	g.DELETE("/delete", deletionHandler.ConfirmDeletion)

	profileHandler := handler.NewProfile(r.services.Profile, r.contextManager, r.logger)
	g.GET("/me", profileHandler.Me)
	g.GET("/avatar", profileHandler.Avatar)
	g.PUT("/avatar", profileHandler.UploadAvatar)
}

func (r *Router) registerMessageRoutes(g *echo.Group) {
	messageHandler := handler.NewMessage(r.services.Messages, r.contextManager, r.logger)
	g.POST("/:partnerId/messages", messageHandler.Send)
	g.GET("/:partnerId/messages", messageHandler.Conversation)
}
