// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	PostHandler    *handler.PostHandler
	ChatHandler    *handler.ChatHandler
	WSHandler      *handler.WSHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	profileHandler *handler.ProfileHandler
	postHandler    *handler.PostHandler
	chatHandler    *handler.ChatHandler
	wsHandler      *handler.WSHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		profileHandler: params.ProfileHandler,
		postHandler:    params.PostHandler,
		chatHandler:    params.ChatHandler,
		wsHandler:      params.WSHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Session routes: the first four are public, the rest go through the
	// access-token gateway.
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
	}

	protected := api.Group("/auth")
	protected.Use(r.authMiddleware.Authenticate)
	{
		protected.GET("/me", r.profileHandler.Me)
		protected.GET("/search", r.profileHandler.Search)
		protected.GET("/profile/:userId", r.profileHandler.GetProfile)
		protected.PUT("/profile", r.profileHandler.UpdateProfile)
		protected.POST("/connect/:userId", r.profileHandler.Connect)
		protected.GET("/connections/count", r.profileHandler.ConnectionsCount)
		protected.GET("/connections/list", r.profileHandler.ConnectionsList)
		protected.DELETE("/delete-account", r.authHandler.DeleteAccount)
	}

	postGroup := api.Group("/posts")
	postGroup.Use(r.authMiddleware.Authenticate)
	{
		postGroup.GET("/feed", r.postHandler.Feed)
		postGroup.POST("", r.postHandler.Create)
		postGroup.POST("/:postId/like", r.postHandler.ToggleLike)
		postGroup.POST("/:postId/comment", r.postHandler.Comment)
		postGroup.POST("/:postId/share", r.postHandler.Share)
	}

	chatGroup := api.Group("/chat")
	chatGroup.Use(r.authMiddleware.Authenticate)
	{
		chatGroup.GET("/conversations", r.chatHandler.ListConversations)
		chatGroup.POST("/conversations", r.chatHandler.CreateConversation)
		chatGroup.GET("/conversations/:conversationId/messages", r.chatHandler.ListMessages)
		chatGroup.POST("/conversations/:conversationId/messages", r.chatHandler.SendMessage)
	}

	// Token verification happens inside the handler so the handshake can fall
	// back to a query parameter.
	api.GET("/ws", r.wsHandler.Connect)
}
