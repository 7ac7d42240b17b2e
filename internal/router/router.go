package router

import (
	"github.com/gin-gonic/gin"

	"postify/internal/db"
	"postify/internal/handlers"
	"postify/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(middleware.LoadUser(db.DB))

	authHandler := handlers.NewAuthHandler()
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()

	api := r.Group("/api")

	// Queries
	api.GET("/posts", postHandler.Posts)
	api.GET("/posts/:id", postHandler.Detail)
	api.GET("/me", authHandler.Me)

	// Identity mutations
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/change-password", authHandler.ChangePassword)

	// Mutations requiring a session
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)
		authorized.PUT("/posts/:id", postHandler.Update)
		authorized.DELETE("/posts/:id", postHandler.Delete)
		authorized.POST("/vote", postHandler.Vote)
		authorized.POST("/comments", commentHandler.Create)
		authorized.PUT("/comments", commentHandler.Update)
	}
}
