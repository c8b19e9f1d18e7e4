package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"jujujam/backend/internal/auth"
	"jujujam/backend/internal/config"
	"jujujam/backend/internal/database"
	"jujujam/backend/internal/friendship"
	"jujujam/backend/internal/handler"
	"jujujam/backend/internal/identity"
	"jujujam/backend/internal/store"
	"jujujam/backend/pkg/jwt"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "jujujam/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           JujuJam API
// @version         1.0
// @description     Identity and friendship API for the JujuJam service.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig

	db := database.Connect(cfg.DatabaseURL)
	accounts := store.NewGormAccounts(db)
	edges := store.NewGormFriendships(db)

	issuer := jwt.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiresHours)*time.Hour)
	verifier := identity.NewVerifier(cfg.GoogleClientID)
	identitySvc := identity.NewService(accounts, verifier, cfg.GoogleAllowUnverified)
	friendSvc := friendship.NewService(accounts, edges)

	authHandler := handler.NewAuthHandler(identitySvc, issuer)
	friendHandler := handler.NewFriendHandler(friendSvc)

	router := gin.New()
	router.Use(handler.RequestLogger(), gin.Recovery())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/google", authHandler.GoogleAuth)
			authRoutes.GET("/me", auth.AuthMiddleware(issuer, accounts), authHandler.Me)
		}

		// Friendship routes (protected)
		friendRoutes := api.Group("/friends")
		friendRoutes.Use(auth.AuthMiddleware(issuer, accounts))
		{
			friendRoutes.GET("", friendHandler.GetFriends)
			friendRoutes.GET("/requests/incoming", friendHandler.GetIncomingRequests)
			friendRoutes.GET("/requests/outgoing", friendHandler.GetOutgoingRequests)
			friendRoutes.GET("/discover", friendHandler.DiscoverUsers)
			friendRoutes.POST("/request", friendHandler.SendRequest)
			friendRoutes.PUT("/accept/:friendshipId", friendHandler.AcceptRequest)
			friendRoutes.PUT("/reject/:friendshipId", friendHandler.RejectRequest)
			friendRoutes.DELETE("/:friendId", friendHandler.RemoveFriend)
		}
	}

	fmt.Printf("Server is running on %s\n", cfg.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(cfg.ServerAddr))
}
