package routes

import (
	"fmt"
	"time"

	"github.com/CUknot/forum_backend/config"
	"github.com/CUknot/forum_backend/controllers"
	"github.com/CUknot/forum_backend/logging"
	"github.com/CUknot/forum_backend/middleware"
	"github.com/CUknot/forum_backend/templates"
	"github.com/CUknot/forum_backend/websocket"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// maxUploadMemory caps the multipart form kept in memory while reading avatars
const maxUploadMemory = 8 << 20

// NewRouter builds the engine serving the pages, the JSON API, the room feed and the docs
func NewRouter(cfg *config.Config) (*gin.Engine, error) {
	if err := controllers.Init(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize controllers: %w", err)
	}

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.MaxMultipartMemory = maxUploadMemory
	router.SetHTMLTemplate(tmpl)
	router.Use(logging.GinLogger(), gin.Recovery(), middleware.CORS(), middleware.Authenticate(cfg.JWTSecret))

	router.Static("/images", cfg.MediaDir)

	authLimit := middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute).Limit()

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", controllers.Health)

	// Pages
	router.GET("/login", controllers.ShowLogin)
	router.POST("/login", authLimit, controllers.Login)
	router.GET("/logout", controllers.Logout)
	router.GET("/register", controllers.ShowRegister)
	router.POST("/register", authLimit, controllers.Register)

	router.GET("/", controllers.Home)
	router.GET("/room/:id", controllers.ShowRoom)
	router.GET("/profile/:id", controllers.UserProfile)
	router.GET("/topics", controllers.Topics)
	router.GET("/activity", controllers.Activity)

	// Pages that need a logged in user
	pages := router.Group("/")
	pages.Use(middleware.LoginRequired("/login"))
	{
		pages.POST("/room/:id", controllers.PostMessage)
		pages.GET("/create-room", controllers.ShowCreateRoom)
		pages.POST("/create-room", controllers.CreateRoom)
		pages.GET("/update-room/:id", controllers.ShowUpdateRoom)
		pages.POST("/update-room/:id", controllers.UpdateRoom)
		pages.GET("/delete-room/:id", controllers.ShowDeleteRoom)
		pages.POST("/delete-room/:id", controllers.DeleteRoom)
		pages.GET("/delete-message/:id", controllers.ShowDeleteMessage)
		pages.POST("/delete-message/:id", controllers.DeleteMessage)
		pages.GET("/update-user", controllers.ShowUpdateUser)
		pages.POST("/update-user", controllers.UpdateUser)
	}

	// Public API routes
	api := router.Group("/api")
	{
		api.GET("", controllers.GetRoutes)
		api.GET("/rooms", controllers.GetRooms)
		api.GET("/rooms/:id", controllers.GetRoom)
		api.POST("/register", authLimit, controllers.APIRegister)
		api.POST("/login", authLimit, controllers.APILogin)
	}

	// Protected API routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		protected.POST("/rooms/:id/messages", controllers.CreateMessage)
		protected.DELETE("/messages/:id", controllers.RemoveMessage)
	}

	// WebSocket route
	router.GET("/ws/rooms/:id", websocket.HandleRoomFeed)

	return router, nil
}
