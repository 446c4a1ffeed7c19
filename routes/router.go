package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EricaRose1/Blogly/config"
	"github.com/EricaRose1/Blogly/controllers"
	"github.com/EricaRose1/Blogly/middleware"
	"github.com/EricaRose1/Blogly/utils"
	"github.com/EricaRose1/Blogly/web"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	r.Use(middleware.AccessLog())
	r.Use(middleware.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	homeController := controllers.NewHomeController(db)
	userController := controllers.NewUserController(db)
	postController := controllers.NewPostController(db)
	tagController := controllers.NewTagController(db)

	limited := middleware.RateLimitMiddleware()

	r.GET("/", homeController.Home)
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	users := r.Group("/users")
	users.GET("", userController.ListUsers)
	users.GET("/new", userController.NewUserForm)
	users.POST("/new", limited, userController.CreateUser)
	users.GET("/:id", userController.ShowUser)
	users.GET("/:id/edit", userController.EditUserForm)
	users.POST("/:id/edit", limited, userController.UpdateUser)
	users.POST("/:id/delete", limited, userController.DeleteUser)
	users.GET("/:id/posts/newpost", postController.NewPostForm)
	users.POST("/:id/posts/newpost", limited, postController.CreatePost)

	posts := r.Group("/posts")
	posts.GET("/:id", postController.ShowPost)
	posts.GET("/:id/edit", postController.EditPostForm)
	posts.POST("/:id/edit", limited, postController.UpdatePost)
	posts.POST("/:id/delete", limited, postController.DeletePost)

	tags := r.Group("/tags")
	tags.GET("", tagController.ListTags)
	tags.GET("/new", tagController.NewTagForm)
	tags.POST("/new", limited, tagController.CreateTag)
	tags.GET("/:id", tagController.ShowTag)
	tags.GET("/:id/edit", tagController.EditTagForm)
	tags.POST("/:id/edit", limited, tagController.UpdateTag)
	tags.POST("/:id/delete", limited, tagController.DeleteTag)

	r.NoRoute(utils.NotFound)

	return r
}
