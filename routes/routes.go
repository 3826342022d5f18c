package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"climatemap/handlers"
	"climatemap/middleware"
)

// Deps collects everything the router wires together.
type Deps struct {
	Posts    *handlers.PostHandler
	Users    *handlers.UserHandler
	Auth     *handlers.AuthHandler
	Sessions *middleware.SessionManager
}

// SetupRouter assembles the public API, the login flow and the role-gated
// moderation surface.
func SetupRouter(d Deps) *gin.Engine {
	router := gin.Default()

	// No proxy is trusted, so ClientIP() is always the real peer and
	// X-Forwarded-For from arbitrary clients is ignored.
	_ = router.SetTrustedProxies(nil)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public API: submission is CAPTCHA-gated, reads return approved posts.
	api := router.Group("/api")
	api.POST("/posts/create", d.Posts.CreatePost)
	api.GET("/posts", d.Posts.ListPosts)
	api.GET("/posts/:id", d.Posts.GetPost)

	// Moderation operations, admin or moderator session required.
	moderation := router.Group("/api/posts")
	moderation.Use(d.Sessions.RequireModerator())
	moderation.PUT("/update/:id", d.Posts.UpdatePost)
	moderation.DELETE("/delete/:id", d.Posts.DeletePost)

	// Login flow.
	router.GET("/login", d.Auth.ShowLogin)
	router.POST("/login", d.Auth.Login)
	router.GET("/logout", d.Auth.Logout)

	// Console: post review for moderators and admins.
	console := router.Group("/admin")
	console.Use(d.Sessions.RequireModerator())
	console.GET("/posts", d.Posts.ListAllPosts)
	console.GET("/posts/:id/form", d.Posts.GetPostForm)
	console.PUT("/posts/:id/form", d.Posts.UpdatePostForm)

	// User management, admins only.
	admin := router.Group("/admin/users")
	admin.Use(d.Sessions.RequireAdmin())
	admin.GET("", d.Users.ListUsers)
	admin.POST("", d.Users.CreateUser)
	admin.PUT("/:id", d.Users.UpdateUser)
	admin.DELETE("/:id", d.Users.DeleteUser)

	// API misses get a JSON 404; anything else falls through to gin's
	// default not-found response.
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
		}
	})

	return router
}
