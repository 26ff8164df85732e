package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pluma-social/pluma/internal/cache"
	"github.com/pluma-social/pluma/internal/db"
	"github.com/pluma-social/pluma/internal/social"
	"github.com/pluma-social/pluma/pkg/config"
	"github.com/pluma-social/pluma/pkg/logging"
)

// Router wires the REST routes to the services.
type Router struct {
	db      *db.DB
	cache   *cache.Cache
	follows *social.FollowService
	posts   *social.PostService
	feed    *config.FeedConfig
	logger  *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, follows *social.FollowService, posts *social.PostService, feed *config.FeedConfig) *Router {
	return &Router{
		db:      database,
		cache:   redisCache,
		follows: follows,
		posts:   posts,
		feed:    feed,
		logger:  logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(cors.Default())

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	v1 := engine.Group("/v1", ActorID())

	v1.GET("/users/:id", r.getUser)
	v1.GET("/users/:id/followers", r.listFollowers)
	v1.GET("/users/:id/following", r.listFollowing)
	v1.GET("/users/:id/posts", r.listUserPosts)
	v1.POST("/users/:id/follow", RequireActor(), r.follow)
	v1.DELETE("/users/:id/follow", RequireActor(), r.unfollow)
	v1.POST("/users/:id/follow/accept", RequireActor(), r.acceptFollow)
	v1.DELETE("/users/:id/follower", RequireActor(), r.removeFollower)

	v1.POST("/posts", RequireActor(), r.createPost)
	v1.GET("/posts/:id", r.getPost)
	v1.PATCH("/posts/:id", RequireActor(), r.editPost)
	v1.DELETE("/posts/:id", RequireActor(), r.deletePost)
	v1.GET("/posts/:id/thread", r.getThread)
	v1.POST("/posts/:id/like", RequireActor(), r.toggleLike)

	v1.GET("/timeline", RequireActor(), r.timeline)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "pluma-api",
	})
}
