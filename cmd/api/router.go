package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/auth"
	"foodgram/internal/modules/ingredient"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/relation"
	"foodgram/internal/modules/shoppinglist"
	"foodgram/internal/modules/tag"
	"foodgram/internal/modules/user"
	"foodgram/internal/pkg/cache"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/media"
	"foodgram/internal/repository"
)

// newRouter wires repositories, services and handlers. listCache may be nil.
func newRouter(cfg *config.Config, db *gorm.DB, listCache *cache.Cache) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	cartRepo := repository.NewShoppingListRepository(db)

	j := jwtsvc.New(cfg.JWT.Secret, cfg.JWT.TTL)
	images := media.NewStore(cfg.Media.Dir, cfg.Media.URL)

	relationService := relation.NewService(relationRepo, recipeRepo, userRepo)
	userService := user.NewService(userRepo, recipeRepo, relationService)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	userHandler := user.NewHandler(userService)
	tagHandler := tag.NewHandler(tag.NewService(tagRepo, listCache))
	ingredientHandler := ingredient.NewHandler(ingredient.NewService(ingredientRepo, listCache))
	recipeHandler := recipe.NewHandler(recipe.NewService(recipeRepo, images, relationService, userService))
	cartHandler := shoppinglist.NewHandler(shoppinglist.NewService(cartRepo, userRepo))

	loginLimiter := middleware.NewIPRateLimiter(cfg.HTTP.LoginRatePerMinute, cfg.HTTP.LoginBurst)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.HTTP.CORSAllowedOrigins),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static(images.URLBase(), images.BaseDir())

	// public: токен необязателен, но если передан, должен быть валидным
	public := r.Group("/api", middleware.OptionalAuth(j))
	{
		authHandler.RegisterPublicRoutes(public, loginLimiter.Middleware())
		userHandler.RegisterPublicRoutes(public)
		tagHandler.RegisterRoutes(public)
		ingredientHandler.RegisterRoutes(public)
		recipeHandler.RegisterPublicRoutes(public)
	}

	protected := r.Group("/api", middleware.JWTAuth(j))
	{
		authHandler.RegisterProtectedRoutes(protected)
		userHandler.RegisterProtectedRoutes(protected)
		recipeHandler.RegisterProtectedRoutes(protected)
		cartHandler.RegisterRoutes(protected.Group("/recipes"))
	}

	return r
}
