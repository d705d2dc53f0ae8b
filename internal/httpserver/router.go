package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	{
		api.POST("/auth/register", registerHandler(deps.AuthSvc))
		api.POST("/auth/login", loginHandler(deps.AuthSvc))
		api.POST("/auth/logout", logoutHandler(deps.AuthSvc))

		api.GET("/products_by_price", productsByPriceHandler(deps.CatalogSvc))
		api.GET("/products_by_name", productsByNameHandler(deps.CatalogSvc))
		api.GET("/products_by_brand", productsByBrandHandler(deps.CatalogSvc))
		api.GET("/products/first", firstProductHandler(deps.CatalogSvc))
		api.GET("/products/last", lastProductHandler(deps.CatalogSvc))
		api.GET("/products/:id", productHandler(deps.CatalogSvc))
		api.GET("/products/:id/comments", productCommentsHandler(deps.CatalogSvc))
		api.GET("/brands", brandsHandler(deps.CatalogSvc))

		authed := api.Group("", authRequired(deps.AuthSvc))
		{
			authed.POST("/products/:id/comments", addCommentHandler(deps.CatalogSvc))
			authed.GET("/collection", collectionHandler(deps.CatalogSvc))
			authed.POST("/collection/:id", addToCollectionHandler(deps.CatalogSvc))
			authed.DELETE("/collection/:id", removeFromCollectionHandler(deps.CatalogSvc))
		}
	}

	return router
}
