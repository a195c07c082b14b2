package router

import (
	"github.com/gin-gonic/gin"

	"github.com/flexipanel/blocks/internal/logger"
	"github.com/flexipanel/blocks/pkg/apis/handlers"
	"github.com/flexipanel/blocks/pkg/middleware"
	"github.com/flexipanel/blocks/pkg/utils/jwt"
)

type Router struct {
	blockHandler *handlers.BlockHandler
	jwtManager   *jwt.JWTManager
	log          *logger.Logger
}

func NewRouter(blockHandler *handlers.BlockHandler, jwtManager *jwt.JWTManager, log *logger.Logger) *Router {
	return &Router{
		blockHandler: blockHandler,
		jwtManager:   jwtManager,
		log:          log,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	router.Use(middleware.ErrorMiddleware(r.log))

	// Public rendering route
	router.GET("/api/v1/render/:ownerType/:ownerId", r.blockHandler.RenderOwner)

	// Editing routes require an editor token
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuth(r.jwtManager))
	{
		protected.POST("/owners/:ownerType/:ownerId/blocks", r.blockHandler.CreateBlock)
		protected.GET("/owners/:ownerType/:ownerId/blocks", r.blockHandler.ListBlocks)
		protected.PUT("/owners/:ownerType/:ownerId/blocks/order", r.blockHandler.ReorderBlocks)
		protected.DELETE("/owners/:ownerType/:ownerId/blocks", r.blockHandler.DeleteOwnerBlocks)

		protected.GET("/blocks/:uuid", r.blockHandler.GetBlock)
		protected.PUT("/blocks/:uuid", r.blockHandler.SaveBlock)
		protected.PUT("/blocks/:uuid/publish", r.blockHandler.SetPublished)
		protected.DELETE("/blocks/:uuid", r.blockHandler.DeleteBlock)

		protected.GET("/blocktypes", r.blockHandler.ListBlockTypes)
		protected.GET("/blocktypes/:name/schema", r.blockHandler.GetSchema)
	}

	return router
}
