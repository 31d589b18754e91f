package routes

import (
	"net/http"

	"delivery-service/controllers"
	"delivery-service/middleware"
	"delivery-service/realtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	router *gin.Engine,
	orderController *controllers.OrderController,
	deliveryController *controllers.DeliveryController,
	tokenController *controllers.TokenController,
	notificationController *controllers.NotificationController,
	hub *realtime.Hub,
	logger *zap.Logger,
) {
	// Public
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "delivery-service"})
	})
	router.GET("/ws", realtime.ServeWS(hub, logger))

	auth := middleware.AuthMiddleware()

	orders := router.Group("/orders", auth)
	{
		orders.POST("", orderController.CreateOrder)
		orders.GET("/:id", orderController.GetOrder)
	}

	delivery := router.Group("/delivery", auth)
	{
		delivery.GET("/orders", deliveryController.ListOrders)
		delivery.POST("/orders/:id/accept", deliveryController.AcceptOrder)
		delivery.POST("/orders/:id/reached-pickup", deliveryController.ConfirmReachedPickup)
		delivery.POST("/orders/:id/picked-up", deliveryController.ConfirmPickedUp)
		delivery.POST("/orders/:id/reached-drop", deliveryController.ConfirmReachedDrop)
		delivery.POST("/orders/:id/complete", deliveryController.CompleteDelivery)
		delivery.POST("/orders/:id/cancel", deliveryController.CancelOrder)
	}

	tokens := router.Group("/fcm-token", auth)
	{
		tokens.POST("", tokenController.SaveToken)
		tokens.DELETE("", tokenController.RemoveToken)
	}

	admin := router.Group("/notifications", auth, middleware.AdminOnly())
	{
		admin.POST("/send", middleware.RateLimitMiddleware(30, 10), notificationController.Send)
		admin.GET("", notificationController.List)
		admin.PATCH("/:id/status", notificationController.ToggleStatus)
		admin.DELETE("/:id", notificationController.Delete)
	}
}
