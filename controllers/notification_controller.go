package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"delivery-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationController serves the admin console's broadcast endpoints.
type NotificationController struct {
	broadcast *services.BroadcastService
	logger    *zap.Logger
}

func NewNotificationController(broadcast *services.BroadcastService, logger *zap.Logger) *NotificationController {
	return &NotificationController{broadcast: broadcast, logger: logger}
}

func (nc *NotificationController) Send(ctx *gin.Context) {
	var req services.BroadcastRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Title, description, and target group are required"})
		return
	}

	result, err := nc.broadcast.Send(ctx.Request.Context(), req)
	if err != nil {
		nc.logger.Error("admin broadcast failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":      "Notification sent and saved successfully",
		"notification": result.Notification,
		"tokenCount":   result.TokenCount,
	})
}

func (nc *NotificationController) List(ctx *gin.Context) {
	notifications, err := nc.broadcast.List(ctx.Request.Context())
	if err != nil {
		nc.logger.Error("failed to list notifications", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification history"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (nc *NotificationController) ToggleStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	notification, err := nc.broadcast.ToggleStatus(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		nc.logger.Error("failed to toggle notification status", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Notification status updated", "notification": notification})
}

func (nc *NotificationController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := nc.broadcast.Delete(ctx.Request.Context(), id); err != nil {
		nc.logger.Error("failed to delete notification", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
