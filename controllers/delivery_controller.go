package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"delivery-service/middleware"
	"delivery-service/models"
	"delivery-service/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type DeliveryController struct {
	delivery *services.DeliveryService
	logger   *zap.Logger
}

func NewDeliveryController(delivery *services.DeliveryService, logger *zap.Logger) *DeliveryController {
	return &DeliveryController{delivery: delivery, logger: logger}
}

type acceptOrderRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type pickedUpRequest struct {
	BillImage string `json:"billImage"`
}

type completeRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListOrders returns the authenticated partner's order history.
func (dc *DeliveryController) ListOrders(ctx *gin.Context) {
	partnerID, err := middleware.GetAccountID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if _, err := primitive.ObjectIDFromHex(partnerID); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner id"})
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	orders, total, err := dc.delivery.ListPartnerOrders(ctx.Request.Context(), partnerID, page, limit)
	if err != nil {
		dc.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func (dc *DeliveryController) AcceptOrder(ctx *gin.Context) {
	partnerID, err := middleware.GetAccountID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req acceptOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var location *models.GeoPoint
	if req.Latitude != 0 || req.Longitude != 0 {
		location = &models.GeoPoint{
			Type:        "Point",
			Coordinates: []float64{req.Longitude, req.Latitude},
		}
	}

	order, err := dc.delivery.AcceptOrder(ctx.Request.Context(), ctx.Param("id"), partnerID, location)
	if err != nil {
		dc.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order accepted", "order": order})
}

func (dc *DeliveryController) ConfirmReachedPickup(ctx *gin.Context) {
	order, err := dc.delivery.ConfirmReachedPickup(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		dc.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Pickup arrival confirmed", "order": order})
}

func (dc *DeliveryController) ConfirmPickedUp(ctx *gin.Context) {
	var req pickedUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, err := dc.delivery.ConfirmPickedUp(ctx.Request.Context(), ctx.Param("id"), req.BillImage)
	if err != nil {
		dc.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Pickup confirmed", "order": order})
}

func (dc *DeliveryController) ConfirmReachedDrop(ctx *gin.Context) {
	order, err := dc.delivery.ConfirmReachedDrop(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		dc.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Drop arrival confirmed", "order": order})
}

func (dc *DeliveryController) CompleteDelivery(ctx *gin.Context) {
	var req completeRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
	}

	order, err := dc.delivery.CompleteDelivery(ctx.Request.Context(), ctx.Param("id"), req.Rating, req.Review)
	if err != nil {
		dc.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Delivery completed", "order": order})
}

func (dc *DeliveryController) CancelOrder(ctx *gin.Context) {
	var req cancelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, err := dc.delivery.Cancel(ctx.Request.Context(), ctx.Param("id"), req.Reason)
	if err != nil {
		dc.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order": order})
}

func (dc *DeliveryController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, services.ErrMissingEvidence):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Bill image is required to confirm pickup"})
	case errors.Is(err, services.ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Order is not in a state that allows this action"})
	default:
		dc.logger.Error("delivery transition failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
