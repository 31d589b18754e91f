package controllers

import (
	"net/http"

	"delivery-service/middleware"
	"delivery-service/models"
	"delivery-service/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenController exposes push-token registration for all three account
// types; the owning account comes from the auth headers.
type TokenController struct {
	tokens repository.TokenRepository
	logger *zap.Logger
}

func NewTokenController(tokens repository.TokenRepository, logger *zap.Logger) *TokenController {
	return &TokenController{tokens: tokens, logger: logger}
}

type tokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform"`
}

func (tc *TokenController) SaveToken(ctx *gin.Context) {
	accountID, err := middleware.GetAccountID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req tokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if req.Platform == "" {
		req.Platform = models.PlatformWeb
	}

	accountType := middleware.GetAccountType(ctx)
	if err := tc.tokens.AddToken(ctx.Request.Context(), accountID, accountType, req.Token, req.Platform); err != nil {
		tc.logger.Error("failed to save push token",
			zap.String("account_type", accountType),
			zap.Error(err),
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save token"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Token saved"})
}

func (tc *TokenController) RemoveToken(ctx *gin.Context) {
	accountID, err := middleware.GetAccountID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req tokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	accountType := middleware.GetAccountType(ctx)
	if err := tc.tokens.RemoveToken(ctx.Request.Context(), accountID, accountType, req.Token); err != nil {
		tc.logger.Error("failed to remove push token",
			zap.String("account_type", accountType),
			zap.Error(err),
		)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove token"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Token removed"})
}
