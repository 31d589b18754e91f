package services

import (
	"context"
	"fmt"

	"delivery-service/models"
	"delivery-service/repository"
	"delivery-service/sender"

	"go.uber.org/zap"
)

// BroadcastRequest is an admin-initiated push to a whole audience class,
// optionally narrowed to a geographic zone.
type BroadcastRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Image       string `json:"image"`
	SendTo      string `json:"sendTo" binding:"required"`
	Zone        string `json:"zone"`
}

type BroadcastResult struct {
	Notification *models.Notification `json:"notification"`
	TokenCount   int                  `json:"tokenCount"`
}

// BroadcastService persists every admin broadcast to history and multicasts
// it to the audience's registered tokens.
type BroadcastService struct {
	history repository.NotificationRepository
	tokens  repository.TokenRepository
	zones   repository.ZoneRepository
	push    sender.PushSender
	logger  *zap.Logger
}

func NewBroadcastService(
	history repository.NotificationRepository,
	tokens repository.TokenRepository,
	zones repository.ZoneRepository,
	push sender.PushSender,
	logger *zap.Logger,
) *BroadcastService {
	return &BroadcastService{
		history: history,
		tokens:  tokens,
		zones:   zones,
		push:    push,
		logger:  logger,
	}
}

func (s *BroadcastService) Send(ctx context.Context, req BroadcastRequest) (*BroadcastResult, error) {
	var zone *models.Zone
	if req.Zone != "" && req.Zone != "All" {
		z, err := s.zones.FindByName(ctx, req.Zone)
		if err != nil {
			return nil, fmt.Errorf("zone %q not found: %w", req.Zone, err)
		}
		zone = z
	}

	tokens, err := s.tokens.ListTokensByAudience(ctx, req.SendTo, zone)
	if err != nil {
		return nil, err
	}

	zoneName := req.Zone
	if zoneName == "" {
		zoneName = "All"
	}

	// History is written before the send so its id can serve as the FCM
	// collapse tag.
	entry := &models.Notification{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Zone:        zoneName,
		Target:      req.SendTo,
		Status:      true,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		s.logger.Warn("no push tokens found for broadcast",
			zap.String("target", req.SendTo),
			zap.String("zone", zoneName),
		)
		return &BroadcastResult{Notification: entry, TokenCount: 0}, nil
	}

	data := map[string]string{
		"type":         "admin_broadcast",
		"tag":          fmt.Sprintf("%d", entry.ID),
		"click_action": "FLUTTER_NOTIFICATION_CLICK",
	}
	if req.Image != "" {
		data["image"] = req.Image
	}

	result, err := s.push.Send(ctx, tokens, sender.Message{
		Title: req.Title,
		Body:  req.Description,
		Data:  data,
	})
	if err != nil {
		// The broadcast is already in history; a provider failure is
		// operational, not a request failure.
		s.logger.Error("broadcast push failed", zap.Int64("notification_id", entry.ID), zap.Error(err))
	} else {
		s.logger.Info("broadcast sent",
			zap.Int64("notification_id", entry.ID),
			zap.Int("tokens", len(tokens)),
			zap.Int("success", result.SuccessCount),
			zap.Int("failed", result.FailureCount),
		)
	}

	return &BroadcastResult{Notification: entry, TokenCount: len(tokens)}, nil
}

func (s *BroadcastService) List(ctx context.Context) ([]models.Notification, error) {
	return s.history.FindAll(ctx)
}

func (s *BroadcastService) ToggleStatus(ctx context.Context, id int64) (*models.Notification, error) {
	entry, err := s.history.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.Status = !entry.Status
	if err := s.history.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *BroadcastService) Delete(ctx context.Context, id int64) error {
	return s.history.Delete(ctx, id)
}
