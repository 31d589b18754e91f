package sender

import (
	"context"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultIcon = "/notification-logo.png"

// FCMSender sends multicast push notifications through Firebase Cloud
// Messaging. A sender with no client (missing credentials) degrades to a
// logged no-op: the order flow must never fail because push is unavailable.
type FCMSender struct {
	client  *messaging.Client
	logger  *zap.Logger
	timeout time.Duration
}

// NewFCMSender initializes the FCM client from a service-account file. A
// missing or empty credentials path is not an error; it yields a disabled
// sender.
func NewFCMSender(ctx context.Context, credentialsFile string, logger *zap.Logger) (*FCMSender, error) {
	s := &FCMSender{logger: logger, timeout: 10 * time.Second}

	if credentialsFile == "" {
		logger.Warn("FCM credentials not configured, push notifications disabled")
		return s, nil
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		logger.Warn("FCM credentials file not found, push notifications disabled",
			zap.String("path", credentialsFile))
		return s, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}

	s.client = client
	logger.Info("FCM sender initialized")
	return s, nil
}

// Enabled reports whether a provider client is configured.
func (s *FCMSender) Enabled() bool {
	return s.client != nil
}

func (s *FCMSender) Send(ctx context.Context, tokens []string, msg Message) (Result, error) {
	if len(tokens) == 0 {
		return Result{}, nil
	}
	if s.client == nil {
		s.logger.Warn("FCM not initialized, skipping push notification",
			zap.String("title", msg.Title),
			zap.Int("tokens", len(tokens)),
		)
		return Result{}, nil
	}

	data := msg.Data
	if data == nil {
		data = make(map[string]string)
	}
	if data["icon"] == "" {
		data["icon"] = defaultIcon
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.SendEachForMulticast(sendCtx, &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data:   data,
		Tokens: tokens,
	})
	if err != nil {
		return Result{}, err
	}

	result := Result{
		SuccessCount: resp.SuccessCount,
		FailureCount: resp.FailureCount,
	}
	for i, r := range resp.Responses {
		if !r.Success {
			result.FailedTokens = append(result.FailedTokens, tokens[i])
		}
	}

	s.logger.Info("push notification sent",
		zap.String("title", msg.Title),
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailureCount),
	)
	return result, nil
}
