package sender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFCMSender_MissingCredentialsDisablesSender(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"nonexistent file", "/nonexistent/service-account.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewFCMSender(context.Background(), tt.path, zap.NewNop())

			require.NoError(t, err)
			assert.False(t, s.Enabled())
		})
	}
}

func TestFCMSender_EmptyTokensIsNoOp(t *testing.T) {
	s, err := NewFCMSender(context.Background(), "", zap.NewNop())
	require.NoError(t, err)

	result, err := s.Send(context.Background(), nil, Message{Title: "hi"})

	require.NoError(t, err)
	assert.Zero(t, result.SuccessCount)
	assert.Zero(t, result.FailureCount)
	assert.Empty(t, result.FailedTokens)
}

func TestFCMSender_DisabledSenderSwallowsSend(t *testing.T) {
	s, err := NewFCMSender(context.Background(), "", zap.NewNop())
	require.NoError(t, err)

	result, err := s.Send(context.Background(), []string{"tok-1", "tok-2"}, Message{
		Title: "Order Update",
		Body:  "Your order is on the way",
	})

	// No client configured: the send is skipped, never an error.
	require.NoError(t, err)
	assert.Zero(t, result.SuccessCount)
	assert.Empty(t, result.FailedTokens)
}
