package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "relaychat/internal/errors"
	"relaychat/internal/llm"
	"relaychat/internal/llm/mocks"
)

func testBreakerSettings() llm.BreakerSettings {
	s := llm.DefaultBreakerSettings("test")
	s.Timeout = time.Hour
	return s
}

func TestBreakerProvider_OpensAfterRepeatedFailures(t *testing.T) {
	// ARRANGE
	inner := mocks.NewMockProvider(t)
	downErr := errors.New("connection refused")
	inner.On("Generate", mock.Anything, mock.Anything).Return(nil, downErr).Times(3)

	provider := llm.NewBreakerProvider(inner, testBreakerSettings())
	req := &llm.GenerateRequest{Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}}}

	// ACT
	for i := 0; i < 3; i++ {
		_, err := provider.Generate(context.Background(), req)
		require.ErrorIs(t, err, downErr)
	}
	_, err := provider.Generate(context.Background(), req)

	// ASSERT: the fourth call never reaches the inner provider.
	assert.ErrorIs(t, err, app_errors.ErrModelUnavailable)
	inner.AssertExpectations(t)
}

func TestBreakerProvider_ClosesChannelWhenOpen(t *testing.T) {
	inner := mocks.NewMockProvider(t)
	inner.On("ListModels", mock.Anything).Return(nil, errors.New("boom")).Times(3)

	provider := llm.NewBreakerProvider(inner, testBreakerSettings())
	for i := 0; i < 3; i++ {
		_, _ = provider.ListModels(context.Background())
	}

	ch := make(chan llm.StreamResponse)
	err := provider.GenerateStream(context.Background(), &llm.GenerateRequest{}, ch)

	assert.ErrorIs(t, err, app_errors.ErrModelUnavailable)
	_, open := <-ch
	assert.False(t, open, "channel must be closed even though the inner provider never ran")
}

func TestBreakerProvider_CancellationDoesNotTrip(t *testing.T) {
	inner := mocks.NewMockProvider(t)
	inner.On("Generate", mock.Anything, mock.Anything).Return(nil, context.Canceled).Times(5)
	inner.On("Generate", mock.Anything, mock.Anything).Return(&llm.GenerateResponse{Content: "ok"}, nil).Once()

	provider := llm.NewBreakerProvider(inner, testBreakerSettings())
	for i := 0; i < 5; i++ {
		_, err := provider.Generate(context.Background(), &llm.GenerateRequest{})
		require.ErrorIs(t, err, context.Canceled)
	}

	resp, err := provider.Generate(context.Background(), &llm.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
}
