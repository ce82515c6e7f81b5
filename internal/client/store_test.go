package client_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/internal/client"
	"relaychat/internal/model"
)

func TestStore_SubmitAppendsUserAndPlaceholder(t *testing.T) {
	store := client.NewStore(0)

	history, err := store.Submit("Hello")

	require.NoError(t, err)
	assert.Equal(t, []model.Message{{Role: model.RoleUser, Content: "Hello"}}, history)
	assert.Equal(t, []model.Message{
		{Role: model.RoleUser, Content: "Hello"},
		{Role: model.RoleAssistant, Content: ""},
	}, store.Messages())
	assert.Equal(t, client.StateAwaitingResponse, store.State())
}

func TestStore_RejectsSubmitWhileStreaming(t *testing.T) {
	store := client.NewStore(0)
	_, err := store.Submit("first")
	require.NoError(t, err)

	_, err = store.Submit("second")

	assert.ErrorIs(t, err, client.ErrResponseInFlight)
	assert.Len(t, store.Messages(), 2)
}

func TestStore_RejectsBlankMessage(t *testing.T) {
	store := client.NewStore(0)

	_, err := store.Submit("  \n\t")

	assert.ErrorIs(t, err, client.ErrEmptyMessage)
	assert.Empty(t, store.Messages())
	assert.Equal(t, client.StateIdle, store.State())
}

func TestStore_FragmentsAccumulateInPlaceholder(t *testing.T) {
	store := client.NewStore(0)
	_, err := store.Submit("Hi")
	require.NoError(t, err)

	for _, f := range []string{"Hel", "lo", ", wör", "ld"} {
		require.NoError(t, store.AppendFragment(f))
	}
	store.Finish(nil)

	last, ok := store.Last()
	require.True(t, ok)
	assert.Equal(t, model.Message{Role: model.RoleAssistant, Content: "Hello, wörld"}, last)
	assert.Equal(t, client.StateIdle, store.State())
	assert.NoError(t, store.Err())
}

func TestStore_AppendFragmentWhenIdle(t *testing.T) {
	store := client.NewStore(0)

	err := store.AppendFragment("stray")

	assert.ErrorIs(t, err, client.ErrNoResponseInFlight)
}

func TestStore_FinishWithErrorKeepsPartialText(t *testing.T) {
	store := client.NewStore(0)
	_, err := store.Submit("Hi")
	require.NoError(t, err)
	require.NoError(t, store.AppendFragment("partial"))

	cause := errors.New("connection reset")
	store.Finish(cause)

	last, _ := store.Last()
	assert.Equal(t, "partial", last.Content)
	assert.ErrorIs(t, store.Err(), cause)

	// A new submission is possible and clears the old error.
	_, err = store.Submit("again")
	require.NoError(t, err)
	assert.NoError(t, store.Err())
}

func TestStore_HistoryIsLastFourWithoutPlaceholder(t *testing.T) {
	store := client.NewStore(client.DefaultHistoryLimit)
	for _, q := range []string{"one", "two"} {
		_, err := store.Submit(q)
		require.NoError(t, err)
		require.NoError(t, store.AppendFragment("re: "+q))
		store.Finish(nil)
	}

	history, err := store.Submit("three")

	require.NoError(t, err)
	assert.Equal(t, []model.Message{
		{Role: model.RoleAssistant, Content: "re: one"},
		{Role: model.RoleUser, Content: "two"},
		{Role: model.RoleAssistant, Content: "re: two"},
		{Role: model.RoleUser, Content: "three"},
	}, history)
	assert.Len(t, store.Messages(), 6)
}

func TestStore_MessagesIsACopy(t *testing.T) {
	store := client.NewStore(0)
	_, err := store.Submit("Hi")
	require.NoError(t, err)

	msgs := store.Messages()
	msgs[0].Content = "tampered"

	assert.Equal(t, "Hi", store.Messages()[0].Content)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", client.StateIdle.String())
	assert.Equal(t, "awaiting-response", client.StateAwaitingResponse.String())
}
