package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relaychat/internal/chunker"
	"relaychat/internal/embedding/embeddingtest"
	app_errors "relaychat/internal/errors"
	"relaychat/internal/llm"
	mock_llm "relaychat/internal/llm/mocks"
	"relaychat/internal/model"
	"relaychat/internal/prompt"
	"relaychat/internal/service"
	mock_service "relaychat/internal/service/mocks"
	"relaychat/internal/vectorstore"
)

type Mocks struct {
	store *mock_service.MockDocumentStore
	llm   *mock_llm.MockProvider
}

func setupChatService(t *testing.T) (*service.ChatService, Mocks) {
	c, err := chunker.New(chunker.DefaultChunkSize, chunker.DefaultChunkOverlap)
	require.NoError(t, err)

	mocks := Mocks{
		store: mock_service.NewMockDocumentStore(t),
		llm:   mock_llm.NewMockProvider(t),
	}
	chatService := service.NewChatService(mocks.store, c, prompt.NewAssembler(4), mocks.llm, 4)
	return chatService, mocks
}

// streamFragments returns a Run func that plays fragments into the provider
// channel and closes it, as a real provider does.
func streamFragments(fragments ...string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		out := args.Get(2).(chan<- llm.StreamResponse)
		for _, f := range fragments {
			out <- llm.StreamResponse{Content: f}
		}
		out <- llm.StreamResponse{Done: true}
		close(out)
	}
}

func drain(ch <-chan model.StreamResponse) []model.StreamResponse {
	var out []model.StreamResponse
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func TestChatService_HandleChat(t *testing.T) {
	ctx := context.Background()
	hello := &model.ChatRequest{Messages: []model.Message{{Role: model.RoleUser, Content: "Hello"}}}

	t.Run("Success - Fragments are forwarded in order", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.llm.On("GenerateStream", mock.Anything, mock.MatchedBy(func(r *llm.GenerateRequest) bool {
			return len(r.Messages) == 2 && r.Messages[0].Role == llm.RoleSystem && r.Messages[1].Content == "Hello"
		}), mock.Anything).Return(nil).Run(streamFragments("Hi", " there")).Once()

		streamChan := make(chan model.StreamResponse, 5)
		chatService.HandleChat(ctx, hello, streamChan)

		got := drain(streamChan)
		require.Len(t, got, 3)
		assert.Equal(t, "Hi", got[0].Content)
		assert.Equal(t, " there", got[1].Content)
		assert.True(t, got[2].Done)
	})

	t.Run("Success - No document means no retrieval", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		empty := ""
		req := &model.ChatRequest{Messages: hello.Messages, DocContent: &empty}
		mocks.llm.On("GenerateStream", mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Run(streamFragments("ok")).Once()

		streamChan := make(chan model.StreamResponse, 5)
		chatService.HandleChat(ctx, req, streamChan)

		assert.Len(t, drain(streamChan), 2)
		mocks.store.AssertNotCalled(t, "AddDocuments", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Model unavailable before any fragment", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.llm.On("GenerateStream", mock.Anything, mock.Anything, mock.Anything).
			Return(app_errors.ErrModelUnavailable).
			Run(func(args mock.Arguments) { close(args.Get(2).(chan<- llm.StreamResponse)) }).Once()

		streamChan := make(chan model.StreamResponse, 5)
		chatService.HandleChat(ctx, hello, streamChan)

		got := drain(streamChan)
		require.Len(t, got, 1)
		assert.ErrorIs(t, got[0].Err, app_errors.ErrModelUnavailable)
		assert.NotEmpty(t, got[0].Error)
	})

	t.Run("Failure - Stream breaks mid-way", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.llm.On("GenerateStream", mock.Anything, mock.Anything, mock.Anything).
			Return(app_errors.ErrModelUnavailable).
			Run(func(args mock.Arguments) {
				out := args.Get(2).(chan<- llm.StreamResponse)
				out <- llm.StreamResponse{Content: "partial"}
				close(out)
			}).Once()

		streamChan := make(chan model.StreamResponse, 5)
		chatService.HandleChat(ctx, hello, streamChan)

		got := drain(streamChan)
		require.Len(t, got, 2)
		assert.Equal(t, "partial", got[0].Content)
		assert.ErrorIs(t, got[1].Err, app_errors.ErrModelUnavailable)
	})

	t.Run("Failure - Embedding error is fatal", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		doc := "some document"
		req := &model.ChatRequest{Messages: hello.Messages, DocContent: &doc}
		mocks.store.On("AddDocuments", mock.Anything, mock.Anything).
			Return(app_errors.ErrModelUnavailable).Once()

		streamChan := make(chan model.StreamResponse, 5)
		chatService.HandleChat(ctx, req, streamChan)

		got := drain(streamChan)
		require.Len(t, got, 1)
		assert.ErrorIs(t, got[0].Err, app_errors.ErrModelUnavailable)
		mocks.llm.AssertNotCalled(t, "GenerateStream", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Cancelled - Stops forwarding after disconnect", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		cctx, cancel := context.WithCancel(ctx)

		mocks.llm.On("GenerateStream", mock.Anything, mock.Anything, mock.Anything).
			Return(context.Canceled).
			Run(func(args mock.Arguments) {
				pctx := args.Get(0).(context.Context)
				out := args.Get(2).(chan<- llm.StreamResponse)
				defer close(out)
				out <- llm.StreamResponse{Content: "first"}
				cancel()
				<-pctx.Done()
			}).Once()

		streamChan := make(chan model.StreamResponse, 5)
		chatService.HandleChat(cctx, hello, streamChan)

		for r := range streamChan {
			assert.Nil(t, r.Err, "a cancelled request must not report a model error")
		}
	})
}

func TestChatService_Complete(t *testing.T) {
	ctx := context.Background()
	req := &model.ChatRequest{Messages: []model.Message{{Role: model.RoleUser, Content: "Hello"}}}

	t.Run("Success", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.llm.On("Generate", mock.Anything, mock.Anything).
			Return(&llm.GenerateResponse{Content: "Hi!"}, nil).Once()

		msg, err := chatService.Complete(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Hi!", msg)
	})

	t.Run("Failure", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.llm.On("Generate", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: connection refused", app_errors.ErrModelUnavailable)).Once()

		_, err := chatService.Complete(ctx, req)
		assert.ErrorIs(t, err, app_errors.ErrModelUnavailable)
	})
}

// TestChatService_RetrievesOverlappingChunks wires a real MemoryStore with a
// deterministic keyword embedder and checks which chunks of a 3000 character
// document reach the system message.
func TestChatService_RetrievesOverlappingChunks(t *testing.T) {
	c, err := chunker.New(1000, 200)
	require.NoError(t, err)

	store := vectorstore.NewMemoryStore(embeddingtest.NewKeywordEmbedder("zebra"))
	provider := mock_llm.NewMockProvider(t)
	chatService := service.NewChatService(store, c, prompt.NewAssembler(4), provider, 2)

	doc := uniqueText(1700, 0) + "zebra" + uniqueText(1295, 10000)
	require.Len(t, []rune(doc), 3000)
	chunks := c.Split(doc, "x")
	req := &model.ChatRequest{
		Messages:   []model.Message{{Role: model.RoleUser, Content: "Where is the zebra?"}},
		DocContent: &doc,
	}

	var system string
	provider.On("Generate", mock.Anything, mock.Anything).
		Return(&llm.GenerateResponse{Content: "In the middle."}, nil).
		Run(func(args mock.Arguments) {
			system = args.Get(1).(*llm.GenerateRequest).Messages[0].Content
		}).Once()

	_, err = chatService.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, system, chunks[1].Text+"\n\n"+chunks[2].Text)
	assert.NotContains(t, system, chunks[0].Text)
	assert.NotContains(t, system, chunks[3].Text)
	assert.Equal(t, 4, store.Len())
}

// uniqueText returns n characters of non-repeating filler so that no chunk is
// a substring of another.
func uniqueText(n, seed int) string {
	var sb strings.Builder
	for i := seed; sb.Len() < n; i++ {
		fmt.Fprintf(&sb, "%05d|", i)
	}
	return sb.String()[:n]
}

func TestSourceTag(t *testing.T) {
	tag := service.SourceTag("hello")
	assert.True(t, strings.HasPrefix(tag, "doc-"))
	assert.Len(t, tag, len("doc-")+12)
	assert.Equal(t, tag, service.SourceTag("hello"))
	assert.NotEqual(t, tag, service.SourceTag("world"))
}
