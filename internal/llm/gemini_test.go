package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "relaychat/internal/errors"
)

func TestToGeminiPrompt(t *testing.T) {
	t.Run("Final user turn is sent, earlier turns become history", func(t *testing.T) {
		// ARRANGE
		messages := []Message{
			{Role: RoleSystem, Content: "Be brief."},
			{Role: RoleUser, Content: "Hi"},
			{Role: RoleAssistant, Content: "Hello"},
			{Role: RoleUser, Content: "How are you?"},
		}

		// ACT
		p, err := toGeminiPrompt(messages)

		// ASSERT
		require.NoError(t, err)
		require.NotNil(t, p.system)
		assert.Equal(t, []genai.Part{genai.Text("Be brief.")}, p.system.Parts)
		require.Len(t, p.history, 2)
		assert.Equal(t, RoleUser, p.history[0].Role)
		assert.Equal(t, geminiModelRole, p.history[1].Role)
		assert.Equal(t, []genai.Part{genai.Text("How are you?")}, p.last)
	})

	t.Run("Trailing assistant turn is answered like any other request", func(t *testing.T) {
		// ARRANGE
		messages := []Message{
			{Role: RoleUser, Content: "Write a haiku"},
			{Role: RoleAssistant, Content: "Autumn wind"},
		}

		// ACT
		p, err := toGeminiPrompt(messages)

		// ASSERT
		require.NoError(t, err)
		assert.Nil(t, p.system)
		require.Len(t, p.history, 2)
		assert.Equal(t, geminiModelRole, p.history[1].Role)
		assert.Equal(t, []genai.Part{genai.Text(continuePrompt)}, p.last)
	})

	t.Run("Empty conversation is rejected", func(t *testing.T) {
		_, err := toGeminiPrompt([]Message{{Role: RoleSystem, Content: "x"}})

		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}
