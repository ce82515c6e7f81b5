package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "relaychat/internal/errors"
	"relaychat/internal/llm"
	"relaychat/internal/model"
	"relaychat/internal/prompt"
)

func conversation(n int) []model.Message {
	msgs := make([]model.Message, n)
	for i := range msgs {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msgs[i] = model.Message{Role: role, Content: string(rune('a' + i))}
	}
	return msgs
}

func TestAssembler_KeepsLastNInOrder(t *testing.T) {
	a := prompt.NewAssembler(4)

	msgs, err := a.Assemble(conversation(7), "")
	require.NoError(t, err)

	require.Len(t, msgs, 5)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, []string{"d", "e", "f", "g"}, []string{msgs[1].Content, msgs[2].Content, msgs[3].Content, msgs[4].Content})
	assert.Equal(t, llm.RoleAssistant, msgs[1].Role)
	assert.Equal(t, llm.RoleUser, msgs[4].Role)
}

func TestAssembler_ShortHistoryIsKeptWhole(t *testing.T) {
	msgs, err := prompt.NewAssembler(4).Assemble(conversation(1), "")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[1].Content)
}

func TestAssembler_ContextSelectsTemplate(t *testing.T) {
	a := prompt.NewAssembler(4)
	history := []model.Message{{Role: model.RoleUser, Content: "What is the refund policy?"}}

	plain, err := a.Assemble(history, "")
	require.NoError(t, err)
	withContext, err := a.Assemble(history, "Refunds are issued within 30 days.")
	require.NoError(t, err)

	assert.NotEqual(t, plain[0].Content, withContext[0].Content)
	assert.Contains(t, withContext[0].Content, "Refunds are issued within 30 days.")
	assert.NotContains(t, plain[0].Content, "Context:")
}

func TestAssembler_RejectsUnknownRole(t *testing.T) {
	_, err := prompt.NewAssembler(4).Assemble([]model.Message{{Role: "system", Content: "x"}}, "")
	assert.ErrorIs(t, err, app_errors.ErrValidation)
}

func TestJoinContext(t *testing.T) {
	assert.Equal(t, "first\n\nsecond", prompt.JoinContext([]string{"first", "second"}))
	assert.Equal(t, "", prompt.JoinContext(nil))
}
