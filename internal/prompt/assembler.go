// Package prompt turns conversation history and retrieved context into the
// message sequence sent to the model.
package prompt

import (
	"fmt"
	"strings"

	app_errors "relaychat/internal/errors"
	"relaychat/internal/llm"
	"relaychat/internal/model"
)

// DefaultHistoryLimit is how many trailing messages are forwarded to the model.
const DefaultHistoryLimit = 4

const plainSystemPrompt = "You are a helpful assistant. Answer the user's questions clearly and concisely."

const contextSystemPrompt = `You are a helpful assistant. Use the following pieces of retrieved context from a document the user provided to answer the question. If the context does not contain the answer, say that you don't know instead of making one up.

Context:
%s`

// Assembler builds model prompts. The zero value is not usable; use NewAssembler.
type Assembler struct {
	historyLimit int
}

// NewAssembler returns an Assembler keeping the last historyLimit messages.
// A non-positive limit falls back to DefaultHistoryLimit.
func NewAssembler(historyLimit int) *Assembler {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Assembler{historyLimit: historyLimit}
}

// SystemMessage returns the system instruction for the given retrieved context.
func SystemMessage(context string) string {
	if context == "" {
		return plainSystemPrompt
	}
	return fmt.Sprintf(contextSystemPrompt, context)
}

// Assemble returns one system message followed by the trailing history in
// original order. The context-aware instruction is used iff context is
// non-empty.
func (a *Assembler) Assemble(history []model.Message, context string) ([]llm.Message, error) {
	if len(history) > a.historyLimit {
		history = history[len(history)-a.historyLimit:]
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: SystemMessage(context)})
	for i, m := range history {
		role, err := mapRole(m.Role)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	return messages, nil
}

// JoinContext concatenates retrieved chunk texts in rank order.
func JoinContext(texts []string) string {
	return strings.Join(texts, "\n\n")
}

func mapRole(r model.Role) (string, error) {
	switch r {
	case model.RoleUser:
		return llm.RoleUser, nil
	case model.RoleAssistant:
		return llm.RoleAssistant, nil
	default:
		return "", fmt.Errorf("%w: unsupported role %q", app_errors.ErrValidation, r)
	}
}
