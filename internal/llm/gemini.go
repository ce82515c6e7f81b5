package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"

	app_errors "relaychat/internal/errors"
)

const geminiModelRole = "model"

// continuePrompt is sent when a conversation ends with an assistant turn,
// since a Gemini chat turn must come from the user.
const continuePrompt = "Continue."

type geminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider returns a Provider backed by the Gemini API. The caller
// owns client and closes it on shutdown.
func NewGeminiProvider(client *genai.Client, model string) Provider {
	return &geminiProvider{client: client, model: model}
}

type geminiPrompt struct {
	system  *genai.Content
	history []*genai.Content
	last    []genai.Part
}

// toGeminiPrompt splits an assembled prompt into Gemini's system instruction,
// chat history and the final user turn. A trailing assistant turn stays in
// the history and continuePrompt becomes the user turn.
func toGeminiPrompt(messages []Message) (*geminiPrompt, error) {
	p := &geminiPrompt{}
	var systemParts []genai.Part
	var turns []*genai.Content

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			systemParts = append(systemParts, genai.Text(m.Content))
		case RoleUser:
			turns = append(turns, &genai.Content{Role: RoleUser, Parts: []genai.Part{genai.Text(m.Content)}})
		case RoleAssistant:
			turns = append(turns, &genai.Content{Role: geminiModelRole, Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			return nil, fmt.Errorf("%w: unsupported role %q", app_errors.ErrValidation, m.Role)
		}
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("%w: conversation has no messages", app_errors.ErrValidation)
	}
	if len(systemParts) > 0 {
		p.system = &genai.Content{Parts: systemParts}
	}
	if last := turns[len(turns)-1]; last.Role == RoleUser {
		p.history = turns[:len(turns)-1]
		p.last = last.Parts
	} else {
		p.history = turns
		p.last = []genai.Part{genai.Text(continuePrompt)}
	}
	return p, nil
}

func (p *geminiProvider) session(req *GenerateRequest) (*genai.ChatSession, []genai.Part, error) {
	prompt, err := toGeminiPrompt(req.Messages)
	if err != nil {
		return nil, nil, err
	}
	name := req.Model
	if name == "" {
		name = p.model
	}
	m := p.client.GenerativeModel(name)
	m.SystemInstruction = prompt.system
	cs := m.StartChat()
	cs.History = prompt.history
	return cs, prompt.last, nil
}

func (p *geminiProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	cs, last, err := p.session(req)
	if err != nil {
		return nil, err
	}
	resp, err := cs.SendMessage(ctx, last...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrModelUnavailable, err)
	}
	return &GenerateResponse{Model: p.model, Content: responseText(resp)}, nil
}

func (p *geminiProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamResponse) error {
	defer close(ch)

	cs, last, err := p.session(req)
	if err != nil {
		return err
	}
	iter := cs.SendMessageStream(ctx, last...)
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", app_errors.ErrModelUnavailable, err)
		}
		text := responseText(resp)
		if text == "" {
			continue
		}
		select {
		case ch <- StreamResponse{Content: text}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case ch <- StreamResponse{Done: true}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

type geminiModelListing struct {
	Models []geminiModelEntry `json:"models"`
}

type geminiModelEntry struct {
	Name string `json:"name"`
}

func (p *geminiProvider) ListModels(ctx context.Context) (json.RawMessage, error) {
	listing := geminiModelListing{Models: []geminiModelEntry{}}
	it := p.client.ListModels(ctx)
	for {
		info, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", app_errors.ErrModelUnavailable, err)
		}
		listing.Models = append(listing.Models, geminiModelEntry{Name: info.Name})
	}
	body, err := json.Marshal(listing)
	if err != nil {
		return nil, fmt.Errorf("could not marshal model listing: %w", err)
	}
	return body, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
