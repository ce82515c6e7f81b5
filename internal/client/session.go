package client

import (
	"context"
	"sync"

	"relaychat/internal/model"
)

// ChatStreamer is the part of Client a Session needs.
type ChatStreamer interface {
	Chat(ctx context.Context, req *model.ChatRequest, onFragment func(string)) error
}

// Session drives one conversation: it records each exchange in a Store and
// streams replies into the placeholder.
type Session struct {
	store  *Store
	client ChatStreamer

	mu       sync.RWMutex
	document *string
}

func NewSession(client ChatStreamer, store *Store) *Session {
	return &Session{store: store, client: client}
}

func (s *Session) Store() *Store { return s.store }

// SetDocument attaches text that is sent with every following message.
func (s *Session) SetDocument(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = &text
}

func (s *Session) ClearDocument() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = nil
}

// HasDocument reports whether a document is attached.
func (s *Session) HasDocument() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document != nil
}

// Begin records text and the empty assistant placeholder, and returns the
// request that carries the reply. It fails with ErrResponseInFlight while an
// earlier reply is still streaming.
func (s *Session) Begin(text string) (*model.ChatRequest, error) {
	history, err := s.store.Submit(text)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return &model.ChatRequest{Messages: history, DocContent: s.document}, nil
}

// Stream sends req and fills the placeholder, calling onUpdate with it after
// every fragment. The response is always finished, with err on failure.
// onUpdate may be nil.
func (s *Session) Stream(ctx context.Context, req *model.ChatRequest, onUpdate func(model.Message)) error {
	err := s.client.Chat(ctx, req, func(fragment string) {
		if s.store.AppendFragment(fragment) != nil {
			return
		}
		if onUpdate != nil {
			if last, ok := s.store.Last(); ok {
				onUpdate(last)
			}
		}
	})
	s.store.Finish(err)
	return err
}

// Send is Begin followed by Stream.
func (s *Session) Send(ctx context.Context, text string, onUpdate func(model.Message)) error {
	req, err := s.Begin(text)
	if err != nil {
		return err
	}
	return s.Stream(ctx, req, onUpdate)
}
