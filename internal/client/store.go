// Package client is the consumer side of the chat relay: a message log that
// owns the conversation, a reader that decodes the raw reply stream, and an
// HTTP client for the relay's endpoints.
package client

import (
	"errors"
	"strings"
	"sync"

	"relaychat/internal/model"
)

// DefaultHistoryLimit is how many prior messages accompany each request.
const DefaultHistoryLimit = 4

var (
	ErrEmptyMessage       = errors.New("message is empty")
	ErrResponseInFlight   = errors.New("a response is still streaming")
	ErrNoResponseInFlight = errors.New("no response is streaming")
)

// State is the store's position in the submit/stream cycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting-response"
	default:
		return "unknown"
	}
}

// Store is the ordered message log of one conversation. While a response is
// streaming its placeholder is always the last message, and it is the only
// message that changes.
type Store struct {
	mu           sync.RWMutex
	messages     []model.Message
	state        State
	historyLimit int
	lastErr      error
}

func NewStore(historyLimit int) *Store {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Store{historyLimit: historyLimit}
}

// Submit appends the user's message and an empty assistant placeholder and
// returns the history to send: the latest messages up to the limit, the new
// user message included, the placeholder excluded.
func (s *Store) Submit(text string) ([]model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAwaitingResponse {
		return nil, ErrResponseInFlight
	}

	s.messages = append(s.messages,
		model.Message{Role: model.RoleUser, Content: text},
		model.Message{Role: model.RoleAssistant},
	)
	s.state = StateAwaitingResponse
	s.lastErr = nil

	sent := s.messages[:len(s.messages)-1]
	if len(sent) > s.historyLimit {
		sent = sent[len(sent)-s.historyLimit:]
	}
	return append([]model.Message(nil), sent...), nil
}

// AppendFragment adds streamed text to the placeholder.
func (s *Store) AppendFragment(fragment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingResponse {
		return ErrNoResponseInFlight
	}
	s.messages[len(s.messages)-1].Content += fragment
	return nil
}

// Finish ends the current response. Text received before a failure is kept;
// err is remembered for Err.
func (s *Store) Finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingResponse {
		return
	}
	s.state = StateIdle
	s.lastErr = err
}

// Messages returns a copy of the log.
func (s *Store) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Message(nil), s.messages...)
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Last returns the newest message, or false for an empty log.
func (s *Store) Last() (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return model.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Err is the error the most recent response finished with, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
