package client

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ErrIncompleteStream means the connection failed before the server closed
// the reply normally. Text decoded before the failure has been delivered.
var ErrIncompleteStream = errors.New("response stream ended unexpectedly")

const readBufferSize = 4096

// StreamReader decodes a raw UTF-8 reply body into text fragments as bytes
// arrive. A multi-byte character split across reads is held back until it is
// complete.
type StreamReader struct {
	r       io.Reader
	buf     []byte
	pending []byte
	done    bool
}

func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r, buf: make([]byte, readBufferSize)}
}

// Next returns the next non-empty fragment. It returns io.EOF once the body
// has ended cleanly and an error wrapping ErrIncompleteStream on a transport
// failure.
func (s *StreamReader) Next() (string, error) {
	for !s.done {
		n, err := s.r.Read(s.buf)
		if n > 0 {
			s.pending = append(s.pending, s.buf[:n]...)
			cut := completePrefix(s.pending)
			if cut > 0 {
				fragment := string(s.pending[:cut])
				s.pending = append(s.pending[:0], s.pending[cut:]...)
				if err != nil {
					return fragment, s.fail(err)
				}
				return fragment, nil
			}
		}
		if err != nil {
			if ferr := s.fail(err); ferr != nil {
				return "", ferr
			}
		}
	}

	if len(s.pending) > 0 {
		// Truncated trailing bytes become U+FFFD.
		fragment := strings.ToValidUTF8(string(s.pending), "\uFFFD")
		s.pending = nil
		return fragment, nil
	}
	return "", io.EOF
}

// fail records the end of the body. io.EOF is a clean end and yields nil.
func (s *StreamReader) fail(err error) error {
	s.done = true
	if errors.Is(err, io.EOF) {
		return nil
	}
	s.pending = nil
	return fmt.Errorf("%w: %v", ErrIncompleteStream, err)
}

// Each calls fn for every fragment until the body ends.
func (s *StreamReader) Each(fn func(string)) error {
	for {
		fragment, err := s.Next()
		if fragment != "" {
			fn(fragment)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// completePrefix returns the length of the longest prefix of p that does not
// end inside a multi-byte character.
func completePrefix(p []byte) int {
	end := len(p)
	// A UTF-8 sequence is at most 4 bytes, so only the tail can be partial.
	for i := end - 1; i >= 0 && i >= end-utf8.UTFMax; i-- {
		if utf8.RuneStart(p[i]) {
			if !utf8.FullRune(p[i:]) {
				return i
			}
			break
		}
	}
	return end
}
