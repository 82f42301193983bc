// Package dialog drives scripted dialog choices. A Sequence hands out one
// prompt per dialog event and matches prompts against the options the game
// displays by their literal text.
package dialog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Sequence is a finite, restartable cursor over dialog prompts.
// It is not safe for concurrent use.
type Sequence struct {
	prompts []string
	pos     int
}

// NewSequence copies prompts into a new sequence positioned at the start.
func NewSequence(prompts []string) *Sequence {
	return &Sequence{prompts: append([]string(nil), prompts...)}
}

// Next returns the next prompt and advances, or false once exhausted.
func (s *Sequence) Next() (string, bool) {
	if s.pos >= len(s.prompts) {
		return "", false
	}
	p := s.prompts[s.pos]
	s.pos++
	return p, true
}

// Peek returns the next prompt without advancing.
func (s *Sequence) Peek() (string, bool) {
	if s.pos >= len(s.prompts) {
		return "", false
	}
	return s.prompts[s.pos], true
}

// Reset rewinds to the first prompt.
func (s *Sequence) Reset() {
	s.pos = 0
}

func (s *Sequence) Len() int       { return len(s.prompts) }
func (s *Sequence) Remaining() int { return len(s.prompts) - s.pos }

// All returns every prompt in order, regardless of position.
func (s *Sequence) All() []string {
	return append([]string(nil), s.prompts...)
}

// Choose finds the displayed option matching the next pending prompt and
// advances past it. It returns -1 and false when nothing matches or the
// sequence is exhausted; the position is left unchanged in that case.
func (s *Sequence) Choose(options []string) (int, bool) {
	want, ok := s.Peek()
	if !ok {
		return -1, false
	}
	idx := Match(want, options)
	if idx < 0 {
		return -1, false
	}
	s.pos++
	return idx, true
}

var folder = cases.Fold()

// Match returns the index of the option whose text equals prompt. An exact
// match wins; otherwise surrounding whitespace and letter case are ignored.
func Match(prompt string, options []string) int {
	for i, opt := range options {
		if opt == prompt {
			return i
		}
	}
	want := normalize(prompt)
	for i, opt := range options {
		if normalize(opt) == want {
			return i
		}
	}
	return -1
}

func normalize(s string) string {
	return folder.String(strings.Join(strings.Fields(s), " "))
}
