package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence_NextInOrder(t *testing.T) {
	prompts := []string{"Chat.", "So what have you invented?", "Can I be teleported please?", "Yes, that sounds good. Teleport me!"}
	seq := NewSequence(prompts)

	assert.Equal(t, 4, seq.Len())
	for i, want := range prompts {
		got, ok := seq.Next()
		assert.True(t, ok, "prompt %d", i)
		assert.Equal(t, want, got)
	}

	_, ok := seq.Next()
	assert.False(t, ok, "sequence should be finite")
	assert.Equal(t, 0, seq.Remaining())
}

func TestSequence_Restartable(t *testing.T) {
	seq := NewSequence([]string{"I'm in search of adventure!", "Ok, I will get it back."})

	first := drain(seq)
	seq.Reset()
	second := drain(seq)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"I'm in search of adventure!", "Ok, I will get it back."}, second)
}

func TestSequence_Empty(t *testing.T) {
	seq := NewSequence(nil)
	_, ok := seq.Peek()
	assert.False(t, ok)
	assert.Empty(t, drain(seq))
}

func TestSequence_CopiesInput(t *testing.T) {
	prompts := []string{"a", "b"}
	seq := NewSequence(prompts)
	prompts[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, seq.All())
}

func TestSequence_Choose(t *testing.T) {
	seq := NewSequence([]string{"Chat.", "So what have you invented?"})

	idx, ok := seq.Choose([]string{"Hello.", "Chat.", "Goodbye."})
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	// Next prompt is not on offer; position must not move.
	idx, ok = seq.Choose([]string{"Hello.", "Goodbye."})
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
	assert.Equal(t, 1, seq.Remaining())

	idx, ok = seq.Choose([]string{"Never mind.", "so what have you  invented? "})
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = seq.Choose([]string{"Chat."})
	assert.False(t, ok, "exhausted sequence should not match")
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		options  []string
		expected int
	}{
		{name: "exact", prompt: "Chat.", options: []string{"Chat.", "chat."}, expected: 0},
		{name: "exact preferred over folded", prompt: "chat.", options: []string{"Chat.", "chat."}, expected: 1},
		{name: "case folded", prompt: "Ok, I will get it back.", options: []string{"OK, I WILL GET IT BACK."}, expected: 0},
		{name: "whitespace", prompt: "Chat.", options: []string{"  Chat. "}, expected: 0},
		{name: "no match", prompt: "Chat.", options: []string{"Chatter."}, expected: -1},
		{name: "no options", prompt: "Chat.", options: nil, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.prompt, tt.options))
		})
	}
}

func drain(seq *Sequence) []string {
	var out []string
	for {
		p, ok := seq.Next()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}
