package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name          string
		size, overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.size, tc.overlap)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	c, err := New(DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)

	assert.Empty(t, c.Split("", "doc"))
}

func TestSplit_ShortInputIsSingleChunk(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	chunks := c.Split("hello world", "doc")
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Text)
	assert.Equal(t, "doc", chunks[0].SourceTag)
	assert.Equal(t, 0, chunks[0].Index)
}

// TestSplit_ThreeThousandCharacters checks the window arithmetic for the
// default 1000/200 configuration on a 3000 character document.
func TestSplit_ThreeThousandCharacters(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	text := strings.Repeat("a", 1000) + strings.Repeat("b", 1000) + strings.Repeat("c", 1000)
	chunks := c.Split(text, "doc")

	require.Len(t, chunks, 4)
	runes := []rune(text)
	assert.Equal(t, string(runes[0:1000]), chunks[0].Text)
	assert.Equal(t, string(runes[800:1800]), chunks[1].Text)
	assert.Equal(t, string(runes[1600:2600]), chunks[2].Text)
	assert.Equal(t, string(runes[2400:3000]), chunks[3].Text)
}

func TestSplit_ConsecutiveChunksOverlap(t *testing.T) {
	c, err := New(10, 3)
	require.NoError(t, err)

	chunks := c.Split("abcdefghijklmnopqrstuvwxyz", "doc")
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		cur := []rune(chunks[i].Text)
		assert.Equal(t, string(prev[len(prev)-3:]), string(cur[:3]), "chunk %d", i)
		assert.Equal(t, i, chunks[i].Index)
	}
}

func TestSplit_CountsRunesNotBytes(t *testing.T) {
	c, err := New(4, 1)
	require.NoError(t, err)

	chunks := c.Split("日本語のテキスト", "doc")
	for _, ch := range chunks {
		assert.LessOrEqual(t, len([]rune(ch.Text)), 4)
	}
	assert.Equal(t, "日本語の", chunks[0].Text)
	assert.Equal(t, "のテキス", chunks[1].Text)
}

func TestSplit_IsIdempotent(t *testing.T) {
	c, err := New(50, 10)
	require.NoError(t, err)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	assert.Equal(t, c.Split(text, "doc"), c.Split(text, "doc"))
}
