package reader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadLine(t *testing.T) {
	r := New("first\nsecond\nthird")

	require.Equal(t, "first\n", r.ReadLine())
	require.Equal(t, "second\n", r.ReadLine())
	require.False(t, r.Done())
	require.Equal(t, "third", r.ReadLine())
	require.True(t, r.Done())
	require.Equal(t, "", r.ReadLine())
}

func TestReadUntil(t *testing.T) {
	r := New("key:value")
	head, found := r.ReadUntil(':')
	require.True(t, found)
	require.Equal(t, "key", head)
	r.Skip(1)
	require.Equal(t, "value", r.ReadToEnd())

	r2 := New("novalue")
	rest, found := r2.ReadUntil(':')
	require.False(t, found)
	require.Equal(t, "novalue", rest)
	require.True(t, r2.Done())
}

func TestReadUntilWhitespace(t *testing.T) {
	r := New("  M   src/a.txt")
	r.SkipWhitespace()
	token, found := r.ReadUntilWhitespace()
	require.True(t, found)
	require.Equal(t, "M", token)
	r.SkipWhitespace()
	require.Equal(t, "src/a.txt", r.ReadToEnd())
}

func TestPutBackBoundedByLastRead(t *testing.T) {
	r := New("commit abc123\nAuthor: Jane\n")
	line := r.ReadLine()
	require.NoError(t, r.PutBackLine(line))
	require.Equal(t, line, r.ReadLine())

	err := r.PutBack(len(line) + 1)
	require.Error(t, err)
}

func TestPutBackAllowsPrefixReInspection(t *testing.T) {
	r := New("commit deadbeef (from abcdef)\nAuthor: Jane Doe <jane@example.com>\n")
	line := r.ReadLine()
	require.NoError(t, r.PutBackLine(line))

	word, _ := r.ReadUntilWhitespace()
	require.Equal(t, "commit", word)
}

func TestDoneOnEmptyString(t *testing.T) {
	r := New("")
	require.True(t, r.Done())
	require.Equal(t, "", r.ReadToEnd())
}
