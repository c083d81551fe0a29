package recommend

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunREPL(t *testing.T) {
	st := seeded(t)
	emb := &fakeEmbedder{vectors: map[string][]float32{"space": {1, 0, 0}}}

	svc := New(st, emb, "vector_index", 0)

	in := strings.NewReader("\n  \nspace\nQUIT\nspace\n")
	out := &bytes.Buffer{}

	err := RunREPL(context.Background(), svc, in, out, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), "Please enter a search query"))
	assert.Contains(t, out.String(), "✨ Found 3 matches in")
	assert.Contains(t, out.String(), "1. Interstellar (2014)")
	assert.Contains(t, out.String(), "   Plot: Explorers travel through a wormhole....")
	assert.Equal(t, 1, emb.calls)
}

func TestRunREPL_ErrorContinues(t *testing.T) {
	emb := &fakeEmbedder{err: errors.New("model unavailable")}

	svc := New(seeded(t), emb, "vector_index", 0)

	in := strings.NewReader("space\nheist\n")
	out := &bytes.Buffer{}

	err := RunREPL(context.Background(), svc, in, out, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), "❌ Error: failed to embed query: model unavailable"))
	assert.Equal(t, 2, emb.calls)
}

func TestRunREPL_LongLine(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{"space": {1, 0, 0}}}

	svc := New(seeded(t), emb, "vector_index", 0)

	in := strings.NewReader(strings.Repeat("x", 70*1024) + "\nspace\nquit\n")
	out := &bytes.Buffer{}

	err := RunREPL(context.Background(), svc, in, out, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, emb.calls)
	assert.Equal(t, 2, strings.Count(out.String(), "✨ Found 3 matches in"))
	assert.Contains(t, out.String(), "1. Interstellar (2014)")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	emb := &fakeEmbedder{}

	svc := New(seeded(t), emb, "vector_index", 0)

	out := &bytes.Buffer{}

	err := RunREPL(context.Background(), svc, strings.NewReader("space"), out, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, emb.calls)
	assert.Contains(t, out.String(), "✨ Found 3 matches in")
}
