package responder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supportpilot/internal/model"
)

type fakeRetriever struct {
	results []model.SearchResult
	err     error
}

func (f *fakeRetriever) Search(ctx context.Context, query string, topK int) ([]model.SearchResult, error) {
	return f.results, f.err
}

type fakeCompleter struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeCompleter) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.lastPrompt = userPrompt
	return f.reply, f.err
}

func result(id, content string, score float64) model.SearchResult {
	return model.SearchResult{
		Snippet: model.Snippet{ID: id, Content: content},
		Score:   score,
	}
}

func TestAnswerGroundsReplyInRetrievedContext(t *testing.T) {
	retriever := &fakeRetriever{results: []model.SearchResult{
		result("shipping_001", "Standard shipping takes 3-5 business days.", 0.9),
		result("shipping_002", "Track orders with the emailed tracking number.", 0.7),
	}}
	completer := &fakeCompleter{reply: "Shipping takes 3-5 business days."}
	r := New(retriever, completer, 3, 0.3, zap.NewNop())

	reply, ok := r.Answer(context.Background(), "How long does shipping take?")

	require.True(t, ok)
	assert.Equal(t, "Shipping takes 3-5 business days.", reply)
	assert.Contains(t, completer.lastPrompt, "Document 1: Standard shipping takes 3-5 business days.")
	assert.Contains(t, completer.lastPrompt, "Document 2: Track orders with the emailed tracking number.")
	assert.Contains(t, completer.lastPrompt, "Customer Question: How long does shipping take?")
}

func TestAnswerThresholdIsStrict(t *testing.T) {
	// Scores exactly at the threshold are discarded.
	retriever := &fakeRetriever{results: []model.SearchResult{
		result("a", "borderline", 0.3),
		result("b", "below", 0.1),
	}}
	completer := &fakeCompleter{reply: "should never be called"}
	r := New(retriever, completer, 3, 0.3, zap.NewNop())

	reply, ok := r.Answer(context.Background(), "anything")

	assert.False(t, ok)
	assert.Empty(t, reply)
	assert.Empty(t, completer.lastPrompt, "generation must not run without context")
}

func TestAnswerFiltersIrrelevantSnippets(t *testing.T) {
	retriever := &fakeRetriever{results: []model.SearchResult{
		result("keep", "relevant", 0.8),
		result("drop", "irrelevant", 0.2),
	}}
	completer := &fakeCompleter{reply: "grounded answer"}
	r := New(retriever, completer, 3, 0.3, zap.NewNop())

	_, ok := r.Answer(context.Background(), "q")

	require.True(t, ok)
	assert.Contains(t, completer.lastPrompt, "relevant")
	assert.NotContains(t, completer.lastPrompt, "irrelevant")
}

func TestAnswerUnanswerableOnFailures(t *testing.T) {
	t.Run("retrieval error", func(t *testing.T) {
		r := New(&fakeRetriever{err: errors.New("index down")}, &fakeCompleter{}, 3, 0.3, zap.NewNop())
		reply, ok := r.Answer(context.Background(), "q")
		assert.False(t, ok)
		assert.Empty(t, reply)
	})

	t.Run("no results at all", func(t *testing.T) {
		r := New(&fakeRetriever{}, &fakeCompleter{}, 3, 0.3, zap.NewNop())
		_, ok := r.Answer(context.Background(), "q")
		assert.False(t, ok)
	})

	t.Run("generation error", func(t *testing.T) {
		retriever := &fakeRetriever{results: []model.SearchResult{result("a", "ctx", 0.9)}}
		r := New(retriever, &fakeCompleter{err: errors.New("rate limited")}, 3, 0.3, zap.NewNop())
		_, ok := r.Answer(context.Background(), "q")
		assert.False(t, ok)
	})

	t.Run("blank generation", func(t *testing.T) {
		retriever := &fakeRetriever{results: []model.SearchResult{result("a", "ctx", 0.9)}}
		r := New(retriever, &fakeCompleter{reply: "  \n"}, 3, 0.3, zap.NewNop())
		_, ok := r.Answer(context.Background(), "q")
		assert.False(t, ok)
	})
}
