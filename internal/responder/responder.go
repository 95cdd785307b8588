// Package responder composes grounded answers for informational
// questions using retrieval-augmented generation.
package responder

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"supportpilot/internal/model"
	"supportpilot/pkg/metrics"
)

// Retriever is the knowledge-index slice the responder needs.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]model.SearchResult, error)
}

// Completer issues the grounded completion request.
type Completer interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Responder struct {
	retriever Retriever
	completer Completer
	topK      int
	threshold float64
	logger    *zap.Logger
}

// New builds a responder. topK and threshold come from configuration;
// the defaults (3, 0.3) favor attempting an answer over dropping a
// legitimate question.
func New(retriever Retriever, completer Completer, topK int, threshold float64, logger *zap.Logger) *Responder {
	return &Responder{
		retriever: retriever,
		completer: completer,
		topK:      topK,
		threshold: threshold,
		logger:    logger,
	}
}

const systemContract = `You are a helpful customer support agent. Answer the customer's question using only the information provided in the context. If the context doesn't contain enough information to answer the question completely, say so politely rather than inventing details. Keep the tone friendly and supportive, and format the response as a proper customer service email.`

// Answer retrieves relevant snippets and, if enough context exists,
// generates a grounded reply. Returns ok=false when the question is
// unanswerable: no snippet cleared the relevance threshold, or the
// generation call failed. Failures never propagate and never fabricate.
func (r *Responder) Answer(ctx context.Context, question string) (string, bool) {
	results, err := r.retriever.Search(ctx, question, r.topK)
	if err != nil {
		r.logger.Error("Knowledge retrieval failed", zap.Error(err))
		return "", false
	}

	kept := results[:0:0]
	for _, res := range results {
		if res.Score > r.threshold {
			kept = append(kept, res)
		}
	}
	metrics.RetrievalKeptSnippets.Observe(float64(len(kept)))

	for _, res := range kept {
		r.logger.Debug("Relevant snippet",
			zap.String("snippet_id", res.Snippet.ID),
			zap.Float64("score", res.Score),
		)
	}

	if len(kept) == 0 {
		r.logger.Info("No relevant context found, question is unanswerable",
			zap.Int("retrieved", len(results)),
		)
		return "", false
	}

	reply, err := r.completer.CompleteWithSystem(ctx, systemContract, buildPrompt(question, kept))
	if err != nil {
		r.logger.Error("Grounded generation failed", zap.Error(err))
		return "", false
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", false
	}
	return reply, true
}

// buildPrompt assembles the numbered context block and the question.
func buildPrompt(question string, docs []model.SearchResult) string {
	var b strings.Builder
	b.WriteString("Context Information:\n")
	for i, doc := range docs {
		fmt.Fprintf(&b, "Document %d: %s\n\n", i+1, doc.Snippet.Content)
	}
	fmt.Fprintf(&b, "Customer Question: %s\n", question)
	return b.String()
}
