// Package knowledge maintains the similarity-searchable snippet index
// backed by Qdrant.
package knowledge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"supportpilot/internal/model"
)

// Embedder turns text into vectors. The embedding model is a fixed,
// versioned dependency of the index: changing it requires re-embedding
// every snippet.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type Index struct {
	client     *qdrant.Client
	embedder   Embedder
	collection string
	vectorSize uint64
	logger     *zap.Logger
}

func NewIndex(client *qdrant.Client, embedder Embedder, collection string, vectorSize uint64, logger *zap.Logger) *Index {
	return &Index{
		client:     client,
		embedder:   embedder,
		collection: collection,
		vectorSize: vectorSize,
		logger:     logger,
	}
}

// pointID derives a stable Qdrant point ID from a snippet ID. Qdrant
// only accepts UUIDs or integers, so the human-readable snippet ID
// lives in the payload and the point ID is a UUID derived from it.
func pointID(snippetID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(snippetID)).String()
}

// NextDocumentID assigns the identifier for a new snippet: the category
// plus the running count within that category, e.g. "shipping_003".
func NextDocumentID(category string, countInCategory uint64) string {
	return fmt.Sprintf("%s_%03d", category, countInCategory+1)
}

// Bootstrap ensures the collection exists and seeds it on first run.
// A non-empty index is left untouched, so restarts never re-embed.
func (i *Index) Bootstrap(ctx context.Context) error {
	existing, err := i.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	found := false
	for _, name := range existing {
		if name == i.collection {
			found = true
			break
		}
	}

	if !found {
		err := i.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: i.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     i.vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}

	count, err := i.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		i.logger.Info("Knowledge index already populated",
			zap.Uint64("documents", count),
		)
		return nil
	}

	return i.seed(ctx)
}

func (i *Index) seed(ctx context.Context) error {
	texts := make([]string, len(seedSnippets))
	for n, s := range seedSnippets {
		texts[n] = s.Content
	}

	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed seed documents: %w", err)
	}
	if len(vectors) != len(seedSnippets) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(seedSnippets))
	}

	points := make([]*qdrant.PointStruct, len(seedSnippets))
	for n, s := range seedSnippets {
		points[n] = &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(s.ID)),
			Vectors: qdrant.NewVectors(vectors[n]...),
			Payload: snippetPayload(s),
		}
	}

	_, err = i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: i.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert seed documents: %w", err)
	}

	i.logger.Info("Knowledge index seeded",
		zap.Int("documents", len(seedSnippets)),
	)
	return nil
}

func snippetPayload(s model.Snippet) map[string]*qdrant.Value {
	return qdrant.NewValueMap(map[string]any{
		"snippet_id": s.ID,
		"content":    s.Content,
		"category":   s.Category,
		"topic":      s.Topic,
		"priority":   s.Priority,
	})
}

// Count returns the total number of indexed snippets.
func (i *Index) Count(ctx context.Context) (uint64, error) {
	count, err := i.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: i.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// CountByCategory returns the number of snippets carrying a category tag.
func (i *Index) CountByCategory(ctx context.Context, category string) (uint64, error) {
	count, err := i.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: i.collection,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("category", category),
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents in category: %w", err)
	}
	return count, nil
}

// AddDocument embeds and indexes a new snippet at runtime, assigning its
// deterministic identifier. Snippets are never deleted.
func (i *Index) AddDocument(ctx context.Context, content, category, topic, priority string) (string, error) {
	inCategory, err := i.CountByCategory(ctx, category)
	if err != nil {
		return "", err
	}
	docID := NextDocumentID(category, inCategory)

	vector, err := i.embedder.Embed(ctx, content)
	if err != nil {
		return "", fmt.Errorf("failed to embed document: %w", err)
	}

	snippet := model.Snippet{
		ID:       docID,
		Content:  content,
		Category: category,
		Topic:    topic,
		Priority: priority,
	}

	_, err = i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: i.collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(pointID(docID)),
				Vectors: qdrant.NewVectors(vector...),
				Payload: snippetPayload(snippet),
			},
		},
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upsert document: %w", err)
	}

	i.logger.Info("Knowledge document added",
		zap.String("doc_id", docID),
		zap.String("category", category),
	)
	return docID, nil
}

// Search embeds the query and returns the top-K nearest snippets with
// their cosine similarity scores, best first.
func (i *Index) Search(ctx context.Context, query string, topK int) ([]model.SearchResult, error) {
	vector, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	results := make([]model.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, model.SearchResult{
			Snippet: model.Snippet{
				ID:       payloadString(hit.Payload, "snippet_id"),
				Content:  payloadString(hit.Payload, "content"),
				Category: payloadString(hit.Payload, "category"),
				Topic:    payloadString(hit.Payload, "topic"),
				Priority: payloadString(hit.Payload, "priority"),
			},
			Score: float64(hit.Score),
		})
	}
	return results, nil
}

// StatsByCategory walks the (small) collection and tallies categories,
// for the admin surface.
func (i *Index) StatsByCategory(ctx context.Context) (map[string]uint64, error) {
	points, err := i.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: i.collection,
		Limit:          qdrant.PtrOf(uint32(1024)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scroll index: %w", err)
	}

	stats := make(map[string]uint64)
	for _, p := range points {
		if cat := payloadString(p.Payload, "category"); cat != "" {
			stats[cat]++
		}
	}
	return stats, nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
