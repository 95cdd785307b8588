package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"supportpilot/internal/model"
)

type scriptedClient struct {
	reply string
	err   error
	seen  []string
}

func (s *scriptedClient) Complete(ctx context.Context, prompt string) (string, error) {
	s.seen = append(s.seen, prompt)
	return s.reply, s.err
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  model.Category
	}{
		{"question", "QUESTION", nil, model.CategoryQuestion},
		{"refund", "REFUND", nil, model.CategoryRefund},
		{"other", "OTHER", nil, model.CategoryOther},
		{"lowercase normalized", "refund", nil, model.CategoryRefund},
		{"whitespace trimmed", "  QUESTION\n", nil, model.CategoryQuestion},
		{"out of vocabulary falls to question", "MAYBE_REFUND", nil, model.CategoryQuestion},
		{"empty output falls to question", "", nil, model.CategoryQuestion},
		{"service error fails closed", "", errors.New("rate limited"), model.CategoryQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&scriptedClient{reply: tt.reply, err: tt.err}, zap.NewNop())
			got := c.Categorize(context.Background(), "subject", "body")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategorizePromptCarriesMessage(t *testing.T) {
	client := &scriptedClient{reply: "QUESTION"}
	c := New(client, zap.NewNop())

	c.Categorize(context.Background(), "Shipping time?", "How long to Finland?")

	assert.Len(t, client.seen, 1)
	assert.Contains(t, client.seen[0], "Subject: Shipping time?")
	assert.Contains(t, client.seen[0], "Body: How long to Finland?")
}

func TestAssessImportance(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  model.Importance
	}{
		{"high", "high", nil, model.ImportanceHigh},
		{"medium", "medium", nil, model.ImportanceMedium},
		{"low", "low", nil, model.ImportanceLow},
		{"uppercase normalized", "HIGH", nil, model.ImportanceHigh},
		{"unknown defaults low", "critical", nil, model.ImportanceLow},
		{"service error defaults low", "", errors.New("timeout"), model.ImportanceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&scriptedClient{reply: tt.reply, err: tt.err}, zap.NewNop())
			got := c.AssessImportance(context.Background(), "subject", "body")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategorizeNeverPanicsOnGarbage(t *testing.T) {
	for _, garbage := range []string{"QUESTION REFUND", "1", strings.Repeat("x", 10_000)} {
		c := New(&scriptedClient{reply: garbage}, zap.NewNop())
		got := c.Categorize(context.Background(), "s", "b")
		assert.Equal(t, model.CategoryQuestion, got)
	}
}
