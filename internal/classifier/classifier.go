// Package classifier assigns intent categories to inbound messages.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"supportpilot/internal/model"
)

// CompletionClient is the slice of the AI client the classifier needs.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Classifier struct {
	ai     CompletionClient
	logger *zap.Logger
}

func New(ai CompletionClient, logger *zap.Logger) *Classifier {
	return &Classifier{ai: ai, logger: logger}
}

const categorizePrompt = `Categorize this customer support email into exactly one category: QUESTION, REFUND, or OTHER

Subject: %s
Body: %s

Category Definitions:
- QUESTION: Customer is asking for information about:
  * Products, services, features
  * Shipping, delivery, tracking
  * Returns, exchanges, warranties
  * Payment methods, billing, accounts
  * How to do something or get help
  * Policies, procedures, terms
  * Technical support or troubleshooting
  * Any legitimate customer inquiry

- REFUND: Customer is specifically requesting:
  * Money back, refund, reimbursement
  * Cancel order and get refund
  * Return product for money back

- OTHER: Only for:
  * Spam, promotional, marketing emails
  * Completely unrelated to business
  * Nonsense or gibberish content
  * Automated/bot messages

Examples:
- "What credit cards do you accept?" -> QUESTION
- "How long does shipping take?" -> QUESTION
- "Can I return this item?" -> QUESTION
- "I want a refund for order 123" -> REFUND
- "Please refund my money" -> REFUND
- "Buy cheap pills online" -> OTHER

Important: When in doubt between QUESTION and OTHER, choose QUESTION for legitimate customer inquiries.

Response format: Only return the category name (QUESTION, REFUND, or OTHER).`

// Categorize classifies a message. Fails closed: any service error or
// out-of-vocabulary output resolves to QUESTION, never to OTHER and
// never to a crash.
func (c *Classifier) Categorize(ctx context.Context, subject, body string) model.Category {
	prompt := fmt.Sprintf(categorizePrompt, subject, body)

	raw, err := c.ai.Complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("Categorization failed, defaulting to QUESTION",
			zap.String("subject", subject),
			zap.Error(err),
		)
		return model.CategoryQuestion
	}

	category := model.ParseCategory(strings.ToUpper(strings.TrimSpace(raw)))
	c.logger.Debug("Message categorized",
		zap.String("subject", subject),
		zap.String("category", string(category)),
	)
	return category
}

const importancePrompt = `Rate the importance of this email as: low, medium, high

Subject: %s
Body: %s

Consider:
- Urgent complaints or issues: high
- General inquiries that seem legitimate: medium
- Spam, nonsense, or clearly unrelated: low
- Angry or frustrated customers: high
- Technical issues or problems: high

Respond with only the importance level.`

// AssessImportance rates a message for the audit trail. Defaults to low
// on any failure.
func (c *Classifier) AssessImportance(ctx context.Context, subject, body string) model.Importance {
	prompt := fmt.Sprintf(importancePrompt, subject, body)

	raw, err := c.ai.Complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("Importance assessment failed, defaulting to low",
			zap.String("subject", subject),
			zap.Error(err),
		)
		return model.ImportanceLow
	}

	return model.ParseImportance(strings.ToLower(strings.TrimSpace(raw)))
}
