// Package refund resolves refund requests against the order store.
package refund

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"supportpilot/internal/model"
)

// orderRefPattern matches an alphanumeric token prefixed ORD or ORDER
// followed by digits, or any bare run of 6+ digits. The first match in
// left-to-right scan order wins; multiple candidates are not
// disambiguated.
var orderRefPattern = regexp.MustCompile(`\b(ORD\d+|ORDER\d+|\d{6,})\b`)

// OrderStore is the transactional slice of the message store the
// resolver mutates.
type OrderStore interface {
	FindByReference(ctx context.Context, ref string) (*model.Order, bool, error)
	ApproveRefund(ctx context.Context, ref string, msg *model.Message) error
}

// AttemptStore records refund requests whose reference matched nothing.
type AttemptStore interface {
	RecordNotFound(ctx context.Context, msg *model.Message, attemptedRef string) (prior int, err error)
}

type Resolver struct {
	orders   OrderStore
	attempts AttemptStore
	logger   *zap.Logger
}

func New(orders OrderStore, attempts AttemptStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		orders:   orders,
		attempts: attempts,
		logger:   logger,
	}
}

// extractReference scans the case-normalized body for an order
// reference. Returns "" when nothing matches.
func extractReference(body string) string {
	return orderRefPattern.FindString(strings.ToUpper(body))
}

const askForReferenceReply = `Hello,

Thank you for contacting us regarding your refund request.

To process your refund, please provide your order ID (e.g., ORD001).

Best regards,
Customer Support`

// Resolve handles a REFUND-classified message and always produces a
// reply; asking for a missing reference is a terminal reply, not a
// retry loop. A store error is fatal for this message and propagates.
func (r *Resolver) Resolve(ctx context.Context, msg *model.Message) (string, error) {
	ref := extractReference(msg.Body)
	if ref == "" {
		r.logger.Info("Refund request without order reference",
			zap.String("message_id", msg.ID),
			zap.String("sender", msg.Sender),
		)
		return askForReferenceReply, nil
	}

	_, found, err := r.orders.FindByReference(ctx, ref)
	if err != nil {
		return "", err
	}

	if found {
		if err := r.orders.ApproveRefund(ctx, ref, msg); err != nil {
			return "", err
		}
		r.logger.Info("Refund approved",
			zap.String("message_id", msg.ID),
			zap.String("order_ref", ref),
		)
		return approvedReply(ref), nil
	}

	prior, err := r.attempts.RecordNotFound(ctx, msg, ref)
	if err != nil {
		return "", err
	}
	r.logger.Info("Refund reference not found",
		zap.String("message_id", msg.ID),
		zap.String("attempted_ref", ref),
		zap.Int("prior_attempts", prior),
	)
	return notFoundReply(ref), nil
}

func approvedReply(ref string) string {
	return fmt.Sprintf(`Hello,

Your refund request for order %s has been received and approved.

The refund will be processed within 3 business days and will appear on your original payment method.

Best regards,
Customer Support`, ref)
}

func notFoundReply(ref string) string {
	return fmt.Sprintf(`Hello,

We could not find order %s in our system. Please double-check your order ID and try again.

You can find your order ID in your purchase confirmation email.

Best regards,
Customer Support`, ref)
}
