// Package triage drives the per-message state machine and the poll loop
// that feeds it.
package triage

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"supportpilot/internal/model"
	"supportpilot/pkg/logger"
	"supportpilot/pkg/metrics"
)

// Classifier assigns the intent category and audit importance.
type Classifier interface {
	Categorize(ctx context.Context, subject, body string) model.Category
	AssessImportance(ctx context.Context, subject, body string) model.Importance
}

// Responder answers informational questions, or reports them
// unanswerable.
type Responder interface {
	Answer(ctx context.Context, question string) (string, bool)
}

// Resolver handles refund requests and always produces a reply unless
// the store fails.
type Resolver interface {
	Resolve(ctx context.Context, msg *model.Message) (string, error)
}

// AuditStore is the append-only trail for messages with no automated
// reply.
type AuditStore interface {
	Insert(ctx context.Context, rec *model.UnhandledRecord) error
}

// Mailer delivers outbound replies through the account a message
// arrived on.
type Mailer interface {
	SendReply(ctx context.Context, account, to, subject, body string) error
}

// Orchestrator runs one message through
// FETCHED -> CLASSIFIED -> {ANSWERED | RESOLVED | AUDITED} -> TERMINAL.
type Orchestrator struct {
	classifier Classifier
	responder  Responder
	resolver   Resolver
	audit      AuditStore
	mailer     Mailer
	logger     *zap.Logger
}

func NewOrchestrator(
	classifier Classifier,
	responder Responder,
	resolver Resolver,
	audit AuditStore,
	mailer Mailer,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		responder:  responder,
		resolver:   resolver,
		audit:      audit,
		mailer:     mailer,
		logger:     logger,
	}
}

// Process triages a single message. Store errors are fatal for the
// message and propagate; classification and delivery failures are not.
func (o *Orchestrator) Process(ctx context.Context, msg *model.Message) error {
	log := logger.WithTrace(ctx, o.logger).With(
		zap.String("message_id", msg.ID),
		zap.String("account", msg.Account),
	)

	category := o.classifier.Categorize(ctx, msg.Subject, msg.Body)
	log.Info("Message classified", zap.String("category", string(category)))

	switch category {
	case model.CategoryQuestion:
		return o.processQuestion(ctx, msg, log)
	case model.CategoryRefund:
		return o.processRefund(ctx, msg, log)
	default:
		return o.processOther(ctx, msg, log)
	}
}

func (o *Orchestrator) processQuestion(ctx context.Context, msg *model.Message, log *zap.Logger) error {
	question := strings.TrimSpace(msg.Subject + " " + msg.Body)

	reply, ok := o.responder.Answer(ctx, question)
	if !ok {
		// Unanswerable questions go to the audit trail at high
		// importance instead of getting a reply.
		err := o.audit.Insert(ctx, &model.UnhandledRecord{
			MessageID:  msg.ID,
			Sender:     msg.Sender,
			Subject:    msg.Subject,
			Body:       msg.Body,
			Category:   model.CategoryQuestion,
			Importance: model.ImportanceHigh,
		})
		if err != nil {
			metrics.MessagesProcessed.WithLabelValues(string(model.CategoryQuestion), "error").Inc()
			return err
		}
		log.Info("Question unanswerable, audited")
		metrics.MessagesProcessed.WithLabelValues(string(model.CategoryQuestion), "audited").Inc()
		return nil
	}

	o.deliver(ctx, msg, reply, log)
	metrics.MessagesProcessed.WithLabelValues(string(model.CategoryQuestion), "answered").Inc()
	return nil
}

func (o *Orchestrator) processRefund(ctx context.Context, msg *model.Message, log *zap.Logger) error {
	reply, err := o.resolver.Resolve(ctx, msg)
	if err != nil {
		metrics.MessagesProcessed.WithLabelValues(string(model.CategoryRefund), "error").Inc()
		return err
	}

	o.deliver(ctx, msg, reply, log)
	metrics.MessagesProcessed.WithLabelValues(string(model.CategoryRefund), "resolved").Inc()
	return nil
}

func (o *Orchestrator) processOther(ctx context.Context, msg *model.Message, log *zap.Logger) error {
	// OTHER never sends outbound mail; it is rated and audited only.
	importance := o.classifier.AssessImportance(ctx, msg.Subject, msg.Body)

	err := o.audit.Insert(ctx, &model.UnhandledRecord{
		MessageID:  msg.ID,
		Sender:     msg.Sender,
		Subject:    msg.Subject,
		Body:       msg.Body,
		Category:   model.CategoryOther,
		Importance: importance,
	})
	if err != nil {
		metrics.MessagesProcessed.WithLabelValues(string(model.CategoryOther), "error").Inc()
		return err
	}

	log.Info("Message audited without reply",
		zap.String("importance", string(importance)),
	)
	metrics.MessagesProcessed.WithLabelValues(string(model.CategoryOther), "audited").Inc()
	return nil
}

// deliver sends the reply best-effort. A delivery failure is logged and
// the reply is lost; store mutations already committed are never rolled
// back.
func (o *Orchestrator) deliver(ctx context.Context, msg *model.Message, reply string, log *zap.Logger) {
	if err := o.mailer.SendReply(ctx, msg.Account, msg.Sender, msg.Subject, reply); err != nil {
		log.Error("Failed to deliver reply", zap.Error(err))
		metrics.RepliesSent.WithLabelValues("failed").Inc()
		return
	}
	log.Info("Reply delivered", zap.String("to", msg.Sender))
	metrics.RepliesSent.WithLabelValues("success").Inc()
}
