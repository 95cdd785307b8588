package triage

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"supportpilot/internal/model"
	"supportpilot/pkg/metrics"
	"supportpilot/pkg/trace"
	"supportpilot/pkg/util"
)

// Fetcher enumerates connected accounts and drains their unseen
// messages.
type Fetcher interface {
	Accounts() []string
	ListUnseen(ctx context.Context, account string) ([]*model.Message, error)
}

// Processor runs one message through the triage pipeline.
type Processor interface {
	Process(ctx context.Context, msg *model.Message) error
}

// MarkerStore claims a message ID for processing. The bool reports
// whether this call won the claim; false means the message was already
// handled.
type MarkerStore interface {
	MarkProcessed(ctx context.Context, messageID string) (bool, error)
}

// Deduper is the fast-path duplicate filter in front of the marker
// store. It may report false positives for processing (fail-open); the
// marker store stays authoritative.
type Deduper interface {
	AcquireOnce(ctx context.Context, scope, messageID string) bool
}

// Poller drives the continuous fetch/triage loop across all connected
// accounts.
type Poller struct {
	fetcher   Fetcher
	processor Processor
	markers   MarkerStore
	deduper   Deduper
	interval  time.Duration
	backoff   time.Duration
	running   atomic.Bool
	logger    *zap.Logger
}

func NewPoller(
	fetcher Fetcher,
	processor Processor,
	markers MarkerStore,
	deduper Deduper,
	interval, backoff time.Duration,
	logger *zap.Logger,
) *Poller {
	return &Poller{
		fetcher:   fetcher,
		processor: processor,
		markers:   markers,
		deduper:   deduper,
		interval:  interval,
		backoff:   backoff,
		logger:    logger,
	}
}

// Start enables polling. Safe to call repeatedly.
func (p *Poller) Start() {
	if p.running.CompareAndSwap(false, true) {
		p.logger.Info("Triage polling started")
	}
}

// Stop disables polling after the in-flight batch completes. Messages
// of that batch are never abandoned mid-pipeline.
func (p *Poller) Stop() {
	if p.running.CompareAndSwap(true, false) {
		p.logger.Info("Triage polling stopped")
	}
}

func (p *Poller) Running() bool {
	return p.running.Load()
}

// Run blocks until ctx is cancelled, executing one batch per interval
// while the poller is started. A batch that saw any error extends the
// next sleep to the error backoff.
func (p *Poller) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		wait := p.interval
		if p.running.Load() {
			if err := p.runBatch(ctx); err != nil {
				p.logger.Error("Poll iteration failed", zap.Error(err))
				metrics.PollIterations.WithLabelValues("error").Inc()
				wait = p.backoff
			} else {
				metrics.PollIterations.WithLabelValues("ok").Inc()
			}
		}
		timer.Reset(wait)
	}
}

// runBatch drains every account once. A failure on one message is
// logged and the batch moves on; only fetch-level failures surface as
// the batch error.
func (p *Poller) runBatch(ctx context.Context) error {
	var batchErr error

	for _, account := range p.fetcher.Accounts() {
		messages, err := p.fetcher.ListUnseen(ctx, account)
		if err != nil {
			retryable, errType := util.IsRetryableError(err)
			p.logger.Error("Failed to fetch messages",
				zap.String("account", account),
				zap.String("error_type", errType),
				zap.Bool("retryable", retryable),
				zap.Error(err),
			)
			// Only transient fetch failures push the loop into backoff;
			// waiting longer does not fix a bad credential.
			if retryable {
				batchErr = err
			}
			continue
		}

		for _, msg := range messages {
			if err := p.handleMessage(ctx, msg); err != nil {
				p.logger.Error("Message processing failed",
					zap.String("message_id", msg.ID),
					zap.String("account", account),
					zap.Error(err),
				)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
	return batchErr
}

// handleMessage claims the message and runs it through the pipeline.
// The claim is taken at fetch time, so a crash mid-pipeline drops the
// message rather than double-processing it.
func (p *Poller) handleMessage(ctx context.Context, msg *model.Message) error {
	ctx = trace.WithContext(ctx, trace.GenerateTraceID())

	if p.deduper != nil && !p.deduper.AcquireOnce(ctx, "triage", msg.ID) {
		p.logger.Debug("Message already seen, skipping", zap.String("message_id", msg.ID))
		return nil
	}

	claimed, err := p.markers.MarkProcessed(ctx, msg.ID)
	if err != nil {
		return err
	}
	if !claimed {
		p.logger.Debug("Message already processed, skipping", zap.String("message_id", msg.ID))
		return nil
	}

	return p.processor.Process(ctx, msg)
}
