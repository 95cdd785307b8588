package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supportpilot/internal/model"
)

type stubFetcher struct {
	accounts map[string][]*model.Message
	errs     map[string]error
}

func (s *stubFetcher) Accounts() []string {
	out := make([]string, 0, len(s.accounts))
	for a := range s.accounts {
		out = append(out, a)
	}
	return out
}

func (s *stubFetcher) ListUnseen(ctx context.Context, account string) ([]*model.Message, error) {
	if err := s.errs[account]; err != nil {
		return nil, err
	}
	return s.accounts[account], nil
}

type recordingProcessor struct {
	processed []string
	failOn    map[string]error
}

func (r *recordingProcessor) Process(ctx context.Context, msg *model.Message) error {
	if err := r.failOn[msg.ID]; err != nil {
		return err
	}
	r.processed = append(r.processed, msg.ID)
	return nil
}

type memoryMarkers struct {
	seen map[string]bool
	err  error
}

func (m *memoryMarkers) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[messageID] {
		return false, nil
	}
	m.seen[messageID] = true
	return true, nil
}

type passDeduper struct{ blocked map[string]bool }

func (p *passDeduper) AcquireOnce(ctx context.Context, scope, messageID string) bool {
	return !p.blocked[messageID]
}

func newTestPoller(f Fetcher, p Processor, m MarkerStore, d Deduper) *Poller {
	return NewPoller(f, p, m, d, time.Second, 2*time.Second, zap.NewNop())
}

func msg(id string) *model.Message {
	return &model.Message{ID: id, Sender: "c@example.com", Account: "support@company.com"}
}

func TestRunBatchProcessesEachMessageOnce(t *testing.T) {
	fetcher := &stubFetcher{accounts: map[string][]*model.Message{
		"support@company.com": {msg("m1"), msg("m2")},
	}}
	processor := &recordingProcessor{}
	markers := &memoryMarkers{}
	p := newTestPoller(fetcher, processor, markers, &passDeduper{})

	require.NoError(t, p.runBatch(context.Background()))
	assert.ElementsMatch(t, []string{"m1", "m2"}, processor.processed)

	// The same batch reappearing is a no-op: markers are claimed.
	require.NoError(t, p.runBatch(context.Background()))
	assert.Len(t, processor.processed, 2)
}

func TestRunBatchIsolatesPerMessageFailures(t *testing.T) {
	fetcher := &stubFetcher{accounts: map[string][]*model.Message{
		"support@company.com": {msg("bad"), msg("good")},
	}}
	processor := &recordingProcessor{failOn: map[string]error{"bad": errors.New("boom")}}
	p := newTestPoller(fetcher, processor, &memoryMarkers{}, &passDeduper{})

	err := p.runBatch(context.Background())

	assert.NoError(t, err, "a message failure must not fail the batch")
	assert.Contains(t, processor.processed, "good")
}

func TestRunBatchSurfacesFetchFailures(t *testing.T) {
	fetchErr := errors.New("imap timeout")
	fetcher := &stubFetcher{
		accounts: map[string][]*model.Message{"a@company.com": nil},
		errs:     map[string]error{"a@company.com": fetchErr},
	}
	p := newTestPoller(fetcher, &recordingProcessor{}, &memoryMarkers{}, &passDeduper{})

	assert.ErrorIs(t, p.runBatch(context.Background()), fetchErr)
}

func TestHandleMessageSkipsDeduperHit(t *testing.T) {
	processor := &recordingProcessor{}
	markers := &memoryMarkers{}
	p := newTestPoller(&stubFetcher{}, processor, markers, &passDeduper{blocked: map[string]bool{"m1": true}})

	require.NoError(t, p.handleMessage(context.Background(), msg("m1")))
	assert.Empty(t, processor.processed)
	assert.Empty(t, markers.seen, "deduper hit must short-circuit before the marker store")
}

func TestHandleMessageMarkerErrorPropagates(t *testing.T) {
	markerErr := errors.New("db down")
	processor := &recordingProcessor{}
	p := newTestPoller(&stubFetcher{}, processor, &memoryMarkers{err: markerErr}, &passDeduper{})

	assert.ErrorIs(t, p.handleMessage(context.Background(), msg("m1")), markerErr)
	assert.Empty(t, processor.processed, "unclaimed messages are never processed")
}

func TestStartStopToggleRunning(t *testing.T) {
	p := newTestPoller(&stubFetcher{}, &recordingProcessor{}, &memoryMarkers{}, &passDeduper{})

	assert.False(t, p.Running())
	p.Start()
	assert.True(t, p.Running())
	p.Start() // idempotent
	assert.True(t, p.Running())
	p.Stop()
	assert.False(t, p.Running())
	p.Stop() // idempotent
	assert.False(t, p.Running())
}

type countingFetcher struct {
	calls int
}

func (c *countingFetcher) Accounts() []string {
	c.calls++
	return nil
}

func (c *countingFetcher) ListUnseen(ctx context.Context, account string) ([]*model.Message, error) {
	return nil, nil
}

func TestRunSkipsBatchesWhileStopped(t *testing.T) {
	fetcher := &countingFetcher{}
	p := NewPoller(fetcher, &recordingProcessor{}, &memoryMarkers{}, &passDeduper{},
		10*time.Millisecond, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Zero(t, fetcher.calls, "a stopped poller must not fetch")
}

func TestRunRespectsContextCancellation(t *testing.T) {
	p := newTestPoller(&stubFetcher{}, &recordingProcessor{}, &memoryMarkers{}, &passDeduper{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
