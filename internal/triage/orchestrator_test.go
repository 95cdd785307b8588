package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supportpilot/internal/model"
)

type stubClassifier struct {
	category   model.Category
	importance model.Importance
}

func (s *stubClassifier) Categorize(ctx context.Context, subject, body string) model.Category {
	return s.category
}

func (s *stubClassifier) AssessImportance(ctx context.Context, subject, body string) model.Importance {
	return s.importance
}

type stubResponder struct {
	reply string
	ok    bool
}

func (s *stubResponder) Answer(ctx context.Context, question string) (string, bool) {
	return s.reply, s.ok
}

type stubResolver struct {
	reply string
	err   error
}

func (s *stubResolver) Resolve(ctx context.Context, msg *model.Message) (string, error) {
	return s.reply, s.err
}

type recordingAudit struct {
	records []*model.UnhandledRecord
	err     error
}

func (r *recordingAudit) Insert(ctx context.Context, rec *model.UnhandledRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

type recordingMailer struct {
	sent []sentReply
	err  error
}

type sentReply struct {
	account, to, subject, body string
}

func (r *recordingMailer) SendReply(ctx context.Context, account, to, subject, body string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentReply{account, to, subject, body})
	return nil
}

func sampleMessage() *model.Message {
	return &model.Message{
		ID:      "m1",
		Subject: "Shipping question",
		Body:    "How long does shipping take?",
		Sender:  "customer@example.com",
		Account: "support@company.com",
	}
}

func newTestOrchestrator(c Classifier, r Responder, res Resolver, a AuditStore, m Mailer) *Orchestrator {
	return NewOrchestrator(c, r, res, a, m, zap.NewNop())
}

func TestProcessAnsweredQuestionRepliesToSender(t *testing.T) {
	mailer := &recordingMailer{}
	audit := &recordingAudit{}
	o := newTestOrchestrator(
		&stubClassifier{category: model.CategoryQuestion},
		&stubResponder{reply: "It takes 3-5 business days.", ok: true},
		&stubResolver{},
		audit,
		mailer,
	)

	err := o.Process(context.Background(), sampleMessage())

	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "support@company.com", mailer.sent[0].account)
	assert.Equal(t, "customer@example.com", mailer.sent[0].to)
	assert.Equal(t, "Shipping question", mailer.sent[0].subject)
	assert.Empty(t, audit.records)
}

func TestProcessUnanswerableQuestionIsAuditedHigh(t *testing.T) {
	mailer := &recordingMailer{}
	audit := &recordingAudit{}
	o := newTestOrchestrator(
		&stubClassifier{category: model.CategoryQuestion},
		&stubResponder{ok: false},
		&stubResolver{},
		audit,
		mailer,
	)

	err := o.Process(context.Background(), sampleMessage())

	require.NoError(t, err)
	assert.Empty(t, mailer.sent, "unanswerable questions never get a fabricated reply")
	require.Len(t, audit.records, 1)
	assert.Equal(t, model.CategoryQuestion, audit.records[0].Category)
	assert.Equal(t, model.ImportanceHigh, audit.records[0].Importance)
}

func TestProcessRefundSendsResolverReply(t *testing.T) {
	mailer := &recordingMailer{}
	o := newTestOrchestrator(
		&stubClassifier{category: model.CategoryRefund},
		&stubResponder{},
		&stubResolver{reply: "Your refund is approved."},
		&recordingAudit{},
		mailer,
	)

	err := o.Process(context.Background(), sampleMessage())

	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Your refund is approved.", mailer.sent[0].body)
}

func TestProcessRefundStoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("db down")
	mailer := &recordingMailer{}
	o := newTestOrchestrator(
		&stubClassifier{category: model.CategoryRefund},
		&stubResponder{},
		&stubResolver{err: storeErr},
		&recordingAudit{},
		mailer,
	)

	err := o.Process(context.Background(), sampleMessage())

	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, mailer.sent)
}

func TestProcessOtherNeverReplies(t *testing.T) {
	mailer := &recordingMailer{}
	audit := &recordingAudit{}
	o := newTestOrchestrator(
		&stubClassifier{category: model.CategoryOther, importance: model.ImportanceMedium},
		&stubResponder{reply: "should not be used", ok: true},
		&stubResolver{reply: "should not be used"},
		audit,
		mailer,
	)

	err := o.Process(context.Background(), sampleMessage())

	require.NoError(t, err)
	assert.Empty(t, mailer.sent, "OTHER is terminal without outbound mail")
	require.Len(t, audit.records, 1)
	assert.Equal(t, model.CategoryOther, audit.records[0].Category)
	assert.Equal(t, model.ImportanceMedium, audit.records[0].Importance)
}

func TestProcessAuditFailurePropagates(t *testing.T) {
	auditErr := errors.New("insert failed")
	o := newTestOrchestrator(
		&stubClassifier{category: model.CategoryOther, importance: model.ImportanceLow},
		&stubResponder{},
		&stubResolver{},
		&recordingAudit{err: auditErr},
		&recordingMailer{},
	)

	err := o.Process(context.Background(), sampleMessage())
	assert.ErrorIs(t, err, auditErr)
}

func TestProcessDeliveryFailureIsNotFatal(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp 550")}
	o := newTestOrchestrator(
		&stubClassifier{category: model.CategoryQuestion},
		&stubResponder{reply: "answer", ok: true},
		&stubResolver{},
		&recordingAudit{},
		mailer,
	)

	err := o.Process(context.Background(), sampleMessage())
	assert.NoError(t, err, "a lost reply must not fail the message")
}
