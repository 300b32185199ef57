package service

import (
	"context"
	goerrors "errors"
	"testing"
	"time"

	"hiringdesk/core/database"
	apperrors "hiringdesk/core/errors"
	"hiringdesk/core/tasks"
	"hiringdesk/externals/payment"
	billingentity "hiringdesk/modules/billing/entity"
	"hiringdesk/modules/payment/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB runs the transaction body directly; the fakes below ignore tx.
type fakeDB struct {
	database.IDatabase
	txCalls int
}

func (f *fakeDB) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	f.txCalls++
	return fn(nil)
}

// fakeReplayStore answers SetNX with a canned result and records every key
// it sees.
type fakeReplayStore struct {
	fresh       bool
	setKeys     []string
	deletedKeys []string
}

func (f *fakeReplayStore) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.setKeys = append(f.setKeys, key)
	return redis.NewBoolResult(f.fresh, nil)
}

func (f *fakeReplayStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.deletedKeys = append(f.deletedKeys, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

type fakeGateway struct {
	signatureValid bool
}

func (f *fakeGateway) CreateLink(ctx context.Context, req payment.LinkRequest) (*payment.Link, error) {
	return nil, goerrors.New("not under test")
}

func (f *fakeGateway) VerifyWebhookSignature(timestamp string, body []byte, signature string) bool {
	return f.signatureValid
}

type fakePayments struct {
	stored  *entity.BillPayment
	loadErr error
	applied *entity.BillPayment
}

func (f *fakePayments) Create(ctx context.Context, p *entity.BillPayment) (*entity.BillPayment, error) {
	return p, nil
}

func (f *fakePayments) GetByLinkID(ctx context.Context, linkID string) (*entity.BillPayment, error) {
	return f.stored, nil
}

func (f *fakePayments) GetByLinkIDForUpdate(ctx context.Context, tx *sqlx.Tx, linkID string) (*entity.BillPayment, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.stored, nil
}

func (f *fakePayments) LatestPendingByRecord(ctx context.Context, recordID uuid.UUID) (*entity.BillPayment, error) {
	return nil, nil
}

func (f *fakePayments) MarkInactive(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakePayments) ApplyWebhook(ctx context.Context, tx *sqlx.Tx, p *entity.BillPayment) error {
	f.applied = p
	return nil
}

func (f *fakePayments) ListByRecord(ctx context.Context, recordID uuid.UUID) ([]entity.BillPayment, error) {
	return nil, nil
}

type fakeBillingRepo struct {
	record *billingentity.BillingRecord
	client *billingentity.InternalClient

	recordPayments int
	logsSettled    int
}

func (f *fakeBillingRepo) GetOrCreateLog(ctx context.Context, tx *sqlx.Tx, log *billingentity.BillingLog) (*billingentity.BillingLog, bool, error) {
	return log, true, nil
}

func (f *fakeBillingRepo) UpdateLog(ctx context.Context, tx *sqlx.Tx, log *billingentity.BillingLog) error {
	return nil
}

func (f *fakeBillingRepo) MarkClientLogsPaid(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID, billingMonth time.Time) error {
	f.logsSettled++
	return nil
}

func (f *fakeBillingRepo) ListLogsByClientMonth(ctx context.Context, clientID uuid.UUID, billingMonth time.Time) ([]billingentity.BillingLog, error) {
	return nil, nil
}

func (f *fakeBillingRepo) GetOrCreateRecord(ctx context.Context, tx *sqlx.Tx, record *billingentity.BillingRecord) (*billingentity.BillingRecord, bool, error) {
	return record, true, nil
}

func (f *fakeBillingRepo) AddToRecordAmountDue(ctx context.Context, tx *sqlx.Tx, recordID uuid.UUID, delta float64) error {
	return nil
}

func (f *fakeBillingRepo) GetRecordByPublicIDForUpdate(ctx context.Context, tx *sqlx.Tx, publicID uuid.UUID) (*billingentity.BillingRecord, error) {
	return f.record, nil
}

func (f *fakeBillingRepo) GetRecordByPublicID(ctx context.Context, publicID uuid.UUID) (*billingentity.BillingRecord, error) {
	return f.record, nil
}

func (f *fakeBillingRepo) GetRecordForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*billingentity.BillingRecord, error) {
	return f.record, nil
}

func (f *fakeBillingRepo) ApplyRecordPayment(ctx context.Context, tx *sqlx.Tx, recordID uuid.UUID, status billingentity.RecordStatus, amountWithoutTax, amountWithTax float64) error {
	f.recordPayments++
	return nil
}

func (f *fakeBillingRepo) ListRecordsByClient(ctx context.Context, clientID uuid.UUID) ([]billingentity.BillingRecord, error) {
	return nil, nil
}

func (f *fakeBillingRepo) ListRecordsByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]billingentity.BillingRecord, error) {
	return nil, nil
}

func (f *fakeBillingRepo) GetPricing(ctx context.Context, experienceLevel string) (*billingentity.InterviewerPricing, error) {
	return nil, nil
}

func (f *fakeBillingRepo) GetAgreement(ctx context.Context, clientID uuid.UUID, experienceLevel string) (*billingentity.Agreement, error) {
	return nil, nil
}

func (f *fakeBillingRepo) GetClientByOrganization(ctx context.Context, organizationID uuid.UUID) (*billingentity.InternalClient, error) {
	return f.client, nil
}

func (f *fakeBillingRepo) GetClientByID(ctx context.Context, id uuid.UUID) (*billingentity.InternalClient, error) {
	return f.client, nil
}

func (f *fakeBillingRepo) GetClientForUpdate(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID) (*billingentity.InternalClient, error) {
	return f.client, nil
}

func (f *fakeBillingRepo) ConsumeFreeInterview(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID) error {
	return nil
}

type fakeDispatcher struct {
	sent []tasks.SendManyPayload
}

func (f *fakeDispatcher) SendMany(ctx context.Context, payload tasks.SendManyPayload) error {
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeDispatcher) ProvisionMeeting(ctx context.Context, payload tasks.ProvisionMeetingPayload) error {
	return nil
}

func (f *fakeDispatcher) CancelMeeting(ctx context.Context, payload tasks.CancelMeetingPayload) error {
	return nil
}

func (f *fakeDispatcher) GenerateFeedbackPDF(ctx context.Context, payload tasks.GenerateFeedbackPDFPayload) error {
	return nil
}

type webhookFixture struct {
	db       *fakeDB
	replay   *fakeReplayStore
	gateway  *fakeGateway
	payments *fakePayments
	billing  *fakeBillingRepo
	mail     *fakeDispatcher
	svc      PaymentServiceInterface
}

func newWebhookFixture() *webhookFixture {
	clientID := uuid.New()
	client := &billingentity.InternalClient{
		OrganizationID: uuid.New(),
		Name:           "Acme",
		BillingEmail:   "billing@acme.example",
	}
	client.ID = clientID

	record := &billingentity.BillingRecord{
		PublicID:     uuid.New(),
		BillingMonth: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		RecordType:   billingentity.RecordTypeClientBilling,
		Status:       billingentity.RecordStatusPending,
		AmountDue:    4000,
		ClientID:     &clientID,
	}
	record.ID = uuid.New()

	stored := &entity.BillPayment{
		BillingRecordID: record.ID,
		LinkID:          "rec-abc-1",
		Amount:          4000,
		AmountWithTax:   4720,
		Status:          entity.StatusPending,
		ExpiresAt:       time.Now().Add(24 * time.Hour),
	}
	stored.ID = uuid.New()

	f := &webhookFixture{
		db:       &fakeDB{},
		replay:   &fakeReplayStore{fresh: true},
		gateway:  &fakeGateway{signatureValid: true},
		payments: &fakePayments{stored: stored},
		billing:  &fakeBillingRepo{record: record, client: client},
		mail:     &fakeDispatcher{},
	}
	f.svc = NewPaymentService(f.db, f.payments, f.billing, f.gateway, f.replay, f.mail)
	return f
}

const paidWebhookBody = `{
	"data": {
		"link": {"link_id": "rec-abc-1", "link_status": "PAID", "link_amount_paid": 4720},
		"order": {"transaction": {"cf_payment_id": 991, "payment_status": "SUCCESS", "payment_time": "2026-01-10T10:00:00Z"}}
	}
}`

func TestApplyWebhookSettlesPayment(t *testing.T) {
	f := newWebhookFixture()

	appErr := f.svc.ApplyWebhook(context.Background(), "1700000000", "sig", []byte(paidWebhookBody))
	require.Nil(t, appErr)

	require.NotNil(t, f.payments.applied)
	assert.Equal(t, entity.StatusSuccess, f.payments.applied.Status)
	assert.Equal(t, 1, f.billing.recordPayments)
	assert.Equal(t, 1, f.billing.logsSettled)
	assert.Empty(t, f.replay.deletedKeys)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "payment_received", f.mail.sent[0].DefaultTemplate)
	require.Len(t, f.mail.sent[0].Contexts, 1)
	assert.Equal(t, "billing@acme.example", f.mail.sent[0].Contexts[0].Email)
}

func TestApplyWebhookReleasesGuardWhenSettlementFails(t *testing.T) {
	f := newWebhookFixture()
	f.payments.loadErr = goerrors.New("deadlock detected")

	appErr := f.svc.ApplyWebhook(context.Background(), "1700000000", "sig", []byte(paidWebhookBody))
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrInternalServer, appErr.Code)

	// The guard key must be released so the gateway's retry is not treated
	// as a replay of an event we never settled.
	require.Len(t, f.replay.setKeys, 1)
	assert.Equal(t, f.replay.setKeys, f.replay.deletedKeys)
	assert.Empty(t, f.mail.sent)
}

func TestApplyWebhookDropsReplayedEvent(t *testing.T) {
	f := newWebhookFixture()
	f.replay.fresh = false

	appErr := f.svc.ApplyWebhook(context.Background(), "1700000000", "sig", []byte(paidWebhookBody))
	require.Nil(t, appErr)

	assert.Zero(t, f.db.txCalls)
	assert.Nil(t, f.payments.applied)
	assert.Empty(t, f.replay.deletedKeys)
}

func TestApplyWebhookRejectsBadSignature(t *testing.T) {
	f := newWebhookFixture()
	f.gateway.signatureValid = false

	appErr := f.svc.ApplyWebhook(context.Background(), "1700000000", "sig", []byte(paidWebhookBody))
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
	assert.Empty(t, f.replay.setKeys)
	assert.Zero(t, f.db.txCalls)
}
