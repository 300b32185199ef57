package service

import (
	"context"
	"testing"
	"time"

	"hiringdesk/core/config"
	"hiringdesk/core/errors"
	"hiringdesk/modules/billing/entity"
	candidateentity "hiringdesk/modules/candidate/entity"
	interviewentity "hiringdesk/modules/interview/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := config.Load()
	require.NoError(t, err)
}

// fakeBillingRepo serves one client and one (pricing, agreement) pair and
// records every write.
type fakeBillingRepo struct {
	client    *entity.InternalClient
	pricing   *entity.InterviewerPricing
	agreement *entity.Agreement

	existingLog *entity.BillingLog

	logCreates      int
	updatedLog      *entity.BillingLog
	records         []*entity.BillingRecord
	amountDueAdds   []float64
	clientLocks     int
	creditsConsumed int
}

func (f *fakeBillingRepo) GetOrCreateLog(ctx context.Context, tx *sqlx.Tx, log *entity.BillingLog) (*entity.BillingLog, bool, error) {
	if f.existingLog != nil {
		return f.existingLog, false, nil
	}
	f.logCreates++
	log.ID = uuid.New()
	return log, true, nil
}

func (f *fakeBillingRepo) UpdateLog(ctx context.Context, tx *sqlx.Tx, log *entity.BillingLog) error {
	f.updatedLog = log
	return nil
}

func (f *fakeBillingRepo) MarkClientLogsPaid(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID, billingMonth time.Time) error {
	return nil
}

func (f *fakeBillingRepo) ListLogsByClientMonth(ctx context.Context, clientID uuid.UUID, billingMonth time.Time) ([]entity.BillingLog, error) {
	return nil, nil
}

func (f *fakeBillingRepo) GetOrCreateRecord(ctx context.Context, tx *sqlx.Tx, record *entity.BillingRecord) (*entity.BillingRecord, bool, error) {
	record.ID = uuid.New()
	f.records = append(f.records, record)
	return record, true, nil
}

func (f *fakeBillingRepo) AddToRecordAmountDue(ctx context.Context, tx *sqlx.Tx, recordID uuid.UUID, delta float64) error {
	f.amountDueAdds = append(f.amountDueAdds, delta)
	return nil
}

func (f *fakeBillingRepo) GetRecordByPublicIDForUpdate(ctx context.Context, tx *sqlx.Tx, publicID uuid.UUID) (*entity.BillingRecord, error) {
	return nil, nil
}

func (f *fakeBillingRepo) GetRecordByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.BillingRecord, error) {
	return nil, nil
}

func (f *fakeBillingRepo) GetRecordForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.BillingRecord, error) {
	return nil, nil
}

func (f *fakeBillingRepo) ApplyRecordPayment(ctx context.Context, tx *sqlx.Tx, recordID uuid.UUID, status entity.RecordStatus, amountWithoutTax, amountWithTax float64) error {
	return nil
}

func (f *fakeBillingRepo) ListRecordsByClient(ctx context.Context, clientID uuid.UUID) ([]entity.BillingRecord, error) {
	return nil, nil
}

func (f *fakeBillingRepo) ListRecordsByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]entity.BillingRecord, error) {
	return nil, nil
}

func (f *fakeBillingRepo) GetPricing(ctx context.Context, experienceLevel string) (*entity.InterviewerPricing, error) {
	return f.pricing, nil
}

func (f *fakeBillingRepo) GetAgreement(ctx context.Context, clientID uuid.UUID, experienceLevel string) (*entity.Agreement, error) {
	return f.agreement, nil
}

func (f *fakeBillingRepo) GetClientByOrganization(ctx context.Context, organizationID uuid.UUID) (*entity.InternalClient, error) {
	return f.client, nil
}

func (f *fakeBillingRepo) GetClientByID(ctx context.Context, id uuid.UUID) (*entity.InternalClient, error) {
	return f.client, nil
}

func (f *fakeBillingRepo) GetClientForUpdate(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID) (*entity.InternalClient, error) {
	f.clientLocks++
	return f.client, nil
}

func (f *fakeBillingRepo) ConsumeFreeInterview(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID) error {
	f.creditsConsumed++
	return nil
}

func newBillingFixture(freeInterviews int) (*fakeBillingRepo, BillingServiceInterface, FeedbackBillingInput) {
	client := &entity.InternalClient{
		OrganizationID: uuid.New(),
		Name:           "Acme",
		BillingEmail:   "billing@acme.example",
		FreeInterviews: freeInterviews,
	}
	client.ID = uuid.New()

	repo := &fakeBillingRepo{
		client:    client,
		pricing:   &entity.InterviewerPricing{ExperienceLevel: "4-7", Price: 1500},
		agreement: &entity.Agreement{ClientID: client.ID, ExperienceLevel: "4-7", Rate: 4000},
	}
	svc := NewBillingService(repo, nil)

	candidate := &candidateentity.Candidate{
		OrganizationID:   client.OrganizationID,
		ExperienceYears:  5,
		ExperienceMonths: 0,
	}
	candidate.ID = uuid.New()

	now := time.Now()
	interview := &interviewentity.Interview{
		CandidateID:   candidate.ID,
		InterviewerID: uuid.New(),
		ScheduledTime: now.Add(-2 * time.Hour),
	}
	interview.ID = uuid.New()

	in := FeedbackBillingInput{
		Interview: interview,
		Candidate: candidate,
		Remark:    candidateentity.StatusRecommended,
		// Submitted within the grace hour, so no fine applies.
		FeedbackGeneratedAt: now.Add(-30 * time.Minute),
		SubmittedAt:         now,
	}
	return repo, svc, in
}

func TestRecordFeedbackBillingFirstCalculation(t *testing.T) {
	loadTestConfig(t)
	repo, svc, in := newBillingFixture(0)

	log, appErr := svc.RecordFeedbackBilling(context.Background(), nil, in)
	require.Nil(t, appErr)

	assert.True(t, log.IsBillingCalculated)
	assert.Equal(t, 4000.0, log.AmountForClient)
	assert.Equal(t, 1500.0, log.AmountForInterviewer)
	assert.Equal(t, entity.ReasonFeedbackSubmitted, log.Reason)
	assert.Zero(t, log.LateFeedbackDeduction)

	require.NotNil(t, repo.updatedLog)
	require.Len(t, repo.records, 2)
	assert.Equal(t, entity.RecordTypeClientBilling, repo.records[0].RecordType)
	assert.Equal(t, 4000.0, repo.records[0].AmountDue)
	assert.Equal(t, entity.RecordTypeInterviewerPayment, repo.records[1].RecordType)
	assert.Equal(t, 1500.0, repo.records[1].AmountDue)
	assert.Zero(t, repo.creditsConsumed)
}

func TestRecordFeedbackBillingFreeCreditZeroesClientCharge(t *testing.T) {
	loadTestConfig(t)
	repo, svc, in := newBillingFixture(1)

	log, appErr := svc.RecordFeedbackBilling(context.Background(), nil, in)
	require.Nil(t, appErr)

	assert.Equal(t, 0.0, log.AmountForClient)
	assert.Equal(t, entity.ReasonFreeFeedback, log.Reason)
	assert.Equal(t, entity.LogStatusPaid, log.Status)
	assert.Equal(t, 1, repo.creditsConsumed)
	require.Len(t, repo.records, 2)
	assert.Equal(t, 0.0, repo.records[0].AmountDue)
	assert.Equal(t, 1500.0, repo.records[1].AmountDue)
}

func TestRecordFeedbackBillingReplayDoesNotBillTwice(t *testing.T) {
	loadTestConfig(t)
	repo, svc, in := newBillingFixture(1)

	existing := &entity.BillingLog{
		InterviewID:          in.Interview.ID,
		ClientID:             repo.client.ID,
		InterviewerID:        in.Interview.InterviewerID,
		AmountForClient:      4000,
		AmountForInterviewer: 1500,
		Reason:               entity.ReasonFeedbackSubmitted,
		IsBillingCalculated:  true,
	}
	existing.ID = uuid.New()
	repo.existingLog = existing

	log, appErr := svc.RecordFeedbackBilling(context.Background(), nil, in)
	require.Nil(t, appErr)

	assert.Equal(t, existing.ID, log.ID)
	assert.Zero(t, repo.logCreates)
	assert.Empty(t, repo.records)
	assert.Empty(t, repo.amountDueAdds)
	assert.Nil(t, repo.updatedLog)
	assert.Zero(t, repo.clientLocks)
	assert.Zero(t, repo.creditsConsumed)
}

func TestRecordFeedbackBillingPricingNotConfigured(t *testing.T) {
	loadTestConfig(t)
	repo, svc, in := newBillingFixture(0)
	repo.pricing = nil

	_, appErr := svc.RecordFeedbackBilling(context.Background(), nil, in)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrPricingNotConfigured, appErr.Code)
	assert.Zero(t, repo.logCreates)
	assert.Empty(t, repo.records)
}
