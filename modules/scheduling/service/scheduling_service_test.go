package service

import (
	"context"
	"testing"
	"time"

	"hiringdesk/core/database"
	"hiringdesk/core/errors"
	"hiringdesk/core/tasks"
	availabilityentity "hiringdesk/modules/availability/entity"
	availabilityrepo "hiringdesk/modules/availability/repository"
	billingdto "hiringdesk/modules/billing/dto"
	billingentity "hiringdesk/modules/billing/entity"
	billingservice "hiringdesk/modules/billing/service"
	candidateentity "hiringdesk/modules/candidate/entity"
	interviewentity "hiringdesk/modules/interview/entity"
	"hiringdesk/modules/scheduling/dto"
	"hiringdesk/modules/scheduling/entity"
	userentity "hiringdesk/modules/user/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDB runs the transaction body directly; the fakes below ignore tx.
type stubDB struct {
	database.IDatabase
}

func (s *stubDB) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type stubCandidates struct {
	candidate *candidateentity.Candidate
	updated   *candidateentity.Candidate
}

func (s *stubCandidates) GetByID(ctx context.Context, id uuid.UUID) (*candidateentity.Candidate, error) {
	return s.candidate, nil
}

func (s *stubCandidates) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*candidateentity.Candidate, error) {
	return s.candidate, nil
}

func (s *stubCandidates) Update(ctx context.Context, tx *sqlx.Tx, candidate *candidateentity.Candidate) error {
	s.updated = candidate
	return nil
}

func (s *stubCandidates) NextRoundAfter(ctx context.Context, jobID uuid.UUID, sequenceNumber int) (*candidateentity.JobRound, error) {
	return nil, nil
}

func (s *stubCandidates) GetRoundByID(ctx context.Context, id uuid.UUID) (*candidateentity.JobRound, error) {
	return nil, nil
}

func (s *stubCandidates) GetJobByID(ctx context.Context, id uuid.UUID) (*candidateentity.Job, error) {
	return nil, nil
}

type stubAvailability struct {
	open     []availabilityentity.AvailabilitySlot
	slot     *availabilityentity.AvailabilitySlot
	claimErr error
	claimed  []uuid.UUID
	released []uuid.UUID
}

func (s *stubAvailability) Create(ctx context.Context, slot *availabilityentity.AvailabilitySlot) (*availabilityentity.AvailabilitySlot, error) {
	return slot, nil
}

func (s *stubAvailability) GetByID(ctx context.Context, id uuid.UUID) (*availabilityentity.AvailabilitySlot, error) {
	return s.slot, nil
}

func (s *stubAvailability) GetOpenByIDs(ctx context.Context, ids []uuid.UUID) ([]availabilityentity.AvailabilitySlot, error) {
	return s.open, nil
}

func (s *stubAvailability) ListByInterviewer(ctx context.Context, interviewerID uuid.UUID, from time.Time) ([]availabilityentity.AvailabilitySlot, error) {
	return nil, nil
}

func (s *stubAvailability) ListOverlapping(ctx context.Context, interviewerID uuid.UUID, window availabilityentity.Window) ([]availabilityentity.AvailabilitySlot, error) {
	return nil, nil
}

func (s *stubAvailability) ClaimSlot(ctx context.Context, tx *sqlx.Tx, slotID, claimantID uuid.UUID, window availabilityentity.Window) (*availabilityentity.AvailabilitySlot, []availabilityentity.AvailabilitySlot, error) {
	if s.claimErr != nil {
		return nil, nil, s.claimErr
	}
	s.claimed = append(s.claimed, slotID)
	return s.slot, nil, nil
}

func (s *stubAvailability) ReleaseSlot(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID) error {
	s.released = append(s.released, slotID)
	return nil
}

func (s *stubAvailability) SetCalendarEventID(ctx context.Context, slotID uuid.UUID, eventID string) error {
	return nil
}

func (s *stubAvailability) Archive(ctx context.Context, slotID, interviewerID uuid.UUID) error {
	return nil
}

type stubInterviews struct {
	previous      *interviewentity.Interview
	busy          bool
	created       *interviewentity.Interview
	statusUpdates []candidateentity.Status
}

func (s *stubInterviews) Create(ctx context.Context, tx *sqlx.Tx, interview *interviewentity.Interview) (*interviewentity.Interview, error) {
	interview.ID = uuid.New()
	s.created = interview
	return interview, nil
}

func (s *stubInterviews) GetByID(ctx context.Context, id uuid.UUID) (*interviewentity.Interview, error) {
	return s.created, nil
}

func (s *stubInterviews) LatestConfirmedByCandidate(ctx context.Context, candidateID uuid.UUID) (*interviewentity.Interview, error) {
	return s.previous, nil
}

func (s *stubInterviews) LatestConfirmedByCandidateForUpdate(ctx context.Context, tx *sqlx.Tx, candidateID uuid.UUID) (*interviewentity.Interview, error) {
	return s.previous, nil
}

func (s *stubInterviews) HasConfirmedWithinBuffer(ctx context.Context, tx *sqlx.Tx, interviewerID uuid.UUID, window availabilityentity.Window) (bool, error) {
	return s.busy, nil
}

func (s *stubInterviews) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status candidateentity.Status, remark *string) error {
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

func (s *stubInterviews) SetMeeting(ctx context.Context, id uuid.UUID, meetingLink, calendarEventID string) error {
	return nil
}

func (s *stubInterviews) MarkBillingCalculated(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	return nil
}

func (s *stubInterviews) ListByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]interviewentity.Interview, error) {
	return nil, nil
}

func (s *stubInterviews) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]interviewentity.Interview, error) {
	return nil, nil
}

type stubAttempts struct {
	latest  *entity.ScheduleAttempt
	created *entity.ScheduleAttempt
}

func (s *stubAttempts) Create(ctx context.Context, tx *sqlx.Tx, attempt *entity.ScheduleAttempt) (*entity.ScheduleAttempt, error) {
	attempt.ID = uuid.New()
	s.created = attempt
	return attempt, nil
}

func (s *stubAttempts) LatestByCandidate(ctx context.Context, tx *sqlx.Tx, candidateID uuid.UUID) (*entity.ScheduleAttempt, error) {
	return s.latest, nil
}

type stubBilling struct {
	ownerID   *uuid.UUID
	lateCalls int
}

func (s *stubBilling) RecordFeedbackBilling(ctx context.Context, tx *sqlx.Tx, in billingservice.FeedbackBillingInput) (*billingentity.BillingLog, *errors.AppError) {
	return nil, nil
}

func (s *stubBilling) RecordLateReschedule(ctx context.Context, tx *sqlx.Tx, interview *interviewentity.Interview, candidate *candidateentity.Candidate) *errors.AppError {
	s.lateCalls++
	return nil
}

func (s *stubBilling) AccountOwner(ctx context.Context, organizationID uuid.UUID) (*uuid.UUID, *errors.AppError) {
	return s.ownerID, nil
}

func (s *stubBilling) GetClientRecords(ctx context.Context, userID uuid.UUID) ([]billingdto.RecordResponse, *errors.AppError) {
	return nil, nil
}

func (s *stubBilling) GetInterviewerRecords(ctx context.Context, interviewerID uuid.UUID) ([]billingdto.RecordResponse, *errors.AppError) {
	return nil, nil
}

type stubUsers struct {
	users map[uuid.UUID]*userentity.User
}

func (s *stubUsers) GetByID(ctx context.Context, id uuid.UUID) (*userentity.User, error) {
	return s.users[id], nil
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*userentity.User, error) {
	return nil, nil
}

func (s *stubUsers) Create(ctx context.Context, user *userentity.User) (*userentity.User, error) {
	return user, nil
}

type stubDispatcher struct {
	sent        []tasks.SendManyPayload
	provisioned []tasks.ProvisionMeetingPayload
	cancelled   []tasks.CancelMeetingPayload
	pdfs        []tasks.GenerateFeedbackPDFPayload
}

func (s *stubDispatcher) SendMany(ctx context.Context, payload tasks.SendManyPayload) error {
	s.sent = append(s.sent, payload)
	return nil
}

func (s *stubDispatcher) ProvisionMeeting(ctx context.Context, payload tasks.ProvisionMeetingPayload) error {
	s.provisioned = append(s.provisioned, payload)
	return nil
}

func (s *stubDispatcher) CancelMeeting(ctx context.Context, payload tasks.CancelMeetingPayload) error {
	s.cancelled = append(s.cancelled, payload)
	return nil
}

func (s *stubDispatcher) GenerateFeedbackPDF(ctx context.Context, payload tasks.GenerateFeedbackPDFPayload) error {
	s.pdfs = append(s.pdfs, payload)
	return nil
}

type fixture struct {
	svc          SchedulingServiceInterface
	candidates   *stubCandidates
	availability *stubAvailability
	interviews   *stubInterviews
	attempts     *stubAttempts
	billing      *stubBilling
	users        *stubUsers
	dispatcher   *stubDispatcher
}

func newFixture() *fixture {
	f := &fixture{
		candidates:   &stubCandidates{},
		availability: &stubAvailability{},
		interviews:   &stubInterviews{},
		attempts:     &stubAttempts{},
		billing:      &stubBilling{},
		users:        &stubUsers{users: map[uuid.UUID]*userentity.User{}},
		dispatcher:   &stubDispatcher{},
	}
	f.svc = NewSchedulingService(&stubDB{}, f.candidates, f.availability, f.interviews, f.attempts, f.billing, f.users, f.dispatcher)
	return f
}

func (f *fixture) addUser(id uuid.UUID, name, email string) {
	user := &userentity.User{Name: name, Email: email}
	user.ID = id
	f.users.users[id] = user
}

func acceptToken(t *testing.T, slotID, candidateID, attemptID, bookedBy uuid.UUID, scheduleTime time.Time) string {
	t.Helper()
	token, err := GenerateRespondToken(slotID, candidateID, attemptID, bookedBy, scheduleTime, ActionAccept)
	require.NoError(t, err)
	return token
}

func TestRespondFirstAcceptWins(t *testing.T) {
	loadTestConfig(t)
	f := newFixture()

	slotID := uuid.New()
	candidateID := uuid.New()
	bookedBy := uuid.New()
	interviewerID := uuid.New()
	ownerID := uuid.New()
	scheduleTime := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	candidate := &candidateentity.Candidate{
		OrganizationID: uuid.New(),
		Name:           "Priya Sharma",
		Email:          "priya@example.com",
		Status:         candidateentity.StatusScheduled,
	}
	candidate.ID = candidateID
	f.candidates.candidate = candidate

	slot := &availabilityentity.AvailabilitySlot{InterviewerID: interviewerID}
	slot.ID = slotID
	f.availability.slot = slot

	attempt := &entity.ScheduleAttempt{CandidateID: candidateID, BookedBy: bookedBy, ScheduleTime: scheduleTime}
	attempt.ID = uuid.New()
	f.attempts.latest = attempt

	f.billing.ownerID = &ownerID
	f.addUser(interviewerID, "Ravi", "ravi@example.com")
	f.addUser(bookedBy, "Asha", "asha@example.com")
	f.addUser(ownerID, "Dev", "dev@example.com")

	token := acceptToken(t, slotID, candidateID, attempt.ID, bookedBy, scheduleTime)
	resp, appErr := f.svc.Respond(context.Background(), token)

	require.Nil(t, appErr)
	require.NotNil(t, resp.InterviewID)
	require.NotNil(t, f.interviews.created)
	assert.Equal(t, candidateentity.StatusCompleteScheduled, f.interviews.created.Status)
	assert.Equal(t, interviewerID, f.interviews.created.InterviewerID)
	assert.Equal(t, candidateentity.StatusCompleteScheduled, f.candidates.updated.Status)
	assert.Equal(t, []uuid.UUID{slotID}, f.availability.claimed)
	require.Len(t, f.dispatcher.provisioned, 1)

	// Candidate, interviewer, recruiter and the client's account owner all
	// hear about the booking.
	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, "interview_confirmed", f.dispatcher.sent[0].DefaultTemplate)
	emails := make([]string, 0, 4)
	for _, recipient := range f.dispatcher.sent[0].Contexts {
		emails = append(emails, recipient.Email)
	}
	assert.ElementsMatch(t, []string{"priya@example.com", "ravi@example.com", "asha@example.com", "dev@example.com"}, emails)
}

func TestRespondRejectIsAcknowledgedWithoutStateChange(t *testing.T) {
	loadTestConfig(t)
	f := newFixture()

	token, err := GenerateRespondToken(uuid.New(), uuid.New(), uuid.New(), uuid.New(), time.Now().Add(time.Hour), ActionReject)
	require.NoError(t, err)

	resp, appErr := f.svc.Respond(context.Background(), token)
	require.Nil(t, appErr)
	assert.Nil(t, resp.InterviewID)
	assert.Nil(t, f.interviews.created)
	assert.Empty(t, f.availability.claimed)
}

func TestRespondSlotAlreadyClaimed(t *testing.T) {
	loadTestConfig(t)
	f := newFixture()
	f.availability.claimErr = availabilityrepo.ErrAlreadyClaimed

	token := acceptToken(t, uuid.New(), uuid.New(), uuid.New(), uuid.New(), time.Now().Add(time.Hour))
	_, appErr := f.svc.Respond(context.Background(), token)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAlreadyClaimed, appErr.Code)
	assert.Nil(t, f.interviews.created)
	assert.Empty(t, f.dispatcher.provisioned)
}

func TestRespondInterviewerCalendarConflict(t *testing.T) {
	loadTestConfig(t)
	f := newFixture()
	slot := &availabilityentity.AvailabilitySlot{InterviewerID: uuid.New()}
	slot.ID = uuid.New()
	f.availability.slot = slot
	f.interviews.busy = true

	token := acceptToken(t, slot.ID, uuid.New(), uuid.New(), uuid.New(), time.Now().Add(time.Hour))
	_, appErr := f.svc.Respond(context.Background(), token)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	assert.Nil(t, f.interviews.created)
}

func TestRespondSupersededWhenRoundClosed(t *testing.T) {
	loadTestConfig(t)
	f := newFixture()
	slot := &availabilityentity.AvailabilitySlot{InterviewerID: uuid.New()}
	slot.ID = uuid.New()
	f.availability.slot = slot

	// Another interviewer already accepted: the candidate left SCH.
	candidate := &candidateentity.Candidate{Status: candidateentity.StatusCompleteScheduled}
	candidate.ID = uuid.New()
	f.candidates.candidate = candidate

	token := acceptToken(t, slot.ID, candidate.ID, uuid.New(), uuid.New(), time.Now().Add(time.Hour))
	_, appErr := f.svc.Respond(context.Background(), token)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrSuperseded, appErr.Code)
	assert.Nil(t, f.interviews.created)
}

func TestRespondSupersededByNewerAttempt(t *testing.T) {
	loadTestConfig(t)
	f := newFixture()
	slot := &availabilityentity.AvailabilitySlot{InterviewerID: uuid.New()}
	slot.ID = uuid.New()
	f.availability.slot = slot

	candidate := &candidateentity.Candidate{Status: candidateentity.StatusScheduled}
	candidate.ID = uuid.New()
	f.candidates.candidate = candidate

	newer := &entity.ScheduleAttempt{CandidateID: candidate.ID}
	newer.ID = uuid.New()
	f.attempts.latest = newer

	staleAttemptID := uuid.New()
	token := acceptToken(t, slot.ID, candidate.ID, staleAttemptID, uuid.New(), time.Now().Add(time.Hour))
	_, appErr := f.svc.Respond(context.Background(), token)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrSuperseded, appErr.Code)
	assert.Nil(t, f.interviews.created)
}

func TestInitiateLateRescheduleBoundary(t *testing.T) {
	loadTestConfig(t)

	run := func(t *testing.T, untilStart time.Duration) *fixture {
		t.Helper()
		f := newFixture()

		candidateID := uuid.New()
		interviewerID := uuid.New()
		candidate := &candidateentity.Candidate{
			OrganizationID: uuid.New(),
			Name:           "Lee",
			Email:          "lee@example.com",
			Status:         candidateentity.StatusCompleteScheduled,
		}
		candidate.ID = candidateID
		f.candidates.candidate = candidate

		eventID := "evt-123"
		previous := &interviewentity.Interview{
			CandidateID:     candidateID,
			InterviewerID:   interviewerID,
			SlotID:          uuid.New(),
			ScheduledTime:   time.Now().Add(untilStart),
			Status:          candidateentity.StatusCompleteScheduled,
			CalendarEventID: &eventID,
		}
		previous.ID = uuid.New()
		f.interviews.previous = previous

		scheduleTime := time.Now().Add(48 * time.Hour).Truncate(time.Second)
		slot := availabilityentity.AvailabilitySlot{
			InterviewerID: interviewerID,
			StartTime:     scheduleTime.Add(-time.Hour),
			EndTime:       scheduleTime.Add(2 * time.Hour),
		}
		slot.ID = uuid.New()
		f.availability.open = []availabilityentity.AvailabilitySlot{slot}
		f.addUser(interviewerID, "Ravi", "ravi@example.com")

		resp, appErr := f.svc.Initiate(context.Background(), uuid.New(), &dto.InitiateRequest{
			CandidateID:  candidateID.String(),
			ScheduleTime: scheduleTime.Format(time.RFC3339),
			SlotIDs:      []string{slot.ID.String()},
		})
		require.Nil(t, appErr)
		assert.Equal(t, string(candidateentity.StatusScheduled), resp.CandidateStatus)
		assert.Equal(t, []uuid.UUID{previous.SlotID}, f.availability.released)
		assert.Contains(t, f.interviews.statusUpdates, candidateentity.StatusRescheduled)
		return f
	}

	t.Run("two hours out charges both parties", func(t *testing.T) {
		f := run(t, 2*time.Hour)
		assert.Equal(t, 1, f.billing.lateCalls)
		require.Len(t, f.dispatcher.cancelled, 1)
		assert.Equal(t, "evt-123", f.dispatcher.cancelled[0].EventID)
	})

	t.Run("five hours out cancels for free", func(t *testing.T) {
		f := run(t, 5*time.Hour)
		assert.Equal(t, 0, f.billing.lateCalls)
	})
}
