package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mentorhub/config"
	disputeRepo "mentorhub/database/repository/dispute"
	paymentRepo "mentorhub/database/repository/payment"
	sessionRepo "mentorhub/database/repository/session"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testConfig() {
	config.AppConfig.CommissionRate = 0.15
	config.AppConfig.PayoutHoldHours = 72
	config.AppConfig.DisputeWindowDays = 3
}

type fakePayments struct {
	mu       sync.Mutex
	payments map[string]*models.Payment
}

func newFakePayments(payments ...*models.Payment) *fakePayments {
	m := make(map[string]*models.Payment)
	for _, p := range payments {
		m[p.ID] = p
	}
	return &fakePayments{payments: m}
}

func (f *fakePayments) Create(ctx context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePayments) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, paymentRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayments) GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.SessionID == sessionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, paymentRepo.ErrNotFound
}

func (f *fakePayments) GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	return nil, paymentRepo.ErrNotFound
}

func (f *fakePayments) Delete(ctx context.Context, id string) error { return nil }

func (f *fakePayments) SetIntentID(ctx context.Context, id, intentID string) error { return nil }

func (f *fakePayments) MarkCaptured(ctx context.Context, id, transactionID string, commissionCents, payoutCents int64, rate float64) (bool, error) {
	return false, nil
}

func (f *fakePayments) UpdateStatusGuarded(ctx context.Context, id string, from []models.PaymentStatus, to models.PaymentStatus, extra bson.M) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return false, nil
	}
	for _, st := range from {
		if p.Status == st {
			p.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayments) UpdatePayoutGuarded(ctx context.Context, id string, from []models.PayoutStatus, to models.PayoutStatus, extra bson.M) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return false, nil
	}
	for _, st := range from {
		if p.PayoutStatus == st {
			p.PayoutStatus = to
			if v, ok := extra["hold_release_at"].(time.Time); ok {
				p.HoldReleaseAt = &v
			}
			if v, ok := extra["paid_out_at"].(time.Time); ok {
				p.PaidOutAt = &v
			}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayments) FindReleasable(ctx context.Context, now time.Time) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.PayoutStatus == models.PayoutHeld && p.HoldReleaseAt != nil && !p.HoldReleaseAt.After(now) {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newFakeSessions(sessions ...*models.Session) *fakeSessions {
	m := make(map[string]*models.Session)
	for _, s := range sessions {
		m[s.ID] = s
	}
	return &fakeSessions{sessions: m}
}

func (f *fakeSessions) GetByID(ctx context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Create(ctx context.Context, s *models.Session) error { return nil }
func (f *fakeSessions) GetByMeetingID(ctx context.Context, meetingID string) (*models.Session, error) {
	return nil, sessionRepo.ErrNotFound
}
func (f *fakeSessions) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeSessions) UpdateStatusGuarded(ctx context.Context, id string, from []models.SessionStatus, to models.SessionStatus, extra bson.M) (bool, error) {
	return false, nil
}
func (f *fakeSessions) SetMeetingInfo(ctx context.Context, id, meetingID, joinURL, passcode string) (bool, error) {
	return false, nil
}
func (f *fakeSessions) MarkRecordingIngested(ctx context.Context, id, downloadURL, downloadToken string) (bool, error) {
	return false, nil
}
func (f *fakeSessions) UpdateRecording(ctx context.Context, id string, set bson.M) error { return nil }
func (f *fakeSessions) RecordRecordingFailure(ctx context.Context, id, stage string, failure error) error {
	return nil
}
func (f *fakeSessions) ResetRecording(ctx context.Context, id string) error { return nil }
func (f *fakeSessions) FindDueForEnd(ctx context.Context, cutoff time.Time) ([]models.Session, error) {
	return nil, nil
}

type fakeDisputes struct {
	mu       sync.Mutex
	disputes map[string]*models.Dispute
}

func newFakeDisputes(disputes ...*models.Dispute) *fakeDisputes {
	m := make(map[string]*models.Dispute)
	for _, d := range disputes {
		m[d.ID] = d
	}
	return &fakeDisputes{disputes: m}
}

func (f *fakeDisputes) Create(ctx context.Context, d *models.Dispute) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	f.disputes[d.ID] = &cp
	return nil
}

func (f *fakeDisputes) GetByID(ctx context.Context, id string) (*models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.disputes[id]
	if !ok {
		return nil, disputeRepo.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDisputes) FindActiveByPaymentID(ctx context.Context, paymentID string) (*models.Dispute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.disputes {
		if d.PaymentID == paymentID && d.Active() {
			cp := *d
			return &cp, nil
		}
	}
	return nil, disputeRepo.ErrNotFound
}

func (f *fakeDisputes) Resolve(ctx context.Context, id string, refundPercent int, resolvedBy string, resolvedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.disputes[id]
	if !ok || !d.Active() {
		return false, nil
	}
	d.Status = models.DisputeResolved
	d.RefundPercent = refundPercent
	d.ResolvedBy = resolvedBy
	d.ResolvedAt = &resolvedAt
	return true, nil
}

type fakeRefunder struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func newFakeRefunder() *fakeRefunder {
	return &fakeRefunder{calls: make(map[string]int)}
}

func (f *fakeRefunder) Refund(ctx context.Context, paymentID string, percentage int) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[paymentID] = percentage
	return nil
}

func newService(payments *fakePayments, sessions *fakeSessions, disputes *fakeDisputes, refunder *fakeRefunder) *DefaultSettlementService {
	testConfig()
	return &DefaultSettlementService{
		Payments: payments,
		Sessions: sessions,
		Disputes: disputes,
		Refunder: refunder,
		Logger:   zap.NewNop(),
	}
}

func heldPayment(id string, releasedAgo time.Duration) *models.Payment {
	at := time.Now().UTC().Add(-releasedAgo)
	return &models.Payment{
		ID:           id,
		SessionID:    "sess-" + id,
		MentorID:     "mentor1",
		PayoutCents:  8500,
		PayoutStatus: models.PayoutHeld,
		HoldReleaseAt: &at,
	}
}

func TestOnSessionCompletedArmsHoldClock(t *testing.T) {
	payments := newFakePayments(&models.Payment{
		ID: "pay1", SessionID: "sess1", PayoutStatus: models.PayoutPending,
	})
	svc := newService(payments, newFakeSessions(), newFakeDisputes(), newFakeRefunder())

	completedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := svc.OnSessionCompleted(context.Background(), "sess1", completedAt); err != nil {
		t.Fatalf("OnSessionCompleted: %v", err)
	}

	p, _ := payments.GetByID(context.Background(), "pay1")
	if p.PayoutStatus != models.PayoutHeld {
		t.Errorf("payout status = %s, want held", p.PayoutStatus)
	}
	want := completedAt.Add(72 * time.Hour)
	if p.HoldReleaseAt == nil || !p.HoldReleaseAt.Equal(want) {
		t.Errorf("hold_release_at = %v, want %v", p.HoldReleaseAt, want)
	}
}

func TestOnSessionCompletedIdempotent(t *testing.T) {
	payments := newFakePayments(&models.Payment{
		ID: "pay1", SessionID: "sess1", PayoutStatus: models.PayoutPending,
	})
	svc := newService(payments, newFakeSessions(), newFakeDisputes(), newFakeRefunder())

	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := svc.OnSessionCompleted(context.Background(), "sess1", first); err != nil {
		t.Fatalf("first call: %v", err)
	}
	// A replayed completion must not restart the clock.
	if err := svc.OnSessionCompleted(context.Background(), "sess1", first.Add(time.Hour)); err != nil {
		t.Fatalf("replayed call: %v", err)
	}

	p, _ := payments.GetByID(context.Background(), "pay1")
	if want := first.Add(72 * time.Hour); !p.HoldReleaseAt.Equal(want) {
		t.Errorf("hold clock restarted: %v, want %v", p.HoldReleaseAt, want)
	}
}

func TestReleaseDuePayoutsReleasesExpiredHolds(t *testing.T) {
	payments := newFakePayments(
		heldPayment("due", time.Hour),
		heldPayment("notdue", -48*time.Hour),
	)
	svc := newService(payments, newFakeSessions(), newFakeDisputes(), newFakeRefunder())

	if err := svc.ReleaseDuePayouts(context.Background()); err != nil {
		t.Fatalf("ReleaseDuePayouts: %v", err)
	}

	due, _ := payments.GetByID(context.Background(), "due")
	if due.PayoutStatus != models.PayoutReleased {
		t.Errorf("expired hold = %s, want released", due.PayoutStatus)
	}
	notdue, _ := payments.GetByID(context.Background(), "notdue")
	if notdue.PayoutStatus != models.PayoutHeld {
		t.Errorf("unexpired hold = %s, want held", notdue.PayoutStatus)
	}
}

func TestReleaseDuePayoutsFreezesDisputed(t *testing.T) {
	payments := newFakePayments(heldPayment("pay1", time.Hour))
	disputes := newFakeDisputes(&models.Dispute{
		ID: "d1", PaymentID: "pay1", Status: models.DisputeOpen,
	})
	svc := newService(payments, newFakeSessions(), disputes, newFakeRefunder())

	if err := svc.ReleaseDuePayouts(context.Background()); err != nil {
		t.Fatalf("ReleaseDuePayouts: %v", err)
	}

	p, _ := payments.GetByID(context.Background(), "pay1")
	if p.PayoutStatus != models.PayoutFrozen {
		t.Errorf("disputed payout = %s, want frozen despite elapsed hold", p.PayoutStatus)
	}
}

func TestPayoutRequestProcessLifecycle(t *testing.T) {
	p := heldPayment("pay1", time.Hour)
	p.PayoutStatus = models.PayoutReleased
	payments := newFakePayments(p)
	svc := newService(payments, newFakeSessions(), newFakeDisputes(), newFakeRefunder())
	ctx := context.Background()

	requested, err := svc.RequestPayout(ctx, "pay1", "mentor1")
	if err != nil {
		t.Fatalf("RequestPayout: %v", err)
	}
	if requested.PayoutStatus != models.PayoutRequested {
		t.Errorf("status = %s, want requested", requested.PayoutStatus)
	}

	paid, err := svc.ProcessPayout(ctx, "pay1")
	if err != nil {
		t.Fatalf("ProcessPayout: %v", err)
	}
	if paid.PayoutStatus != models.PayoutPaid {
		t.Errorf("status = %s, want paid", paid.PayoutStatus)
	}
	if paid.PaidOutAt == nil {
		t.Error("paid_out_at not stamped")
	}

	// Paid is terminal for every payout operation.
	if _, err := svc.RequestPayout(ctx, "pay1", "mentor1"); !errors.Is(err, ErrPayoutConflict) {
		t.Errorf("request after paid: err = %v, want ErrPayoutConflict", err)
	}
	if _, err := svc.ProcessPayout(ctx, "pay1"); !errors.Is(err, ErrPayoutConflict) {
		t.Errorf("process after paid: err = %v, want ErrPayoutConflict", err)
	}
	if _, err := svc.CancelPayout(ctx, "pay1"); !errors.Is(err, ErrPayoutConflict) {
		t.Errorf("cancel after paid: err = %v, want ErrPayoutConflict", err)
	}
}

func TestRequestPayoutRejectsHeldAndFrozen(t *testing.T) {
	for _, status := range []models.PayoutStatus{models.PayoutHeld, models.PayoutFrozen, models.PayoutPending, models.PayoutDenied} {
		p := heldPayment("pay1", time.Hour)
		p.PayoutStatus = status
		svc := newService(newFakePayments(p), newFakeSessions(), newFakeDisputes(), newFakeRefunder())

		if _, err := svc.RequestPayout(context.Background(), "pay1", "mentor1"); !errors.Is(err, ErrPayoutConflict) {
			t.Errorf("request from %s: err = %v, want ErrPayoutConflict", status, err)
		}
	}
}

func TestRequestPayoutRejectsWrongMentor(t *testing.T) {
	p := heldPayment("pay1", time.Hour)
	p.PayoutStatus = models.PayoutReleased
	svc := newService(newFakePayments(p), newFakeSessions(), newFakeDisputes(), newFakeRefunder())

	if _, err := svc.RequestPayout(context.Background(), "pay1", "other-mentor"); err == nil {
		t.Error("expected rejection for foreign mentor")
	}
}

func TestCancelPayoutReturnsToReleased(t *testing.T) {
	p := heldPayment("pay1", time.Hour)
	p.PayoutStatus = models.PayoutRequested
	payments := newFakePayments(p)
	svc := newService(payments, newFakeSessions(), newFakeDisputes(), newFakeRefunder())

	got, err := svc.CancelPayout(context.Background(), "pay1")
	if err != nil {
		t.Fatalf("CancelPayout: %v", err)
	}
	if got.PayoutStatus != models.PayoutReleased {
		t.Errorf("status = %s, want released", got.PayoutStatus)
	}

	// Requestable again after cancellation.
	if _, err := svc.RequestPayout(context.Background(), "pay1", "mentor1"); err != nil {
		t.Errorf("re-request after cancel: %v", err)
	}
}

func completedSession(id string, completedAgo time.Duration) *models.Session {
	at := time.Now().UTC().Add(-completedAgo)
	return &models.Session{
		ID:          id,
		MenteeID:    "mentee1",
		MentorID:    "mentor1",
		Status:      models.SessionCompleted,
		CompletedAt: &at,
	}
}

func TestCreateDisputeFreezesPayout(t *testing.T) {
	payments := newFakePayments(&models.Payment{
		ID: "pay1", SessionID: "sess1", MentorID: "mentor1", PayoutStatus: models.PayoutHeld,
	})
	sessions := newFakeSessions(completedSession("sess1", 24*time.Hour))
	disputes := newFakeDisputes()
	svc := newService(payments, sessions, disputes, newFakeRefunder())

	d, err := svc.CreateDispute(context.Background(), "sess1", "mentee1", "no-show")
	if err != nil {
		t.Fatalf("CreateDispute: %v", err)
	}
	if d.Status != models.DisputeOpen {
		t.Errorf("dispute status = %s, want open", d.Status)
	}
	if d.RespondentID != "mentor1" {
		t.Errorf("respondent = %q, want mentor1", d.RespondentID)
	}

	p, _ := payments.GetByID(context.Background(), "pay1")
	if p.PayoutStatus != models.PayoutFrozen {
		t.Errorf("payout = %s, want frozen", p.PayoutStatus)
	}
}

func TestCreateDisputeRejectsIncompleteSession(t *testing.T) {
	sessions := newFakeSessions(&models.Session{ID: "sess1", Status: models.SessionConfirmed})
	svc := newService(newFakePayments(), sessions, newFakeDisputes(), newFakeRefunder())

	if _, err := svc.CreateDispute(context.Background(), "sess1", "mentee1", "x"); !errors.Is(err, ErrSessionNotCompleted) {
		t.Errorf("err = %v, want ErrSessionNotCompleted", err)
	}
}

func TestCreateDisputeRejectsExpiredWindow(t *testing.T) {
	// Window is 3 days; this session completed 4 days ago.
	sessions := newFakeSessions(completedSession("sess1", 4*24*time.Hour))
	payments := newFakePayments(&models.Payment{ID: "pay1", SessionID: "sess1", PayoutStatus: models.PayoutReleased})
	svc := newService(payments, sessions, newFakeDisputes(), newFakeRefunder())

	if _, err := svc.CreateDispute(context.Background(), "sess1", "mentee1", "x"); !errors.Is(err, ErrDisputeWindowExpired) {
		t.Errorf("err = %v, want ErrDisputeWindowExpired", err)
	}
}

func TestResolveDisputeNoRefundThawsPayout(t *testing.T) {
	payments := newFakePayments(&models.Payment{ID: "pay1", SessionID: "sess1", PayoutStatus: models.PayoutFrozen})
	disputes := newFakeDisputes(&models.Dispute{
		ID: "d1", SessionID: "sess1", PaymentID: "pay1",
		ComplainantID: "mentee1", RespondentID: "mentor1",
		Status: models.DisputeOpen,
	})
	refunder := newFakeRefunder()
	svc := newService(payments, newFakeSessions(), disputes, refunder)

	d, err := svc.ResolveDispute(context.Background(), "d1", 0, "admin1")
	if err != nil {
		t.Fatalf("ResolveDispute: %v", err)
	}
	if d.Status != models.DisputeResolved {
		t.Errorf("dispute status = %s, want resolved", d.Status)
	}
	if len(refunder.calls) != 0 {
		t.Error("refund issued for a zero-percent resolution")
	}
	p, _ := payments.GetByID(context.Background(), "pay1")
	if p.PayoutStatus != models.PayoutHeld {
		t.Errorf("payout = %s, want held after thaw", p.PayoutStatus)
	}
}

func TestResolveDisputePartialRefundsAndThaws(t *testing.T) {
	payments := newFakePayments(&models.Payment{ID: "pay1", SessionID: "sess1", PayoutStatus: models.PayoutFrozen})
	disputes := newFakeDisputes(&models.Dispute{
		ID: "d1", PaymentID: "pay1", Status: models.DisputeUnderReview,
	})
	refunder := newFakeRefunder()
	svc := newService(payments, newFakeSessions(), disputes, refunder)

	if _, err := svc.ResolveDispute(context.Background(), "d1", 50, "admin1"); err != nil {
		t.Fatalf("ResolveDispute: %v", err)
	}
	if refunder.calls["pay1"] != 50 {
		t.Errorf("refund pct = %d, want 50", refunder.calls["pay1"])
	}
	p, _ := payments.GetByID(context.Background(), "pay1")
	if p.PayoutStatus != models.PayoutHeld {
		t.Errorf("payout = %s, want held", p.PayoutStatus)
	}
}

func TestResolveDisputeFullRefundSkipsThaw(t *testing.T) {
	payments := newFakePayments(&models.Payment{ID: "pay1", SessionID: "sess1", PayoutStatus: models.PayoutFrozen})
	disputes := newFakeDisputes(&models.Dispute{
		ID: "d1", PaymentID: "pay1", Status: models.DisputeOpen,
	})
	refunder := newFakeRefunder()
	svc := newService(payments, newFakeSessions(), disputes, refunder)

	if _, err := svc.ResolveDispute(context.Background(), "d1", 100, "admin1"); err != nil {
		t.Fatalf("ResolveDispute: %v", err)
	}
	if refunder.calls["pay1"] != 100 {
		t.Errorf("refund pct = %d, want 100", refunder.calls["pay1"])
	}
	// The full-refund path denies the payout inside the payment
	// orchestrator; settlement must not thaw it back to held.
	p, _ := payments.GetByID(context.Background(), "pay1")
	if p.PayoutStatus == models.PayoutHeld {
		t.Error("payout thawed despite full refund")
	}
}

func TestResolveDisputeTwiceRejected(t *testing.T) {
	disputes := newFakeDisputes(&models.Dispute{
		ID: "d1", PaymentID: "pay1", Status: models.DisputeOpen,
	})
	payments := newFakePayments(&models.Payment{ID: "pay1", PayoutStatus: models.PayoutFrozen})
	svc := newService(payments, newFakeSessions(), disputes, newFakeRefunder())

	if _, err := svc.ResolveDispute(context.Background(), "d1", 0, "admin1"); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if _, err := svc.ResolveDispute(context.Background(), "d1", 0, "admin1"); !errors.Is(err, ErrDisputeNotActive) {
		t.Errorf("second resolve: err = %v, want ErrDisputeNotActive", err)
	}
}
