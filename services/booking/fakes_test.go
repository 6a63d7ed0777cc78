package booking

import (
	"context"
	"sync"
	"time"

	"mentorhub/config"
	paymentRepo "mentorhub/database/repository/payment"
	sessionRepo "mentorhub/database/repository/session"
	slotRepo "mentorhub/database/repository/slot"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testConfig() {
	config.AppConfig.CommissionRate = 0.15
	config.AppConfig.PayoutHoldHours = 72
	config.AppConfig.AdvanceBookingHours = 24
	config.AppConfig.FullRefundHours = 48
	config.AppConfig.HalfRefundHours = 24
	config.AppConfig.DisputeWindowDays = 3
	config.AppConfig.SlotHorizonDays = 90
	config.AppConfig.SlotBatchLimit = 50
	config.AppConfig.RecordingURLLifeDays = 3
}

// fakeSlotRepo mirrors the conditional-update semantics of the real repo
// under a mutex, so concurrent Reserve calls still see one winner.
type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.TimeSlot

	reserveCalls int
	releaseCalls int
}

func newFakeSlotRepo(slots ...*models.TimeSlot) *fakeSlotRepo {
	m := make(map[string]*models.TimeSlot)
	for _, s := range slots {
		m[s.ID] = s
	}
	return &fakeSlotRepo{slots: m}
}

func (f *fakeSlotRepo) CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(slots))
	for i := range slots {
		s := slots[i]
		f.slots[s.ID] = &s
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[slotID]
	if !ok {
		return nil, slotRepo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSlotRepo) GetAvailable(ctx context.Context, mentorID string, from, to time.Time) ([]models.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TimeSlot
	for _, s := range f.slots {
		if s.MentorID == mentorID && !s.Booked && !s.StartTime.Before(from) && s.StartTime.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) DeleteByID(ctx context.Context, mentorID, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[slotID]
	if !ok || s.MentorID != mentorID {
		return slotRepo.ErrNotFound
	}
	if s.Booked {
		return slotRepo.ErrSlotBooked
	}
	delete(f.slots, slotID)
	return nil
}

func (f *fakeSlotRepo) Reserve(ctx context.Context, slotID, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserveCalls++
	s, ok := f.slots[slotID]
	if !ok || s.Booked {
		return false, nil
	}
	s.Booked = true
	s.SessionID = sessionID
	return true, nil
}

func (f *fakeSlotRepo) Release(ctx context.Context, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseCalls++
	if s, ok := f.slots[slotID]; ok {
		s.Booked = false
		s.SessionID = ""
	}
	return nil
}

// fakeSessionRepo keeps sessions in memory with guarded status moves.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session

	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *models.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) GetByMeetingID(ctx context.Context, meetingID string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.MeetingID == meetingID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, sessionRepo.ErrNotFound
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) UpdateStatusGuarded(ctx context.Context, id string, from []models.SessionStatus, to models.SessionStatus, extra bson.M) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return false, nil
	}
	for _, st := range from {
		if s.Status == st {
			s.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessionRepo) SetMeetingInfo(ctx context.Context, id, meetingID, joinURL, passcode string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.MeetingID != "" {
		return false, nil
	}
	s.MeetingID = meetingID
	s.MeetingJoinURL = joinURL
	s.MeetingPasscode = passcode
	return true, nil
}

func (f *fakeSessionRepo) MarkRecordingIngested(ctx context.Context, id, downloadURL, downloadToken string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.Recording.IngestedAt != nil {
		return false, nil
	}
	now := time.Now().UTC()
	s.Recording.IngestedAt = &now
	s.Recording.DownloadURL = downloadURL
	s.Recording.DownloadToken = downloadToken
	return true, nil
}

func (f *fakeSessionRepo) UpdateRecording(ctx context.Context, id string, set bson.M) error {
	return nil
}

func (f *fakeSessionRepo) RecordRecordingFailure(ctx context.Context, id, stage string, failure error) error {
	return nil
}

func (f *fakeSessionRepo) ResetRecording(ctx context.Context, id string) error {
	return nil
}

func (f *fakeSessionRepo) FindDueForEnd(ctx context.Context, cutoff time.Time) ([]models.Session, error) {
	return nil, nil
}

// fakePaymentRepo covers only what the booking saga touches.
type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*models.Payment

	createErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*models.Payment)}
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, paymentRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
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

func (f *fakePaymentRepo) GetByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.IntentID == intentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, paymentRepo.ErrNotFound
}

func (f *fakePaymentRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.payments, id)
	return nil
}

func (f *fakePaymentRepo) SetIntentID(ctx context.Context, id, intentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[id]; ok {
		p.IntentID = intentID
	}
	return nil
}

func (f *fakePaymentRepo) MarkCaptured(ctx context.Context, id, transactionID string, commissionCents, payoutCents int64, rate float64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok || (p.Status != models.PaymentPending && p.Status != models.PaymentAuthorized) {
		return false, nil
	}
	p.Status = models.PaymentCaptured
	p.TransactionID = transactionID
	p.CommissionCents = commissionCents
	p.PayoutCents = payoutCents
	p.CommissionRate = rate
	return true, nil
}

func (f *fakePaymentRepo) UpdateStatusGuarded(ctx context.Context, id string, from []models.PaymentStatus, to models.PaymentStatus, extra bson.M) (bool, error) {
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

func (f *fakePaymentRepo) UpdatePayoutGuarded(ctx context.Context, id string, from []models.PayoutStatus, to models.PayoutStatus, extra bson.M) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return false, nil
	}
	for _, st := range from {
		if p.PayoutStatus == st {
			p.PayoutStatus = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePaymentRepo) FindReleasable(ctx context.Context, now time.Time) ([]models.Payment, error) {
	return nil, nil
}

// fakeRateSource returns a fixed price.
type fakeRateSource struct {
	cents int64
	err   error
}

func (f *fakeRateSource) SessionPriceCents(ctx context.Context, mentorID string, durationMinutes int) (int64, string, error) {
	if f.err != nil {
		return 0, "", f.err
	}
	return f.cents, "usd", nil
}

// fakePaymentSvc records refund calls.
type fakePaymentSvc struct {
	mu      sync.Mutex
	refunds map[string]int
}

func newFakePaymentSvc() *fakePaymentSvc {
	return &fakePaymentSvc{refunds: make(map[string]int)}
}

func (f *fakePaymentSvc) CreateIntent(ctx context.Context, sessionID string) (*models.Payment, string, error) {
	return nil, "", nil
}

func (f *fakePaymentSvc) Confirm(ctx context.Context, intentID string) (*models.Session, error) {
	return nil, nil
}

func (f *fakePaymentSvc) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	return nil
}

func (f *fakePaymentSvc) Refund(ctx context.Context, paymentID string, percentage int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds[paymentID] = percentage
	return nil
}

func (f *fakePaymentSvc) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	return nil, paymentRepo.ErrNotFound
}

func newTestService(slots *fakeSlotRepo, sessions *fakeSessionRepo, payments *fakePaymentRepo, paySvc *fakePaymentSvc, rates *fakeRateSource) *DefaultBookingService {
	return &DefaultBookingService{
		Slots:      slots,
		Sessions:   sessions,
		Payments:   payments,
		PaymentSvc: paySvc,
		Rates:      rates,
		Logger:     zap.NewNop(),
	}
}
