package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// In-memory stub repositories shared by the service tests. Conditional
// updates are guarded by a mutex and mirror the real Mongo filters, so the
// concurrent-accept tests exercise the same serialization the production
// repositories provide.

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

type stubRequestRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.TransportRequest
	createErr error
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{byID: make(map[string]*domain.TransportRequest)}
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.TransportRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *req
	r.byID[req.ID] = &clone
	return nil
}

func (r *stubRequestRepo) FindByID(_ context.Context, id string) (*domain.TransportRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *stubRequestRepo) List(_ context.Context, status domain.RequestStatus) ([]*domain.TransportRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TransportRequest
	for _, req := range r.byID {
		if status != "" && req.Status != status {
			continue
		}
		clone := *req
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubRequestRepo) ListByClient(_ context.Context, clientID string) ([]*domain.TransportRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TransportRequest
	for _, req := range r.byID {
		if req.ClientID == clientID {
			clone := *req
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubRequestRepo) TransitionStatus(_ context.Context, id string, from []domain.RequestStatus, to domain.RequestStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return false, domain.ErrRequestNotFound
	}
	for _, f := range from {
		if req.Status == f {
			req.Status = to
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Offers
// ---------------------------------------------------------------------------

type stubOfferRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Offer
	createErr error
}

func newStubOfferRepo() *stubOfferRepo {
	return &stubOfferRepo{byID: make(map[string]*domain.Offer)}
}

func (r *stubOfferRepo) Create(_ context.Context, o *domain.Offer) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *o
	r.byID[o.ID] = &clone
	return nil
}

func (r *stubOfferRepo) FindByID(_ context.Context, id string) (*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOfferRepo) ListByRequest(_ context.Context, requestID string) ([]*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Offer
	for _, o := range r.byID {
		if o.RequestID == requestID {
			clone := *o
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubOfferRepo) ListByTransporter(_ context.Context, transporterID string) ([]*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Offer
	for _, o := range r.byID {
		if o.TransporterID == transporterID {
			clone := *o
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubOfferRepo) FindAcceptedByRequest(_ context.Context, requestID string) (*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.byID {
		if o.RequestID == requestID && o.Status == domain.OfferAccepted {
			clone := *o
			return &clone, nil
		}
	}
	return nil, domain.ErrOfferNotFound
}

func (r *stubOfferRepo) UpdateStatus(_ context.Context, id string, from, to domain.OfferStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return false, domain.ErrOfferNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *stubOfferRepo) RejectOtherPending(_ context.Context, requestID, exceptID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, o := range r.byID {
		if o.RequestID == requestID && o.ID != exceptID && o.Status == domain.OfferPending {
			o.Status = domain.OfferRejected
			ids = append(ids, o.ID)
		}
	}
	return ids, nil
}

func (r *stubOfferRepo) VoidPending(_ context.Context, requestID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, o := range r.byID {
		if o.RequestID == requestID && o.Status == domain.OfferPending {
			o.Status = domain.OfferVoided
			ids = append(ids, o.ID)
		}
	}
	return ids, nil
}

// countByStatus is a test helper for invariant checks.
func (r *stubOfferRepo) countByStatus(requestID string, status domain.OfferStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.byID {
		if o.RequestID == requestID && o.Status == status {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

type stubChatRepo struct {
	mu   sync.Mutex
	msgs []*domain.ChatMessage
}

func newStubChatRepo() *stubChatRepo { return &stubChatRepo{} }

func (r *stubChatRepo) Insert(_ context.Context, m *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *m
	r.msgs = append(r.msgs, &clone)
	return nil
}

func (r *stubChatRepo) ListByRequest(_ context.Context, requestID string) ([]*domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ChatMessage
	for _, m := range r.msgs {
		if m.RequestID == requestID {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubChatRepo) MarkRead(_ context.Context, requestID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.RequestID == requestID && m.SenderID != readerID {
			m.Read = true
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Verification
// ---------------------------------------------------------------------------

type stubVerificationRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.VerificationRecord
}

func newStubVerificationRepo() *stubVerificationRepo {
	return &stubVerificationRepo{byID: make(map[string]*domain.VerificationRecord)}
}

func (r *stubVerificationRepo) Insert(_ context.Context, rec *domain.VerificationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *rec
	r.byID[rec.ID] = &clone
	return nil
}

func (r *stubVerificationRepo) FindByID(_ context.Context, id string) (*domain.VerificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *stubVerificationRepo) DeactivateIdentity(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.byID {
		if rec.UserID == userID && rec.Kind == domain.VerificationIdentity {
			rec.Active = false
		}
	}
	return nil
}

func (r *stubVerificationRepo) ListByUser(_ context.Context, userID string) ([]*domain.VerificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.VerificationRecord
	for _, rec := range r.byID {
		if rec.UserID == userID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (r *stubVerificationRepo) ListAdmin(_ context.Context, status domain.VerificationStatus, kind domain.VerificationKind) ([]*domain.VerificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.VerificationRecord
	for _, rec := range r.byID {
		if status != "" && rec.Status != status {
			continue
		}
		if kind != "" && rec.Kind != kind {
			continue
		}
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (r *stubVerificationRepo) Adjudicate(_ context.Context, id string, status domain.VerificationStatus, notes, adminID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return false, domain.ErrRecordNotFound
	}
	if rec.Status != domain.VerificationPending {
		return false, nil
	}
	rec.Status = status
	rec.AdminNotes = notes
	rec.ReviewedBy = adminID
	return true, nil
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

type stubNotificationRepo struct {
	mu        sync.Mutex
	all       []*domain.Notification
	insertErr error
}

func newStubNotificationRepo() *stubNotificationRepo { return &stubNotificationRepo{} }

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *n
	r.all = append(r.all, &clone)
	return nil
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, recipientID string) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.all {
		if n.RecipientID == recipientID {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.all {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.all {
		if n.RecipientID == recipientID {
			n.Read = true
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Ratings
// ---------------------------------------------------------------------------

type stubRatingRepo struct {
	mu  sync.Mutex
	all []*domain.Rating
}

func newStubRatingRepo() *stubRatingRepo { return &stubRatingRepo{} }

func (r *stubRatingRepo) Insert(_ context.Context, rating *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *rating
	r.all = append(r.all, &clone)
	return nil
}

func (r *stubRatingRepo) ExistsForRequest(_ context.Context, fromID, requestID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rating := range r.all {
		if rating.FromID == fromID && rating.RequestID == requestID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRatingRepo) ListForUser(_ context.Context, toID string) ([]*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Rating
	for _, rating := range r.all {
		if rating.ToID == toID {
			clone := *rating
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) SetIdentityVerified(_ context.Context, userID string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IdentityVerified = verified
	return nil
}

func (r *stubUserRepo) ApplyRating(_ context.Context, userID string, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RatingSum += score
	u.RatingCount++
	return nil
}

// ---------------------------------------------------------------------------
// Locking and notification capture
// ---------------------------------------------------------------------------

// memLocker is a fail-fast per-request lock: a second Acquire while held
// returns ErrConflict instead of queueing, matching the Redis locker.
type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocker() *memLocker { return &memLocker{held: make(map[string]bool)} }

func (l *memLocker) Acquire(_ context.Context, requestID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[requestID] {
		return nil, domain.ErrConflict
	}
	l.held[requestID] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, requestID)
	}, nil
}

// captureNotifier records published events for assertion.
type captureNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func (n *captureNotifier) Notify(event domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *captureNotifier) byType(t domain.EventType) []domain.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.Event
	for _, e := range n.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
