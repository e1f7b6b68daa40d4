package hiring

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/akashhalder/gigflow-backend/internal/models"
	"github.com/akashhalder/gigflow-backend/internal/realtime"
)

// memStore backs the service with maps. AssignGig performs the same
// compare-and-set under a mutex that the SQL store performs with a
// conditional UPDATE.
type memStore struct {
	mu   sync.Mutex
	gigs map[uuid.UUID]*models.Gig
	bids map[uuid.UUID]*models.Bid

	failMarkHired bool // injected store fault after the gig flip
}

func newMemStore() *memStore {
	return &memStore{
		gigs: make(map[uuid.UUID]*models.Gig),
		bids: make(map[uuid.UUID]*models.Bid),
	}
}

func (s *memStore) BidByID(_ context.Context, id uuid.UUID) (*models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bids[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) GigByID(_ context.Context, id uuid.UUID) (*models.Gig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gigs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *memStore) AssignGig(_ context.Context, gigID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gigs[gigID]
	if !ok {
		return false, ErrNotFound
	}
	if g.Status != models.GigStatusOpen {
		return false, nil
	}
	g.Status = models.GigStatusAssigned
	return true, nil
}

func (s *memStore) MarkBidHired(_ context.Context, bidID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMarkHired {
		return errors.New("store unavailable")
	}
	if b, ok := s.bids[bidID]; ok {
		b.Status = models.BidStatusHired
	}
	return nil
}

func (s *memStore) RejectPendingBids(_ context.Context, gigID, exceptBidID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bids {
		if b.GigID == gigID && b.ID != exceptBidID && b.Status == models.BidStatusPending {
			b.Status = models.BidStatusRejected
		}
	}
	return nil
}

type recordedNotification struct {
	recipient uuid.UUID
	event     realtime.HiredEvent
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []recordedNotification
}

func (n *fakeNotifier) NotifyHired(recipientID uuid.UUID, ev realtime.HiredEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, recordedNotification{recipient: recipientID, event: ev})
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type fixture struct {
	store    *memStore
	notifier *fakeNotifier
	svc      *Service

	owner, f1, f2 uuid.UUID
	gig           *models.Gig
	bid1, bid2    *models.Bid
}

// newFixture builds gig G (open, owner U1) with pending bids B1 (freelancer
// F1, price 100) and B2 (freelancer F2, price 120).
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    newMemStore(),
		notifier: &fakeNotifier{},
		owner:    uuid.New(),
		f1:       uuid.New(),
		f2:       uuid.New(),
	}
	f.svc = NewService(f.store, f.notifier)

	f.gig = &models.Gig{
		ID:      uuid.New(),
		OwnerID: f.owner,
		Title:   "Build a React App",
		Budget:  500,
		Status:  models.GigStatusOpen,
	}
	f.bid1 = &models.Bid{
		ID: uuid.New(), GigID: f.gig.ID, FreelancerID: f.f1,
		Message: "I can do this in 2 days.", Price: 100,
		Status: models.BidStatusPending,
	}
	f.bid2 = &models.Bid{
		ID: uuid.New(), GigID: f.gig.ID, FreelancerID: f.f2,
		Message: "Portfolio attached.", Price: 120,
		Status: models.BidStatusPending,
	}

	f.store.gigs[f.gig.ID] = f.gig
	f.store.bids[f.bid1.ID] = f.bid1
	f.store.bids[f.bid2.ID] = f.bid2
	return f
}

func (f *fixture) bidStatus(t *testing.T, id uuid.UUID) models.BidStatus {
	t.Helper()
	b, err := f.store.BidByID(context.Background(), id)
	if err != nil {
		t.Fatalf("BidByID: %v", err)
	}
	return b.Status
}

func (f *fixture) gigStatus(t *testing.T) models.GigStatus {
	t.Helper()
	g, err := f.store.GigByID(context.Background(), f.gig.ID)
	if err != nil {
		t.Fatalf("GigByID: %v", err)
	}
	return g.Status
}

func TestHirePromotesBidAndRejectsSiblings(t *testing.T) {
	f := newFixture(t)

	bid, err := f.svc.Hire(context.Background(), f.bid1.ID, f.owner)
	if err != nil {
		t.Fatalf("Hire: %v", err)
	}
	if bid.Status != models.BidStatusHired {
		t.Fatalf("returned bid status = %s, want hired", bid.Status)
	}
	if got := f.gigStatus(t); got != models.GigStatusAssigned {
		t.Fatalf("gig status = %s, want assigned", got)
	}
	if got := f.bidStatus(t, f.bid1.ID); got != models.BidStatusHired {
		t.Fatalf("winning bid status = %s, want hired", got)
	}
	if got := f.bidStatus(t, f.bid2.ID); got != models.BidStatusRejected {
		t.Fatalf("sibling bid status = %s, want rejected", got)
	}

	if f.notifier.count() != 1 {
		t.Fatalf("notifications = %d, want 1", f.notifier.count())
	}
	n := f.notifier.calls[0]
	if n.recipient != f.f1 {
		t.Fatalf("notified %s, want freelancer %s", n.recipient, f.f1)
	}
	if n.event.Message != "You have been hired for Build a React App" {
		t.Fatalf("unexpected notification message: %q", n.event.Message)
	}
}

func TestHireSecondAttemptConflicts(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Hire(context.Background(), f.bid1.ID, f.owner); err != nil {
		t.Fatalf("first Hire: %v", err)
	}

	_, err := f.svc.Hire(context.Background(), f.bid2.ID, f.owner)
	if !errors.Is(err, ErrGigAlreadyAssigned) {
		t.Fatalf("second Hire error = %v, want ErrGigAlreadyAssigned", err)
	}

	// no state change and no extra notification
	if got := f.bidStatus(t, f.bid1.ID); got != models.BidStatusHired {
		t.Fatalf("winner flipped to %s after failed hire", got)
	}
	if got := f.bidStatus(t, f.bid2.ID); got != models.BidStatusRejected {
		t.Fatalf("loser flipped to %s after failed hire", got)
	}
	if f.notifier.count() != 1 {
		t.Fatalf("notifications = %d, want 1", f.notifier.count())
	}
}

func TestHireForbiddenForNonOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Hire(context.Background(), f.bid1.ID, f.f2)
	if !errors.Is(err, ErrNotGigOwner) {
		t.Fatalf("Hire error = %v, want ErrNotGigOwner", err)
	}

	// zero mutations
	if got := f.gigStatus(t); got != models.GigStatusOpen {
		t.Fatalf("gig status = %s, want open", got)
	}
	if got := f.bidStatus(t, f.bid1.ID); got != models.BidStatusPending {
		t.Fatalf("bid status = %s, want pending", got)
	}
	if f.notifier.count() != 0 {
		t.Fatalf("notifications = %d, want 0", f.notifier.count())
	}
}

func TestHireMissingRecords(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.Hire(context.Background(), uuid.New(), f.owner); !errors.Is(err, ErrBidNotFound) {
		t.Fatalf("missing bid error = %v, want ErrBidNotFound", err)
	}

	orphan := &models.Bid{
		ID: uuid.New(), GigID: uuid.New(), FreelancerID: f.f1,
		Message: "m", Price: 1, Status: models.BidStatusPending,
	}
	f.store.bids[orphan.ID] = orphan
	if _, err := f.svc.Hire(context.Background(), orphan.ID, f.owner); !errors.Is(err, ErrGigNotFound) {
		t.Fatalf("missing gig error = %v, want ErrGigNotFound", err)
	}
}

func TestConcurrentHiresSingleWinner(t *testing.T) {
	f := newFixture(t)

	const attempts = 16
	bidIDs := []uuid.UUID{f.bid1.ID, f.bid2.ID}

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(bidID uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.Hire(context.Background(), bidID, f.owner)
			results <- err
		}(bidIDs[i%len(bidIDs)])
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrGigAlreadyAssigned):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
	if conflicts != attempts-1 {
		t.Fatalf("conflicts = %d, want %d", conflicts, attempts-1)
	}

	// invariants: gig assigned iff exactly one hired bid, no double hire
	hired := 0
	for _, id := range bidIDs {
		if f.bidStatus(t, id) == models.BidStatusHired {
			hired++
		}
	}
	if hired != 1 {
		t.Fatalf("hired bids = %d, want exactly 1", hired)
	}
	if got := f.gigStatus(t); got != models.GigStatusAssigned {
		t.Fatalf("gig status = %s, want assigned", got)
	}
	if f.notifier.count() != 1 {
		t.Fatalf("notifications = %d, want exactly 1", f.notifier.count())
	}
}

func TestHireStoreFailureLeavesResumableState(t *testing.T) {
	f := newFixture(t)

	f.store.failMarkHired = true
	_, err := f.svc.Hire(context.Background(), f.bid1.ID, f.owner)
	if err == nil {
		t.Fatal("Hire succeeded despite store fault")
	}

	// the documented intermediate state: gig flipped, bid writes missing
	if got := f.gigStatus(t); got != models.GigStatusAssigned {
		t.Fatalf("gig status = %s, want assigned", got)
	}
	if got := f.bidStatus(t, f.bid1.ID); got != models.BidStatusPending {
		t.Fatalf("target bid status = %s, want pending", got)
	}

	f.store.failMarkHired = false
	bid, err := f.svc.Resume(context.Background(), f.bid1.ID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if bid.Status != models.BidStatusHired {
		t.Fatalf("resumed bid status = %s, want hired", bid.Status)
	}
	if got := f.bidStatus(t, f.bid2.ID); got != models.BidStatusRejected {
		t.Fatalf("sibling status = %s, want rejected", got)
	}

	// resumption is idempotent: a second run changes nothing
	if _, err := f.svc.Resume(context.Background(), f.bid1.ID); err != nil {
		t.Fatalf("second Resume: %v", err)
	}
	if got := f.bidStatus(t, f.bid1.ID); got != models.BidStatusHired {
		t.Fatalf("winner status after re-run = %s, want hired", got)
	}
	if got := f.bidStatus(t, f.bid2.ID); got != models.BidStatusRejected {
		t.Fatalf("sibling status after re-run = %s, want rejected", got)
	}

	// repair never re-notifies
	if f.notifier.count() != 0 {
		t.Fatalf("notifications = %d, want 0", f.notifier.count())
	}
}

func TestResumeGuards(t *testing.T) {
	f := newFixture(t)

	// nothing to resume while the gig is still open
	if _, err := f.svc.Resume(context.Background(), f.bid1.ID); !errors.Is(err, ErrGigNotAssigned) {
		t.Fatalf("Resume on open gig error = %v, want ErrGigNotAssigned", err)
	}

	// a rejected bid can never be promoted
	if _, err := f.svc.Hire(context.Background(), f.bid1.ID, f.owner); err != nil {
		t.Fatalf("Hire: %v", err)
	}
	if _, err := f.svc.Resume(context.Background(), f.bid2.ID); !errors.Is(err, ErrBidAlreadyRejected) {
		t.Fatalf("Resume on rejected bid error = %v, want ErrBidAlreadyRejected", err)
	}
	if got := f.bidStatus(t, f.bid2.ID); got != models.BidStatusRejected {
		t.Fatalf("rejected bid moved to %s", got)
	}
}
