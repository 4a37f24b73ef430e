package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickiefender/campaign-website/internal/hubtel"
	"github.com/mickiefender/campaign-website/internal/models"
)

// memStore mimics the Mongo store's conditional-update semantics in
// memory: the guard and the write happen under one lock, matching the
// atomicity of FindOneAndUpdate.
type memStore struct {
	mu        sync.Mutex
	donations map[string]*models.Donation // keyed by hex id
}

func newMemStore(donations ...*models.Donation) *memStore {
	s := &memStore{donations: make(map[string]*models.Donation)}
	for _, d := range donations {
		s.donations[d.ID.Hex()] = d
	}
	return s
}

func (s *memStore) FindByReference(ctx context.Context, ref string) (*models.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.donations {
		if d.TransactionReference == ref {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindByID(ctx context.Context, id string) (*models.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (s *memStore) TransitionStatus(ctx context.Context, id string, to models.DonationStatus, ref, note string) (*models.Donation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.donations[id]
	if !ok {
		return nil, false, nil
	}
	if to == models.StatusPending && d.Status != models.StatusPending {
		return nil, false, nil
	}
	if d.Status == models.StatusCompleted {
		return nil, false, nil
	}

	d.Status = to
	if ref != "" {
		d.TransactionReference = ref
	}
	if note != "" {
		d.StatusMessage = note
	}
	d.UpdatedAt = time.Now()
	copied := *d
	return &copied, true, nil
}

// seqVerifier returns its statuses in call order, repeating the last
// one once exhausted.
type seqVerifier struct {
	statuses []hubtel.PaymentStatus
	calls    int64
}

func (v *seqVerifier) VerifyStatus(ctx context.Context, ref string) hubtel.PaymentStatus {
	n := atomic.AddInt64(&v.calls, 1) - 1
	if int(n) >= len(v.statuses) {
		n = int64(len(v.statuses) - 1)
	}
	return v.statuses[n]
}

type countNotifier struct {
	sends int64
}

func (n *countNotifier) SendGratitude(ctx context.Context, donorName, donorPhone string, amount float64) error {
	atomic.AddInt64(&n.sends, 1)
	return nil
}

func TestConcurrentEventsSettleOnCompleted(t *testing.T) {
	donation := newDonation(models.StatusPending)
	storeFake := newMemStore(donation)
	verifier := &seqVerifier{statuses: []hubtel.PaymentStatus{
		{Success: true, Status: models.StatusCompleted},
		{Success: true, Status: models.StatusPending},
	}}
	notifier := &countNotifier{}

	orch := New(storeFake, verifier, notifier, true)
	orch.notified = make(chan struct{}, 4)

	// A webhook and a redirect land within milliseconds of each other,
	// one resolving completed and one still seeing pending.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			orch.Reconcile(context.Background(), testRef, HintNone)
		}()
	}
	wg.Wait()

	final, err := storeFake.FindByID(context.Background(), donation.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, models.StatusCompleted, final.Status, "completed must win regardless of arrival order")

	select {
	case <-orch.notified:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification attempt")
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&notifier.sends), "exactly one notification for one completion")
}

func TestEndToEndDonationFlow(t *testing.T) {
	donation := newDonation(models.StatusPending)
	donation.TransactionReference = "DON-AB12CD34-56789012"
	storeFake := newMemStore(donation)
	verifier := &seqVerifier{statuses: []hubtel.PaymentStatus{
		{Success: true, Status: models.StatusCompleted, TransactionID: "tx-500"},
	}}
	notifier := &countNotifier{}

	orch := New(storeFake, verifier, notifier, true)
	orch.notified = make(chan struct{}, 1)

	// Donor paid on the checkout page; the browser comes back with
	// status=success and the verifier confirms.
	res := orch.Reconcile(context.Background(), "DON-AB12CD34-56789012", HintSuccess)
	assert.Equal(t, OutcomeCompleted, res.Outcome)

	final, _ := storeFake.FindByID(context.Background(), donation.ID.Hex())
	assert.Equal(t, models.StatusCompleted, final.Status)
	assert.Equal(t, "DON-AB12CD34-56789012", final.TransactionReference)
	assert.Equal(t, 500.0, final.Amount)

	select {
	case <-orch.notified:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification attempt")
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&notifier.sends))

	// Replaying the redirect is a pure no-op.
	res = orch.Reconcile(context.Background(), "DON-AB12CD34-56789012", HintSuccess)
	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.Equal(t, int64(1), atomic.LoadInt64(&notifier.sends), "replay must not notify again")
	assert.Equal(t, int64(1), atomic.LoadInt64(&verifier.calls), "replay must not hit the verifier")
}

func TestUnknownReferenceAgainstEmptyStore(t *testing.T) {
	orch := New(newMemStore(), &seqVerifier{statuses: []hubtel.PaymentStatus{{}}}, &countNotifier{}, true)

	res := orch.Reconcile(context.Background(), "DON-FFFFFFFF-99999999", HintNone)
	assert.Equal(t, OutcomeNotFound, res.Outcome)
}
