// Package reconcile is the state machine that settles a donation's
// payment outcome. The browser redirect after checkout, Hubtel's
// server-to-server webhook, and the client status poll all run the
// same transition logic here, parameterized only by the channel hint.
// Events race, duplicate and arrive out of order; correctness rests on
// the store's conditional update, not on any in-process lock.
package reconcile

import (
	"context"
	"log"
	"time"

	"github.com/mickiefender/campaign-website/internal/hubtel"
	"github.com/mickiefender/campaign-website/internal/models"
)

// ChannelHint is the status claimed by the inbound channel itself, as
// opposed to a status obtained by asking the gateway.
type ChannelHint string

const (
	HintNone      ChannelHint = ""
	HintSuccess   ChannelHint = "success"
	HintCancelled ChannelHint = "cancelled"
)

// Outcome is the resolved result of one reconciliation event. Every
// branch of the flow ends in one of these; nothing may escape as a
// panic or an unhandled error.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomePending   Outcome = "pending"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
	OutcomeNotFound  Outcome = "donation_not_found"
	OutcomeError     Outcome = "processing_error"
)

// Result carries the outcome plus the donation as it stands after the
// event was applied.
type Result struct {
	Outcome  Outcome
	Donation *models.Donation
	Message  string
}

// DonationStore is the slice of the store the orchestrator drives.
// TransitionStatus must be atomic and guarded: it reports applied=false
// instead of overwriting a more final state.
//
//go:generate mockgen -destination=mocks/mock_reconcile.go -source=reconcile.go -package=mock_reconcile
type DonationStore interface {
	FindByReference(ctx context.Context, ref string) (*models.Donation, error)
	FindByID(ctx context.Context, id string) (*models.Donation, error)
	TransitionStatus(ctx context.Context, id string, to models.DonationStatus, ref, note string) (*models.Donation, bool, error)
}

// Verifier asks the gateway for the canonical status of a reference.
// Transport and parse failures surface as Success=false, never as a
// coerced canonical status.
type Verifier interface {
	VerifyStatus(ctx context.Context, ref string) hubtel.PaymentStatus
}

// Notifier sends the post-completion thank-you. It is called in a
// detached goroutine; its errors are logged and dropped.
type Notifier interface {
	SendGratitude(ctx context.Context, donorName, donorPhone string, amount float64) error
}

type Orchestrator struct {
	store    DonationStore
	verifier Verifier
	notifier Notifier

	// trustRedirectHint marks a donation completed on a success hint
	// when the verifier is unreachable. Without it a real payment can
	// stay pending forever if the status API is down at exactly the
	// redirect moment; with it an unverified success claim is trusted.
	trustRedirectHint bool

	notifyTimeout time.Duration

	// notified, when set, is signalled after each notification attempt.
	// Tests use it to wait for the detached send.
	notified chan struct{}
}

func New(store DonationStore, verifier Verifier, notifier Notifier, trustRedirectHint bool) *Orchestrator {
	return &Orchestrator{
		store:             store,
		verifier:          verifier,
		notifier:          notifier,
		trustRedirectHint: trustRedirectHint,
		notifyTimeout:     15 * time.Second,
	}
}

// Reconcile processes one payment event for the given reference. The
// same donation may be reconciled any number of times from any channel;
// replays of a completed donation are no-ops and trigger no second
// notification.
func (o *Orchestrator) Reconcile(ctx context.Context, ref string, hint ChannelHint) Result {
	donation, err := o.store.FindByReference(ctx, ref)
	if err != nil {
		log.Printf("Reconcile %s: store lookup failed: %v", ref, err)
		return Result{Outcome: OutcomeError, Message: err.Error()}
	}
	if donation == nil {
		log.Printf("Reconcile %s: no donation for reference", ref)
		return Result{Outcome: OutcomeNotFound}
	}

	// Completed is terminal. A duplicate event replays the known
	// success without consulting the verifier or touching the record.
	if donation.Status == models.StatusCompleted {
		return Result{Outcome: OutcomeCompleted, Donation: donation}
	}

	// A user-initiated cancel carries no gateway-side status worth
	// asking for.
	if hint == HintCancelled {
		return o.apply(ctx, donation, models.StatusCancelled, "", "cancelled by donor")
	}

	verified := o.verifier.VerifyStatus(ctx, ref)

	if !verified.Success {
		if hint == HintSuccess && o.trustRedirectHint {
			log.Printf("Reconcile %s: verifier unavailable (%s), trusting success redirect", ref, verified.Message)
			return o.apply(ctx, donation, models.StatusCompleted, ref, "completed via redirect fallback")
		}
		log.Printf("Reconcile %s: verification unavailable: %s", ref, verified.Message)
		return o.apply(ctx, donation, models.StatusFailed, "", verified.Message)
	}

	switch verified.Status {
	case models.StatusCompleted:
		return o.apply(ctx, donation, models.StatusCompleted, ref, verified.Message)
	case models.StatusPending:
		res := o.apply(ctx, donation, models.StatusPending, ref, "")
		if res.Outcome == OutcomePending {
			res.Message = "payment still processing"
		}
		return res
	case models.StatusCancelled:
		return o.apply(ctx, donation, models.StatusCancelled, "", verified.Message)
	default:
		return o.apply(ctx, donation, models.StatusFailed, "", verified.Message)
	}
}

// apply persists one guarded transition and translates the store's
// answer into an outcome. When the conditional update does not apply,
// the donation is re-read: a concurrent event may have won the race
// into a terminal state, and the terminal check must hold at persist
// time, not only at entry.
func (o *Orchestrator) apply(ctx context.Context, donation *models.Donation, to models.DonationStatus, ref, note string) Result {
	updated, applied, err := o.store.TransitionStatus(ctx, donation.ID.Hex(), to, ref, note)
	if err != nil {
		log.Printf("Reconcile %s: transition to %s failed: %v", donation.TransactionReference, to, err)
		return Result{Outcome: OutcomeError, Donation: donation, Message: err.Error()}
	}

	if !applied {
		current, err := o.store.FindByID(ctx, donation.ID.Hex())
		if err != nil {
			return Result{Outcome: OutcomeError, Donation: donation, Message: err.Error()}
		}
		if current == nil {
			return Result{Outcome: OutcomeNotFound}
		}
		// The other event won; report its state as ours. The winning
		// transition owns the notification, not this path.
		return Result{Outcome: statusOutcome(current.Status), Donation: current}
	}

	if to == models.StatusCompleted {
		o.dispatchNotification(updated)
	}

	return Result{Outcome: statusOutcome(updated.Status), Donation: updated, Message: note}
}

// dispatchNotification fires the thank-you exactly once per transition
// into completed, detached from the request lifecycle. Failure is
// logged; it never rolls back or delays the status transition.
func (o *Orchestrator) dispatchNotification(donation *models.Donation) {
	if donation.Phone == "" {
		log.Printf("Donation %s completed, no phone number for thank-you SMS", donation.ID.Hex())
		o.signalNotified()
		return
	}

	name := donation.FullName
	if donation.IsAnonymous {
		name = ""
	}
	phone := donation.Phone
	amount := donation.Amount
	id := donation.ID.Hex()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.notifyTimeout)
		defer cancel()
		if err := o.notifier.SendGratitude(ctx, name, phone, amount); err != nil {
			log.Printf("Thank-you SMS for donation %s failed: %v", id, err)
		}
		o.signalNotified()
	}()
}

func (o *Orchestrator) signalNotified() {
	if o.notified != nil {
		select {
		case o.notified <- struct{}{}:
		default:
		}
	}
}

func statusOutcome(s models.DonationStatus) Outcome {
	switch s {
	case models.StatusCompleted:
		return OutcomeCompleted
	case models.StatusPending:
		return OutcomePending
	case models.StatusCancelled:
		return OutcomeCancelled
	case models.StatusFailed:
		return OutcomeFailed
	default:
		return OutcomeError
	}
}
