// Package purchase runs the buy-a-bundle flow: offer selection, optional
// recipient entry, the payment popup and server-side verification.
//
// Each selection creates its own Flow holding a snapshot of the offer, so a
// slow verification never sees a later selection's data. The Manager only
// remembers which flow is current for the recipient prompt.
package purchase

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/expressdata/internal/client/models"
)

type State int

const (
	Idle State = iota
	OfferSelected
	AwaitingRecipientPhone
	PaymentOpen
	Verifying
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case OfferSelected:
		return "offer-selected"
	case AwaitingRecipientPhone:
		return "awaiting-recipient-phone"
	case PaymentOpen:
		return "payment-open"
	case Verifying:
		return "verifying"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome records how a flow ended. Aborted and Cancelled flows return to
// Idle; Success and Failure end in Resolved.
type Outcome int

const (
	Unfinished Outcome = iota
	Success
	Failure
	Cancelled
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Unfinished:
		return "unfinished"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Cancelled:
		return "cancelled"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Mode distinguishes buying for the signed-in user from buying a gift.
type Mode int

const (
	ForSelf Mode = iota
	ForOthers
)

func (m Mode) String() string {
	if m == ForOthers {
		return "others"
	}
	return "self"
}

// Flow is one purchase attempt.
type Flow struct {
	id    string
	offer models.OfferData
	mode  Mode

	mu        sync.Mutex
	state     State
	outcome   Outcome
	recipient string
	reference string
	orderID   string
}

func newFlow(offer models.OfferData, mode Mode) *Flow {
	return &Flow{id: uuid.NewString(), offer: offer, mode: mode, state: Idle}
}

func (f *Flow) ID() string              { return f.id }
func (f *Flow) Offer() models.OfferData { return f.offer }
func (f *Flow) Mode() Mode              { return f.mode }

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Outcome() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// Recipient is the phone number the bundle goes to, once known.
func (f *Flow) Recipient() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recipient
}

// Reference is the payment reference, set when the popup opens.
func (f *Flow) Reference() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reference
}

// OrderID is the id of the order written by verification, if any.
func (f *Flow) OrderID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderID
}

func (f *Flow) to(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func (f *Flow) finish(o Outcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcome = o
	switch o {
	case Success, Failure:
		f.state = Resolved
	default:
		f.state = Idle
	}
}

func (f *Flow) setRecipient(p string) {
	f.mu.Lock()
	f.recipient = p
	f.mu.Unlock()
}

func (f *Flow) setReference(r string) {
	f.mu.Lock()
	f.reference = r
	f.mu.Unlock()
}

func (f *Flow) setOrderID(id string) {
	f.mu.Lock()
	f.orderID = id
	f.mu.Unlock()
}
