package purchase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/expressdata/internal/client/checkout"
	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/client/services"
	"github.com/dmitrijs2005/expressdata/internal/logging"
	"github.com/dmitrijs2005/expressdata/internal/phone"
)

const defaultCurrency = "GHS"

// UI is what a flow needs from the screen.
type UI interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
	ShowAccount(ctx context.Context)
	OpenRecipientPrompt(ctx context.Context)
	CloseRecipientPrompt(ctx context.Context)
}

type Config struct {
	PublicKey string
	Currency  string
}

// Manager starts purchase flows and holds the one waiting for a recipient
// phone number, if any.
type Manager struct {
	cfg       Config
	session   services.SessionSource
	functions client.FunctionsAPI
	widget    checkout.Widget
	ui        UI
	refresh   func(ctx context.Context)
	log       logging.Logger
	now       func() time.Time

	mu      sync.Mutex
	current *Flow
}

// NewManager wires a Manager. refreshOrders is called after a successful
// purchase and may be nil.
func NewManager(cfg Config, session services.SessionSource, functions client.FunctionsAPI, widget checkout.Widget,
	ui UI, refreshOrders func(ctx context.Context), log logging.Logger) *Manager {
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}
	return &Manager{
		cfg:       cfg,
		session:   session,
		functions: functions,
		widget:    widget,
		ui:        ui,
		refresh:   refreshOrders,
		log:       log.With("component", "purchase"),
		now:       time.Now,
	}
}

// Current returns the flow waiting for a recipient phone number.
func (m *Manager) Current() *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// replace makes f the current flow. A flow still waiting for its recipient
// is abandoned.
func (m *Manager) replace(f *Flow) *Flow {
	m.mu.Lock()
	prev := m.current
	m.current = f
	m.mu.Unlock()

	if prev != nil && prev.State() == AwaitingRecipientPhone {
		prev.finish(Aborted)
		return prev
	}
	return nil
}

func (m *Manager) release(f *Flow) {
	m.mu.Lock()
	if m.current == f {
		m.current = nil
	}
	m.mu.Unlock()
}

// Select starts a flow for offer. A self purchase runs through payment and
// verification before Select returns; a gift purchase stops at the
// recipient prompt and continues in SubmitRecipient.
func (m *Manager) Select(ctx context.Context, offer models.Offer, network string, mode Mode) *Flow {
	f := newFlow(offer.Data(network), mode)
	log := m.log.With("flow", f.id, "mode", mode.String())

	if prev := m.replace(f); prev != nil {
		log.Debug(ctx, "previous flow superseded", "previous", prev.id)
		if mode == ForSelf {
			m.ui.CloseRecipientPrompt(ctx)
		}
	}

	if !f.offer.Price.Positive() {
		log.Warn(ctx, "invalid offer price", "offer_id", f.offer.ID, "price", f.offer.Price.String())
		m.abort(ctx, f, "Invalid offer price. Please try again.")
		return f
	}
	if f.offer.Name == "" {
		log.Warn(ctx, "offer name missing", "offer_id", f.offer.ID)
		m.abort(ctx, f, "Offer name is missing. Please try again.")
		return f
	}

	f.to(OfferSelected)
	log.Info(ctx, "offer selected", "offer_id", f.offer.ID, "price", f.offer.Price.String())

	if mode == ForOthers {
		f.to(AwaitingRecipientPhone)
		m.ui.OpenRecipientPrompt(ctx)
		return f
	}

	m.release(f)
	m.pay(ctx, f)
	return f
}

// SubmitRecipient validates the phone number typed into the recipient
// prompt. An invalid number leaves the flow waiting; a valid one closes the
// prompt and opens payment. It returns nil when no flow is waiting.
func (m *Manager) SubmitRecipient(ctx context.Context, input string) *Flow {
	f := m.Current()
	if f == nil || f.State() != AwaitingRecipientPhone {
		m.ui.Error(ctx, "Offer data not found. Please try again.")
		return nil
	}

	number, err := phone.ValidateRecipient(input)
	switch {
	case errors.Is(err, phone.ErrRequired):
		m.ui.Error(ctx, "Phone number is required to purchase for others")
		return f
	case err != nil:
		m.ui.Error(ctx, "Invalid phone number format. Use +233XXXXXXXXX or 0XXXXXXXXX")
		return f
	}

	f.setRecipient(number)
	m.release(f)
	m.ui.CloseRecipientPrompt(ctx)
	m.pay(ctx, f)
	return f
}

// Dismiss closes the recipient prompt and forgets the waiting flow. Flows
// already past the prompt are not affected.
func (m *Manager) Dismiss(ctx context.Context) {
	m.mu.Lock()
	f := m.current
	m.current = nil
	m.mu.Unlock()

	m.ui.CloseRecipientPrompt(ctx)
	if f != nil && f.State() == AwaitingRecipientPhone {
		f.finish(Aborted)
		m.log.Debug(ctx, "flow dismissed", "flow", f.id)
	}
}

func (m *Manager) abort(ctx context.Context, f *Flow, msg string) {
	m.release(f)
	f.finish(Aborted)
	m.ui.Error(ctx, msg)
}

func (m *Manager) pay(ctx context.Context, f *Flow) {
	log := m.log.With("flow", f.id)

	s, err := m.session.CurrentSession(ctx)
	if err != nil || !s.HasUser() {
		log.Warn(ctx, "purchase without session", "error", err)
		m.abort(ctx, f, "Please login to make a purchase")
		return
	}

	if f.mode == ForSelf {
		number := models.PurchasePhone(s.User)
		if number == "" {
			log.Info(ctx, "no phone on file")
			m.abort(ctx, f, "Please update your phone number in account settings first")
			m.ui.ShowAccount(ctx)
			return
		}
		f.setRecipient(number)
	}
	if f.Recipient() == "" {
		m.abort(ctx, f, "Recipient phone number is required")
		return
	}

	ref := Reference(m.now(), s.User)
	f.setReference(ref)

	var paid *checkout.Response
	h, err := m.widget.Setup(checkout.Options{
		PublicKey: m.cfg.PublicKey,
		Email:     s.User.Email,
		Amount:    f.offer.Price.Subunits(),
		Currency:  m.cfg.Currency,
		Reference: ref,
		Metadata:  checkout.Metadata{CustomFields: customFields(f.offer, f.Recipient(), f.mode, s.User.ID)},
		OnSuccess: func(r checkout.Response) { paid = &r },
		OnClose:   func() {},
	})
	if err != nil {
		log.Error(ctx, "payment setup failed", "error", err)
		m.abort(ctx, f, "Failed to initialize payment. Please try again.")
		return
	}

	f.to(PaymentOpen)
	log.Info(ctx, "payment opened", "reference", ref, "amount", f.offer.Price.Subunits())
	if err := h.Open(ctx); err != nil {
		log.Error(ctx, "payment popup failed", "error", err)
		m.abort(ctx, f, "Failed to initialize payment. Please try again.")
		return
	}

	if paid == nil {
		log.Info(ctx, "payment cancelled", "reference", ref)
		f.finish(Cancelled)
		m.ui.Error(ctx, "Payment cancelled")
		return
	}

	if paid.Reference != "" {
		ref = paid.Reference
		f.setReference(ref)
	}
	m.verify(ctx, f, ref)
}

func (m *Manager) verify(ctx context.Context, f *Flow, ref string) {
	log := m.log.With("flow", f.id, "reference", ref)
	f.to(Verifying)

	req := VerifyRequest{
		Reference:      ref,
		OfferData:      f.offer,
		RecipientPhone: f.Recipient(),
		BuyForSelf:     f.mode == ForSelf,
	}

	var resp VerifyResponse
	err := m.session.Authorized(ctx, func(s *models.Session) error {
		resp = VerifyResponse{}
		return m.functions.Invoke(ctx, s.AccessToken, VerifyFunction, req, &resp)
	})
	if err == nil && !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = verifyFallback
		}
		err = &RejectedError{Msg: msg}
	}
	if err != nil {
		log.Error(ctx, "payment verification failed", "error", err)
		f.finish(Failure)
		m.ui.Error(ctx, failureMessage(err, ref))
		return
	}

	if resp.Order != nil {
		f.setOrderID(string(resp.Order.ID))
	}
	amount := resp.ChargedAmount(f.offer.Price)
	f.finish(Success)
	log.Info(ctx, "order confirmed", "order_id", f.OrderID(), "amount", amount.String())
	m.ui.Success(ctx, confirmation(f, resp.OrderPrefix(), amount, m.cfg.Currency))

	if m.refresh != nil {
		m.refresh(ctx)
	}
}
