package purchase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/expressdata/internal/client/checkout"
	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/money"
)

// VerifyFunction is the hosted function that checks a payment and writes
// the order row.
const VerifyFunction = "express_api"

const verifyFallback = "Payment verification failed"

type VerifyRequest struct {
	Reference      string           `json:"reference"`
	OfferData      models.OfferData `json:"offerData"`
	RecipientPhone string           `json:"recipientPhone"`
	BuyForSelf     bool             `json:"buyForSelf"`
}

type VerifiedOrder struct {
	ID models.ID `json:"id"`
}

type VerifiedPayment struct {
	Amount *money.Amount `json:"amount"`
}

type VerifyResponse struct {
	Success bool             `json:"success"`
	Order   *VerifiedOrder   `json:"order,omitempty"`
	Payment *VerifiedPayment `json:"payment,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// OrderPrefix is the short order id shown in the confirmation, or "new"
// when the function did not return one.
func (r VerifyResponse) OrderPrefix() string {
	if r.Order == nil || r.Order.ID == "" {
		return "new"
	}
	id := string(r.Order.ID)
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}

// ChargedAmount is the amount the function reports, falling back to the
// offer price when it reports nothing.
func (r VerifyResponse) ChargedAmount(fallback money.Amount) money.Amount {
	if r.Payment == nil || r.Payment.Amount == nil || r.Payment.Amount.IsZero() {
		return fallback
	}
	return *r.Payment.Amount
}

// RejectedError is an explicit verification failure.
type RejectedError struct {
	Msg string
}

func (e *RejectedError) Error() string { return e.Msg }

// Reference builds the payment reference: a millisecond timestamp plus the
// first eight characters of the user id.
func Reference(now time.Time, user *models.User) string {
	return fmt.Sprintf("EXPRESS_%d_%s", now.UnixMilli(), user.IDPrefix(8))
}

func customFields(offer models.OfferData, recipient string, mode Mode, userID string) []checkout.Field {
	buyForSelf := "No"
	if mode == ForSelf {
		buyForSelf = "Yes"
	}
	return []checkout.Field{
		{DisplayName: "Offer Name", VariableName: "offer_name", Value: offer.Name},
		{DisplayName: "Network Provider", VariableName: "network", Value: offer.Network},
		{DisplayName: "Recipient Phone", VariableName: "recipient_phone", Value: recipient},
		{DisplayName: "Buy For Self", VariableName: "buy_for_self", Value: buyForSelf},
		{DisplayName: "User ID", VariableName: "user_id", Value: userID},
	}
}

func verifyErrorText(err error) string {
	var rejected *RejectedError
	switch {
	case errors.As(err, &rejected):
		return rejected.Msg
	case errors.Is(err, client.ErrNoSession):
		return "User session not found"
	}
	return client.Message(err, verifyFallback)
}

// failureMessage tells a transport failure (payment probably went through)
// apart from a rejection. Both carry the reference.
func failureMessage(err error, reference string) string {
	msg := verifyErrorText(err)
	lower := strings.ToLower(msg)
	if errors.Is(err, client.ErrUnavailable) || strings.Contains(lower, "fetch") || strings.Contains(lower, "network") {
		return "Payment successful but verification failed. Your order will be processed. Reference: " + reference
	}
	return "Payment verification failed: " + msg + ". Contact support with reference: " + reference
}

func confirmation(f *Flow, orderPrefix string, amount money.Amount, currency string) string {
	var b strings.Builder
	b.WriteString("✅ Order Confirmed!\n\n")
	fmt.Fprintf(&b, "Order ID: #%s\n", orderPrefix)
	fmt.Fprintf(&b, "Bundle: %s\n", f.offer.Name)
	if f.mode == ForOthers {
		fmt.Fprintf(&b, "Recipient: %s\n", f.Recipient())
	}
	fmt.Fprintf(&b, "Amount: %s\n\n", amount.Format(currency))
	if f.mode == ForSelf {
		fmt.Fprintf(&b, "Your data bundle will be delivered to %s shortly!", f.Recipient())
	} else {
		b.WriteString("Data bundle will be sent shortly!")
	}
	return b.String()
}
