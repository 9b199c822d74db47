package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/dmitrijs2005/expressdata/internal/money"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderFailed     OrderStatus = "failed"
	OrderCancelled  OrderStatus = "cancelled"
)

type Indicator string

const (
	IndicatorSuccess Indicator = "success"
	IndicatorFailed  Indicator = "failed"
	IndicatorPending Indicator = "pending"
)

func (s OrderStatus) normalized() OrderStatus {
	return OrderStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

// Indicator collapses a status into the three states shown next to a row.
func (s OrderStatus) Indicator() Indicator {
	switch s.normalized() {
	case OrderCompleted:
		return IndicatorSuccess
	case OrderFailed, OrderCancelled:
		return IndicatorFailed
	default:
		return IndicatorPending
	}
}

func (s OrderStatus) Label() string {
	switch s.normalized() {
	case OrderCompleted:
		return "Completed"
	case OrderFailed:
		return "Failed"
	case OrderCancelled:
		return "Cancelled"
	default:
		return "Processing"
	}
}

// Timestamp accepts RFC 3339 as well as zone-less timestamps, which are
// read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Order is a purchase record written by the verification function.
type Order struct {
	ID               ID           `json:"id"`
	UserID           string       `json:"user_id"`
	OfferName        string       `json:"offer_name"`
	OfferProvider    string       `json:"offer_provider"`
	Amount           money.Amount `json:"amount"`
	RecipientPhone   string       `json:"recipient_phone"`
	BuyForSelf       bool         `json:"buy_for_self"`
	OrderStatus      OrderStatus  `json:"order_status"`
	PaymentStatus    string       `json:"payment_status"`
	PaymentReference string       `json:"payment_reference"`
	CreatedAt        Timestamp    `json:"created_at"`
}

// ShortID is the "#xxxxxxxx" form used in lists and confirmations.
func (o Order) ShortID() string {
	return prefix(string(o.ID), 8)
}

// Recipient describes who the bundle went to, as shown in the order list.
func (o Order) Recipient() string {
	if o.BuyForSelf {
		return "For yourself"
	}
	return "To " + o.RecipientPhone
}

// PurchaseType is the order-detail wording for the self/gift flag.
func (o Order) PurchaseType() string {
	if o.BuyForSelf {
		return "For yourself"
	}
	return "Gift"
}
