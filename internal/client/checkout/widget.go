// Package checkout bridges the hosted payment popup into the terminal client.
//
// A Widget is configured once per payment with Options and returns a Handle.
// Opening the handle shows the popup and delivers exactly one callback:
// OnSuccess with the payment reference, or OnClose when the user dismissed
// the popup.
package checkout

import (
	"context"
	"errors"
)

var (
	ErrMissingKey       = errors.New("payment public key is not configured")
	ErrMissingEmail     = errors.New("payer email is required")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
	ErrMissingReference = errors.New("payment reference is required")
	ErrAlreadyOpened    = errors.New("payment handle already opened")
)

// Field is one entry of the metadata shown on the merchant dashboard.
type Field struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

type Metadata struct {
	CustomFields []Field `json:"custom_fields"`
}

// Response is what the popup reports after a successful charge.
type Response struct {
	Reference   string `json:"reference"`
	Status      string `json:"status,omitempty"`
	Transaction string `json:"transaction,omitempty"`
	Message     string `json:"message,omitempty"`
}

type Options struct {
	PublicKey string
	Email     string
	// Amount is in currency subunits (pesewas for GHS).
	Amount    int64
	Currency  string
	Reference string
	Metadata  Metadata

	OnSuccess func(Response)
	OnClose   func()
}

func (o Options) validate() error {
	switch {
	case o.PublicKey == "":
		return ErrMissingKey
	case o.Email == "":
		return ErrMissingEmail
	case o.Amount <= 0:
		return ErrInvalidAmount
	case o.Reference == "":
		return ErrMissingReference
	}
	return nil
}

type Widget interface {
	Setup(opts Options) (Handle, error)
}

type Handle interface {
	// Open shows the popup and blocks until one callback has been delivered.
	// Cancelling ctx counts as a dismissal.
	Open(ctx context.Context) error
}
