package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/expressdata/internal/money"
)

// ID is a row identifier that may arrive as a JSON number or string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Offer is a data bundle sold for one network provider.
type Offer struct {
	ID          ID           `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price"`
	Network     string       `json:"network"`
}

// Name is the card heading; untitled offers show as "Offer".
func (o Offer) Name() string {
	if t := strings.TrimSpace(o.Title); t != "" {
		return t
	}
	return "Offer"
}

// OfferData is the offer snapshot attached to a payment and sent for
// verification.
type OfferData struct {
	ID          ID           `json:"id"`
	Name        string       `json:"name"`
	Price       money.Amount `json:"price"`
	Network     string       `json:"network"`
	Description string       `json:"description"`
}

// Data snapshots o for a purchase. network is the provider as displayed.
func (o Offer) Data(network string) OfferData {
	return OfferData{
		ID:          o.ID,
		Name:        strings.TrimSpace(o.Title),
		Price:       o.Price,
		Network:     network,
		Description: o.Description,
	}
}
