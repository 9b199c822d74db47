package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/logging"
)

const (
	providerOrdersLimit = 20
	globalOrdersLimit   = 10
)

// ListState is the outcome of one load pass. Error and Empty are terminal
// for that pass; there is no retry.
type ListState int

const (
	ListError ListState = iota
	ListEmpty
	ListReady
)

// OfferCard is a rendered offer. Its purchase actions stay hidden until the
// card is activated.
type OfferCard struct {
	Offer          models.Offer
	ActionsVisible bool
}

type OfferList struct {
	Provider string
	State    ListState
	Err      error
	Cards    []OfferCard
}

// Activate toggles the purchase actions of card i and hides every other
// card's actions.
func (l *OfferList) Activate(i int) (*OfferCard, error) {
	if i < 0 || i >= len(l.Cards) {
		return nil, fmt.Errorf("no offer #%d", i+1)
	}
	for j := range l.Cards {
		if j == i {
			l.Cards[j].ActionsVisible = !l.Cards[j].ActionsVisible
		} else {
			l.Cards[j].ActionsVisible = false
		}
	}
	return &l.Cards[i], nil
}

// ActiveCard returns the card whose actions are visible, if any.
func (l *OfferList) ActiveCard() (*OfferCard, bool) {
	for i := range l.Cards {
		if l.Cards[i].ActionsVisible {
			return &l.Cards[i], true
		}
	}
	return nil, false
}

func (l *OfferList) HideActions() {
	for i := range l.Cards {
		l.Cards[i].ActionsVisible = false
	}
}

// OrderScope selects which orders a list shows. An empty Provider means all
// of the user's orders.
type OrderScope struct {
	Provider string
}

func (s OrderScope) limit() int {
	if s.Provider != "" {
		return providerOrdersLimit
	}
	return globalOrdersLimit
}

type OrderList struct {
	Scope  OrderScope
	State  ListState
	Err    error
	Orders []models.Order
}

// CatalogService loads the read-only lists shown by the storefront.
type CatalogService interface {
	LoadOffers(ctx context.Context, provider string) *OfferList
	LoadOrders(ctx context.Context, scope OrderScope) *OrderList
	LoadProviderDetail(ctx context.Context, provider string) (*OfferList, *OrderList)
}

type catalogService struct {
	data    client.DataAPI
	session SessionSource
	log     logging.Logger
}

func NewCatalogService(data client.DataAPI, session SessionSource, log logging.Logger) CatalogService {
	return &catalogService{data: data, session: session, log: log.With("component", "catalog")}
}

// LoadOffers fetches the offers of provider, cheapest first. The provider
// name is lower-cased to match the stored network tag.
func (c *catalogService) LoadOffers(ctx context.Context, provider string) *OfferList {
	list := &OfferList{Provider: provider}
	network := strings.ToLower(strings.TrimSpace(provider))

	token := ""
	if s, err := c.session.CurrentSession(ctx); err == nil && s != nil {
		token = s.AccessToken
	}

	var offers []models.Offer
	err := c.data.Select(ctx, token, client.Query{
		Table: "offers",
		Eq:    []client.Filter{{Column: "network", Value: network}},
		Order: &client.Order{Column: "price"},
	}, &offers)
	if err != nil {
		c.log.Error(ctx, "load offers failed", "provider", provider, "error", err)
		list.State, list.Err = ListError, err
		return list
	}

	c.log.Debug(ctx, "offers loaded", "provider", provider, "count", len(offers))
	if len(offers) == 0 {
		list.State = ListEmpty
		return list
	}

	list.State = ListReady
	list.Cards = make([]OfferCard, len(offers))
	for i, o := range offers {
		list.Cards[i] = OfferCard{Offer: o}
	}
	return list
}

// LoadOrders fetches the signed-in user's most recent orders.
func (c *catalogService) LoadOrders(ctx context.Context, scope OrderScope) *OrderList {
	list := &OrderList{Scope: scope}

	var orders []models.Order
	err := c.session.Authorized(ctx, func(s *models.Session) error {
		filters := []client.Filter{{Column: "user_id", Value: s.User.ID}}
		if scope.Provider != "" {
			filters = append(filters, client.Filter{Column: "offer_provider", Value: scope.Provider})
		}
		return c.data.Select(ctx, s.AccessToken, client.Query{
			Table: "orders",
			Eq:    filters,
			Order: &client.Order{Column: "created_at", Descending: true},
			Limit: scope.limit(),
		}, &orders)
	})
	if err != nil {
		c.log.Error(ctx, "load orders failed", "provider", scope.Provider, "error", err)
		list.State, list.Err = ListError, err
		return list
	}

	if len(orders) == 0 {
		list.State = ListEmpty
		return list
	}
	list.State = ListReady
	list.Orders = orders
	return list
}

// LoadProviderDetail loads a provider's offers and the user's orders with
// that provider concurrently. Each list carries its own outcome.
func (c *catalogService) LoadProviderDetail(ctx context.Context, provider string) (*OfferList, *OrderList) {
	var (
		offers *OfferList
		orders *OrderList
	)

	// Neither load fails the group, so one list failing never cancels the
	// other.
	var g errgroup.Group
	g.Go(func() error {
		offers = c.LoadOffers(ctx, provider)
		return nil
	})
	g.Go(func() error {
		orders = c.LoadOrders(ctx, OrderScope{Provider: provider})
		return nil
	})
	_ = g.Wait()

	return offers, orders
}
