package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/expressdata/internal/client/purchase"
	"github.com/dmitrijs2005/expressdata/internal/client/services"
	"github.com/dmitrijs2005/expressdata/internal/client/view"
)

func (a *App) cmdHome(ctx context.Context, _ []string) error {
	a.router.Show(view.PanelCatalog)
	a.renderHome(ctx)
	return nil
}

// resolveProvider accepts a provider name in any case or its 1-based
// position in the catalog.
func (a *App) resolveProvider(arg string) (string, bool) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n >= 1 && n <= len(a.cfg.Providers) {
			return a.cfg.Providers[n-1], true
		}
		return "", false
	}
	for _, p := range a.cfg.Providers {
		if strings.EqualFold(p, arg) {
			return p, true
		}
	}
	return "", false
}

// cmdProvider opens a provider page: its offers and the user's orders with
// that provider, loaded together.
func (a *App) cmdProvider(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return &usageError{usage: "provider <name|number>"}
	}
	name, ok := a.resolveProvider(strings.Join(args, " "))
	if !ok {
		a.notify.Error(ctx, "Unknown provider. Choose one of: "+strings.Join(a.cfg.Providers, ", "))
		return nil
	}

	offers, orders := a.catalog.LoadProviderDetail(ctx, name)

	a.mu.Lock()
	a.provider = name
	a.offers = offers
	a.orders = orders
	a.mu.Unlock()

	a.router.Show(view.PanelProviderDetail)
	a.renderProvider()
	return nil
}

func (a *App) renderProvider() {
	a.mu.Lock()
	name, offers, orders := a.provider, a.offers, a.orders
	a.mu.Unlock()

	fmt.Fprintf(a.out, "== %s ==\n", name)
	view.RenderOffers(a.out, offers, a.cfg.Currency)
	fmt.Fprintln(a.out, "\nYour transactions:")
	view.RenderOrders(a.out, orders, a.cfg.Currency)
}

// parseIndex turns a 1-based list position into a slice index.
func parseIndex(arg string) (int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// cmdOffer toggles the purchase actions of one offer card; the other cards
// hide theirs.
func (a *App) cmdOffer(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return &usageError{usage: "offer <number>"}
	}
	i, ok := parseIndex(args[0])
	if !ok {
		return &usageError{usage: "offer <number>"}
	}

	a.mu.Lock()
	offers := a.offers
	a.mu.Unlock()
	if !a.router.Visible(view.PanelProviderDetail) || offers == nil || offers.State != services.ListReady {
		a.notify.Error(ctx, "Open a provider first with 'provider <name>'")
		return nil
	}

	a.mu.Lock()
	_, err := offers.Activate(i)
	a.mu.Unlock()
	if err != nil {
		a.notify.Error(ctx, "No such offer")
		return nil
	}
	view.RenderOffers(a.out, offers, a.cfg.Currency)
	return nil
}

// cmdBuy starts a purchase of the active offer card. Buying for someone
// else continues in the recipient prompt.
func (a *App) cmdBuy(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return &usageError{usage: "buy self|others"}
	}
	var mode purchase.Mode
	switch strings.ToLower(args[0]) {
	case "self", "me":
		mode = purchase.ForSelf
	case "others", "other", "gift":
		mode = purchase.ForOthers
	default:
		return &usageError{usage: "buy self|others"}
	}

	a.mu.Lock()
	offers, provider := a.offers, a.provider
	var card *services.OfferCard
	if offers != nil {
		card, _ = offers.ActiveCard()
	}
	a.mu.Unlock()

	if card == nil || !a.router.Visible(view.PanelProviderDetail) {
		a.notify.Error(ctx, "Select an offer first with 'offer <number>'")
		return nil
	}
	if card.Offer.Price.IsZero() {
		a.notify.Error(ctx, "Unable to determine offer price. Please try again.")
		return nil
	}
	offer := card.Offer

	a.mu.Lock()
	offers.HideActions()
	a.mu.Unlock()

	a.purchases.Select(ctx, offer, provider, mode)
	if mode == purchase.ForOthers && a.router.ModalOpen(view.ModalRecipientPhone) {
		return a.recipientPrompt(ctx)
	}
	return nil
}

// recipientPrompt keeps asking for the recipient number until one is
// accepted or the user cancels. Cancelling (or end of input) dismisses the
// waiting purchase.
func (a *App) recipientPrompt(ctx context.Context) error {
	for a.router.ModalOpen(view.ModalRecipientPhone) {
		input, err := getSimpleText(a.reader, "Recipient phone number (+233XXXXXXXXX or 0XXXXXXXXX), or 'cancel'", a.out)
		if err != nil {
			a.purchases.Dismiss(ctx)
			return err
		}
		if strings.EqualFold(input, "cancel") {
			a.purchases.Dismiss(ctx)
			return nil
		}
		if a.purchases.SubmitRecipient(ctx, input) == nil {
			a.router.CloseModal(view.ModalRecipientPhone)
			return nil
		}
	}
	return nil
}

func (a *App) cmdOrders(ctx context.Context, _ []string) error {
	list := a.catalog.LoadOrders(ctx, services.OrderScope{})
	a.mu.Lock()
	a.orders = list
	a.mu.Unlock()

	fmt.Fprintln(a.out, "Recent orders:")
	view.RenderOrders(a.out, list, a.cfg.Currency)
	return nil
}

// cmdOrder shows one row of the order list printed last.
func (a *App) cmdOrder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return &usageError{usage: "order <number>"}
	}
	i, ok := parseIndex(args[0])
	if !ok {
		return &usageError{usage: "order <number>"}
	}

	a.mu.Lock()
	list := a.orders
	if list == nil || i >= len(list.Orders) {
		a.mu.Unlock()
		a.notify.Error(ctx, "No such order")
		return nil
	}
	o := list.Orders[i]
	a.detail = &o
	if cur := a.router.Current(); cur != view.PanelOrderDetail {
		a.back = cur
	}
	a.mu.Unlock()

	a.router.Show(view.PanelOrderDetail)
	view.RenderOrderDetail(a.out, o, a.cfg.Currency)
	return nil
}

// cmdBack leaves the order detail for the page it was opened from; any
// other page goes back to the catalog.
func (a *App) cmdBack(ctx context.Context, _ []string) error {
	if a.router.Current() == view.PanelOrderDetail {
		a.mu.Lock()
		back := a.back
		a.detail = nil
		a.mu.Unlock()

		if back == view.PanelProviderDetail {
			a.router.Show(back)
			a.renderProvider()
			return nil
		}
		if back == view.PanelAccount {
			a.ShowAccount(ctx)
			return nil
		}
	}
	return a.cmdHome(ctx, nil)
}
