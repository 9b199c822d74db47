package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/client/services"
	"github.com/dmitrijs2005/expressdata/internal/money"
)

// AccountActions are the account page entries that are not available yet.
var AccountActions = []string{"wallet", "referrals", "notifications", "security", "support"}

const na = "N/A"

var indicatorMarks = map[models.Indicator]string{
	models.IndicatorSuccess: "[+]",
	models.IndicatorFailed:  "[x]",
	models.IndicatorPending: "[~]",
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return na
	}
	return s
}

func amountText(a money.Amount, currency string) string {
	return a.Format(currency)
}

// RenderHeader prints the profile strip shown above the authenticated views.
func RenderHeader(w io.Writer, p models.Profile) {
	fmt.Fprintf(w, "%s  |  %s  |  %s\n", p.DisplayName, p.Phone, p.Balance)
}

func RenderCatalog(w io.Writer, providers []string) {
	fmt.Fprintln(w, "Network providers:")
	for i, p := range providers {
		fmt.Fprintf(w, "  %d) %s\n", i+1, p)
	}
	fmt.Fprintln(w, "Use 'provider <name|number>' to browse offers.")
}

// RenderOffers prints a provider's offer cards. A card shows its purchase
// actions only while activated.
func RenderOffers(w io.Writer, list *services.OfferList, currency string) {
	switch list.State {
	case services.ListError:
		fmt.Fprintf(w, "Failed to load offers: %s\n", client.Message(list.Err, "Error loading offers"))
		return
	case services.ListEmpty:
		fmt.Fprintln(w, "No offers available for this provider.")
		return
	}

	for i, c := range list.Cards {
		price := "price unavailable"
		if c.Offer.Price.Positive() {
			price = amountText(c.Offer.Price, currency)
		}
		fmt.Fprintf(w, "  %d) %-24s %s\n", i+1, c.Offer.Name(), price)
		if d := strings.TrimSpace(c.Offer.Description); d != "" {
			fmt.Fprintf(w, "     %s\n", d)
		}
		if c.ActionsVisible {
			fmt.Fprintln(w, "     > buy self | buy others")
		}
	}
}

// RenderOrders prints order rows with their status indicator. Rows are
// numbered for the 'order <n>' command.
func RenderOrders(w io.Writer, list *services.OrderList, currency string) {
	switch list.State {
	case services.ListError:
		if list.Scope.Provider != "" {
			fmt.Fprintln(w, "Failed to load transactions")
		} else {
			fmt.Fprintln(w, "Failed to load orders")
		}
		return
	case services.ListEmpty:
		if list.Scope.Provider != "" {
			fmt.Fprintf(w, "No transactions with %s yet\n", list.Scope.Provider)
		} else {
			fmt.Fprintln(w, "No orders yet")
			fmt.Fprintln(w, "Your purchase history will appear here")
		}
		return
	}

	for i, o := range list.Orders {
		mark := indicatorMarks[o.OrderStatus.Indicator()]
		if list.Scope.Provider != "" {
			fmt.Fprintf(w, "  %2d. %s %-20s %s  %s • %s\n", i+1, mark,
				orNA(o.OfferName), amountText(o.Amount, currency), shortDate(o.CreatedAt), o.RecipientPhone)
			continue
		}
		name := o.OfferName
		if name == "" {
			name = "Purchase"
		}
		fmt.Fprintf(w, "  %2d. %s %-12s %s • %s  %s  %s\n", i+1, mark,
			orNA(o.OfferProvider), name, o.Recipient(), amountText(o.Amount, currency), longDate(o.CreatedAt))
	}
}

func shortDate(t models.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2")
}

func longDate(t models.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 03:04 PM")
}

// detailStatus is the wording of the order detail card, which only knows
// completed, processing and failed.
func detailStatus(s models.OrderStatus) string {
	switch strings.ToLower(string(s)) {
	case string(models.OrderCompleted):
		return "Completed"
	case string(models.OrderProcessing):
		return "Processing"
	default:
		return "Failed"
	}
}

// RenderOrderDetail prints one already-loaded order.
func RenderOrderDetail(w io.Writer, o models.Order, currency string) {
	id := o.ShortID()
	if id == "" {
		id = na
	} else {
		id = "#" + id
	}
	paymentStatus := na
	if o.PaymentStatus != "" {
		paymentStatus = strings.ToUpper(o.PaymentStatus)
	}
	date := ""
	if !o.CreatedAt.IsZero() {
		date = o.CreatedAt.Local().Format("Jan 2, 2006, 3:04 PM")
	}

	fmt.Fprintf(w, "Status:          %s\n\n", detailStatus(o.OrderStatus))
	fmt.Fprintf(w, "Order ID:        %s\n", id)
	fmt.Fprintf(w, "Bundle:          %s\n", orNA(o.OfferName))
	fmt.Fprintf(w, "Provider:        %s\n", orNA(o.OfferProvider))
	fmt.Fprintf(w, "Amount:          %s\n\n", amountText(o.Amount, currency))
	fmt.Fprintf(w, "Recipient:       %s\n", orNA(o.RecipientPhone))
	fmt.Fprintf(w, "Type:            %s\n\n", o.PurchaseType())
	fmt.Fprintf(w, "Payment status:  %s\n", paymentStatus)
	fmt.Fprintf(w, "Reference:       %s\n", orNA(o.PaymentReference))
	fmt.Fprintf(w, "Date:            %s\n", date)
}

func RenderAccount(w io.Writer, p models.Profile) {
	email := p.Email
	if email == "" {
		email = "user@email.com"
	}
	fmt.Fprintf(w, "%s\n%s\n\n", p.DisplayName, email)
	fmt.Fprintf(w, "Balance:   %s\n", p.Balance)
	fmt.Fprintf(w, "Phone:     %s\n", p.Phone)
	fmt.Fprintf(w, "Provider:  %s\n", p.Provider)
	fmt.Fprintf(w, "Avatar:    %s\n\n", p.AvatarURL)
	fmt.Fprintln(w, "Commands: phone, profile, avatar <path>, open <"+strings.Join(AccountActions, "|")+">, logout, back")
}

// ComingSoon is the notice for an account action that does nothing yet.
func ComingSoon(action string) string {
	action = strings.TrimSpace(action)
	if action == "" {
		return ""
	}
	return strings.ToUpper(action[:1]) + action[1:] + " feature coming soon!"
}
