package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/expressdata/internal/client/config"
	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/client/purchase"
	"github.com/dmitrijs2005/expressdata/internal/client/services"
	"github.com/dmitrijs2005/expressdata/internal/client/view"
	"github.com/dmitrijs2005/expressdata/internal/logging"
)

// purchaser is the part of purchase.Manager the handlers drive.
type purchaser interface {
	Select(ctx context.Context, offer models.Offer, network string, mode purchase.Mode) *purchase.Flow
	SubmitRecipient(ctx context.Context, input string) *purchase.Flow
	Dismiss(ctx context.Context)
}

// sessionWatcher is the part of the session coordinator the app starts and
// stops.
type sessionWatcher interface {
	Start(ctx context.Context)
	Stop()
}

// Services groups the application services the handlers call.
type Services struct {
	Auth     services.AuthService
	Catalog  services.CatalogService
	Profiles services.ProfileService
	Avatars  services.AvatarService
}

type App struct {
	cfg       *config.Config
	auth      services.AuthService
	catalog   services.CatalogService
	profiles  services.ProfileService
	avatars   services.AvatarService
	purchases purchaser
	coord     sessionWatcher

	router   *view.Router
	notify   *view.Notifier
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	openURL  func(url string) error
	commands []*intent
	intents  map[string]*intent

	mu       sync.Mutex
	session  *models.Session
	provider string
	offers   *services.OfferList
	orders   *services.OrderList
	detail   *models.Order
	// back is the panel the order detail returns to.
	back view.Panel
}

var (
	_ purchase.UI = (*App)(nil)
)

// NewApp builds an App reading commands from in and printing to out. The
// purchase manager and the session coordinator depend on the App itself and
// are attached by Build.
func NewApp(cfg *config.Config, svc Services, in io.Reader, out io.Writer, log logging.Logger) *App {
	a := &App{
		cfg:      cfg,
		auth:     svc.Auth,
		catalog:  svc.Catalog,
		profiles: svc.Profiles,
		avatars:  svc.Avatars,
		router:   view.NewRouter(),
		notify:   view.NewNotifier(out, log),
		log:      log.With("component", "cli"),
		reader:   bufio.NewReader(in),
		out:      out,
		openURL:  browserOpener(out),
	}
	a.commands = newIntents()
	a.intents = indexIntents(a.commands)
	return a
}

// Run starts the session coordinator and the REPL and blocks until the user
// exits, input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Express Data (type 'help' for commands)")

	if a.coord != nil {
		a.coord.Start(ctx)
		defer a.coord.Stop()
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) currentSession() *models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) isLoggedIn() bool {
	return a.currentSession().HasUser()
}

func (a *App) currentUser() *models.User {
	if s := a.currentSession(); s.HasUser() {
		return s.User
	}
	return nil
}

// status is the REPL prompt suffix.
func (a *App) status() string {
	if a.router.Booting() {
		return "starting"
	}
	u := a.currentUser()
	if u == nil {
		return "guest"
	}
	return fmt.Sprintf("%s | %s", models.ProfileOf(u).DisplayName, a.router.Current())
}

// ShowAuthenticated records s and, when the login view (or nothing) is on
// screen, switches to the catalog with fresh recent orders. Session updates
// while already signed in only refresh the stored session.
func (a *App) ShowAuthenticated(ctx context.Context, s *models.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	switch a.router.Current() {
	case view.PanelNone, view.PanelAuth:
	default:
		return
	}

	a.log.Debug(ctx, "showing authenticated view")
	a.router.Show(view.PanelCatalog)
	a.renderHome(ctx)
}

// ShowLogin forgets everything tied to the previous user and shows the
// login view.
func (a *App) ShowLogin(ctx context.Context) {
	a.mu.Lock()
	wasSignedIn := a.session.HasUser()
	a.session = nil
	a.provider = ""
	a.offers = nil
	a.orders = nil
	a.detail = nil
	a.mu.Unlock()

	for _, m := range a.router.OpenModals() {
		a.router.CloseModal(m)
	}

	if a.router.Current() == view.PanelAuth && !wasSignedIn {
		return
	}
	a.log.Debug(ctx, "showing login view")
	a.router.Show(view.PanelAuth)
	fmt.Fprintln(a.out, "Please sign in: login | signup | oauth <google|facebook|twitter>")
}

func (a *App) HideBootOverlay(ctx context.Context) {
	if a.router.HideBootOverlay() {
		a.log.Debug(ctx, "boot overlay hidden")
	}
}

func (a *App) Success(ctx context.Context, msg string) { a.notify.Success(ctx, msg) }

func (a *App) Error(ctx context.Context, msg string) { a.notify.Error(ctx, msg) }

func (a *App) ShowAccount(ctx context.Context) {
	a.router.Show(view.PanelAccount)
	view.RenderAccount(a.out, models.ProfileOf(a.currentUser()))
}

func (a *App) OpenRecipientPrompt(ctx context.Context) {
	a.router.OpenModal(view.ModalRecipientPhone)
}

func (a *App) CloseRecipientPrompt(ctx context.Context) {
	a.router.CloseModal(view.ModalRecipientPhone)
}

// refreshOrders reloads the order list on screen after a purchase: the
// provider's orders on the provider page, the recent orders elsewhere.
func (a *App) refreshOrders(ctx context.Context) {
	scope := services.OrderScope{}
	if a.router.Visible(view.PanelProviderDetail) {
		a.mu.Lock()
		scope.Provider = a.provider
		a.mu.Unlock()
	}

	list := a.catalog.LoadOrders(ctx, scope)
	a.mu.Lock()
	a.orders = list
	a.mu.Unlock()

	fmt.Fprintln(a.out)
	view.RenderOrders(a.out, list, a.cfg.Currency)
}

// renderHome prints the profile header, the providers and the recent
// orders.
func (a *App) renderHome(ctx context.Context) {
	view.RenderHeader(a.out, models.ProfileOf(a.currentUser()))
	fmt.Fprintln(a.out)
	view.RenderCatalog(a.out, a.cfg.Providers)

	list := a.catalog.LoadOrders(ctx, services.OrderScope{})
	a.mu.Lock()
	a.orders = list
	a.mu.Unlock()

	fmt.Fprintln(a.out, "\nRecent orders:")
	view.RenderOrders(a.out, list, a.cfg.Currency)
}
