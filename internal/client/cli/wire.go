package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/expressdata/internal/client/checkout"
	"github.com/dmitrijs2005/expressdata/internal/client/client"
	"github.com/dmitrijs2005/expressdata/internal/client/config"
	"github.com/dmitrijs2005/expressdata/internal/client/coordinator"
	"github.com/dmitrijs2005/expressdata/internal/client/purchase"
	"github.com/dmitrijs2005/expressdata/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/expressdata/internal/client/services"
	"github.com/dmitrijs2005/expressdata/internal/client/session"
	"github.com/dmitrijs2005/expressdata/internal/cryptox"
	"github.com/dmitrijs2005/expressdata/internal/filex"
	"github.com/dmitrijs2005/expressdata/internal/logging"
)

// Build opens the local store and wires every service into an App. The
// returned close function releases the local database.
func Build(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log logging.Logger) (*App, func() error, error) {
	if _, err := filex.EnsureParentDir(cfg.DBPath); err != nil {
		return nil, nil, err
	}
	db, err := client.OpenDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open local store: %w", err)
	}

	secret, err := cryptox.LoadOrCreateSecret(cfg.DeviceKeyPath)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("device key: %w", err)
	}
	store := session.NewStore(metadata.NewSQLiteRepository(db), secret)

	api, err := client.NewHTTPClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	auth := services.NewAuthService(api, store, log, cfg.CallbackAddr)
	a := NewApp(cfg, Services{
		Auth:     auth,
		Catalog:  services.NewCatalogService(api, auth, log),
		Profiles: services.NewProfileService(auth, cfg.Providers),
		Avatars:  services.NewAvatarService(cfg.Storage, auth, &http.Client{Timeout: cfg.RequestTimeout}, log),
	}, in, out, log)

	widget := checkout.NewLoopbackWidget(cfg.CallbackAddr, a.openURL, cfg.CheckoutTimeout, log)
	a.purchases = purchase.NewManager(purchase.Config{
		PublicKey: cfg.PaystackPublicKey,
		Currency:  cfg.Currency,
	}, auth, api, widget, a, a.refreshOrders, log)
	a.coord = coordinator.New(auth, a, log, cfg.RecheckDelay)

	return a, db.Close, nil
}
