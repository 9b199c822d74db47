package checkout

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/expressdata/internal/client/loopback"
	"github.com/dmitrijs2005/expressdata/internal/logging"
)

const (
	successPath = "/paystack/success"
	closePath   = "/paystack/close"
	inlineJSURL = "https://js.paystack.co/v1/inline.js"

	// DefaultTimeout bounds how long Open waits for the page to report back.
	DefaultTimeout = 15 * time.Minute
)

var checkoutPage = template.Must(template.New("checkout").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Express Data checkout</title>
<script src="{{.ScriptURL}}"></script>
</head>
<body>
<p id="status">Opening secure payment window...</p>
<script>
(function () {
  var cfg = {{.Config}};
  var reported = false;
  function report(path, body) {
    reported = true;
    fetch(path, {method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body || {})})
      .finally(function () {
        document.getElementById("status").textContent = "You can close this window and return to the terminal.";
      });
  }
  var handler = PaystackPop.setup({
    key: cfg.key,
    email: cfg.email,
    amount: cfg.amount,
    currency: cfg.currency,
    ref: cfg.ref,
    metadata: cfg.metadata,
    callback: function (response) { report({{.SuccessPath}}, response); },
    onClose: function () { report({{.ClosePath}}); }
  });
  handler.openIframe();
  window.addEventListener("pagehide", function () {
    if (!reported) {
      reported = true;
      navigator.sendBeacon({{.ClosePath}});
    }
  });
})();
</script>
</body>
</html>
`))

// popupConfig is the object handed to PaystackPop.setup.
type popupConfig struct {
	Key      string   `json:"key"`
	Email    string   `json:"email"`
	Amount   int64    `json:"amount"`
	Currency string   `json:"currency,omitempty"`
	Ref      string   `json:"ref"`
	Metadata Metadata `json:"metadata"`
}

type pageData struct {
	ScriptURL   string
	Config      popupConfig
	SuccessPath string
	ClosePath   string
}

// LoopbackWidget serves the popup from a local page and waits for the page
// to report the outcome back over HTTP.
type LoopbackWidget struct {
	addr      string
	open      func(url string) error
	log       logging.Logger
	scriptURL string
	timeout   time.Duration
}

// NewLoopbackWidget returns a widget listening on addr. open is called with
// the page URL, typically to launch a browser. A page that has not reported
// back within timeout counts as dismissed; zero means DefaultTimeout.
func NewLoopbackWidget(addr string, open func(url string) error, timeout time.Duration, log logging.Logger) *LoopbackWidget {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LoopbackWidget{
		addr:      addr,
		open:      open,
		log:       log.With("component", "checkout"),
		scriptURL: inlineJSURL,
		timeout:   timeout,
	}
}

func (w *LoopbackWidget) Setup(opts Options) (Handle, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &loopbackHandle{widget: w, opts: opts}, nil
}

type loopbackHandle struct {
	widget *LoopbackWidget
	opts   Options

	mu     sync.Mutex
	opened bool
	once   sync.Once
}

// deliver fires exactly one of the callbacks, whichever comes first.
func (h *loopbackHandle) deliver(resp *Response) bool {
	delivered := false
	h.once.Do(func() {
		delivered = true
		if resp != nil {
			if h.opts.OnSuccess != nil {
				h.opts.OnSuccess(*resp)
			}
			return
		}
		if h.opts.OnClose != nil {
			h.opts.OnClose()
		}
	})
	return delivered
}

func (h *loopbackHandle) router(done chan<- struct{}) chi.Router {
	r := loopback.NewRouter()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := checkoutPage.Execute(w, pageData{
			ScriptURL: h.widget.scriptURL,
			Config: popupConfig{
				Key:      h.opts.PublicKey,
				Email:    h.opts.Email,
				Amount:   h.opts.Amount,
				Currency: h.opts.Currency,
				Ref:      h.opts.Reference,
				Metadata: h.opts.Metadata,
			},
			SuccessPath: successPath,
			ClosePath:   closePath,
		})
		if err != nil {
			h.widget.log.Error(req.Context(), "render checkout page", "error", err)
		}
	})

	r.Post(successPath, func(w http.ResponseWriter, req *http.Request) {
		var resp Response
		if err := json.NewDecoder(req.Body).Decode(&resp); err != nil || resp.Reference == "" {
			http.Error(w, "missing reference", http.StatusBadRequest)
			return
		}
		if h.deliver(&resp) {
			close(done)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post(closePath, func(w http.ResponseWriter, req *http.Request) {
		if h.deliver(nil) {
			close(done)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func (h *loopbackHandle) Open(ctx context.Context) error {
	h.mu.Lock()
	if h.opened {
		h.mu.Unlock()
		return ErrAlreadyOpened
	}
	h.opened = true
	h.mu.Unlock()

	log := h.widget.log
	done := make(chan struct{})

	srv, err := loopback.Start(h.widget.addr, h.router(done), log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	pageURL := srv.URL() + "/"
	if err := h.widget.open(pageURL); err != nil {
		return err
	}
	log.Info(ctx, "payment page opened", "url", pageURL, "reference", h.opts.Reference)

	waitCtx, cancel := context.WithTimeout(ctx, h.widget.timeout)
	defer cancel()

	select {
	case <-done:
	case <-waitCtx.Done():
		if h.deliver(nil) {
			log.Info(ctx, "payment abandoned", "reference", h.opts.Reference, "reason", waitCtx.Err())
		}
	}
	return nil
}
