// Package loopback runs short-lived HTTP servers on the local machine for
// browser round trips: the payment page and provider sign-in callbacks.
package loopback

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/expressdata/internal/logging"
)

type Server struct {
	srv *http.Server
	ln  net.Listener
	log logging.Logger
}

// NewRouter returns a chi router with the middleware every loopback page uses.
func NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	return r
}

// Start listens on addr (use port 0 for an ephemeral port) and serves h in
// the background until Shutdown.
func Start(addr string, h http.Handler, log logging.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		srv: &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second},
		ln:  ln,
		log: log,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(context.Background(), "loopback server stopped", "addr", ln.Addr().String(), "error", err)
		}
	}()

	log.Debug(context.Background(), "loopback server started", "addr", ln.Addr().String())
	return s, nil
}

// URL is the base address of the server, without a trailing slash.
func (s *Server) URL() string {
	return "http://" + s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
