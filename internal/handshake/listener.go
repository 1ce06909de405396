package handshake

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

const callbackPath = "/auth/callback"

const callbackPage = `<!DOCTYPE html>
<html>
<head><title>critiq</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h2>%s</h2>
<p>You can close this tab and return to the terminal.</p>
</body>
</html>
`

// Listener captures a single provider redirect on a localhost address.
type Listener struct {
	srv  *http.Server
	ln   net.Listener
	once sync.Once
	done chan Callback
}

// Listen binds addr (e.g. "127.0.0.1:8711") and starts serving the callback
// route. Exactly one redirect is delivered; later hits get a plain response
// and are otherwise ignored.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding callback listener: %w", err)
	}

	l := &Listener{
		ln:   ln,
		done: make(chan Callback, 1),
	}

	r := chi.NewRouter()
	r.Get(callbackPath, l.handleCallback)

	l.srv = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		// ErrServerClosed is the normal shutdown path
		_ = l.srv.Serve(ln)
	}()
	slog.Debug("callback listener bound", "addr", ln.Addr().String())
	return l, nil
}

// RedirectURI returns the URI the provider must redirect back to.
func (l *Listener) RedirectURI() string {
	return fmt.Sprintf("http://%s%s", l.ln.Addr().String(), callbackPath)
}

// Wait blocks until a redirect arrives or ctx expires.
func (l *Listener) Wait(ctx context.Context) (Callback, error) {
	select {
	case cb := <-l.done:
		return cb, nil
	case <-ctx.Done():
		return Callback{}, fmt.Errorf("waiting for provider redirect: %w", ctx.Err())
	}
}

// Close shuts the listener down. Safe to call after Wait returns.
func (l *Listener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return l.srv.Shutdown(ctx)
}

func (l *Listener) handleCallback(w http.ResponseWriter, r *http.Request) {
	cb := ParseCallback(r.URL.Query())
	slog.Debug("provider redirect received", "outcome", cb.Outcome)

	message := "Sign-in received."
	if cb.Outcome != OutcomeCode {
		message = "Sign-in was not completed."
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, callbackPage, message)

	l.once.Do(func() {
		l.done <- cb
	})
}
