// Package callback receives the OAuth redirect on a short-lived local
// HTTP listener.
package callback

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/pocket-importer/internal/browser"
)

var (
	// ErrMissingParam is returned when every allowed callback request
	// arrived without the expected query parameter.
	ErrMissingParam = errors.New("callback: expected parameter missing")
	// ErrTimeout is returned when no satisfying callback arrived within
	// Options.Timeout.
	ErrTimeout = errors.New("callback: timed out waiting for redirect")
)

const (
	defaultHost     = "127.0.0.1"
	shutdownTimeout = 2 * time.Second
)

type Options struct {
	// Param is the query parameter carrying the result. Empty means any
	// request to the callback path completes the wait.
	Param string
	// MaxAttempts bounds how many callback requests lacking Param are
	// answered before giving up. Values below 1 mean 1.
	MaxAttempts int
	// Timeout bounds the whole wait. Zero waits until ctx is done.
	Timeout time.Duration
	// Open launches the browser. Defaults to browser.Open.
	Open   func(url string) error
	Logger *log.Logger
}

// Result is what the redirect carried.
type Result struct {
	// Value is the Param value, empty in no-param mode.
	Value string
	Query url.Values
}

type Listener struct {
	ln   net.Listener
	opts Options
}

type attempt struct {
	result Result
	ok     bool
}

// Listen binds addr. A bare port such as ":8899" binds 127.0.0.1.
func Listen(addr string, opts Options) (*Listener, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("callback: invalid address %q: %w", addr, err)
	}
	if host == "" {
		host = defaultHost
	}
	ln, err := net.Listen("tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, fmt.Errorf("callback: listen: %w", err)
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Open == nil {
		opts.Open = browser.Open
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Listener{ln: ln, opts: opts}, nil
}

// Port is the bound TCP port.
func (l *Listener) Port() int {
	if a, ok := l.ln.Addr().(*net.TCPAddr); ok {
		return a.Port
	}
	_, p, _ := net.SplitHostPort(l.ln.Addr().String())
	n, _ := strconv.Atoi(p)
	return n
}

// RedirectURI is the URL the authorization server should send the user back to.
func (l *Listener) RedirectURI() string {
	return "http://" + net.JoinHostPort(defaultHost, strconv.Itoa(l.Port()))
}

// Close releases the socket. Await closes it too; calling Close afterwards is harmless.
func (l *Listener) Close() error {
	err := l.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Await opens authURL in the browser and blocks until the redirect arrives.
// Each callback request is inspected inside its own handler and the outcome
// is handed back over a channel; the listener is shut down before Await
// returns.
func (l *Listener) Await(ctx context.Context, authURL string) (Result, error) {
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	attempts := make(chan attempt, l.opts.MaxAttempts)
	done := make(chan struct{})

	r := mux.NewRouter()
	r.HandleFunc("/", l.handleCallback(attempts, done)).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(l.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("callback: serve: %w", err)
		}
		return nil
	})

	var res Result
	g.Go(func() error {
		defer func() {
			close(done)
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				_ = srv.Close()
			}
		}()

		l.opts.Logger.Printf("Opening %s", authURL)
		if err := l.opts.Open(authURL); err != nil {
			l.opts.Logger.Printf("Could not open a browser (%v); open the URL above manually", err)
		}

		failed := 0
		for {
			select {
			case a := <-attempts:
				if a.ok {
					res = a.result
					return nil
				}
				failed++
				if failed >= l.opts.MaxAttempts {
					return fmt.Errorf("%w: %q after %d request(s)", ErrMissingParam, l.opts.Param, failed)
				}
			case <-gctx.Done():
				if errors.Is(gctx.Err(), context.DeadlineExceeded) && l.opts.Timeout > 0 {
					return fmt.Errorf("%w after %s", ErrTimeout, l.opts.Timeout)
				}
				return gctx.Err()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}

func (l *Listener) handleCallback(attempts chan<- attempt, done <-chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		a := attempt{result: Result{Query: q}, ok: true}
		if l.opts.Param != "" {
			v := q.Get(l.opts.Param)
			a.result.Value = v
			a.ok = v != ""
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if a.ok {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(successPage))
		} else {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(failurePage))
		}

		select {
		case attempts <- a:
		case <-done:
		}
	}
}

// Await binds 127.0.0.1:port, sends the user to authURL and waits for the
// redirect. It is the one-shot form of Listen followed by Listener.Await.
func Await(ctx context.Context, authURL string, port int, opts Options) (Result, error) {
	l, err := Listen(net.JoinHostPort(defaultHost, strconv.Itoa(port)), opts)
	if err != nil {
		return Result{}, err
	}
	defer l.Close()
	return l.Await(ctx, authURL)
}

const successPage = `<html>
<head>
<meta charset="utf-8"/>
<title>OK</title>
</head>
<body>Succeed. You can close this window.</body>
</html>
`

const failurePage = `<html>
<head>
<meta charset="utf-8"/>
<title>Authorization incomplete</title>
</head>
<body>The redirect did not carry the expected parameter.</body>
</html>
`
