package callback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type response struct {
	status int
	body   string
}

// browserVisiting returns an Open func that, instead of launching a browser,
// requests each path on the listener in order and reports the responses.
func browserVisiting(t *testing.T, l *Listener, paths ...string) (func(string) error, <-chan response) {
	t.Helper()
	out := make(chan response, len(paths))
	open := func(string) error {
		go func() {
			for _, p := range paths {
				resp, err := http.Get(l.RedirectURI() + p)
				if err != nil {
					out <- response{status: -1, body: err.Error()}
					continue
				}
				b, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				out <- response{status: resp.StatusCode, body: string(b)}
			}
		}()
		return nil
	}
	return open, out
}

func listen(t *testing.T, opts Options) *Listener {
	t.Helper()
	opts.Logger = log.New(io.Discard, "", 0)
	l, err := Listen("127.0.0.1:0", opts)
	assert.NilError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestAwaitNoParamMode(t *testing.T) {
	l := listen(t, Options{})
	open, responses := browserVisiting(t, l, "/?foo=bar")
	l.opts.Open = open

	res, err := l.Await(context.Background(), "https://getpocket.com/auth/authorize")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(res.Value, ""))
	assert.Check(t, is.Equal(res.Query.Get("foo"), "bar"))

	r := <-responses
	assert.Check(t, is.Equal(r.status, http.StatusOK))
	assert.Check(t, is.Contains(r.body, "Succeed."))
}

func TestAwaitParamMode(t *testing.T) {
	l := listen(t, Options{Param: "oauth_verifier"})
	open, responses := browserVisiting(t, l, "/?oauth_verifier=v123")
	l.opts.Open = open

	res, err := l.Await(context.Background(), "https://example.com/authorize")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(res.Value, "v123"))
	assert.Check(t, is.Equal((<-responses).status, http.StatusOK))
}

func TestAwaitMissingParamFailsAfterOneRequest(t *testing.T) {
	l := listen(t, Options{Param: "oauth_verifier"})
	open, responses := browserVisiting(t, l, "/?denied=1")
	l.opts.Open = open

	_, err := l.Await(context.Background(), "https://example.com/authorize")
	assert.Assert(t, errors.Is(err, ErrMissingParam), "got %v", err)

	r := <-responses
	assert.Check(t, is.Equal(r.status, http.StatusBadRequest))
}

func TestAwaitRetriesUpToMaxAttempts(t *testing.T) {
	l := listen(t, Options{Param: "code", MaxAttempts: 3})
	open, _ := browserVisiting(t, l, "/", "/?other=1", "/?code=ok")
	l.opts.Open = open

	res, err := l.Await(context.Background(), "https://example.com/authorize")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(res.Value, "ok"))
}

func TestAwaitIgnoresOtherPaths(t *testing.T) {
	l := listen(t, Options{})
	open, responses := browserVisiting(t, l, "/favicon.ico", "/")
	l.opts.Open = open

	_, err := l.Await(context.Background(), "https://example.com/authorize")
	assert.NilError(t, err)
	assert.Check(t, is.Equal((<-responses).status, http.StatusNotFound))
	assert.Check(t, is.Equal((<-responses).status, http.StatusOK))
}

func TestAwaitTimeout(t *testing.T) {
	l := listen(t, Options{Timeout: 50 * time.Millisecond, Open: func(string) error { return nil }})

	start := time.Now()
	_, err := l.Await(context.Background(), "https://example.com/authorize")
	assert.Assert(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.Check(t, time.Since(start) < 5*time.Second)
}

func TestAwaitContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := listen(t, Options{Open: func(string) error {
		cancel()
		return nil
	}})

	_, err := l.Await(ctx, "https://example.com/authorize")
	assert.Assert(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestAwaitBrowserFailureIsNotFatal(t *testing.T) {
	l := listen(t, Options{})
	var logs strings.Builder
	l.opts.Logger = log.New(&logs, "", 0)
	visit, _ := browserVisiting(t, l, "/")
	l.opts.Open = func(u string) error {
		_ = visit(u)
		return errors.New("no display")
	}

	_, err := l.Await(context.Background(), "https://example.com/authorize")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(logs.String(), "no display"))
	assert.Check(t, is.Contains(logs.String(), "https://example.com/authorize"))
}

func TestAwaitReleasesSocket(t *testing.T) {
	l := listen(t, Options{})
	open, _ := browserVisiting(t, l, "/")
	l.opts.Open = open
	_, err := l.Await(context.Background(), "https://example.com/authorize")
	assert.NilError(t, err)

	// The port is free again once Await has returned.
	again, err := Listen(l.ln.Addr().String(), Options{})
	assert.NilError(t, err)
	assert.NilError(t, again.Close())
}

func TestRedirectURI(t *testing.T) {
	l := listen(t, Options{})
	assert.Check(t, strings.HasPrefix(l.RedirectURI(), "http://127.0.0.1:"))
	assert.Check(t, l.Port() > 0)
}

func TestListenInvalidAddress(t *testing.T) {
	_, err := Listen("not-an-address", Options{})
	assert.ErrorContains(t, err, "invalid address")
}

func TestAwaitOnPort(t *testing.T) {
	free, err := Listen("127.0.0.1:0", Options{})
	assert.NilError(t, err)
	port := free.Port()
	assert.NilError(t, free.Close())

	visited := make(chan int, 1)
	opts := Options{
		Param:  "code",
		Logger: log.New(io.Discard, "", 0),
		Open: func(string) error {
			go func() {
				resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/?code=abc", port))
				if err != nil {
					visited <- -1
					return
				}
				resp.Body.Close()
				visited <- resp.StatusCode
			}()
			return nil
		},
	}
	res, err := Await(context.Background(), "https://example.com/authorize", port, opts)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(res.Value, "abc"))
	assert.Check(t, is.Equal(<-visited, http.StatusOK))
}
