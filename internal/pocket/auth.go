package pocket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/vburojevic/pocket-importer/internal/callback"
)

// RequestToken obtains an OAuth request token bound to redirectURI.
func (c *Client) RequestToken(ctx context.Context, redirectURI string) (string, error) {
	var out struct {
		Code string `json:"code"`
	}
	if err := c.post(ctx, "v3/oauth/request", map[string]string{"redirect_uri": redirectURI}, &out); err != nil {
		return "", err
	}
	if out.Code == "" {
		return "", errors.New("missing code in request token response")
	}
	return out.Code, nil
}

// AuthorizeURL is the page where the user approves requestToken.
func (c *Client) AuthorizeURL(requestToken, redirectURI string) string {
	q := url.Values{}
	q.Set("request_token", requestToken)
	q.Set("redirect_uri", redirectURI)
	return c.BaseURL + "/auth/authorize?" + q.Encode()
}

// ExchangeToken converts an approved request token into an access token.
func (c *Client) ExchangeToken(ctx context.Context, requestToken string) (AccessTokenResponse, error) {
	var out AccessTokenResponse
	if err := c.post(ctx, "v3/oauth/authorize", map[string]string{"code": requestToken}, &out); err != nil {
		return AccessTokenResponse{}, err
	}
	if out.AccessToken == "" {
		return AccessTokenResponse{}, errors.New("missing access_token in authorize response")
	}
	return out, nil
}

// Authorize runs the browser OAuth flow with a redirect listener on
// 127.0.0.1:port and stores the resulting token and username on c.
// Pocket's redirect carries no verifier, so any request to the listener
// counts as approval; opts.Param is normally left empty.
func (c *Client) Authorize(ctx context.Context, port int, opts callback.Options) error {
	l, err := callback.Listen(net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), opts)
	if err != nil {
		return err
	}
	defer l.Close()

	// The access token from a previous session must not leak into the exchange.
	c.AccessToken = ""
	redirectURI := l.RedirectURI()
	code, err := c.RequestToken(ctx, redirectURI)
	if err != nil {
		return fmt.Errorf("request token: %w", err)
	}

	if _, err := l.Await(ctx, c.AuthorizeURL(code, redirectURI)); err != nil {
		return fmt.Errorf("await authorization: %w", err)
	}

	tok, err := c.ExchangeToken(ctx, code)
	if err != nil {
		return fmt.Errorf("access token: %w", err)
	}
	c.AccessToken = tok.AccessToken
	c.Username = tok.Username
	return nil
}
