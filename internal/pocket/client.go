package pocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	BaseURL     string
	ConsumerKey string
	// AccessToken is empty until Authorize succeeds or a cached token is supplied.
	AccessToken string
	// Username is set by Authorize.
	Username  string
	HTTP      *http.Client
	UserAgent string
}

func NewClient(baseURL, consumerKey, accessToken string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("pocket: baseURL is empty")
	}
	if consumerKey == "" {
		return nil, errors.New("pocket: consumer key is empty")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		ConsumerKey: consumerKey,
		AccessToken: accessToken,
		HTTP:        &http.Client{Timeout: timeout},
		UserAgent:   "pocket-importer/0.1",
	}, nil
}

// post sends payload as a JSON object to path with consumer_key and
// access_token added, and decodes a successful response into out.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := c.requestBody(payload)
	if err != nil {
		return err
	}
	fullURL := c.BaseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := ensureOK(resp.StatusCode, resp.Header); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) requestBody(payload any) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &fields); err != nil {
			return nil, fmt.Errorf("pocket: request payload must be a JSON object: %w", err)
		}
		if fields == nil {
			fields = map[string]json.RawMessage{}
		}
	}
	ck, err := json.Marshal(c.ConsumerKey)
	if err != nil {
		return nil, err
	}
	fields["consumer_key"] = ck
	if c.AccessToken != "" {
		tok, err := json.Marshal(c.AccessToken)
		if err != nil {
			return nil, err
		}
		fields["access_token"] = tok
	}
	return json.Marshal(fields)
}
