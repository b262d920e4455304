package pocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// debugTransport logs one line per request. Bodies are never logged since
// they carry consumer_key and access_token.
type debugTransport struct {
	base   http.RoundTripper
	logger *log.Logger
	json   bool
}

func (t *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	dur := time.Since(start)
	if t.json {
		payload := map[string]any{
			"type":        "http",
			"method":      req.Method,
			"url":         req.URL.Redacted(),
			"duration_ms": dur.Milliseconds(),
		}
		if err != nil {
			payload["error"] = err.Error()
		} else {
			payload["status"] = resp.StatusCode
			if xe := resp.Header.Get("X-Error"); xe != "" {
				payload["x_error"] = xe
			}
		}
		if b, merr := json.Marshal(payload); merr == nil {
			t.logger.Println(string(b))
		}
		return resp, err
	}
	if err != nil {
		t.logger.Printf("debug: %s %s error=%v duration=%s", req.Method, req.URL.Redacted(), err, dur)
		return nil, err
	}
	t.logger.Printf("debug: %s %s status=%d duration=%s", req.Method, req.URL.Redacted(), resp.StatusCode, dur)
	return resp, nil
}

// EnableDebug enables basic HTTP request logging.
func (c *Client) EnableDebug(logger *log.Logger) {
	c.enableDebug(logger, false)
}

// EnableDebugJSON enables JSON-line HTTP request logging.
func (c *Client) EnableDebugJSON(logger *log.Logger) {
	c.enableDebug(logger, true)
}

func (c *Client) enableDebug(logger *log.Logger, json bool) {
	if c == nil || logger == nil {
		return
	}
	base := c.HTTP.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.HTTP.Transport = &debugTransport{base: base, logger: logger, json: json}
}
