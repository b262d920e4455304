package pocket

import (
	"context"
	"errors"
)

// Add saves a single URL.
func (c *Client) Add(ctx context.Context, req AddRequest) (AddResponse, error) {
	if req.URL == "" {
		return AddResponse{}, errors.New("add: url is empty")
	}
	var out AddResponse
	if err := c.post(ctx, "v3/add", req, &out); err != nil {
		return AddResponse{}, err
	}
	return out, nil
}

// Get retrieves items matching the filters in req.
func (c *Client) Get(ctx context.Context, req GetRequest) (GetResponse, error) {
	var out GetResponse
	if err := c.post(ctx, "v3/get", req, &out); err != nil {
		return GetResponse{}, err
	}
	if out.List == nil {
		out.List = ItemList{}
	}
	return out, nil
}

// Send submits a batch of actions in one request. A nil error only means
// the HTTP exchange succeeded; check SendResponse.OK for the batch status.
func (c *Client) Send(ctx context.Context, actions []Action) (SendResponse, error) {
	if actions == nil {
		actions = []Action{}
	}
	payload := struct {
		Actions []Action `json:"actions"`
	}{actions}
	var out SendResponse
	if err := c.post(ctx, "v3/send", payload, &out); err != nil {
		return SendResponse{}, err
	}
	return out, nil
}
