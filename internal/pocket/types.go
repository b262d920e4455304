package pocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Int64 is an int64 that can unmarshal from JSON number or string.
// Pocket sends most numeric fields as strings.
type Int64 int64

func (i *Int64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*i = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*i = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse int64 from %q: %w", s, err)
		}
		*i = Int64(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("parse int64 from %q: %w", n.String(), err)
	}
	*i = Int64(v)
	return nil
}

func (i Int64) String() string { return strconv.FormatInt(int64(i), 10) }

// BoolInt is a bool that can unmarshal from JSON bool, number (0/1), or string ("0"/"1").
type BoolInt bool

func (bi *BoolInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*bi = false
		return nil
	}
	switch {
	case bytes.Equal(b, []byte("true")):
		*bi = true
		return nil
	case bytes.Equal(b, []byte("false")):
		*bi = false
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*bi = BoolInt(s == "1" || s == "true")
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		iv, err := n.Int64()
		if err != nil {
			return err
		}
		*bi = (iv != 0)
		return nil
	}
}

type Tag struct {
	ItemID Int64  `json:"item_id,omitempty"`
	Tag    string `json:"tag"`
}

// Item is a saved entry as returned by v3/get and v3/add.
type Item struct {
	ItemID        Int64          `json:"item_id"`
	ResolvedID    Int64          `json:"resolved_id,omitempty"`
	GivenURL      string         `json:"given_url,omitempty"`
	GivenTitle    string         `json:"given_title,omitempty"`
	ResolvedURL   string         `json:"resolved_url,omitempty"`
	ResolvedTitle string         `json:"resolved_title,omitempty"`
	NormalURL     string         `json:"normal_url,omitempty"`
	Title         string         `json:"title,omitempty"`
	Favorite      BoolInt        `json:"favorite,omitempty"`
	Status        Int64          `json:"status,omitempty"`
	TimeAdded     Int64          `json:"time_added,omitempty"`
	TimeUpdated   Int64          `json:"time_updated,omitempty"`
	Excerpt       string         `json:"excerpt,omitempty"`
	WordCount     Int64          `json:"word_count,omitempty"`
	SortID        Int64          `json:"sort_id,omitempty"`
	Tags          map[string]Tag `json:"tags,omitempty"`
}

// URL is the best known address of the item.
func (it Item) URL() string {
	for _, u := range []string{it.ResolvedURL, it.GivenURL, it.NormalURL} {
		if u != "" {
			return u
		}
	}
	return ""
}

// DisplayTitle is the best known title of the item.
func (it Item) DisplayTitle() string {
	for _, t := range []string{it.ResolvedTitle, it.GivenTitle, it.Title} {
		if t != "" {
			return t
		}
	}
	return ""
}

// TagNames returns the item's tags in sorted order.
func (it Item) TagNames() []string {
	out := make([]string, 0, len(it.Tags))
	for name := range it.Tags {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ItemList is the v3/get "list" field. Pocket sends an object keyed by
// item id, or an empty array when nothing matched.
type ItemList map[string]Item

func (l *ItemList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = ItemList{}
		return nil
	}
	if b[0] == '[' {
		var items []Item
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		out := make(ItemList, len(items))
		for _, it := range items {
			out[it.ItemID.String()] = it
		}
		*l = out
		return nil
	}
	var m map[string]Item
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*l = ItemList(m)
	return nil
}

// Sorted returns the items ordered by sort_id, then item id.
func (l ItemList) Sorted() []Item {
	out := make([]Item, 0, len(l))
	for _, it := range l {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortID != out[j].SortID {
			return out[i].SortID < out[j].SortID
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

// Action kinds understood by v3/send.
const (
	ActionAdd     = "add"
	ActionArchive = "archive"
)

// Action is one entry of a v3/send batch. Fields not used by a given
// action are left empty and omitted.
type Action struct {
	Action string `json:"action"`
	ItemID Int64  `json:"item_id,omitempty"`
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
	Tags   string `json:"tags,omitempty"`
	// Time is the action time as decimal epoch seconds.
	Time string `json:"time,omitempty"`
}

// ActionResult is one element of action_results: either a bare boolean or,
// for add actions, the created item.
type ActionResult struct {
	OK   bool
	Item *Item
}

func (r *ActionResult) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte("false")):
		*r = ActionResult{}
		return nil
	case bytes.Equal(b, []byte("true")):
		*r = ActionResult{OK: true}
		return nil
	}
	var it Item
	if err := json.Unmarshal(b, &it); err != nil {
		return fmt.Errorf("decode action result: %w", err)
	}
	*r = ActionResult{OK: true, Item: &it}
	return nil
}

// SendResponse is the v3/send batch result. Callers must check OK before
// relying on ActionResults.
type SendResponse struct {
	Status        Int64             `json:"status"`
	ActionResults []ActionResult    `json:"action_results"`
	ActionErrors  []json.RawMessage `json:"action_errors,omitempty"`
}

func (r SendResponse) OK() bool { return r.Status == 1 }

type AddRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	// Tags is a comma-separated list.
	Tags    string `json:"tags,omitempty"`
	TweetID string `json:"tweet_id,omitempty"`
}

type AddResponse struct {
	Item   Item  `json:"item"`
	Status Int64 `json:"status"`
}

func (r AddResponse) OK() bool { return r.Status == 1 }

// GetRequest holds the v3/get filters. Zero values are omitted.
type GetRequest struct {
	State       string `json:"state,omitempty"`
	Favorite    string `json:"favorite,omitempty"`
	Tag         string `json:"tag,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Sort        string `json:"sort,omitempty"`
	DetailType  string `json:"detailType,omitempty"`
	Search      string `json:"search,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Since       int64  `json:"since,omitempty"`
	Count       int    `json:"count,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

type GetResponse struct {
	Status   Int64    `json:"status"`
	Complete Int64    `json:"complete"`
	List     ItemList `json:"list"`
	Since    Int64    `json:"since"`
}

// OK reports success. Pocket uses status 2 for an empty result set.
func (r GetResponse) OK() bool { return r.Status == 1 || r.Status == 2 }

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
}
