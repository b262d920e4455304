package importer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/vburojevic/pocket-importer/internal/pocket"
)

// ErrNoList is returned when the document has no <ul> block.
var ErrNoList = errors.New("import: no <ul> list found in document")

// BatchError reports a batch the service did not accept.
type BatchError struct {
	Action string
	Status int64
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("Batch operation (%s) failed: status=%d", e.Action, e.Status)
}

// Sender submits one batch of actions.
type Sender interface {
	Send(ctx context.Context, actions []pocket.Action) (pocket.SendResponse, error)
}

type Importer struct {
	sender Sender
	logger *log.Logger
}

// Report counts what a run submitted.
type Report struct {
	Added    int
	Archived int
}

func NewImporter(sender Sender, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.Default()
	}
	return &Importer{sender: sender, logger: logger}
}

// Run imports an exported document. The first list is added; the second,
// if present, is added and then archived with its original timestamps.
// The first failing batch aborts the run; earlier batches stay applied.
func (im *Importer) Run(ctx context.Context, contents string) (Report, error) {
	var rep Report
	lists := FindLists(contents)
	if len(lists) == 0 {
		return rep, ErrNoList
	}

	unread := ParseList(lists[0])
	if _, err := im.batch(ctx, pocket.ActionAdd, addActions(unread)); err != nil {
		return rep, err
	}
	rep.Added += len(unread)

	if len(lists) > 1 {
		read := ParseList(lists[1])
		resp, err := im.batch(ctx, pocket.ActionAdd, addActions(read))
		if err != nil {
			return rep, err
		}
		rep.Added += len(read)

		archive := im.archiveActions(read, resp.ActionResults)
		if _, err := im.batch(ctx, pocket.ActionArchive, archive); err != nil {
			return rep, err
		}
		rep.Archived = len(archive)
	}

	im.logger.Println("Done!")
	return rep, nil
}

func (im *Importer) batch(ctx context.Context, action string, actions []pocket.Action) (pocket.SendResponse, error) {
	im.logger.Printf("Batch %s (num=%d) ...", action, len(actions))
	for i := range actions {
		actions[i].Action = action
	}
	resp, err := im.sender.Send(ctx, actions)
	if err != nil {
		return pocket.SendResponse{}, fmt.Errorf("batch %s: %w", action, err)
	}
	if !resp.OK() {
		return resp, &BatchError{Action: action, Status: int64(resp.Status)}
	}
	return resp, nil
}

func addActions(entries []Entry) []pocket.Action {
	out := make([]pocket.Action, 0, len(entries))
	for _, e := range entries {
		out = append(out, pocket.Action{URL: e.URL, Tags: e.Tags, Time: e.TimeAdded})
	}
	return out
}

// archiveActions pairs each add result with the entry it was created from,
// so the archive time is the exported time_added. Results without an item
// are skipped.
func (im *Importer) archiveActions(entries []Entry, results []pocket.ActionResult) []pocket.Action {
	out := make([]pocket.Action, 0, len(results))
	for i, r := range results {
		if !r.OK || r.Item == nil || r.Item.ItemID == 0 {
			im.logger.Printf("Skipping archive for result %d: no item returned", i)
			continue
		}
		a := pocket.Action{ItemID: r.Item.ItemID}
		if i < len(entries) {
			a.Time = entries[i].TimeAdded
		} else if r.Item.TimeAdded != 0 {
			a.Time = r.Item.TimeAdded.String()
		}
		out = append(out, a)
	}
	return out
}
