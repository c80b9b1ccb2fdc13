package persist

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/hundio/mongoid/internal/fieldpath"
)

// flush issues the frame's accumulated operators as one storage write,
// gated on the base selector merged with the frame's selector extension.
// Returns whether any document matched. Trivially true when the document
// was never persisted or the frame is empty.
func (u *Updater) flush(ctx context.Context, fr *frame) (bool, error) {
	if !u.doc.Persisted() || len(fr.ops) == 0 {
		return true, nil
	}

	selector := MergeSelector(u.doc.Selector(), fr.selector)
	update := make(bson.M, len(fr.ops))
	for operator, fields := range fr.ops {
		update[operator] = bson.M(fieldpath.Positionally(selector, fields))
	}

	matched, err := u.coll.UpdateOne(ctx, selector, update)
	if err != nil {
		return false, err
	}
	if u.metrics != nil {
		u.metrics.Writes.Inc()
	}
	u.logger.Debug("flushed atomic context",
		"operators", len(update),
		"matched", matched)
	return matched > 0, nil
}
