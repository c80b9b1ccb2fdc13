package persist_test

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/hundio/mongoid/persist"
)

// --- Test Document ---

// testDoc implements persist.Document over a plain attribute map with
// change tracking: SetValue snapshots the first pre-mutation value so
// RevertToOriginal can restore it.
type testDoc struct {
	id        string
	persisted bool
	attrs     map[string]any
	originals map[string]any
	changed   map[string]bool
	readonly  map[string]bool
	aliases   map[string]string
}

func newTestDoc(id string, attrs map[string]any) *testDoc {
	copied := make(map[string]any, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &testDoc{
		id:        id,
		persisted: true,
		attrs:     copied,
		originals: make(map[string]any),
		changed:   make(map[string]bool),
		readonly:  make(map[string]bool),
		aliases:   make(map[string]string),
	}
}

func (d *testDoc) Writable(field string) bool { return !d.readonly[field] }

func (d *testDoc) StorageName(field string) string {
	if storage, ok := d.aliases[field]; ok {
		return storage
	}
	return field
}

func (d *testDoc) Value(field string) any { return d.attrs[field] }

func (d *testDoc) SetValue(field string, value any) {
	if !d.changed[field] {
		d.originals[field] = d.attrs[field]
		d.changed[field] = true
	}
	d.attrs[field] = value
}

func (d *testDoc) MarkChanged(field string) {
	if !d.changed[field] {
		d.originals[field] = d.attrs[field]
		d.changed[field] = true
	}
}

func (d *testDoc) ClearChanged(field string) {
	delete(d.changed, field)
	delete(d.originals, field)
}

func (d *testDoc) RevertToOriginal(field string) {
	if d.changed[field] {
		d.attrs[field] = d.originals[field]
		d.ClearChanged(field)
	}
}

func (d *testDoc) Persisted() bool { return d.persisted }

func (d *testDoc) Selector() bson.M { return bson.M{"_id": d.id} }

// --- Fake Collection ---

type recordedWrite struct {
	Filter bson.M
	Update bson.M
}

// fakeCollection records every UpdateOne and answers with a configurable
// matched count. matchFn, when set, decides per write.
type fakeCollection struct {
	writes  []recordedWrite
	matched int64
	err     error
	matchFn func(filter bson.M) int64
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{matched: 1}
}

func (c *fakeCollection) UpdateOne(_ context.Context, filter bson.M, update bson.M) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.writes = append(c.writes, recordedWrite{Filter: filter, Update: update})
	if c.matchFn != nil {
		return c.matchFn(filter), nil
	}
	return c.matched, nil
}

func newUpdater(doc *testDoc, coll *fakeCollection) *persist.Updater {
	return persist.NewUpdater(doc, coll, persist.DefaultConfig())
}

func boolPtr(v bool) *bool { return &v }
