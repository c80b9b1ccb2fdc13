package persist

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Schema resolves field metadata and holds current attribute values.
// Type coercion is the implementer's concern; the core stores whatever
// values it is given.
type Schema interface {
	// Writable reports whether the field may be mutated.
	Writable(field string) bool

	// StorageName returns the normalized (storage) name for a field,
	// e.g. "first_name" for an aliased "fn". Implementations should return
	// the input unchanged for unaliased fields.
	StorageName(field string) string

	// Value returns the current in-memory value of a field, addressed by
	// storage name. Missing fields return nil.
	Value(field string) any

	// SetValue replaces the in-memory value of a field, addressed by
	// storage name, and marks the field changed.
	SetValue(field string, value any)
}

// ChangeTracker is the dirty-attribute bookkeeping surface. All methods
// receive normalized (storage) field names.
type ChangeTracker interface {
	// MarkChanged adds the field to the changed set. The mutation verbs
	// mark through SetValue; this exists for hosts that mutate attributes
	// outside the verb surface.
	MarkChanged(field string)

	// ClearChanged removes the field from the changed set without touching
	// its value. Called after the field's mutation has durably committed.
	ClearChanged(field string)

	// RevertToOriginal restores the field's pre-mutation value and removes
	// it from the changed set. Called when rolling back an atomic context.
	RevertToOriginal(field string)
}

// Identity is the persistence-identity surface of a document.
type Identity interface {
	// Persisted reports whether the document has ever been saved. Writes
	// against unpersisted documents are trivial no-ops.
	Persisted() bool

	// Selector returns the base identity predicate for the document,
	// typically bson.M{"_id": id}.
	Selector() bson.M
}

// Document is the full collaborator surface a mutable document provides.
type Document interface {
	Schema
	ChangeTracker
	Identity
}

// Collection is the storage-client surface the commit executor writes
// through. Retry and timeout policy belong to the implementation;
// NewMongoCollection provides one over a live *mongo.Collection.
type Collection interface {
	// UpdateOne applies the merged operator document to the single document
	// matching filter and returns how many documents matched.
	UpdateOne(ctx context.Context, filter bson.M, update bson.M) (matched int64, err error)
}
