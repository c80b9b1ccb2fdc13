// Package persist implements atomic, nestable grouping of partial document
// mutations against MongoDB.
//
// A sequence of field-level operations (increment, set, unset, push, pull,
// rename, ...) recorded against one document is committed to storage as a
// single write, and in-memory state is kept consistent with what actually
// reached the server: operations buffered in a failed atomic block are rolled
// back, while writes that already committed in an independent nested block
// survive.
//
// # Key Features
//
//   - One storage write per owning atomic block, however many verbs ran
//   - Nested blocks either join the enclosing block's write or flush
//     independently
//   - Optional selector extensions make a write conditional on server-side
//     document state (optimistic precondition, not a lock)
//   - In-memory rollback on block failure or precondition mismatch
//   - Pluggable operator registry for custom mutation verbs
//
// # Collaborators
//
// The document being mutated is described to the core through the [Document]
// interface, composed of three small surfaces:
//
//	type Schema interface {
//	    Writable(field string) bool
//	    StorageName(field string) string
//	    Value(field string) any
//	    SetValue(field string, value any)
//	}
//
//	type ChangeTracker interface {
//	    MarkChanged(field string)
//	    ClearChanged(field string)
//	    RevertToOriginal(field string)
//	}
//
//	type Identity interface {
//	    Persisted() bool
//	    Selector() bson.M
//	}
//
// ChangeTracker methods receive normalized (storage) field names. Storage is
// reached through the [Collection] interface; [NewMongoCollection] adapts a
// *mongo.Collection.
//
// # Usage
//
//	u := persist.NewUpdater(doc, coll, persist.DefaultConfig())
//	ok, err := u.Atomically(ctx, persist.AtomicOptions{}, func(u *persist.Updater) error {
//	    if err := u.Inc(ctx, persist.Fields{"count": 10}); err != nil {
//	        return err
//	    }
//	    return u.Set(ctx, persist.Fields{"name": "Placebo"})
//	})
//
// ok is false only when a selector extension failed to match, in which case
// the in-memory values of the block's fields have been reverted.
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrReadonlyAttribute] - a verb targeted a non-writable field
//   - [ErrValidation] - a collaborator reported a validation failure
//   - [ErrCallback] - a collaborator reported a callback failure
//   - [ErrUnknownVerb] - a verb has no registered storage operator
//
// # Concurrency
//
// An Updater and its session are single-goroutine state: callers must
// serialize access to one document instance. Distinct documents may be
// mutated concurrently from different goroutines.
package persist
