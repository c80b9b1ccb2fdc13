package persist

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Fields maps target field names to verb-specific values: the delta for Inc,
// the new value for Set, the value or values for the array verbs.
type Fields map[string]any

// Bitwise describes a $bit mutation. When both masks are present the AND is
// applied before the OR, both in memory and in the operator payload.
type Bitwise struct {
	And *int64
	Or  *int64
}

// Inc adds each delta to its field's current numeric value and records an
// $inc fragment. Unset fields increment from zero.
func (u *Updater) Inc(ctx context.Context, fields Fields) error {
	return u.eachField(ctx, VerbInc, fields, func(field string, value any) (any, error) {
		next, err := addNumeric(u.doc.Value(field), value)
		if err != nil {
			return nil, fmt.Errorf("increment %q: %w", field, err)
		}
		u.doc.SetValue(field, next)
		return value, nil
	})
}

// Bit applies bitwise AND/OR masks to integer fields and records a $bit
// fragment.
func (u *Updater) Bit(ctx context.Context, fields map[string]Bitwise) error {
	plain := make(Fields, len(fields))
	for field, masks := range fields {
		plain[field] = masks
	}
	return u.eachField(ctx, VerbBit, plain, func(field string, value any) (any, error) {
		masks := value.(Bitwise)
		current, err := toInt64(u.doc.Value(field))
		if err != nil {
			return nil, fmt.Errorf("bitwise %q: %w", field, err)
		}
		// bson.D: the server applies $bit sub-operations in document order,
		// which must match the in-memory order.
		payload := bson.D{}
		if masks.And != nil {
			current &= *masks.And
			payload = append(payload, bson.E{Key: "and", Value: *masks.And})
		}
		if masks.Or != nil {
			current |= *masks.Or
			payload = append(payload, bson.E{Key: "or", Value: *masks.Or})
		}
		u.doc.SetValue(field, current)
		return payload, nil
	})
}

// Set replaces each field's value and records a $set fragment.
func (u *Updater) Set(ctx context.Context, fields Fields) error {
	return u.eachField(ctx, VerbSet, fields, func(field string, value any) (any, error) {
		u.doc.SetValue(field, value)
		return value, nil
	})
}

// Unset clears each field in memory and records an $unset fragment.
func (u *Updater) Unset(ctx context.Context, fields ...string) error {
	plain := make(Fields, len(fields))
	for _, field := range fields {
		plain[field] = nil
	}
	return u.eachField(ctx, VerbUnset, plain, func(field string, _ any) (any, error) {
		u.doc.SetValue(field, nil)
		return true, nil
	})
}

// Push appends values to each array field and records a $push fragment. A
// scalar pushes one element; a slice pushes each of its elements.
func (u *Updater) Push(ctx context.Context, fields Fields) error {
	return u.eachField(ctx, VerbPush, fields, func(field string, value any) (any, error) {
		values := toList(value)
		u.doc.SetValue(field, append(toList(u.doc.Value(field)), values...))
		return values, nil
	})
}

// PushAt inserts values into an array field at the given position and
// records a $push fragment carrying a $position modifier. The position is
// clamped to the current array bounds for the in-memory insert.
func (u *Updater) PushAt(ctx context.Context, field string, position int, value any) error {
	if position < 0 {
		return fmt.Errorf("mongoid: negative push position %d for %q", position, field)
	}
	return u.eachField(ctx, VerbPush, Fields{field: value}, func(field string, value any) (any, error) {
		values := toList(value)
		u.doc.SetValue(field, insertAt(toList(u.doc.Value(field)), position, values))
		return bson.M{"$each": values, "$position": position}, nil
	})
}

// AddToSet appends each value not already present and records an $addToSet
// fragment. A scalar is treated as a single-element list.
func (u *Updater) AddToSet(ctx context.Context, fields Fields) error {
	return u.eachField(ctx, VerbAddToSet, fields, func(field string, value any) (any, error) {
		values := toList(value)
		current := toList(u.doc.Value(field))
		for _, v := range values {
			if !containsValue(current, v) {
				current = append(current, v)
			}
		}
		u.doc.SetValue(field, current)
		return values, nil
	})
}

// Pull removes every array element equal to the given value (or matched by
// the given condition document, server-side) and records a $pull fragment.
func (u *Updater) Pull(ctx context.Context, fields Fields) error {
	return u.eachField(ctx, VerbPull, fields, func(field string, value any) (any, error) {
		u.doc.SetValue(field, removeEqual(toList(u.doc.Value(field)), []any{value}))
		return value, nil
	})
}

// PullAll removes every array element equal to any of the given values and
// records a $pullAll fragment.
func (u *Updater) PullAll(ctx context.Context, fields Fields) error {
	return u.eachField(ctx, VerbPullAll, fields, func(field string, value any) (any, error) {
		values := toList(value)
		u.doc.SetValue(field, removeEqual(toList(u.doc.Value(field)), values))
		return values, nil
	})
}

// Pop removes the last (1) or first (-1) element of each array field and
// records a $pop fragment.
func (u *Updater) Pop(ctx context.Context, fields map[string]int) error {
	plain := make(Fields, len(fields))
	for field, direction := range fields {
		plain[field] = direction
	}
	return u.eachField(ctx, VerbPop, plain, func(field string, value any) (any, error) {
		direction := value.(int)
		if direction != 1 && direction != -1 {
			return nil, fmt.Errorf("mongoid: pop direction for %q must be 1 or -1, got %d", field, direction)
		}
		current := toList(u.doc.Value(field))
		if len(current) > 0 {
			if direction == 1 {
				current = current[:len(current)-1]
			} else {
				current = current[1:]
			}
		}
		u.doc.SetValue(field, current)
		return direction, nil
	})
}

// Rename moves each field's value to a new field and records a $rename
// fragment keyed by the old storage name.
func (u *Updater) Rename(ctx context.Context, fields map[string]string) error {
	plain := make(Fields, len(fields))
	for old, next := range fields {
		plain[old] = next
	}
	return u.eachField(ctx, VerbRename, plain, func(field string, value any) (any, error) {
		next := u.doc.StorageName(value.(string))
		u.doc.SetValue(next, u.doc.Value(field))
		u.doc.SetValue(field, nil)
		return next, nil
	})
}

// eachField is the shared recorder core: it validates writability for every
// target up front, resolves storage names, runs the verb's in-memory effect,
// and either buffers the operator fragments into the active atomic context
// or flushes them as one immediate write.
func (u *Updater) eachField(ctx context.Context, verb string, fields Fields, apply func(field string, value any) (any, error)) error {
	op, ok := u.operators.Lookup(verb)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
	}

	// All-or-nothing: no in-memory effect until every field checks out.
	for field := range fields {
		if !u.doc.Writable(field) {
			return fmt.Errorf("%w: %q", ErrReadonlyAttribute, field)
		}
	}

	fragments := bson.M{}
	for field, value := range fields {
		storage := u.doc.StorageName(field)
		payload, err := apply(storage, value)
		if err != nil {
			return err
		}
		if op.EachWrapped {
			if values, ok := payload.([]any); ok {
				payload = bson.M{"$each": values}
			}
		}
		fragments[storage] = payload
	}

	if u.InAtomicBlock() {
		u.session.Record(op.Name, fragments)
		for _, dest := range payloadFields(op, fragments) {
			u.session.Touch(dest)
		}
		return nil
	}

	fr := newFrame()
	fr.ops[op.Name] = fragments
	for field := range fragments {
		fr.touched[field] = struct{}{}
	}
	for _, dest := range payloadFields(op, fragments) {
		fr.touched[dest] = struct{}{}
	}
	if _, err := u.flush(ctx, fr); err != nil {
		return err
	}
	// Top-level call: the fragments flushed, so the fields are clean.
	for _, field := range frameFields(fr) {
		u.doc.ClearChanged(field)
	}
	return nil
}

// payloadFields returns the storage fields named by the fragments' payloads
// for field-valued operators; nil for everything else.
func payloadFields(op Operator, fragments bson.M) []string {
	if !op.FieldPayload {
		return nil
	}
	out := make([]string, 0, len(fragments))
	for _, payload := range fragments {
		if dest, ok := payload.(string); ok {
			out = append(out, dest)
		}
	}
	return out
}
