package persist

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// AtomicOptions configures one Atomically invocation.
type AtomicOptions struct {
	// Requiring is a selector extension merged into the write's match
	// predicate, making the commit conditional on the document's current
	// server-side state. Keys already present on the context win over newly
	// supplied ones, so re-entry at the same depth is idempotent.
	Requiring bson.M

	// InheritRequiring copies the immediate enclosing context's selector
	// extension verbatim instead of Requiring. With no enclosing context the
	// extension resolves to empty and a warning is logged.
	InheritRequiring bool

	// Join controls whether this invocation merges its operations into the
	// enclosing block's pending write (true) or owns an independent context
	// (false). Nil reads Config.JoinByDefault.
	Join *bool
}

// Atomically runs body with all mutation verbs buffered into one atomic
// context, committed as a single storage write when the context is owned by
// this invocation.
//
// The boolean result is true unless a selector extension failed to match the
// document server-side; in that case the write was a no-op, the block's
// in-memory changes have been reverted, and false is returned with a nil
// error. A nil body performs no write and returns true.
//
// If body returns an error (or panics), the owning context's in-memory
// changes are reverted and the error propagates unchanged, never wrapped.
func (u *Updater) Atomically(ctx context.Context, opts AtomicOptions, body func(*Updater) error) (bool, error) {
	join := u.config.JoinByDefault
	if opts.Join != nil {
		join = *opts.Join
	}

	if u.session == nil {
		u.session = NewSession()
	}
	s := u.session
	callDepth := s.Depth()
	hasOwnContext := callDepth == 0 || !join
	if hasOwnContext {
		s.push()
	}
	fr := s.current()

	requiring := opts.Requiring
	if opts.InheritRequiring {
		if !hasOwnContext {
			// A joining context shares its parent's frame; its extension is
			// already the parent's.
			requiring = nil
		} else if p := s.parent(); p != nil {
			requiring = CopySelector(p.selector)
		} else {
			u.logger.Warn("inheriting selector extension with no enclosing atomic context")
			requiring = nil
		}
	}
	for key, value := range requiring {
		if _, ok := fr.selector[key]; !ok {
			fr.selector[key] = value
		}
	}

	// Teardown always runs, even when body panics: the frame pops and the
	// outermost call discards the whole session.
	defer func() {
		if hasOwnContext {
			s.pop()
		}
		if callDepth == 0 {
			u.session = nil
		}
	}()

	// A panicking body rolls back like an erring one, then the panic
	// continues unwinding.
	defer func() {
		if r := recover(); r != nil {
			if hasOwnContext {
				u.rollback(fr)
			}
			panic(r)
		}
	}()

	if body != nil {
		err := func() error {
			s.depth++
			defer func() { s.depth-- }()
			return body(u)
		}()
		if err != nil {
			if hasOwnContext {
				u.rollback(fr)
			}
			return false, err
		}
	}

	if !hasOwnContext {
		return true, nil
	}

	matched, err := u.flush(ctx, fr)
	if err != nil {
		// Commit never happened: the fields stay dirty and the error
		// surfaces unchanged.
		return false, err
	}
	// A joining child may have extended the selector after this call began,
	// so the extension is judged at commit time.
	if matched || len(fr.selector) == 0 {
		for _, field := range frameFields(fr) {
			u.doc.ClearChanged(field)
		}
		return true, nil
	}

	// Predicate missed: the write was a no-op, so in-memory state must not
	// diverge from storage.
	u.logger.Debug("selector extension did not match; reverting atomic context",
		"fields", len(frameFields(fr)))
	if u.metrics != nil {
		u.metrics.PredicateMisses.Inc()
	}
	u.rollback(fr)
	return false, nil
}

// rollback restores the pre-mutation value of every field the frame touched
// and drops their changed markers.
func (u *Updater) rollback(fr *frame) {
	fields := frameFields(fr)
	for _, field := range fields {
		u.doc.RevertToOriginal(field)
	}
	if u.metrics != nil {
		u.metrics.Rollbacks.Inc()
	}
	u.logger.Debug("rolled back atomic context", "fields", len(fields))
}
