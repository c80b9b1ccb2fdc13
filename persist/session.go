package persist

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// frame is one atomic context: an operator-fragment accumulator plus the
// selector extension its write will be gated on.
type frame struct {
	// ops maps storage operator name -> storage field name -> payload.
	ops map[string]bson.M

	// touched holds every storage field the frame's verbs mutated in
	// memory. A superset of the ops keys: a rename also touches its
	// destination. Rollback and marker clearing walk this set.
	touched map[string]struct{}

	// selector is the extension merged into the write's match predicate.
	selector bson.M
}

func newFrame() *frame {
	return &frame{
		ops:      make(map[string]bson.M),
		touched:  make(map[string]struct{}),
		selector: bson.M{},
	}
}

// Session is the per-document atomic state: a stack of pending contexts and
// the nesting depth. It exists only between the first Atomically call and
// the return of the outermost one, and is single-goroutine state.
type Session struct {
	stack []*frame
	depth int
}

// NewSession creates an empty session with no active context.
func NewSession() *Session {
	return &Session{}
}

// Depth returns the current nesting level of Atomically calls.
func (s *Session) Depth() int {
	return s.depth
}

// Active reports whether at least one atomic context is open.
func (s *Session) Active() bool {
	return len(s.stack) > 0
}

// push opens a fresh context frame.
func (s *Session) push() *frame {
	fr := newFrame()
	s.stack = append(s.stack, fr)
	return fr
}

// pop closes the top frame; the frame below becomes current again. No-op on
// an empty stack.
func (s *Session) pop() {
	if len(s.stack) == 0 {
		return
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// current returns the top frame, or nil when no context is open.
func (s *Session) current() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// parent returns the frame immediately enclosing the top one, or nil.
func (s *Session) parent() *frame {
	if len(s.stack) < 2 {
		return nil
	}
	return s.stack[len(s.stack)-2]
}

// Record merges fieldFragments into the current frame under operator.
// Fragments for distinct fields accumulate; a repeated field overwrites its
// earlier payload. No-op when no context is open.
func (s *Session) Record(operator string, fieldFragments bson.M) {
	fr := s.current()
	if fr == nil {
		return
	}
	existing, ok := fr.ops[operator]
	if !ok {
		existing = bson.M{}
		fr.ops[operator] = existing
	}
	for field, payload := range fieldFragments {
		existing[field] = payload
		fr.touched[field] = struct{}{}
	}
}

// Touch adds a field to the current frame's touched set without recording an
// operator fragment for it. Used for fields mutated as a side effect of
// another field's payload, like a rename destination. No-op when no context
// is open.
func (s *Session) Touch(field string) {
	fr := s.current()
	if fr == nil {
		return
	}
	fr.touched[field] = struct{}{}
}

// ChangedFields returns every storage field name the current frame's verbs
// mutated, sorted for determinism. Empty when no context is open.
func (s *Session) ChangedFields() []string {
	fr := s.current()
	if fr == nil {
		return nil
	}
	return frameFields(fr)
}

func frameFields(fr *frame) []string {
	out := make([]string, 0, len(fr.touched))
	for field := range fr.touched {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}
