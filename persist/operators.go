package persist

// Operator describes how one mutation verb reaches storage.
type Operator struct {
	// Verb is the recorder-level name (e.g. "inc", "add_to_set").
	Verb string

	// Name is the storage operator (e.g. "$inc", "$addToSet").
	Name string

	// EachWrapped marks array verbs whose payload is wrapped in
	// {"$each": values}.
	EachWrapped bool

	// FieldPayload marks verbs whose payload names another storage field
	// mutated alongside the key field, like $rename's destination.
	FieldPayload bool
}

// OperatorRegistry maps mutation verbs to their storage operators. The
// operator-name set is a collaborator concern: hosts may register custom
// verbs alongside the defaults.
type OperatorRegistry struct {
	byVerb map[string]Operator
}

// NewOperatorRegistry creates an empty registry.
func NewOperatorRegistry() *OperatorRegistry {
	return &OperatorRegistry{byVerb: make(map[string]Operator)}
}

// Register adds or replaces an operator mapping.
func (r *OperatorRegistry) Register(op Operator) {
	r.byVerb[op.Verb] = op
}

// Lookup returns the operator for a verb.
func (r *OperatorRegistry) Lookup(verb string) (Operator, bool) {
	op, ok := r.byVerb[verb]
	return op, ok
}

// Verb names pre-registered by DefaultOperators.
const (
	VerbInc      = "inc"
	VerbBit      = "bit"
	VerbSet      = "set"
	VerbUnset    = "unset"
	VerbPush     = "push"
	VerbAddToSet = "add_to_set"
	VerbPull     = "pull"
	VerbPullAll  = "pull_all"
	VerbPop      = "pop"
	VerbRename   = "rename"
)

// DefaultOperators returns a registry holding the standard verb set.
func DefaultOperators() *OperatorRegistry {
	r := NewOperatorRegistry()
	for _, op := range []Operator{
		{Verb: VerbInc, Name: "$inc"},
		{Verb: VerbBit, Name: "$bit"},
		{Verb: VerbSet, Name: "$set"},
		{Verb: VerbUnset, Name: "$unset"},
		{Verb: VerbPush, Name: "$push", EachWrapped: true},
		{Verb: VerbAddToSet, Name: "$addToSet", EachWrapped: true},
		{Verb: VerbPull, Name: "$pull"},
		{Verb: VerbPullAll, Name: "$pullAll"},
		{Verb: VerbPop, Name: "$pop"},
		{Verb: VerbRename, Name: "$rename", FieldPayload: true},
	} {
		r.Register(op)
	}
	return r
}
