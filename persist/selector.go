package persist

import (
	"go.mongodb.org/mongo-driver/bson"
)

// MergeSelector combines a base identity predicate with a selector
// extension. Base keys win on conflict, so an extension can never widen or
// redirect the identity match.
func MergeSelector(base bson.M, extension bson.M) bson.M {
	merged := make(bson.M, len(base)+len(extension))
	for key, value := range extension {
		merged[key] = value
	}
	for key, value := range base {
		merged[key] = value
	}
	return merged
}

// CopySelector returns a shallow copy of a selector extension; used when a
// child context inherits its parent's extension verbatim.
func CopySelector(selector bson.M) bson.M {
	out := make(bson.M, len(selector))
	for key, value := range selector {
		out[key] = value
	}
	return out
}
