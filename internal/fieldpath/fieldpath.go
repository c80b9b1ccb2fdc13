// Package fieldpath rewrites update-document field paths so writes into
// embedded arrays address the element the selector matched.
package fieldpath

import (
	"sort"
	"strings"
)

// Positionally rewrites the field paths of one operator's field map: when
// the selector addresses an embedded array element (an "assoc._id" style
// key), a numeric index segment directly under that association is replaced
// with the "$" positional operator, so the write lands on the matched
// element rather than a fixed index.
//
// A selector with a single key (bare identity) or any nil value is left
// alone: there is no positional match to speak of.
func Positionally(selector map[string]any, fields map[string]any) map[string]any {
	keys := positionalKeys(selector)
	if len(keys) == 0 {
		return fields
	}
	out := make(map[string]any, len(fields))
	for path, payload := range fields {
		out[replaceIndex(keys, path)] = payload
	}
	return out
}

// positionalKeys extracts association prefixes from the selector: every key
// except the bare "_id", with a "._id" suffix stripped. Longest prefixes
// first so deeper associations win.
func positionalKeys(selector map[string]any) []string {
	if len(selector) <= 1 {
		return nil
	}
	for _, value := range selector {
		if value == nil {
			return nil
		}
	}
	keys := make([]string, 0, len(selector))
	for key := range selector {
		if key == "_id" {
			continue
		}
		keys = append(keys, strings.TrimSuffix(key, "._id"))
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// replaceIndex rewrites "assoc.3.field" to "assoc.$.field" for the first
// association prefix that matches the path.
func replaceIndex(keys []string, path string) string {
	for _, key := range keys {
		prefix := key + "."
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := path[len(prefix):]
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i > 0 && i < len(rest) && rest[i] == '.' {
			return key + ".$." + rest[i+1:]
		}
	}
	return path
}
