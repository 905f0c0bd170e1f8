// Package query implements the client-side data synchronization layer.
//
// Every remote read is identified by a [Key] (operation name plus ordered
// parameters). The [Cache] returns fresh results immediately, serves stale
// results while refetching in the background, deduplicates concurrent fetches
// for one identity, and discards superseded responses using per-identity
// sequence numbers. Mutations never write the cache; they declare the key
// prefixes to invalidate on success, forcing dependent queries to refetch.
package query

import (
	"strings"
)

// keySep separates key segments in the string form. A unit separator keeps
// user-supplied parameters from colliding with segment boundaries.
const keySep = "\x1f"

// Key is a logical query identity: an operation name and its ordered parameters.
type Key struct {
	Name   string
	Params []string
}

// NewKey builds a Key from a name and its parameters.
func NewKey(name string, params ...string) Key {
	return Key{Name: name, Params: params}
}

// String returns the stable map form of the key.
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Name
	}
	return k.Name + keySep + strings.Join(k.Params, keySep)
}

// HasPrefix reports whether k falls under prefix: same operation name and
// prefix's parameters lead k's. A bare name matches every parameterization.
func (k Key) HasPrefix(prefix Key) bool {
	if k.Name != prefix.Name {
		return false
	}
	if len(prefix.Params) > len(k.Params) {
		return false
	}
	for i, p := range prefix.Params {
		if k.Params[i] != p {
			return false
		}
	}
	return true
}
