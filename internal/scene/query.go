package scene

import (
	"sort"

	"github.com/san-kum/chainsim/internal/dynamo"
)

// Queryable is the part of a Store a query needs.
type Queryable interface {
	Has(e dynamo.Entity) bool
	Entities() []dynamo.Entity
	Count() int
}

// Query returns, in ascending order, the entities present in every store.
// Starts from the smallest store to minimise intersection work.
//
// Example:
//
//	roots := scene.Query(w.Roots, w.Links)
func Query(stores ...Queryable) []dynamo.Entity {
	if len(stores) == 0 {
		return nil
	}

	ordered := make([]Queryable, len(stores))
	copy(ordered, stores)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Count() < ordered[j].Count() })

	var out []dynamo.Entity
	for _, e := range ordered[0].Entities() {
		match := true
		for _, s := range ordered[1:] {
			if !s.Has(e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}
