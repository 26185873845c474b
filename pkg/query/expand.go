package query

import "github.com/Khoshkhah/h3-routing-platform/pkg/store"

// pairKey is a (from_edge, to_edge) lookup key into the via table.
type pairKey struct {
	from, to store.EdgeID
}

// ViaLookup maps every non-base-pair shortcut's (FromEdge, ToEdge) to the
// via edge it was assembled through, for recursive expansion down to base
// edges.
type ViaLookup map[pairKey]store.EdgeID

// BuildViaLookup indexes every shortcut in the table that carries real
// recursive structure (skipping base pairs, whose via edge is absent or
// coincides with one of their own ends).
func BuildViaLookup(shorts *store.ShortcutTable) ViaLookup {
	lookup := make(ViaLookup)
	for _, s := range shorts.Records {
		if s.IsBasePair() {
			continue
		}
		lookup[pairKey{s.FromEdge, s.ToEdge}] = s.ViaEdge
	}
	return lookup
}

// Expand turns a shortcut-level path (a sequence of base-edge ids, each
// adjacent pair connected by some shortcut) into the full base-edge
// sequence, recursively expanding every (u, v) pair via the lookup table.
func Expand(lookup ViaLookup, path []store.EdgeID) []store.EdgeID {
	if len(path) == 0 {
		return nil
	}
	var out []store.EdgeID
	for i := 0; i+1 < len(path); i++ {
		pair := expandPair(lookup, path[i], path[i+1], make(map[pairKey]bool))
		if i == 0 {
			out = append(out, pair...)
		} else {
			out = append(out, pair[1:]...)
		}
	}
	return out
}

// expandPair expands one (u, v) edge of the shortcut path. visited guards
// against a cyclic via table (a via edge that, through some chain, routes
// back through (u, v) itself) looping forever.
func expandPair(lookup ViaLookup, u, v store.EdgeID, visited map[pairKey]bool) []store.EdgeID {
	key := pairKey{u, v}
	if visited[key] {
		return []store.EdgeID{u, v}
	}
	visited[key] = true

	via, ok := lookup[key]
	if !ok || via == 0 || via == u || via == v {
		return []store.EdgeID{u, v}
	}

	left := expandPair(lookup, u, via, visited)
	right := expandPair(lookup, via, v, visited)
	return append(left[:len(left)-1:len(left)-1], right...)
}
