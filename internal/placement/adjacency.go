package placement

// IsAdjacent reports whether a and b share an edge: a border cell of one is a
// footprint cell of the other.
//
// Only the two entities' own cell sets are compared. No shared index is
// consulted, so the check gives the same answer inside a Phase1 handler,
// while the occupancy index may not yet contain the new entity, as it does
// afterwards. Both directions are tested so the relation stays symmetric
// when footprints overlap.
func IsAdjacent(a, b *Entity) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	return a.border.Intersects(b.footprint) || b.border.Intersects(a.footprint)
}
