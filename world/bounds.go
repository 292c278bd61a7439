package world

// checkBounds reports every body whose world AABB no longer overlaps
// w.Boundary to w.Bounds, once per substep it remains outside. A nil
// Boundary or Bounds listener disables the check entirely.
func (w *World) checkBounds() {
	if w.Boundary == nil || w.Bounds == nil {
		return
	}
	for _, b := range w.Bodies {
		if !b.WorldAABB().Overlaps(*w.Boundary) {
			w.Bounds.OutOfBounds(b)
		}
	}
}
