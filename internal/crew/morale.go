package crew

// ModifyMorale applies delta to every member and returns the updated crew.
// Superstitious hands take weather losses half again as hard; loyal hands
// take any loss at half weight.
func ModifyMorale(c Crew, delta float64, cause Cause) Crew {
	out := c.Clone()
	for i := range out.Members {
		m := &out.Members[i]
		d := delta
		if d < 0 {
			if cause == CauseWeather && m.HasTrait(TraitSuperstitious) {
				d *= 1.5
			}
			if m.HasTrait(TraitLoyal) {
				d *= 0.5
			}
		}
		m.Morale = clamp(m.Morale+d, 0, 100)
	}
	return out.withStats()
}

// ModifyLoyalty applies delta to every member and returns the updated crew.
func ModifyLoyalty(c Crew, delta float64) Crew {
	out := c.Clone()
	for i := range out.Members {
		out.Members[i].Loyalty = clamp(out.Members[i].Loyalty+delta, 0, 100)
	}
	return out.withStats()
}
