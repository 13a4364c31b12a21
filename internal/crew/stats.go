package crew

// CalculateStats derives averages, unrest and quality from a roster.
// An empty roster is Poor with zero morale and zero unrest.
func CalculateStats(members []Member) Stats {
	if len(members) == 0 {
		return Stats{AverageMorale: 0, Unrest: 0, Quality: QualityPoor}
	}

	var morale, loyalty float64
	skill := 0
	for _, m := range members {
		morale += m.Morale
		loyalty += m.Loyalty
		skill += m.TotalSkill()
	}
	n := float64(len(members))
	avgMorale := morale / n
	avgLoyalty := loyalty / n

	// Loyalty above 50 offsets discontent; below 50 adds to it.
	unrest := (100 - avgMorale) - (avgLoyalty-50)/2

	return Stats{
		AverageMorale:  avgMorale,
		AverageLoyalty: avgLoyalty,
		Unrest:         clamp(unrest, 0, 100),
		Quality:        qualityFor(float64(skill) / n),
	}
}

func qualityFor(avgSkill float64) Quality {
	switch {
	case avgSkill < 5:
		return QualityPoor
	case avgSkill < 10:
		return QualityAverage
	case avgSkill < 15:
		return QualityExperienced
	case avgSkill < 20:
		return QualityVeteran
	default:
		return QualityElite
	}
}

// TotalWages is the daily payroll.
func TotalWages(c Crew) float64 {
	total := 0.0
	for _, m := range c.Members {
		total += m.DailyWage
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
