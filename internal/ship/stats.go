package ship

import "math"

const (
	highMorale = 80.0
	lowMorale  = 40.0
)

func (s Stats) values() map[StatKey]float64 {
	return map[StatKey]float64{
		StatSpeed:           s.Speed,
		StatManeuverability: float64(s.Maneuverability),
		StatHullPoints:      float64(s.HullPoints),
		StatMaxHullPoints:   float64(s.MaxHullPoints),
		StatArmorClass:      float64(s.ArmorClass),
		StatCargoCapacity:   s.CargoCapacity,
		StatCrewMin:         float64(s.CrewMin),
		StatCrewMax:         float64(s.CrewMax),
	}
}

func statsFrom(v map[StatKey]float64) Stats {
	round := func(k StatKey) int { return int(math.Round(v[k])) }
	return Stats{
		Speed:           v[StatSpeed],
		Maneuverability: round(StatManeuverability),
		HullPoints:      round(StatHullPoints),
		MaxHullPoints:   round(StatMaxHullPoints),
		ArmorClass:      round(StatArmorClass),
		CargoCapacity:   v[StatCargoCapacity],
		CrewMin:         round(StatCrewMin),
		CrewMax:         round(StatCrewMax),
	}
}

// CalculateStats derives the effective stat block: modification adds, then
// multiplies, then hull and speed clamps, then the crew shortfall and morale.
func CalculateStats(s Ship) Stats {
	v := s.Stats.values()
	for _, op := range []Op{OpAdd, OpMultiply} {
		for _, mod := range s.Modifications {
			for _, m := range mod.Modifiers {
				if m.Op != op {
					continue
				}
				if _, known := v[m.Stat]; !known {
					continue
				}
				switch op {
				case OpAdd:
					v[m.Stat] += m.Value
				case OpMultiply:
					v[m.Stat] *= m.Value
				}
			}
		}
	}

	st := statsFrom(v)
	if st.MaxHullPoints < 1 {
		st.MaxHullPoints = 1
	}
	if st.HullPoints > st.MaxHullPoints {
		st.HullPoints = st.MaxHullPoints
	}
	if st.HullPoints < 0 {
		st.HullPoints = 0
	}
	if st.Speed < 0 {
		st.Speed = 0
	}

	hands := s.Crew.Count()
	if st.CrewMin > 0 && hands < st.CrewMin {
		st.Speed = st.Speed * float64(hands) / float64(st.CrewMin)
		st.Maneuverability -= st.CrewMin - hands
	}

	if hands > 0 {
		morale := s.Crew.Stats().AverageMorale
		switch {
		case morale > highMorale:
			st.Maneuverability++
			st.Speed *= 1.1
		case morale < lowMorale:
			st.Maneuverability -= 2
			st.Speed *= 0.8
		}
	}

	if st.Speed < 0 {
		st.Speed = 0
	}
	return st
}

// MilesPerDay is the distance a ship covers in a day of sailing at speed.
func MilesPerDay(speed float64) float64 {
	return (speed / 10) * 24
}
