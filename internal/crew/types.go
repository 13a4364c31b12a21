// Package crew models the people aboard a ship: generation, aggregate
// morale and unrest, daily wages and the mutiny check.
package crew

// Role is a crew member's station aboard.
type Role string

const (
	RoleCaptain   Role = "captain"
	RoleFirstMate Role = "first_mate"
	RoleBoatswain Role = "boatswain"
	RoleNavigator Role = "navigator"
	RoleGunner    Role = "gunner"
	RoleCarpenter Role = "carpenter"
	RoleCook      Role = "cook"
	RoleSurgeon   Role = "surgeon"
	RoleSailor    Role = "sailor"
)

// Skill names a trained capability.
type Skill string

const (
	SkillSailing    Skill = "sailing"
	SkillNavigation Skill = "navigation"
	SkillGunnery    Skill = "gunnery"
	SkillCarpentry  Skill = "carpentry"
	SkillMedicine   Skill = "medicine"
	SkillLeadership Skill = "leadership"
	SkillCooking    Skill = "cooking"
	SkillBrawling   Skill = "brawling"
)

// AllSkills in stable iteration order.
var AllSkills = []Skill{
	SkillSailing, SkillNavigation, SkillGunnery, SkillCarpentry,
	SkillMedicine, SkillLeadership, SkillCooking, SkillBrawling,
}

// Trait is a personality quirk that shifts morale and skills.
type Trait string

const (
	TraitSuperstitious Trait = "superstitious"
	TraitLoyal         Trait = "loyal"
	TraitBrave         Trait = "brave"
	TraitCheerful      Trait = "cheerful"
	TraitHardworking   Trait = "hardworking"
	TraitLazy          Trait = "lazy"
	TraitDrunkard      Trait = "drunkard"
	TraitGreedy        Trait = "greedy"
	TraitSeasoned      Trait = "seasoned"
	TraitStargazer     Trait = "stargazer"
)

// Quality is the crew's overall competence tier.
type Quality string

const (
	QualityPoor        Quality = "Poor"
	QualityAverage     Quality = "Average"
	QualityExperienced Quality = "Experienced"
	QualityVeteran     Quality = "Veteran"
	QualityElite       Quality = "Elite"
)

// Cause tags a morale change so traits can react to it.
type Cause string

const (
	CauseGeneral    Cause = ""
	CauseWeather    Cause = "weather"
	CauseRationing  Cause = "rationing"
	CauseStarvation Cause = "starvation"
	CauseCombat     Cause = "combat"
)

// Member is a single sailor.
type Member struct {
	ID        string        `json:"id" yaml:"id"`
	Name      string        `json:"name" yaml:"name"`
	Role      Role          `json:"role" yaml:"role"`
	Level     int           `json:"level" yaml:"level"`
	Skills    map[Skill]int `json:"skills" yaml:"skills"`
	Morale    float64       `json:"morale" yaml:"morale"`   // 0–100
	Loyalty   float64       `json:"loyalty" yaml:"loyalty"` // 0–100
	DailyWage float64       `json:"daily_wage" yaml:"daily_wage"`
	Traits    []Trait       `json:"traits" yaml:"traits"`
	Unpaid    bool          `json:"unpaid,omitempty" yaml:"unpaid,omitempty"`
}

// HasTrait reports whether the member carries t.
func (m Member) HasTrait(t Trait) bool {
	for _, have := range m.Traits {
		if have == t {
			return true
		}
	}
	return false
}

// TotalSkill sums all skill points.
func (m Member) TotalSkill() int {
	total := 0
	for _, v := range m.Skills {
		total += v
	}
	return total
}

func (m Member) clone() Member {
	out := m
	out.Skills = make(map[Skill]int, len(m.Skills))
	for k, v := range m.Skills {
		out.Skills[k] = v
	}
	out.Traits = append([]Trait(nil), m.Traits...)
	return out
}

// Stats is the aggregate view of a roster.
type Stats struct {
	AverageMorale  float64 `json:"average_morale"`
	AverageLoyalty float64 `json:"average_loyalty"`
	Unrest         float64 `json:"unrest"` // 0–100
	Quality        Quality `json:"quality"`
}

// Crew is the roster a ship owns, plus its cached aggregate stats.
// Operations return new values; Members is never shared between crews.
type Crew struct {
	Members         []Member `json:"members" yaml:"members"`
	AverageMorale   float64  `json:"average_morale" yaml:"average_morale"`
	AverageLoyalty  float64  `json:"average_loyalty" yaml:"average_loyalty"`
	Unrest          float64  `json:"unrest" yaml:"unrest"`
	Quality         Quality  `json:"quality" yaml:"quality"`
	MutinyTriggered bool     `json:"mutiny_triggered,omitempty" yaml:"mutiny_triggered,omitempty"`
}

// New builds a crew from members and computes its stats.
func New(members []Member) Crew {
	c := Crew{Members: make([]Member, len(members))}
	for i, m := range members {
		c.Members[i] = m.clone()
	}
	return c.withStats()
}

// Count is the number of hands aboard.
func (c Crew) Count() int {
	return len(c.Members)
}

// Clone returns a deep copy.
func (c Crew) Clone() Crew {
	out := c
	out.Members = make([]Member, len(c.Members))
	for i, m := range c.Members {
		out.Members[i] = m.clone()
	}
	return out
}

// Member returns the member with the given id.
func (c Crew) Member(id string) (Member, bool) {
	for _, m := range c.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// HasRole reports whether anyone aboard holds the role.
func (c Crew) HasRole(r Role) bool {
	for _, m := range c.Members {
		if m.Role == r {
			return true
		}
	}
	return false
}

// Stats returns the aggregate stats recomputed from the roster.
func (c Crew) Stats() Stats {
	return CalculateStats(c.Members)
}

func (c Crew) withStats() Crew {
	s := CalculateStats(c.Members)
	c.AverageMorale = s.AverageMorale
	c.AverageLoyalty = s.AverageLoyalty
	c.Unrest = s.Unrest
	c.Quality = s.Quality
	return c
}

// Add returns a crew with the members appended.
func (c Crew) Add(members ...Member) Crew {
	out := c.Clone()
	for _, m := range members {
		out.Members = append(out.Members, m.clone())
	}
	return out.withStats()
}

// Remove returns a crew without the member with the given id.
func (c Crew) Remove(id string) Crew {
	out := Crew{MutinyTriggered: c.MutinyTriggered}
	for _, m := range c.Members {
		if m.ID != id {
			out.Members = append(out.Members, m.clone())
		}
	}
	return out.withStats()
}
