package crew

// RoleProfile is the starting skill spread and pay for a station.
type RoleProfile struct {
	BaseSkills map[Skill]int
	BaseWage   float64 // gold per day
}

// TraitProfile is how a trait shifts a new member.
type TraitProfile struct {
	MoraleModifier float64
	SkillBonus     map[Skill]int
}

// Roles in stable order.
var Roles = []Role{
	RoleCaptain, RoleFirstMate, RoleBoatswain, RoleNavigator,
	RoleGunner, RoleCarpenter, RoleCook, RoleSurgeon, RoleSailor,
}

var roleTable = map[Role]RoleProfile{
	RoleCaptain: {
		BaseSkills: map[Skill]int{SkillLeadership: 4, SkillSailing: 3, SkillNavigation: 2},
		BaseWage:   2.0,
	},
	RoleFirstMate: {
		BaseSkills: map[Skill]int{SkillLeadership: 3, SkillSailing: 3, SkillBrawling: 1},
		BaseWage:   1.5,
	},
	RoleBoatswain: {
		BaseSkills: map[Skill]int{SkillSailing: 3, SkillLeadership: 2, SkillBrawling: 2},
		BaseWage:   0.8,
	},
	RoleNavigator: {
		BaseSkills: map[Skill]int{SkillNavigation: 4, SkillSailing: 1},
		BaseWage:   1.0,
	},
	RoleGunner: {
		BaseSkills: map[Skill]int{SkillGunnery: 4, SkillBrawling: 1},
		BaseWage:   0.5,
	},
	RoleCarpenter: {
		BaseSkills: map[Skill]int{SkillCarpentry: 4, SkillSailing: 1},
		BaseWage:   0.5,
	},
	RoleCook: {
		BaseSkills: map[Skill]int{SkillCooking: 3, SkillMedicine: 1},
		BaseWage:   0.3,
	},
	RoleSurgeon: {
		BaseSkills: map[Skill]int{SkillMedicine: 4, SkillCooking: 1},
		BaseWage:   1.0,
	},
	RoleSailor: {
		BaseSkills: map[Skill]int{SkillSailing: 2, SkillBrawling: 1},
		BaseWage:   0.2,
	},
}

// Traits in stable order.
var Traits = []Trait{
	TraitSuperstitious, TraitLoyal, TraitBrave, TraitCheerful, TraitHardworking,
	TraitLazy, TraitDrunkard, TraitGreedy, TraitSeasoned, TraitStargazer,
}

var traitTable = map[Trait]TraitProfile{
	TraitSuperstitious: {MoraleModifier: -5},
	TraitLoyal:         {MoraleModifier: 5},
	TraitBrave:         {MoraleModifier: 10, SkillBonus: map[Skill]int{SkillBrawling: 1}},
	TraitCheerful:      {MoraleModifier: 10},
	TraitHardworking:   {MoraleModifier: 5, SkillBonus: map[Skill]int{SkillSailing: 1}},
	TraitLazy:          {MoraleModifier: -5, SkillBonus: map[Skill]int{SkillSailing: -1}},
	TraitDrunkard:      {MoraleModifier: -10, SkillBonus: map[Skill]int{SkillCooking: 1}},
	TraitGreedy:        {MoraleModifier: -5},
	TraitSeasoned:      {SkillBonus: map[Skill]int{SkillSailing: 1, SkillGunnery: 1}},
	TraitStargazer:     {SkillBonus: map[Skill]int{SkillNavigation: 2}},
}

// RoleInfo returns the profile for a role, falling back to a sailor's.
func RoleInfo(r Role) RoleProfile {
	if p, ok := roleTable[r]; ok {
		return p
	}
	return roleTable[RoleSailor]
}

// TraitInfo returns the profile for a trait. Unknown traits are neutral.
func TraitInfo(t Trait) TraitProfile {
	return traitTable[t]
}

var firstNames = []string{
	"Anne", "Bartholomew", "Calico", "Davy", "Edward", "Flint", "Grace", "Henry",
	"Isla", "Jonas", "Kit", "Lorcan", "Mary", "Ned", "Oona", "Percival",
	"Quill", "Rosalind", "Silas", "Tamsin", "Ulric", "Vera", "Wendel", "Yara",
}

var surnames = []string{
	"Blackwood", "Bonny", "Cutler", "Drake", "Fairweather", "Gull", "Hawkins", "Kidd",
	"Lowe", "Marlow", "Nettle", "Pike", "Quarterdeck", "Rackham", "Salt", "Teach",
	"Vane", "Whitby", "Wrecker", "Yardley",
}
