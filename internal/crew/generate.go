package crew

import (
	"github.com/talgya/seaworthy/internal/entropy"
)

const (
	startingMorale  = 80.0
	startingLoyalty = 50.0
	wagePerLevel    = 0.5
)

// GenerateMember creates a new hand for the given role and level.
func GenerateMember(role Role, level int, src entropy.Source) Member {
	if level < 1 {
		level = 1
	}
	if _, ok := roleTable[role]; !ok {
		role = RoleSailor
	}
	profile := roleTable[role]

	id := entropy.NewID(src)
	name := entropy.Pick(src, firstNames) + " " + entropy.Pick(src, surnames)
	traits := pickTraits(src, 1+src.IntN(2))

	// Role base, plus a level-scaled bonus on each trained skill.
	skills := make(map[Skill]int, len(profile.BaseSkills))
	for _, sk := range AllSkills {
		base, trained := profile.BaseSkills[sk]
		if !trained {
			continue
		}
		skills[sk] = base + src.IntN(level+1)
	}

	morale := startingMorale
	for _, t := range traits {
		info := TraitInfo(t)
		morale += info.MoraleModifier * 0.5
		for _, sk := range AllSkills {
			if bonus, ok := info.SkillBonus[sk]; ok {
				skills[sk] += bonus
				if skills[sk] < 0 {
					skills[sk] = 0
				}
			}
		}
	}

	return Member{
		ID:        id,
		Name:      name,
		Role:      role,
		Level:     level,
		Skills:    skills,
		Morale:    clamp(morale, 0, 100),
		Loyalty:   startingLoyalty,
		DailyWage: profile.BaseWage + float64(level)*wagePerLevel,
		Traits:    traits,
	}
}

// pickTraits draws n distinct traits.
func pickTraits(src entropy.Source, n int) []Trait {
	pool := append([]Trait(nil), Traits...)
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]Trait, 0, n)
	for i := 0; i < n; i++ {
		j := src.IntN(len(pool))
		out = append(out, pool[j])
		pool = append(pool[:j], pool[j+1:]...)
	}
	return out
}

// GenerateCrew recruits counts[role] hands of each role at the given level.
func GenerateCrew(counts map[Role]int, level int, src entropy.Source) Crew {
	var members []Member
	for _, r := range Roles {
		for i := 0; i < counts[r]; i++ {
			members = append(members, GenerateMember(r, level, src))
		}
	}
	return New(members)
}

// StandardComplement is a balanced roster of the given size: officers first,
// then specialists, the rest sailors.
func StandardComplement(size int) map[Role]int {
	counts := make(map[Role]int)
	order := []Role{RoleCaptain, RoleBoatswain, RoleCarpenter, RoleGunner, RoleCook, RoleNavigator, RoleFirstMate, RoleSurgeon}
	for _, r := range order {
		if size == 0 {
			return counts
		}
		counts[r]++
		size--
	}
	counts[RoleSailor] += size
	return counts
}
