package livegame

// laneOrder is the order the non-jungle roles are filled in. Jungle is
// resolved first from summoner spells.
var laneOrder = []Role{RoleTop, RoleMid, RoleBot, RoleSupport}

// Lineup is a team in lane order. Slots holds at most one participant per
// role; Overflow holds whoever could not be placed, in input order.
type Lineup struct {
	Slots    map[Role]Participant
	Overflow []Participant
}

// Ordered flattens the lineup to TOP, JNG, MID, BOT, SUP (skipping empty
// slots) followed by the overflow.
func (l Lineup) Ordered() []Participant {
	out := make([]Participant, 0, len(l.Slots)+len(l.Overflow))
	for _, role := range Roles {
		if p, ok := l.Slots[role]; ok {
			out = append(out, p)
		}
	}
	return append(out, l.Overflow...)
}

// AssignRoles places one team's participants into lane slots.
//
// The first participant carrying Smite takes jungle. Each remaining role
// then goes to the pooled participant with the highest probability for it;
// ties keep the earliest participant in input order. Every input
// participant appears exactly once in the result.
func AssignRoles(participants []Participant) Lineup {
	pool := make([]Participant, len(participants))
	copy(pool, participants)

	slots := make(map[Role]Participant, len(Roles))

	for i, p := range pool {
		if p.HasJungleSpell() {
			slots[RoleJungle] = p
			pool = removeAt(pool, i)
			break
		}
	}

	for _, role := range laneOrder {
		if len(pool) == 0 {
			break
		}
		best, bestProb := 0, -1.0
		for i, p := range pool {
			if prob := p.LaneProbabilities.Get(role); prob > bestProb {
				best, bestProb = i, prob
			}
		}
		slots[role] = pool[best]
		pool = removeAt(pool, best)
	}

	return Lineup{Slots: slots, Overflow: pool}
}

// SortByLane is AssignRoles flattened to display order.
func SortByLane(participants []Participant) []Participant {
	return AssignRoles(participants).Ordered()
}

// removeAt deletes index i, shifting later elements so relative order holds.
func removeAt(s []Participant, i int) []Participant {
	return append(s[:i], s[i+1:]...)
}
