package livegame

// RemakeThreshold is the playtime in seconds at or below which a match
// counts as a remake and is not classified.
const RemakeThreshold = 180

// Tag labels.
const (
	TagHighParticipation = "High Participation"
	TagSoloBolos         = "Solo Bolos"
	TagPentakill         = "Pentakill"
	TagFirstBlood        = "First Blood"
	TagMultikills        = "Multikills"
	TagOutnumberedKills  = "Outnumbered Kills"
	TagTowerAnchor       = "Tower Anchor"
	TagKillingSpree      = "Killing Spree"
	TagCSGap             = "CS Gap"
	TagTurretPlateEater  = "Turret Plate Eater"
	TagEarlyFarmer       = "Early Farmer"
	TagExperienceLead    = "Experience Lead"
	TagObjectiveSecured  = "Objective Secured"
	TagObjectiveSteal    = "Objective Steal"
	TagSplitPusher       = "Split Pusher"
	TagVisionGap         = "Vision Gap"
	TagMapVision         = "Map Vision"
	TagVisionDenial      = "Vision Denial"
	TagUtilityImpact     = "Utility Impact"
	TagMitigationClutch  = "Mitigation Clutch"
	TagCCGap             = "CC Gap"
	TagFrontliner        = "Frontliner"
	TagEvasive           = "Evasive"
	TagMechanical        = "Mechanical"
	TagBigBounty         = "Big Bounty"
	TagGoldLead          = "Gold Lead"
)

// RemakeLabel is shown in place of tags for remakes.
const RemakeLabel = "REMAKE"

// Classification is the outcome of tagging one historical match. When
// Remake is set Tags is always empty.
type Classification struct {
	Remake bool
	Tags   []string
}

// Labels returns what the view shows: the tags, or the remake label.
func (c Classification) Labels() []string {
	if c.Remake {
		return []string{RemakeLabel}
	}
	return c.Tags
}

// TagRule appends Label when Match holds.
type TagRule struct {
	Label string
	Match func(m *HistoricalMatch) bool
}

// TagRules is evaluated in order; output order follows it.
var TagRules = []TagRule{
	{TagHighParticipation, challengeAbove("killParticipation", 0.7)},
	{TagSoloBolos, challengeAbove("soloKills", 2)},
	{TagPentakill, func(m *HistoricalMatch) bool { return m.PentaKills > 0 }},
	{TagFirstBlood, func(m *HistoricalMatch) bool { return m.FirstBloodKill }},
	{TagMultikills, challengeAtLeast("multikills", 3)},
	{TagOutnumberedKills, challengeAbove("outnumberedKills", 0)},
	{TagTowerAnchor, challengeAbove("killsUnderOwnTurret", 1)},
	{TagKillingSpree, challengeAbove("killingSprees", 2)},

	{TagCSGap, challengeAbove("maxCsAdvantageOnLaneOpponent", 30)},
	{TagTurretPlateEater, challengeAbove("turretPlatesTaken", 3)},
	{TagEarlyFarmer, challengeAbove("laneMinionsFirst10Minutes", 80)},
	{TagExperienceLead, challengeAtLeast("maxLevelLeadLaneOpponent", 2)},

	{TagObjectiveSecured, challengeAbove("epicMonsterSteals", 0)},
	{TagObjectiveSteal, func(m *HistoricalMatch) bool { return m.ObjectivesStolen > 0 }},
	{TagSplitPusher, func(m *HistoricalMatch) bool { return m.TurretKills > 2 }},

	{TagVisionGap, challengeAbove("visionScoreAdvantageLaneOpponent", 1.5)},
	{TagMapVision, challengeAbove("visionScorePerMinute", 2.0)},
	{TagVisionDenial, challengeAbove("wardTakedowns", 5)},
	{TagUtilityImpact, challengeAbove("effectiveHealAndShielding", 10000)},
	{TagMitigationClutch, challengeAbove("saveAllyFromDeath", 0)},
	{TagCCGap, challengeEquals("highestCrowdControlScore", 1)},

	{TagFrontliner, challengeAbove("damageTakenOnTeamPercentage", 0.35)},
	{TagEvasive, challengeAbove("survivedSingleDigitHpCount", 0)},
	{TagMechanical, challengeAbove("dodgeSkillShotsSmallWindow", 10)},
	{TagBigBounty, challengeAbove("bountyGold", 1000)},
	{TagGoldLead, challengeAbove("goldPerMinute", 600)},
}

// Classify tags a historical match. Matches with TimePlayed at or below
// RemakeThreshold are reported as remakes without evaluating any rule.
func Classify(m HistoricalMatch) Classification {
	if m.TimePlayed <= RemakeThreshold {
		return Classification{Remake: true}
	}

	tags := []string{}
	for _, r := range TagRules {
		if r.Match(&m) {
			tags = append(tags, r.Label)
		}
	}
	return Classification{Tags: tags}
}

func challengeAbove(name string, threshold float64) func(*HistoricalMatch) bool {
	return func(m *HistoricalMatch) bool {
		v, ok := m.Challenges.Lookup(name)
		return ok && v > threshold
	}
}

func challengeAtLeast(name string, threshold float64) func(*HistoricalMatch) bool {
	return func(m *HistoricalMatch) bool {
		v, ok := m.Challenges.Lookup(name)
		return ok && v >= threshold
	}
}

func challengeEquals(name string, want float64) func(*HistoricalMatch) bool {
	return func(m *HistoricalMatch) bool {
		v, ok := m.Challenges.Lookup(name)
		return ok && v == want
	}
}
