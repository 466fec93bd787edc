// Package livegame derives the view-model pieces of an in-progress match:
// lane order per team, the live game clock and performance tags for a
// participant's recent matches.
package livegame

// Team identifiers as reported by the spectator API.
const (
	TeamBlue = 100
	TeamRed  = 200
)

// JungleSpellID is the summoner spell id of Smite.
const JungleSpellID = 11

// Role is a lane slot on a team.
type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JNG"
	RoleMid     Role = "MID"
	RoleBot     Role = "BOT"
	RoleSupport Role = "SUP"
)

// Roles lists the lane slots in display order.
var Roles = []Role{RoleTop, RoleJungle, RoleMid, RoleBot, RoleSupport}

// LaneProbabilities maps a role to how likely a champion plays it.
// A nil map is valid and means every role has probability 0.
type LaneProbabilities map[Role]float64

// Get returns the probability for role, 0 when absent.
func (lp LaneProbabilities) Get(role Role) float64 {
	if lp == nil {
		return 0
	}
	return lp[role]
}

// Rank is a participant's solo queue standing.
type Rank struct {
	Tier    string  `json:"tier"`
	Rank    string  `json:"rank"`
	LP      int     `json:"lp"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Winrate float64 `json:"winrate"`
}

// Unranked is the rank reported for players without a solo queue entry.
func Unranked() *Rank {
	return &Rank{Tier: "UNRANKED"}
}

// Participant is one player in the live match.
type Participant struct {
	PUUID             string            `json:"puuid"`
	TeamID            int               `json:"teamId"`
	ChampionID        int               `json:"championId"`
	SummonerName      string            `json:"summonerName,omitempty"`
	TagLine           string            `json:"tagLine,omitempty"`
	AssignedRole      string            `json:"assignedRole,omitempty"`
	Bot               bool              `json:"bot,omitempty"`
	Spell1ID          int               `json:"spell1Id"`
	Spell2ID          int               `json:"spell2Id"`
	PerkStyle         int               `json:"perkStyle,omitempty"`
	PerkSubStyle      int               `json:"perkSubStyle,omitempty"`
	KeystoneID        int               `json:"keystoneId,omitempty"`
	LaneProbabilities LaneProbabilities `json:"laneProbabilities,omitempty"`
	Rank              *Rank             `json:"rank,omitempty"`
	History           []HistoricalMatch `json:"history"`
}

// Placeholder reports whether the participant has no resolved identity
// (bots, hidden players). Placeholders render but cannot be selected.
func (p Participant) Placeholder() bool {
	return p.PUUID == ""
}

// HasJungleSpell reports whether either summoner spell is Smite.
func (p Participant) HasJungleSpell() bool {
	return p.Spell1ID == JungleSpellID || p.Spell2ID == JungleSpellID
}

// ItemSlots is the final inventory: six regular slots and the trinket.
// Zero means empty.
type ItemSlots [7]int

// HistoricalMatch is a summary of one of a participant's finished matches.
type HistoricalMatch struct {
	Win          bool   `json:"win"`
	Champion     string `json:"champion,omitempty"`
	ChampionID   int    `json:"championId"`
	TeamPosition string `json:"teamPosition"`
	EnemyLaner   int    `json:"enemyLaner"`
	ChampLevel   int    `json:"champLevel"`

	Kills             int     `json:"kills"`
	Deaths            int     `json:"deaths"`
	Assists           int     `json:"assists"`
	KDA               float64 `json:"kda"`
	KillParticipation float64 `json:"kill_participation"`
	GoldEarned        int     `json:"gold_earned"`
	GoldShare         float64 `json:"gold_share"`
	CSPerMin          float64 `json:"cs_per_min"`
	DamageShare       float64 `json:"dmg_share"`

	PentaKills       int  `json:"pentaKills"`
	FirstBloodKill   bool `json:"firstBloodKill"`
	ObjectivesStolen int  `json:"objectivesStolen"`
	TurretKills      int  `json:"turret_kills"`

	Items        ItemSlots `json:"items"`
	Spell1       int       `json:"spell1"`
	Spell2       int       `json:"spell2"`
	PrimaryStyle int       `json:"primaryStyle"`
	SubStyle     int       `json:"subStyle"`
	KeystoneID   int       `json:"keystoneId"`

	Challenges Challenges `json:"challenges"`

	TimePlayed       int   `json:"timePlayed"`
	GameDuration     int   `json:"game_duration"`
	GameEndTimestamp int64 `json:"game_end_timestamp"`
}

// Challenges is the sparse set of derived metrics Riot attaches to a
// participant. Missing keys and a nil map are both valid.
type Challenges map[string]float64

// Lookup returns the metric and whether it was present.
func (c Challenges) Lookup(name string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c[name]
	return v, ok
}

// BanRecord is one ban slot. ChampionID 0 or -1 means no ban.
type BanRecord struct {
	TeamID     int `json:"teamId"`
	ChampionID int `json:"championId"`
	PickTurn   int `json:"pickTurn,omitempty"`
}

// Empty reports whether the slot holds no real ban.
func (b BanRecord) Empty() bool {
	return b.ChampionID <= 0
}
