package riot

import "encoding/json"

// AccountResponse represents the response from Riot Account API.
type AccountResponse struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// ActiveGame is the spectator-v5 view of a match in progress.
type ActiveGame struct {
	GameID            int64             `json:"gameId"`
	GameMode          string            `json:"gameMode"`
	GameType          string            `json:"gameType"`
	GameQueueConfigID int               `json:"gameQueueConfigId"`
	GameStartTime     int64             `json:"gameStartTime"`
	GameLength        int64             `json:"gameLength"`
	PlatformID        string            `json:"platformId"`
	BannedChampions   []BannedChampion  `json:"bannedChampions"`
	Participants      []GameParticipant `json:"participants"`
}

// BannedChampion is one ban slot. ChampionID is -1 when the slot was skipped.
type BannedChampion struct {
	ChampionID int `json:"championId"`
	TeamID     int `json:"teamId"`
	PickTurn   int `json:"pickTurn"`
}

// GameParticipant is a player in an active game. PUUID is empty for
// hidden players and bots.
type GameParticipant struct {
	PUUID      string `json:"puuid"`
	RiotID     string `json:"riotId"`
	TeamID     int    `json:"teamId"`
	ChampionID int    `json:"championId"`
	Spell1ID   int    `json:"spell1Id"`
	Spell2ID   int    `json:"spell2Id"`
	Bot        bool   `json:"bot"`
	Perks      Perks  `json:"perks"`
}

// Perks is the rune page of an active game participant.
type Perks struct {
	PerkIDs      []int `json:"perkIds"`
	PerkStyle    int   `json:"perkStyle"`
	PerkSubStyle int   `json:"perkSubStyle"`
}

// Keystone returns the first rune of the page, 0 when unknown.
func (p Perks) Keystone() int {
	if len(p.PerkIDs) == 0 {
		return 0
	}
	return p.PerkIDs[0]
}

// LeagueEntry is one ranked queue standing from league-v4.
type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// QueueRankedSolo is the league-v4 queue type for solo/duo.
const QueueRankedSolo = "RANKED_SOLO_5x5"

// MatchInfo represents the info section of a match response.
type MatchInfo struct {
	GameID           int64         `json:"gameId"`
	GameDuration     int64         `json:"gameDuration"`
	GameEndTimestamp int64         `json:"gameEndTimestamp"`
	GameMode         string        `json:"gameMode"`
	QueueID          int           `json:"queueId"`
	Participants     []Participant `json:"participants"`
}

// MatchResponse represents the full match response from Riot API.
type MatchResponse struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info MatchInfo `json:"info"`
}

// Participant represents a player in a finished match.
type Participant struct {
	PUUID          string `json:"puuid"`
	ParticipantID  int    `json:"participantId"`
	RiotIDGameName string `json:"riotIdGameName"`
	ChampionName   string `json:"championName"`
	ChampionID     int    `json:"championId"`
	TeamID         int    `json:"teamId"`
	TeamPosition   string `json:"teamPosition"`
	Win            bool   `json:"win"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
	ChampLevel     int    `json:"champLevel"`
	TimePlayed     int    `json:"timePlayed"`

	// Damage
	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`

	// CS and Gold
	TotalMinionsKilled   int `json:"totalMinionsKilled"`
	NeutralMinionsKilled int `json:"neutralMinionsKilled"`
	GoldEarned           int `json:"goldEarned"`

	// Objectives
	PentaKills       int  `json:"pentaKills"`
	FirstBloodKill   bool `json:"firstBloodKill"`
	ObjectivesStolen int  `json:"objectivesStolen"`
	TurretKills      int  `json:"turretKills"`

	// Build
	Item0       int        `json:"item0"`
	Item1       int        `json:"item1"`
	Item2       int        `json:"item2"`
	Item3       int        `json:"item3"`
	Item4       int        `json:"item4"`
	Item5       int        `json:"item5"`
	Item6       int        `json:"item6"`
	Summoner1ID int        `json:"summoner1Id"`
	Summoner2ID int        `json:"summoner2Id"`
	Perks       MatchPerks `json:"perks"`

	// Challenges is kept raw; Riot mixes numbers, booleans and arrays in it.
	Challenges json.RawMessage `json:"challenges"`
}

// Items returns the seven inventory slots in order.
func (p Participant) Items() [7]int {
	return [7]int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6}
}

// MatchPerks is the rune page of a finished match participant.
type MatchPerks struct {
	Styles []PerkStyleSelection `json:"styles"`
}

// PerkStyleSelection is one rune tree: primary first, secondary second.
type PerkStyleSelection struct {
	Description string `json:"description"`
	Style       int    `json:"style"`
	Selections  []struct {
		Perk int `json:"perk"`
	} `json:"selections"`
}

// Primary returns the primary tree id, 0 when missing.
func (m MatchPerks) Primary() int {
	if len(m.Styles) == 0 {
		return 0
	}
	return m.Styles[0].Style
}

// Secondary returns the secondary tree id, 0 when missing.
func (m MatchPerks) Secondary() int {
	if len(m.Styles) < 2 {
		return 0
	}
	return m.Styles[1].Style
}

// Keystone returns the first rune of the primary tree, 0 when missing.
func (m MatchPerks) Keystone() int {
	if len(m.Styles) == 0 || len(m.Styles[0].Selections) == 0 {
		return 0
	}
	return m.Styles[0].Selections[0].Perk
}
