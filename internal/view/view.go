// Package view turns a live game payload into the structure the display
// renders: teams in lane order, fixed ban rows, the match clock and
// per-match tags for each player's history.
package view

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/riftscout/internal/livegame"
)

// BansPerTeam is the number of ban slots rendered for each side.
const BansPerTeam = 5

// Game is the renderable live match.
type Game struct {
	InGame    bool   `json:"inGame"`
	GameID    int64  `json:"gameId,omitempty"`
	GameMode  string `json:"gameMode,omitempty"`
	QueueID   int    `json:"queueId,omitempty"`
	QueueName string `json:"queueName,omitempty"`
	Elapsed   int64  `json:"elapsed"`
	Clock     string `json:"clock,omitempty"`
	StartTime int64  `json:"startTime,omitempty"`
	Blue      *Team  `json:"blue,omitempty"`
	Red       *Team  `json:"red,omitempty"`
}

// Team is one side of the match.
type Team struct {
	TeamID  int       `json:"teamId"`
	Players []Player  `json:"players"`
	Bans    []BanSlot `json:"bans"`
}

// Player is one participant row.
type Player struct {
	Slot         livegame.Role `json:"slot,omitempty"` // empty for overflow players
	PUUID        string        `json:"puuid,omitempty"`
	SummonerName string        `json:"summonerName"`
	TagLine      string        `json:"tagLine"`
	ChampionID   int           `json:"championId"`
	Spell1ID     int           `json:"spell1Id"`
	Spell2ID     int           `json:"spell2Id"`
	KeystoneID   int           `json:"keystoneId"`
	PerkSubStyle int           `json:"perkSubStyle"`
	Selectable   bool          `json:"selectable"`
	Rank         RankView      `json:"rank"`
	History      []MatchView   `json:"history"`
}

// RankView is a rank badge.
type RankView struct {
	Tier    string  `json:"tier"`
	Rank    string  `json:"rank,omitempty"`
	LP      int     `json:"lp"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Winrate float64 `json:"winrate"`
	Label   string  `json:"label"`
}

// MatchView is one row of a player's recent matches.
type MatchView struct {
	Win         bool               `json:"win"`
	Remake      bool               `json:"remake"`
	ChampionID  int                `json:"championId"`
	Champion    string             `json:"champion,omitempty"`
	Position    string             `json:"position"`
	EnemyLaner  int                `json:"enemyLaner"`
	ChampLevel  int                `json:"champLevel"`
	Score       string             `json:"score"`
	KDA         float64            `json:"kda"`
	KillShare   float64            `json:"killParticipation"`
	CSPerMin    float64            `json:"csPerMin"`
	GoldShare   float64            `json:"goldShare"`
	DamageShare float64            `json:"damageShare"`
	Items       livegame.ItemSlots `json:"items"`
	Spell1      int                `json:"spell1"`
	Spell2      int                `json:"spell2"`
	KeystoneID  int                `json:"keystoneId"`
	SubStyle    int                `json:"subStyle"`
	Duration    string             `json:"duration"`
	Ago         string             `json:"ago"`
	Tags        []string           `json:"tags"`
}

// BanSlot is one ban icon. Empty slots render as a placeholder.
type BanSlot struct {
	ChampionID int  `json:"championId"`
	Empty      bool `json:"empty"`
}

// Build assembles the view at time now. A payload that is not in game is
// returned as such without further derivation.
func Build(p *livegame.Payload, now time.Time) (*Game, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", livegame.ErrMalformedPayload)
	}
	if !p.InGame {
		return &Game{InGame: false}, nil
	}

	elapsed := livegame.Elapsed(now, p.GameStartTime, p.GameLength)
	queueID := p.QueueID()
	return &Game{
		InGame:    true,
		GameID:    p.GameID,
		GameMode:  p.GameMode,
		QueueID:   queueID,
		QueueName: QueueName(queueID),
		Elapsed:   elapsed,
		Clock:     FormatClock(elapsed),
		StartTime: p.GameStartTime,
		Blue:      buildTeam(p, livegame.TeamBlue, now),
		Red:       buildTeam(p, livegame.TeamRed, now),
	}, nil
}

// Find returns the selectable player with puuid. Placeholders are never
// found.
func (g *Game) Find(puuid string) (*Player, bool) {
	if puuid == "" {
		return nil, false
	}
	for _, team := range []*Team{g.Blue, g.Red} {
		if team == nil {
			continue
		}
		for i := range team.Players {
			if team.Players[i].PUUID == puuid {
				return &team.Players[i], true
			}
		}
	}
	return nil, false
}

func buildTeam(p *livegame.Payload, teamID int, now time.Time) *Team {
	lineup := lineupFor(p.Team(teamID))

	players := make([]Player, 0, len(lineup.Slots)+len(lineup.Overflow))
	for _, role := range livegame.Roles {
		if pt, ok := lineup.Slots[role]; ok {
			players = append(players, buildPlayer(pt, role, now))
		}
	}
	for _, pt := range lineup.Overflow {
		players = append(players, buildPlayer(pt, "", now))
	}

	return &Team{
		TeamID:  teamID,
		Players: players,
		Bans:    BanSlots(p.BannedChampions, teamID),
	}
}

// lineupFor rebuilds a team's lineup from its assignedRole labels. A team
// carrying no labels at all is run through AssignRoles instead.
func lineupFor(team []livegame.Participant) livegame.Lineup {
	labeled := lo.SomeBy(team, func(p livegame.Participant) bool { return p.AssignedRole != "" })
	if !labeled {
		return livegame.AssignRoles(team)
	}

	lineup := livegame.Lineup{Slots: make(map[livegame.Role]livegame.Participant, len(livegame.Roles))}
	for _, pt := range team {
		role, ok := livegame.ParseRole(pt.AssignedRole)
		if _, taken := lineup.Slots[role]; ok && !taken {
			lineup.Slots[role] = pt
			continue
		}
		lineup.Overflow = append(lineup.Overflow, pt)
	}
	return lineup
}

// BanSlots returns exactly BansPerTeam slots for a team, real bans first
// in payload order, padded with placeholders.
func BanSlots(bans []livegame.BanRecord, teamID int) []BanSlot {
	own := lo.Filter(bans, func(b livegame.BanRecord, _ int) bool { return b.TeamID == teamID })

	slots := make([]BanSlot, BansPerTeam)
	for i := range slots {
		if i < len(own) && !own[i].Empty() {
			slots[i] = BanSlot{ChampionID: own[i].ChampionID}
		} else {
			slots[i] = BanSlot{Empty: true}
		}
	}
	return slots
}

func buildPlayer(p livegame.Participant, slot livegame.Role, now time.Time) Player {
	return Player{
		Slot:         slot,
		PUUID:        p.PUUID,
		SummonerName: p.SummonerName,
		TagLine:      p.TagLine,
		ChampionID:   p.ChampionID,
		Spell1ID:     p.Spell1ID,
		Spell2ID:     p.Spell2ID,
		KeystoneID:   p.KeystoneID,
		PerkSubStyle: p.PerkSubStyle,
		Selectable:   !p.Placeholder(),
		Rank:         buildRank(p.Rank),
		History: lo.Map(p.History, func(m livegame.HistoricalMatch, _ int) MatchView {
			return buildMatch(m, now)
		}),
	}
}

func buildRank(r *livegame.Rank) RankView {
	if r == nil || r.Tier == "" || r.Tier == "UNRANKED" {
		return RankView{Tier: "UNRANKED", Label: "Unranked"}
	}
	label := r.Tier
	if r.Rank != "" {
		label += " " + r.Rank
	}
	return RankView{
		Tier:    r.Tier,
		Rank:    r.Rank,
		LP:      r.LP,
		Wins:    r.Wins,
		Losses:  r.Losses,
		Winrate: r.Winrate,
		Label:   fmt.Sprintf("%s · %d LP", label, r.LP),
	}
}

func buildMatch(m livegame.HistoricalMatch, now time.Time) MatchView {
	c := livegame.Classify(m)
	return MatchView{
		Win:         m.Win,
		Remake:      c.Remake,
		ChampionID:  m.ChampionID,
		Champion:    m.Champion,
		Position:    PositionLabel(m.TeamPosition),
		EnemyLaner:  m.EnemyLaner,
		ChampLevel:  m.ChampLevel,
		Score:       fmt.Sprintf("%d/%d/%d", m.Kills, m.Deaths, m.Assists),
		KDA:         round2(m.KDA),
		KillShare:   m.KillParticipation,
		CSPerMin:    math.Round(m.CSPerMin*10) / 10,
		GoldShare:   m.GoldShare,
		DamageShare: m.DamageShare,
		Items:       m.Items,
		Spell1:      m.Spell1,
		Spell2:      m.Spell2,
		KeystoneID:  m.KeystoneID,
		SubStyle:    m.SubStyle,
		Duration:    FormatDuration(m.GameDuration),
		Ago:         FormatTimeAgo(now, m.GameEndTimestamp),
		Tags:        c.Labels(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
