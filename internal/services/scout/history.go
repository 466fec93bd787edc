package scout

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/samber/lo"

	"github.com/riftscout/internal/livegame"
	"github.com/riftscout/internal/services/riot"
)

// BuildHistoricalMatch summarizes puuid's performance in a finished match.
// ok is false when puuid did not play in it.
func BuildHistoricalMatch(m *riot.MatchResponse, puuid string) (hm livegame.HistoricalMatch, ok bool) {
	if m == nil {
		return hm, false
	}
	all := m.Info.Participants
	stats, ok := lo.Find(all, func(p riot.Participant) bool { return p.PUUID == puuid })
	if !ok {
		return hm, false
	}

	team := lo.Filter(all, func(p riot.Participant, _ int) bool { return p.TeamID == stats.TeamID })
	teamGold := lo.SumBy(team, func(p riot.Participant) int { return p.GoldEarned })
	teamDamage := lo.SumBy(team, func(p riot.Participant) int { return p.TotalDamageDealtToChampions })
	teamKills := lo.SumBy(team, func(p riot.Participant) int { return p.Kills })

	minutes := math.Max(1, float64(m.Info.GameDuration)/60)
	cs := stats.TotalMinionsKilled + stats.NeutralMinionsKilled

	return livegame.HistoricalMatch{
		Win:          stats.Win,
		Champion:     stats.ChampionName,
		ChampionID:   stats.ChampionID,
		TeamPosition: stats.TeamPosition,
		EnemyLaner:   enemyLaner(all, stats),
		ChampLevel:   stats.ChampLevel,

		Kills:             stats.Kills,
		Deaths:            stats.Deaths,
		Assists:           stats.Assists,
		KDA:               float64(stats.Kills+stats.Assists) / float64(max(1, stats.Deaths)),
		KillParticipation: percent(stats.Kills+stats.Assists, teamKills),
		GoldEarned:        stats.GoldEarned,
		GoldShare:         percent(stats.GoldEarned, teamGold),
		CSPerMin:          float64(cs) / minutes,
		DamageShare:       percent(stats.TotalDamageDealtToChampions, teamDamage),

		PentaKills:       stats.PentaKills,
		FirstBloodKill:   stats.FirstBloodKill,
		ObjectivesStolen: stats.ObjectivesStolen,
		TurretKills:      stats.TurretKills,

		Items:        livegame.ItemSlots(stats.Items()),
		Spell1:       stats.Summoner1ID,
		Spell2:       stats.Summoner2ID,
		PrimaryStyle: stats.Perks.Primary(),
		SubStyle:     stats.Perks.Secondary(),
		KeystoneID:   stats.Perks.Keystone(),

		Challenges: decodeChallenges(stats.Challenges),

		TimePlayed:       stats.TimePlayed,
		GameDuration:     int(m.Info.GameDuration),
		GameEndTimestamp: m.Info.GameEndTimestamp,
	}, true
}

// enemyLaner is the champion on the other team in the same position,
// -1 when there is no position or no opponent.
func enemyLaner(all []riot.Participant, self riot.Participant) int {
	pos := self.TeamPosition
	if pos == "" || pos == "NONE" {
		return -1
	}
	opp, ok := lo.Find(all, func(p riot.Participant) bool {
		return p.TeamPosition == pos && p.TeamID != self.TeamID
	})
	if !ok {
		return -1
	}
	return opp.ChampionID
}

// percent is part/whole*100 rounded to one decimal, whole floored at 1.
func percent(part, whole int) float64 {
	return round1(float64(part) / float64(max(1, whole)) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func decodeChallenges(raw json.RawMessage) livegame.Challenges {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var ch livegame.Challenges
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil
	}
	return ch
}

// SummarizeRank picks the solo queue entry. Players without one are
// reported as unranked.
func SummarizeRank(entries []riot.LeagueEntry) *livegame.Rank {
	solo, ok := lo.Find(entries, func(e riot.LeagueEntry) bool { return e.QueueType == riot.QueueRankedSolo })
	if !ok {
		return livegame.Unranked()
	}

	rank := &livegame.Rank{
		Tier:   solo.Tier,
		Rank:   solo.Rank,
		LP:     solo.LeaguePoints,
		Wins:   solo.Wins,
		Losses: solo.Losses,
	}
	if total := solo.Wins + solo.Losses; total > 0 {
		rank.Winrate = round1(float64(solo.Wins) / float64(total) * 100)
	}
	return rank
}
