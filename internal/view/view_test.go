package view

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftscout/internal/livegame"
)

var now = time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)

func payload() *livegame.Payload {
	start := now.Add(-(12*time.Minute + 5*time.Second)).UnixMilli()
	return &livegame.Payload{
		InGame:          true,
		GameID:          7,
		GameQueueConfig: 440,
		GameStartTime:   start,
		GameLength:      30,
		BannedChampions: []livegame.BanRecord{
			{TeamID: 100, ChampionID: 157},
			{TeamID: 200, ChampionID: -1},
			{TeamID: 100, ChampionID: 238},
			{TeamID: 200, ChampionID: 55},
		},
		Participants: []livegame.Participant{
			{PUUID: "sup", TeamID: 100, SummonerName: "Sup", LaneProbabilities: livegame.LaneProbabilities{livegame.RoleSupport: 1},
				Rank: &livegame.Rank{Tier: "GOLD", Rank: "II", LP: 40}},
			{PUUID: "jng", TeamID: 100, Spell1ID: livegame.JungleSpellID,
				History: []livegame.HistoricalMatch{
					{TimePlayed: 120, GameDuration: 120, GameEndTimestamp: now.Add(-30 * time.Minute).UnixMilli()},
					{TimePlayed: 1500, GameDuration: 1504, TeamPosition: "UTILITY", Kills: 6, Deaths: 2, Assists: 9, KDA: 7.5,
						Challenges:       livegame.Challenges{"killParticipation": 0.8},
						GameEndTimestamp: now.Add(-26 * time.Hour).UnixMilli()},
				}},
			{PUUID: "", TeamID: 100, SummonerName: "Hidden Player", LaneProbabilities: livegame.LaneProbabilities{livegame.RoleTop: 1}},
			{PUUID: "red", TeamID: 200, LaneProbabilities: livegame.LaneProbabilities{livegame.RoleMid: 1}},
		},
	}
}

func TestBuild(t *testing.T) {
	g, err := Build(payload(), now)
	require.NoError(t, err)

	assert.True(t, g.InGame)
	assert.Equal(t, 440, g.QueueID)
	assert.Equal(t, "Ranked Flex", g.QueueName)
	assert.Equal(t, int64(725), g.Elapsed)
	assert.Equal(t, "12:05", g.Clock)

	slots := lo.Map(g.Blue.Players, func(p Player, _ int) livegame.Role { return p.Slot })
	// the support main is the only one left when MID is filled
	assert.Equal(t, []livegame.Role{livegame.RoleTop, livegame.RoleJungle, livegame.RoleMid}, slots)

	hidden := g.Blue.Players[0]
	assert.False(t, hidden.Selectable)
	assert.Equal(t, "UNRANKED", hidden.Rank.Tier)
	assert.NotNil(t, hidden.History)

	sup := g.Blue.Players[2]
	assert.True(t, sup.Selectable)
	assert.Equal(t, "GOLD II · 40 LP", sup.Rank.Label)

	require.Len(t, g.Red.Players, 1)
	assert.Equal(t, livegame.RoleTop, g.Red.Players[0].Slot)
}

func TestBuild_KeepsAssignedRoles(t *testing.T) {
	smite := livegame.JungleSpellID
	// as the scout service emits it: lane order with labels, the first
	// Smite holder in jungle and the second one pushed to top
	p := &livegame.Payload{
		InGame: true,
		Participants: []livegame.Participant{
			{PUUID: "jng2", TeamID: 100, Spell1ID: smite, AssignedRole: "TOP",
				LaneProbabilities: livegame.LaneProbabilities{livegame.RoleTop: 0.9}},
			{PUUID: "jng1", TeamID: 100, Spell2ID: smite, AssignedRole: "JUNGLE"},
			{PUUID: "mid", TeamID: 100, AssignedRole: "MIDDLE",
				LaneProbabilities: livegame.LaneProbabilities{livegame.RoleMid: 1}},
			{PUUID: "extra", TeamID: 100},
		},
	}

	g, err := Build(p, now)
	require.NoError(t, err)

	got := lo.Map(g.Blue.Players, func(pl Player, _ int) string { return pl.PUUID + ":" + string(pl.Slot) })
	assert.Equal(t, []string{"jng2:TOP", "jng1:JNG", "mid:MID", "extra:"}, got)

	for _, pt := range p.Participants {
		pl, ok := g.Find(pt.PUUID)
		require.True(t, ok, pt.PUUID)
		want, _ := livegame.ParseRole(pt.AssignedRole)
		assert.Equal(t, want, pl.Slot, pt.PUUID)
	}
}

func TestBuild_KeepsAssignedRolesFromAssignment(t *testing.T) {
	labels := map[livegame.Role]string{
		livegame.RoleTop: "TOP", livegame.RoleJungle: "JUNGLE", livegame.RoleMid: "MIDDLE",
		livegame.RoleBot: "BOTTOM", livegame.RoleSupport: "UTILITY",
	}
	input := []livegame.Participant{
		{PUUID: "jng1", TeamID: 200, Spell1ID: livegame.JungleSpellID},
		{PUUID: "jng2", TeamID: 200, Spell1ID: livegame.JungleSpellID,
			LaneProbabilities: livegame.LaneProbabilities{livegame.RoleTop: 0.9}},
		{PUUID: "mid", TeamID: 200, LaneProbabilities: livegame.LaneProbabilities{livegame.RoleMid: 1}},
	}

	lineup := livegame.AssignRoles(input)
	var ordered []livegame.Participant
	for _, role := range livegame.Roles {
		if pt, ok := lineup.Slots[role]; ok {
			pt.AssignedRole = labels[role]
			ordered = append(ordered, pt)
		}
	}
	require.Equal(t, "jng1", lineup.Slots[livegame.RoleJungle].PUUID)

	g, err := Build(&livegame.Payload{InGame: true, Participants: ordered}, now)
	require.NoError(t, err)

	slots := lo.Map(g.Red.Players, func(pl Player, _ int) string { return pl.PUUID + ":" + string(pl.Slot) })
	assert.Equal(t, []string{"jng2:TOP", "jng1:JNG", "mid:MID"}, slots)
}

func TestBuild_HistoryTags(t *testing.T) {
	g, err := Build(payload(), now)
	require.NoError(t, err)

	jng, ok := g.Find("jng")
	require.True(t, ok)
	require.Len(t, jng.History, 2)

	remake := jng.History[0]
	assert.True(t, remake.Remake)
	assert.Equal(t, []string{livegame.RemakeLabel}, remake.Tags)
	assert.Equal(t, "30 mins ago", remake.Ago)

	played := jng.History[1]
	assert.False(t, played.Remake)
	assert.Equal(t, []string{livegame.TagHighParticipation}, played.Tags)
	assert.Equal(t, "SUPPORT", played.Position)
	assert.Equal(t, "6/2/9", played.Score)
	assert.Equal(t, "25m 4s", played.Duration)
	assert.Equal(t, "Yesterday", played.Ago)
}

func TestBuild_NotInGame(t *testing.T) {
	g, err := Build(&livegame.Payload{InGame: false, Participants: []livegame.Participant{{PUUID: "x"}}}, now)
	require.NoError(t, err)
	assert.False(t, g.InGame)
	assert.Nil(t, g.Blue)
	assert.Nil(t, g.Red)

	_, err = Build(nil, now)
	assert.ErrorIs(t, err, livegame.ErrMalformedPayload)
}

func TestBuild_UnknownStartUsesGameLength(t *testing.T) {
	p := payload()
	p.GameStartTime = 0
	g, err := Build(p, now)
	require.NoError(t, err)
	assert.Equal(t, int64(30), g.Elapsed)
	assert.Equal(t, "0:30", g.Clock)
}

func TestFind_PlaceholdersAreNotSelectable(t *testing.T) {
	g, err := Build(payload(), now)
	require.NoError(t, err)

	_, ok := g.Find("")
	assert.False(t, ok)
	_, ok = g.Find("nobody")
	assert.False(t, ok)
	p, ok := g.Find("red")
	require.True(t, ok)
	assert.Equal(t, "red", p.PUUID)
}

func TestBanSlots(t *testing.T) {
	bans := payload().BannedChampions

	blue := BanSlots(bans, livegame.TeamBlue)
	require.Len(t, blue, BansPerTeam)
	assert.Equal(t, []BanSlot{
		{ChampionID: 157},
		{ChampionID: 238},
		{Empty: true},
		{Empty: true},
		{Empty: true},
	}, blue)

	red := BanSlots(bans, livegame.TeamRed)
	require.Len(t, red, BansPerTeam)
	assert.True(t, red[0].Empty)
	assert.Equal(t, 55, red[1].ChampionID)

	none := BanSlots(nil, livegame.TeamBlue)
	assert.Len(t, none, BansPerTeam)
	assert.True(t, lo.EveryBy(none, func(b BanSlot) bool { return b.Empty }))

	var many []livegame.BanRecord
	for i := 1; i <= 7; i++ {
		many = append(many, livegame.BanRecord{TeamID: 100, ChampionID: i})
	}
	assert.Len(t, BanSlots(many, livegame.TeamBlue), BansPerTeam)
}
