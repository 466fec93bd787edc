package scout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riftscout/internal/config"
	"github.com/riftscout/internal/data"
	"github.com/riftscout/internal/livegame"
	"github.com/riftscout/internal/services/riot"
	"github.com/riftscout/internal/storage"
)

// MockRiot is a mock of RiotAPI.
type MockRiot struct {
	mock.Mock
}

func (m *MockRiot) GetAccountByRiotID(ctx context.Context, routing, gameName, tagLine string) (*riot.AccountResponse, error) {
	args := m.Called(ctx, routing, gameName, tagLine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*riot.AccountResponse), args.Error(1)
}

func (m *MockRiot) GetPUUIDByRiotID(ctx context.Context, routing, gameName, tagLine string) (string, error) {
	args := m.Called(ctx, routing, gameName, tagLine)
	return args.String(0), args.Error(1)
}

func (m *MockRiot) GetActiveGame(ctx context.Context, platform, puuid string) (*riot.ActiveGame, error) {
	args := m.Called(ctx, platform, puuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*riot.ActiveGame), args.Error(1)
}

func (m *MockRiot) GetLeagueEntries(ctx context.Context, platform, puuid string) ([]riot.LeagueEntry, error) {
	args := m.Called(ctx, platform, puuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]riot.LeagueEntry), args.Error(1)
}

func (m *MockRiot) GetMatchIDsByPUUID(ctx context.Context, routing, puuid string, q riot.MatchIDsQuery) ([]string, error) {
	args := m.Called(ctx, routing, puuid, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRiot) GetMatchDetails(ctx context.Context, routing, matchID string) (*riot.MatchResponse, error) {
	args := m.Called(ctx, routing, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*riot.MatchResponse), args.Error(1)
}

func testLanes() *data.LaneTable {
	return data.NewLaneTableFrom(map[int]livegame.LaneProbabilities{
		412: {livegame.RoleSupport: 0.95},
		64:  {livegame.RoleJungle: 0.97},
		103: {livegame.RoleMid: 0.9},
		222: {livegame.RoleBot: 0.9},
		86:  {livegame.RoleTop: 0.9},
	})
}

func activeGame() *riot.ActiveGame {
	return &riot.ActiveGame{
		GameID:            99,
		GameMode:          "CLASSIC",
		GameQueueConfigID: 420,
		GameStartTime:     1767366000000,
		GameLength:        120,
		BannedChampions:   []riot.BannedChampion{{ChampionID: 157, TeamID: 100, PickTurn: 1}},
		Participants: []riot.GameParticipant{
			{PUUID: "b1", RiotID: "Sup#NA1", TeamID: 100, ChampionID: 412, Spell1ID: 4, Spell2ID: 14},
			{PUUID: "b2", RiotID: "Jng#NA1", TeamID: 100, ChampionID: 64, Spell1ID: 11, Spell2ID: 4,
				Perks: riot.Perks{PerkIDs: []int{8010}, PerkStyle: 8000, PerkSubStyle: 8100}},
			{PUUID: "b3", RiotID: "Mid#NA1", TeamID: 100, ChampionID: 103, Spell1ID: 4, Spell2ID: 12},
			{PUUID: "", TeamID: 100, ChampionID: 222, Spell1ID: 4, Spell2ID: 7},
			{PUUID: "b5", RiotID: "Top#NA1", TeamID: 100, ChampionID: 86, Spell1ID: 4, Spell2ID: 12},
			{PUUID: "r1", RiotID: "R1#EUW", TeamID: 200, ChampionID: 103, Spell1ID: 4, Spell2ID: 14},
			{PUUID: "r2", RiotID: "R2#EUW", TeamID: 200, ChampionID: 86, Spell1ID: 4, Spell2ID: 12},
		},
	}
}

func simpleMatch(puuid string) *riot.MatchResponse {
	m := &riot.MatchResponse{}
	m.Info.GameDuration = 1200
	m.Info.Participants = []riot.Participant{{PUUID: puuid, TeamID: 100, Win: true, TimePlayed: 1200, Kills: 3}}
	return m
}

var gold = []riot.LeagueEntry{{QueueType: riot.QueueRankedSolo, Tier: "GOLD", Rank: "IV", Wins: 1, Losses: 1}}

func newService(api RiotAPI, cache Cache) *Service {
	return NewService(api, testLanes(), cache, Options{HistoryCount: 2, HistoryQueue: 420, Concurrency: 3, CacheTTL: time.Minute}, nil)
}

func expectStats(m *MockRiot, puuid string) {
	m.On("GetMatchIDsByPUUID", mock.Anything, "americas", puuid, riot.MatchIDsQuery{Count: 2, Queue: 420}).
		Return([]string{"M_" + puuid}, nil).Once()
	m.On("GetMatchDetails", mock.Anything, "americas", "M_"+puuid).Return(simpleMatch(puuid), nil).Once()
	m.On("GetLeagueEntries", mock.Anything, "na1", puuid).Return(gold, nil).Once()
}

func TestLiveGame_AssemblesTeamsInLaneOrder(t *testing.T) {
	m := new(MockRiot)
	m.On("GetPUUIDByRiotID", mock.Anything, "americas", "Jng", "NA1").Return("b2", nil).Once()
	m.On("GetActiveGame", mock.Anything, "na1", "b2").Return(activeGame(), nil).Once()
	for _, p := range []string{"b1", "b2", "b5", "r1", "r2"} {
		expectStats(m, p)
	}
	// b3's league lookup fails; the participant degrades instead of the request
	m.On("GetMatchIDsByPUUID", mock.Anything, "americas", "b3", mock.Anything).Return([]string{}, nil).Maybe()
	m.On("GetLeagueEntries", mock.Anything, "na1", "b3").Return(nil, errors.New("boom")).Once()

	svc := newService(m, nil)
	p, err := svc.LiveGame(context.Background(), Lookup{Name: "Jng", Tag: "#NA1"})
	require.NoError(t, err)
	m.AssertExpectations(t)

	assert.True(t, p.InGame)
	assert.Equal(t, 420, p.QueueID())
	assert.Equal(t, int64(99), p.GameID)
	require.Len(t, p.BannedChampions, 1)

	order := lo.Map(p.Participants, func(pt livegame.Participant, _ int) string { return pt.PUUID })
	assert.Equal(t, []string{"b5", "b2", "b3", "", "b1", "r2", "r1"}, order)

	roles := lo.Map(p.Participants, func(pt livegame.Participant, _ int) string { return pt.AssignedRole })
	assert.Equal(t, []string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY", "TOP", "MIDDLE"}, roles)

	byPUUID := lo.KeyBy(p.Participants, func(pt livegame.Participant) string { return pt.PUUID })

	jng := byPUUID["b2"]
	assert.Equal(t, "Jng", jng.SummonerName)
	assert.Equal(t, "NA1", jng.TagLine)
	assert.Equal(t, 8010, jng.KeystoneID)
	assert.Equal(t, "GOLD", jng.Rank.Tier)
	require.Len(t, jng.History, 1)
	assert.Equal(t, 3, jng.History[0].Kills)

	failed := byPUUID["b3"]
	assert.Equal(t, "UNRANKED", failed.Rank.Tier)
	assert.Empty(t, failed.History)

	hidden := byPUUID[""]
	assert.True(t, hidden.Placeholder())
	assert.Equal(t, "Hidden Player", hidden.SummonerName)
	assert.Equal(t, "UNRANKED", hidden.Rank.Tier)
	assert.NotNil(t, hidden.History)
}

func TestLiveGame_NotInGame(t *testing.T) {
	m := new(MockRiot)
	m.On("GetPUUIDByRiotID", mock.Anything, "europe", "Caps", "EUW").Return("c", nil)
	m.On("GetActiveGame", mock.Anything, "euw1", "c").Return(nil, nil)

	p, err := newService(m, nil).LiveGame(context.Background(), Lookup{Name: "Caps", Tag: "EUW", Routing: "EUROPE", Platform: "EUW1"})
	require.NoError(t, err)
	assert.False(t, p.InGame)
	assert.Equal(t, "Caps", p.GameName)
	assert.Empty(t, p.Participants)
	m.AssertNotCalled(t, "GetLeagueEntries", mock.Anything, mock.Anything, mock.Anything)
}

func TestLiveGame_Errors(t *testing.T) {
	m := new(MockRiot)
	svc := newService(m, nil)

	_, err := svc.LiveGame(context.Background(), Lookup{Name: " ", Tag: "NA1"})
	assert.ErrorIs(t, err, ErrInvalidLookup)

	m.On("GetPUUIDByRiotID", mock.Anything, "americas", "Nobody", "NA1").Return("", riot.ErrNotFound)
	_, err = svc.LiveGame(context.Background(), Lookup{Name: "Nobody", Tag: "NA1"})
	assert.ErrorIs(t, err, riot.ErrNotFound)

	m.On("GetPUUIDByRiotID", mock.Anything, "americas", "Limited", "NA1").Return("l", nil)
	m.On("GetActiveGame", mock.Anything, "na1", "l").Return(nil, riot.ErrRateLimited)
	_, err = svc.LiveGame(context.Background(), Lookup{Name: "Limited", Tag: "NA1"})
	assert.ErrorIs(t, err, riot.ErrRateLimited)
}

func TestLiveGame_CancelledContextFails(t *testing.T) {
	m := new(MockRiot)
	ctx, cancel := context.WithCancel(context.Background())
	m.On("GetPUUIDByRiotID", mock.Anything, "americas", "Jng", "NA1").Return("b2", nil)
	m.On("GetActiveGame", mock.Anything, "na1", "b2").Return(activeGame(), nil).Run(func(mock.Arguments) { cancel() })
	m.On("GetMatchIDsByPUUID", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, context.Canceled).Maybe()
	m.On("GetLeagueEntries", mock.Anything, mock.Anything, mock.Anything).Return(nil, context.Canceled).Maybe()

	_, err := newService(m, nil).LiveGame(ctx, Lookup{Name: "Jng", Tag: "NA1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLiveGame_CachesPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := storage.NewRedisClient(context.Background(), &config.Config{RedisURL: "redis://" + mr.Addr()}, nil)

	m := new(MockRiot)
	m.On("GetPUUIDByRiotID", mock.Anything, "americas", "Jng", "NA1").Return("b2", nil).Once()
	game := activeGame()
	game.Participants = game.Participants[1:2]
	m.On("GetActiveGame", mock.Anything, "na1", "b2").Return(game, nil).Once()
	expectStats(m, "b2")

	svc := newService(m, rc)
	first, err := svc.LiveGame(context.Background(), Lookup{Name: "Jng", Tag: "NA1"})
	require.NoError(t, err)
	second, err := svc.LiveGame(context.Background(), Lookup{Name: "jng", Tag: "na1"})
	require.NoError(t, err)

	m.AssertExpectations(t)
	assert.Equal(t, first.GameID, second.GameID)
	assert.Equal(t, first.Participants[0].AssignedRole, second.Participants[0].AssignedRole)
	assert.Equal(t, first.Participants[0].LaneProbabilities, second.Participants[0].LaneProbabilities)
}

func TestLiveGame_CorruptCacheEntryIsRefetched(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := storage.NewRedisClient(context.Background(), &config.Config{RedisURL: "redis://" + mr.Addr()}, nil)

	key := "live:americas:na1:jng#na1"
	require.NoError(t, mr.Set(key, `{"in_game": true, "participants": {}}`))

	m := new(MockRiot)
	m.On("GetPUUIDByRiotID", mock.Anything, "americas", "Jng", "NA1").Return("b2", nil).Once()
	game := activeGame()
	game.Participants = game.Participants[1:2]
	m.On("GetActiveGame", mock.Anything, "na1", "b2").Return(game, nil).Once()
	expectStats(m, "b2")

	p, err := newService(m, rc).LiveGame(context.Background(), Lookup{Name: "Jng", Tag: "NA1"})
	require.NoError(t, err)
	m.AssertExpectations(t)
	assert.Equal(t, int64(99), p.GameID)

	raw, err := mr.Get(key)
	require.NoError(t, err)
	stored, err := livegame.DecodePayload([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, int64(99), stored.GameID)
}

func TestService_CachedDropsUndecodableEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := storage.NewRedisClient(context.Background(), &config.Config{RedisURL: "redis://" + mr.Addr()}, nil)
	require.NoError(t, mr.Set("live:x", "{"))

	svc := newService(new(MockRiot), rc)
	assert.Nil(t, svc.cached(context.Background(), "live:x", svc.log))
	assert.False(t, mr.Exists("live:x"))

	assert.Nil(t, svc.cached(context.Background(), "live:missing", svc.log))
}

func TestAccount(t *testing.T) {
	m := new(MockRiot)
	acct := &riot.AccountResponse{PUUID: "c", GameName: "Caps", TagLine: "EUW"}
	m.On("GetAccountByRiotID", mock.Anything, "europe", "Caps", "EUW").Return(acct, nil)
	svc := newService(m, nil)

	got, err := svc.Account(context.Background(), Lookup{Name: " Caps ", Tag: "#EUW", Routing: "Europe"})
	require.NoError(t, err)
	assert.Equal(t, acct, got)

	_, err = svc.Account(context.Background(), Lookup{Name: "Caps"})
	assert.ErrorIs(t, err, ErrInvalidLookup)
}

func TestActiveGame(t *testing.T) {
	m := new(MockRiot)
	m.On("GetAccountByRiotID", mock.Anything, "americas", "Jng", "NA1").
		Return(&riot.AccountResponse{PUUID: "b2", GameName: "Jng", TagLine: "NA1"}, nil)
	m.On("GetActiveGame", mock.Anything, "na1", "b2").Return(activeGame(), nil).Once()
	m.On("GetAccountByRiotID", mock.Anything, "americas", "Idle", "NA1").
		Return(&riot.AccountResponse{PUUID: "i", GameName: "Idle", TagLine: "NA1"}, nil)
	m.On("GetActiveGame", mock.Anything, "na1", "i").Return(nil, nil).Once()
	svc := newService(m, nil)

	got, err := svc.ActiveGame(context.Background(), Lookup{Name: "Jng", Tag: "NA1"})
	require.NoError(t, err)
	assert.True(t, got.InGame)
	assert.Equal(t, int64(99), got.Game.GameID)

	idle, err := svc.ActiveGame(context.Background(), Lookup{Name: "Idle", Tag: "NA1"})
	require.NoError(t, err)
	assert.Equal(t, &LiveStatus{InGame: false, GameName: "Idle", TagLine: "NA1"}, idle)

	m.AssertExpectations(t)
	m.AssertNotCalled(t, "GetLeagueEntries", mock.Anything, mock.Anything, mock.Anything)
}
