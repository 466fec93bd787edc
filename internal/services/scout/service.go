// Package scout assembles the live game payload: who is in the match, how
// they ranked, what they played recently and which lane each one is on.
package scout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/riftscout/internal/data"
	"github.com/riftscout/internal/livegame"
	"github.com/riftscout/internal/logging"
	"github.com/riftscout/internal/services/riot"
)

// ErrInvalidLookup is returned when a lookup lacks a name or tag.
var ErrInvalidLookup = errors.New("riot id name and tag are required")

// RiotAPI is the subset of the Riot client the service needs.
type RiotAPI interface {
	GetAccountByRiotID(ctx context.Context, routing, gameName, tagLine string) (*riot.AccountResponse, error)
	GetPUUIDByRiotID(ctx context.Context, routing, gameName, tagLine string) (string, error)
	GetActiveGame(ctx context.Context, platform, puuid string) (*riot.ActiveGame, error)
	GetLeagueEntries(ctx context.Context, platform, puuid string) ([]riot.LeagueEntry, error)
	GetMatchIDsByPUUID(ctx context.Context, routing, puuid string, q riot.MatchIDsQuery) ([]string, error)
	GetMatchDetails(ctx context.Context, routing, matchID string) (*riot.MatchResponse, error)
}

// Cache stores assembled payloads. *storage.RedisClient satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Lookup identifies the player whose game is wanted.
type Lookup struct {
	Name     string
	Tag      string
	Routing  string // account and match host, e.g. "americas"
	Platform string // spectator and league host, e.g. "na1"
}

func (l Lookup) normalized() (Lookup, error) {
	l.Name = strings.TrimSpace(l.Name)
	l.Tag = strings.TrimPrefix(strings.TrimSpace(l.Tag), "#")
	if l.Name == "" || l.Tag == "" {
		return l, ErrInvalidLookup
	}
	if l.Routing == "" {
		l.Routing = "americas"
	}
	if l.Platform == "" {
		l.Platform = "na1"
	}
	l.Routing = strings.ToLower(l.Routing)
	l.Platform = strings.ToLower(l.Platform)
	return l, nil
}

func (l Lookup) cacheKey() string {
	return fmt.Sprintf("live:%s:%s:%s#%s", l.Routing, l.Platform,
		strings.ToLower(l.Name), strings.ToLower(l.Tag))
}

// Options tune the history fan-out.
type Options struct {
	HistoryCount int           // matches per participant
	HistoryQueue int           // 0 means any queue
	Concurrency  int           // participants fetched at once
	CacheTTL     time.Duration // 0 disables payload caching
}

// Service builds live game payloads.
type Service struct {
	riot  RiotAPI
	lanes *data.LaneTable
	cache Cache
	opts  Options
	log   *zap.SugaredLogger
}

// NewService creates a scout service. cache may be nil.
func NewService(api RiotAPI, lanes *data.LaneTable, cache Cache, opts Options, log *zap.SugaredLogger) *Service {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if lanes == nil {
		lanes = data.NewLaneTableFrom(nil)
	}
	return &Service{riot: api, lanes: lanes, cache: cache, opts: opts, log: logging.OrNop(log)}
}

// LiveGame returns the payload for the match the looked-up player is in.
// A player who is not in game yields a payload with InGame false. Failures
// fetching one participant's rank or history degrade that participant to
// unranked with no history.
func (s *Service) LiveGame(ctx context.Context, lookup Lookup) (*livegame.Payload, error) {
	l, err := lookup.normalized()
	if err != nil {
		return nil, err
	}
	log := s.log.With("riot_id", l.Name+"#"+l.Tag, "platform", l.Platform)

	if s.cache != nil && s.opts.CacheTTL > 0 {
		if cached := s.cached(ctx, l.cacheKey(), log); cached != nil {
			return cached, nil
		}
	}

	puuid, err := s.riot.GetPUUIDByRiotID(ctx, l.Routing, l.Name, l.Tag)
	if err != nil {
		return nil, err
	}

	game, err := s.riot.GetActiveGame(ctx, l.Platform, puuid)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return &livegame.Payload{InGame: false, GameName: l.Name, TagLine: l.Tag}, nil
	}

	stats, err := s.fetchStats(ctx, l, game.Participants)
	if err != nil {
		return nil, err
	}

	payload := &livegame.Payload{
		InGame:          true,
		GameID:          game.GameID,
		GameMode:        game.GameMode,
		GameQueueID:     game.GameQueueConfigID,
		GameStartTime:   game.GameStartTime,
		GameLength:      game.GameLength,
		BannedChampions: toBans(game.BannedChampions),
		Participants:    s.arrange(game.Participants, stats),
	}
	log.Infow("live game assembled", "game_id", game.GameID, "participants", len(payload.Participants))

	if s.cache != nil && s.opts.CacheTTL > 0 {
		if err := s.cache.SetJSON(ctx, l.cacheKey(), payload, s.opts.CacheTTL); err != nil {
			log.Warnw("live cache write failed", "error", err)
		}
	}
	return payload, nil
}

// LiveStatus is the unprocessed spectator view of a player's match.
type LiveStatus struct {
	InGame   bool             `json:"in_game"`
	GameName string           `json:"gameName,omitempty"`
	TagLine  string           `json:"tagLine,omitempty"`
	Game     *riot.ActiveGame `json:"game,omitempty"`
}

// Account resolves a Riot ID on the lookup's routing host.
func (s *Service) Account(ctx context.Context, lookup Lookup) (*riot.AccountResponse, error) {
	l, err := lookup.normalized()
	if err != nil {
		return nil, err
	}
	return s.riot.GetAccountByRiotID(ctx, l.Routing, l.Name, l.Tag)
}

// ActiveGame returns the spectator record of the player's current match
// without fetching any participant stats.
func (s *Service) ActiveGame(ctx context.Context, lookup Lookup) (*LiveStatus, error) {
	account, err := s.Account(ctx, lookup)
	if err != nil {
		return nil, err
	}
	l, _ := lookup.normalized()

	game, err := s.riot.GetActiveGame(ctx, l.Platform, account.PUUID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return &LiveStatus{InGame: false, GameName: account.GameName, TagLine: account.TagLine}, nil
	}
	return &LiveStatus{InGame: true, Game: game}, nil
}

// cached returns the stored payload for key, or nil on a miss. Entries that
// no longer decode are deleted and treated as a miss.
func (s *Service) cached(ctx context.Context, key string, log *zap.SugaredLogger) *livegame.Payload {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warnw("live cache read failed", "error", err)
		return nil
	}
	if raw == "" {
		return nil
	}

	p, err := livegame.DecodePayload([]byte(raw))
	if err != nil {
		log.Warnw("discarding live cache entry", "key", key, "error", err)
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Warnw("live cache delete failed", "error", err)
		}
		return nil
	}
	log.Debug("live cache hit")
	return p
}

type playerStats struct {
	rank    *livegame.Rank
	history []livegame.HistoricalMatch
}

// fetchStats loads rank and history for every participant with a PUUID.
// Only cancellation of ctx fails the call.
func (s *Service) fetchStats(ctx context.Context, l Lookup, participants []riot.GameParticipant) (map[string]playerStats, error) {
	results := make([]playerStats, len(participants))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, p := range participants {
		if p.PUUID == "" {
			continue
		}
		g.Go(func() error {
			rank, history, err := s.playerStats(ctx, l, p.PUUID)
			if err != nil {
				s.log.Warnw("error fetching stats", "puuid", p.PUUID, "error", err)
				rank, history = livegame.Unranked(), []livegame.HistoricalMatch{}
			}
			results[i] = playerStats{rank: rank, history: history}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byPUUID := make(map[string]playerStats, len(participants))
	for i, p := range participants {
		if p.PUUID != "" {
			byPUUID[p.PUUID] = results[i]
		}
	}
	return byPUUID, nil
}

func (s *Service) playerStats(ctx context.Context, l Lookup, puuid string) (*livegame.Rank, []livegame.HistoricalMatch, error) {
	var (
		ids     []string
		entries []riot.LeagueEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ids, err = s.riot.GetMatchIDsByPUUID(gctx, l.Routing, puuid, riot.MatchIDsQuery{
			Count: s.opts.HistoryCount,
			Queue: s.opts.HistoryQueue,
		})
		return err
	})
	g.Go(func() (err error) {
		entries, err = s.riot.GetLeagueEntries(gctx, l.Platform, puuid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	matches := make([]*riot.MatchResponse, len(ids))
	g, gctx = errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() (err error) {
			matches[i], err = s.riot.GetMatchDetails(gctx, l.Routing, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	history := make([]livegame.HistoricalMatch, 0, len(matches))
	for _, m := range matches {
		if hm, ok := BuildHistoricalMatch(m, puuid); ok {
			history = append(history, hm)
		}
	}
	return SummarizeRank(entries), history, nil
}

// roleLabels are the match-v5 position names.
var roleLabels = map[livegame.Role]string{
	livegame.RoleTop:     "TOP",
	livegame.RoleJungle:  "JUNGLE",
	livegame.RoleMid:     "MIDDLE",
	livegame.RoleBot:     "BOTTOM",
	livegame.RoleSupport: "UTILITY",
}

// arrange converts participants, attaches stats and lane probabilities and
// orders each team by lane. Blue comes first, then red, then any other team.
func (s *Service) arrange(raw []riot.GameParticipant, stats map[string]playerStats) []livegame.Participant {
	converted := lo.Map(raw, func(p riot.GameParticipant, _ int) livegame.Participant {
		return s.convert(p, stats)
	})

	teams := lo.Uniq(lo.Map(converted, func(p livegame.Participant, _ int) int { return p.TeamID }))
	teams = append([]int{livegame.TeamBlue, livegame.TeamRed},
		lo.Without(teams, livegame.TeamBlue, livegame.TeamRed)...)

	out := make([]livegame.Participant, 0, len(converted))
	for _, teamID := range teams {
		members := lo.Filter(converted, func(p livegame.Participant, _ int) bool { return p.TeamID == teamID })
		lineup := livegame.AssignRoles(members)
		for _, role := range livegame.Roles {
			if p, ok := lineup.Slots[role]; ok {
				p.AssignedRole = roleLabels[role]
				out = append(out, p)
			}
		}
		out = append(out, lineup.Overflow...)
	}
	return out
}

func (s *Service) convert(p riot.GameParticipant, stats map[string]playerStats) livegame.Participant {
	name, tag := splitRiotID(p.RiotID)
	lp := livegame.Participant{
		PUUID:             p.PUUID,
		TeamID:            p.TeamID,
		ChampionID:        p.ChampionID,
		SummonerName:      name,
		TagLine:           tag,
		Bot:               p.Bot,
		Spell1ID:          p.Spell1ID,
		Spell2ID:          p.Spell2ID,
		PerkStyle:         p.Perks.PerkStyle,
		PerkSubStyle:      p.Perks.PerkSubStyle,
		KeystoneID:        p.Perks.Keystone(),
		LaneProbabilities: s.lanes.For(p.ChampionID),
		Rank:              livegame.Unranked(),
		History:           []livegame.HistoricalMatch{},
	}
	if st, ok := stats[p.PUUID]; ok && p.PUUID != "" {
		lp.Rank, lp.History = st.rank, st.history
	}
	return lp
}

func splitRiotID(riotID string) (name, tag string) {
	if n, t, ok := strings.Cut(riotID, "#"); ok {
		return n, t
	}
	if riotID == "" {
		return "Hidden Player", "Hidden"
	}
	return riotID, "Hidden"
}

func toBans(bans []riot.BannedChampion) []livegame.BanRecord {
	return lo.Map(bans, func(b riot.BannedChampion, _ int) livegame.BanRecord {
		return livegame.BanRecord{TeamID: b.TeamID, ChampionID: b.ChampionID, PickTurn: b.PickTurn}
	})
}
