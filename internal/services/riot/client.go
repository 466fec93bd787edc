// Package riot provides a Riot API client for riftscout.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/riftscout/internal/config"
	"github.com/riftscout/internal/logging"
	"github.com/riftscout/internal/storage"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("riot: not found")
	// ErrRateLimited is returned for 429 responses. Requests are not retried.
	ErrRateLimited = errors.New("riot: rate limited")
	// ErrForbidden is returned for 401 and 403 responses, usually a bad or
	// expired API key.
	ErrForbidden = errors.New("riot: forbidden")
)

// APIError is a non-200 response from the Riot API.
type APIError struct {
	Status     int
	Body       string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("riot API error %d: %s", e.Status, e.Body)
}

// Is lets errors.Is match the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case ErrForbidden:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// Client is a client for Riot Games API.
type Client struct {
	apiKey          string
	baseURLTemplate string
	httpClient      *http.Client
	sem             *semaphore.Weighted
	redisClient     *storage.RedisClient
	puuidTTL        time.Duration
	log             *zap.SugaredLogger
}

// NewClient creates a new Riot API client. redisClient may be nil.
func NewClient(cfg *config.Config, redisClient *storage.RedisClient, log *zap.SugaredLogger) *Client {
	// Reuse connections for efficiency
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	limit := cfg.FetchConcurrency
	if limit < 1 {
		limit = 1
	}

	return &Client{
		apiKey:          cfg.RiotAPIKey,
		baseURLTemplate: cfg.RiotBaseURLTemplate,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		sem:         semaphore.NewWeighted(int64(limit)),
		redisClient: redisClient,
		puuidTTL:    cfg.PUUIDCacheTTL,
		log:         logging.OrNop(log),
	}
}

// hostURL builds the base URL for a routing value ("europe") or a
// platform value ("euw1").
func (c *Client) hostURL(region string) string {
	return fmt.Sprintf(c.baseURLTemplate, strings.ToLower(region))
}

// doRequest makes an HTTP request to Riot API and decodes the body into v.
// At most FetchConcurrency requests are in flight across the client.
func (c *Client) doRequest(ctx context.Context, reqURL string, v any) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		apiErr := &APIError{Status: resp.StatusCode, Body: string(body)}
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.Atoi(s); err == nil {
				apiErr.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// GetAccountByRiotID resolves a Riot ID (Name#Tag) on a routing host.
func (c *Client) GetAccountByRiotID(ctx context.Context, routing, gameName, tagLine string) (*AccountResponse, error) {
	reqURL := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.hostURL(routing),
		url.PathEscape(gameName),
		url.PathEscape(tagLine),
	)

	var resp AccountResponse
	if err := c.doRequest(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("account %s#%s: %w", gameName, tagLine, err)
	}
	return &resp, nil
}

// GetPUUIDByRiotID gets PUUID from Riot ID (Name#Tag).
// Uses Redis cache to avoid repeated API calls.
func (c *Client) GetPUUIDByRiotID(ctx context.Context, routing, gameName, tagLine string) (string, error) {
	// Create cache key (lowercase for consistency)
	cacheKey := fmt.Sprintf("puuid:%s:%s#%s",
		strings.ToLower(routing), strings.ToLower(gameName), strings.ToLower(tagLine))

	if c.redisClient != nil {
		if cached, err := c.redisClient.Get(ctx, cacheKey); err == nil && cached != "" {
			c.log.Debugw("puuid cache hit", "riot_id", gameName+"#"+tagLine)
			return cached, nil
		} else if err != nil {
			c.log.Warnw("puuid cache read failed", "error", err)
		}
	}

	account, err := c.GetAccountByRiotID(ctx, routing, gameName, tagLine)
	if err != nil {
		return "", err
	}

	if c.redisClient != nil && account.PUUID != "" {
		if err := c.redisClient.Set(ctx, cacheKey, account.PUUID, c.puuidTTL); err != nil {
			c.log.Warnw("failed to cache puuid", "error", err)
		}
	}

	return account.PUUID, nil
}

// GetActiveGame returns the match puuid is currently playing on a platform
// host, or nil when the player is not in game.
func (c *Client) GetActiveGame(ctx context.Context, platform, puuid string) (*ActiveGame, error) {
	reqURL := fmt.Sprintf("%s/lol/spectator/v5/active-games/by-summoner/%s",
		c.hostURL(platform), url.PathEscape(puuid))

	var game ActiveGame
	if err := c.doRequest(ctx, reqURL, &game); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("active game: %w", err)
	}
	return &game, nil
}

// GetLeagueEntries returns every ranked queue standing of a player.
func (c *Client) GetLeagueEntries(ctx context.Context, platform, puuid string) ([]LeagueEntry, error) {
	reqURL := fmt.Sprintf("%s/lol/league/v4/entries/by-puuid/%s",
		c.hostURL(platform), url.PathEscape(puuid))

	var entries []LeagueEntry
	if err := c.doRequest(ctx, reqURL, &entries); err != nil {
		return nil, fmt.Errorf("league entries: %w", err)
	}
	return entries, nil
}

// MatchIDsQuery filters the match id listing. Queue 0 means any queue.
type MatchIDsQuery struct {
	Start int
	Count int
	Queue int
}

// GetMatchIDsByPUUID gets list of recent match IDs.
func (c *Client) GetMatchIDsByPUUID(ctx context.Context, routing, puuid string, q MatchIDsQuery) ([]string, error) {
	params := url.Values{}
	params.Set("start", strconv.Itoa(q.Start))
	params.Set("count", strconv.Itoa(q.Count))
	if q.Queue != 0 {
		params.Set("queue", strconv.Itoa(q.Queue))
	}
	reqURL := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?%s",
		c.hostURL(routing), url.PathEscape(puuid), params.Encode())

	var matchIDs []string
	if err := c.doRequest(ctx, reqURL, &matchIDs); err != nil {
		return nil, fmt.Errorf("match ids: %w", err)
	}
	return matchIDs, nil
}

// GetMatchDetails gets full details of a match.
func (c *Client) GetMatchDetails(ctx context.Context, routing, matchID string) (*MatchResponse, error) {
	reqURL := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.hostURL(routing), url.PathEscape(matchID))

	var resp MatchResponse
	if err := c.doRequest(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("match %s: %w", matchID, err)
	}
	return &resp, nil
}
