// Package fflogs provides a client for the FF Logs v2 API
package fflogs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/partygate/internal/common"
	"github.com/bobmcallan/partygate/internal/interfaces"
	"github.com/bobmcallan/partygate/internal/models"
)

const (
	DefaultAPIURL    = "https://www.fflogs.com/api/v2/client"
	DefaultTokenURL  = "https://www.fflogs.com/oauth/token"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 4 // requests per second
	DefaultMetric    = "rdps"
)

// Client implements the LogsClient interface. It composes the token store,
// rate-limit tracker, and result cache around an authenticated GraphQL POST.
type Client struct {
	apiURL       string
	httpClient   *http.Client
	logger       *common.Logger
	limiter      *rate.Limiter
	tokens       *TokenStore
	rateTracker  *RateLimitTracker
	cache        *ResultCache
	cacheEnabled bool
	zones        []models.ZoneQuery
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithAPIURL sets the GraphQL endpoint
func WithAPIURL(apiURL string) ClientOption {
	return func(c *Client) {
		c.apiURL = apiURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the per-second request pacing
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithCacheEnabled toggles dashboard response caching
func WithCacheEnabled(enabled bool) ClientOption {
	return func(c *Client) {
		c.cacheEnabled = enabled
	}
}

// WithZones sets the zone/difficulty pairs included in dashboard fetches
func WithZones(zones []models.ZoneQuery) ClientOption {
	return func(c *Client) {
		c.zones = zones
	}
}

// NewClient creates a new FF Logs client. The token store starts empty; call
// RefreshToken before issuing queries.
func NewClient(tokenURL, clientID, clientSecret string, opts ...ClientOption) *Client {
	c := &Client{
		apiURL: DefaultAPIURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:      rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:       common.NewSilentLogger(),
		cache:        NewResultCache(),
		cacheEnabled: true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	c.tokens = NewTokenStore(tokenURL, clientID, clientSecret, c.httpClient, c.logger)
	c.rateTracker = NewRateLimitTracker(c.fetchRateLimit, c.logger)

	return c
}

// graphQLResponse is the outer response envelope.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// post issues an authenticated GraphQL POST and returns the raw data payload.
// A missing/invalid token short-circuits before any HTTP call.
func (c *Client) post(ctx context.Context, query string) (json.RawMessage, error) {
	bearer, ok := c.tokens.Bearer()
	if !ok {
		return nil, ErrTokenInvalid
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	c.logger.Debug().Str("url", c.apiURL).Int("query_bytes", len(query)).Msg("FFLogs API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate()
		c.logger.Warn().Msg("FFLogs API returned 401, token invalidated")
		return nil, ErrTokenInvalid
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &UnparsableResponseError{Detail: "invalid JSON envelope", Err: err}
	}

	if len(envelope.Errors) > 0 {
		return nil, &UnparsableResponseError{Detail: "graphql error: " + envelope.Errors[0].Message}
	}

	if len(envelope.Data) == 0 {
		return nil, &UnparsableResponseError{Detail: "data field absent"}
	}

	return envelope.Data, nil
}

// encounterRankings is the typed shape of the encounterRankings JSON blob.
type encounterRankings struct {
	TotalKills int `json:"totalKills"`
	Ranks      []struct {
		RankPercent float64 `json:"rankPercent"`
	} `json:"ranks"`
}

type characterEnvelope struct {
	CharacterData *struct {
		Character *struct {
			Hidden            bool             `json:"hidden"`
			EncounterRankings *json.RawMessage `json:"encounterRankings"`
		} `json:"character"`
	} `json:"characterData"`
}

// FetchEncounterResult retrieves the best parse percentile and kill count for
// one character on one encounter. Zero rankings (the player has never logged
// the fight) yields a ParseResult with nil fields, not an error.
func (c *Client) FetchEncounterResult(ctx context.Context, firstName, lastName, world string, encounterID, difficultyID int, metric string) (*models.ParseResult, error) {
	region, ok := models.RegionForWorld(world)
	if !ok {
		err := &UnknownWorldError{World: world}
		c.logger.Warn().Str("world", world).Msg("FFLogs world not resolvable to a region")
		return nil, err
	}

	if metric == "" {
		metric = DefaultMetric
	}

	query := encounterRankingsQuery(firstName, lastName, world, region, encounterID, difficultyID, metric)

	data, err := c.post(ctx, query)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("character", firstName+" "+lastName+"@"+world).
			Int("encounter", encounterID).
			Msg("FFLogs encounter fetch failed")
		return nil, err
	}

	var env characterEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &UnparsableResponseError{Detail: "characterData shape", Err: err}
	}
	if env.CharacterData == nil {
		return nil, &UnparsableResponseError{Detail: "characterData field absent"}
	}
	if env.CharacterData.Character == nil {
		// Character not found on the service: no logs at all.
		return &models.ParseResult{}, nil
	}
	if env.CharacterData.Character.EncounterRankings == nil {
		return nil, &UnparsableResponseError{Detail: "encounterRankings field absent"}
	}

	var rankings encounterRankings
	if err := json.Unmarshal(*env.CharacterData.Character.EncounterRankings, &rankings); err != nil {
		return nil, &UnparsableResponseError{Detail: "encounterRankings shape", Err: err}
	}

	if len(rankings.Ranks) == 0 {
		return &models.ParseResult{}, nil
	}

	best := rankings.Ranks[0].RankPercent
	kills := rankings.TotalKills
	return &models.ParseResult{
		BestParsePercent: &best,
		KillCount:        &kills,
	}, nil
}

// FetchDashboardData retrieves the full multi-zone ranking payload for a
// character, consulting the result cache first when caching is enabled.
func (c *Client) FetchDashboardData(ctx context.Context, character *models.Character) (json.RawMessage, error) {
	region, ok := models.RegionForWorld(character.World)
	if !ok {
		return nil, &UnknownWorldError{World: character.World}
	}

	query := dashboardQuery(character, region, c.zones)

	if c.cacheEnabled {
		c.cache.CheckEpoch()
		if cached := c.cache.Get(query); cached != nil {
			c.logger.Debug().Str("character", character.FirstName+" "+character.LastName).Msg("FFLogs dashboard cache hit")
			return cached, nil
		}
	}

	data, err := c.post(ctx, query)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("character", character.FirstName+" "+character.LastName+"@"+character.World).
			Msg("FFLogs dashboard fetch failed")
		return nil, err
	}

	if c.cacheEnabled {
		c.cache.Put(query, data)
	}

	return data, nil
}

// Invalidate drops the cached dashboard entry matching the character's current
// query shape. Used when the caller knows the underlying data changed.
func (c *Client) Invalidate(character *models.Character) {
	region, ok := models.RegionForWorld(character.World)
	if !ok {
		return
	}
	c.cache.Invalidate(dashboardQuery(character, region, c.zones))
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

// TokenValid reports whether an API token is currently held.
func (c *Client) TokenValid() bool {
	return c.tokens.IsValid()
}

// RefreshToken re-runs the OAuth2 exchange. A fresh token also resets the
// rate-limit tracker's attempt counter.
func (c *Client) RefreshToken(ctx context.Context) error {
	if err := c.tokens.Acquire(ctx); err != nil {
		return err
	}
	c.rateTracker.Refresh(ctx, true)
	return nil
}

// RateLimit returns the last known hourly request budget.
func (c *Client) RateLimit() models.RateLimitState {
	return c.rateTracker.State()
}

// fetchRateLimit queries the hourly budget on behalf of the tracker.
func (c *Client) fetchRateLimit(ctx context.Context) (int, error) {
	data, err := c.post(ctx, rateLimitQuery)
	if err != nil {
		return 0, err
	}

	var env struct {
		RateLimitData *struct {
			LimitPerHour int `json:"limitPerHour"`
		} `json:"rateLimitData"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return 0, &UnparsableResponseError{Detail: "rateLimitData shape", Err: err}
	}
	if env.RateLimitData == nil {
		return 0, &UnparsableResponseError{Detail: "rateLimitData field absent"}
	}
	return env.RateLimitData.LimitPerHour, nil
}

// Ensure Client implements LogsClient
var _ interfaces.LogsClient = (*Client)(nil)
