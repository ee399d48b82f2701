package fflogs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/partygate/internal/common"
	"github.com/bobmcallan/partygate/internal/models"
)

// TokenStore owns the OAuth2 client-credentials token lifecycle. Acquisition is
// serialized so concurrent triggers don't race to exchange multiple tokens.
// Re-acquisition is always caller-initiated; there is no automatic retry.
type TokenStore struct {
	mu           sync.Mutex
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *common.Logger

	token *models.Token
	valid bool
}

// NewTokenStore creates a token store. The store starts with no token; call
// Acquire before issuing authenticated requests.
func NewTokenStore(tokenURL, clientID, clientSecret string, httpClient *http.Client, logger *common.Logger) *TokenStore {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &TokenStore{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		logger:       logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// Acquire performs the OAuth2 client-credentials exchange. On success the new
// token is swapped in atomically and validity set true; on any failure the
// store is left invalid and the typed error surfaced to the caller.
func (s *TokenStore) Acquire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clientID == "" || s.clientSecret == "" {
		s.valid = false
		return ErrMissingCredentials
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		s.valid = false
		return &AuthError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.clientID, s.clientSecret)

	s.logger.Debug().Str("url", s.tokenURL).Msg("FFLogs token exchange")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.valid = false
		return &TransportError{Message: "token exchange request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.valid = false
		return &TransportError{StatusCode: resp.StatusCode, Message: "token response read failed", Err: err}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		s.valid = false
		return &AuthError{StatusCode: resp.StatusCode, Message: "unparsable token response"}
	}

	if tr.Error != "" {
		s.valid = false
		return &AuthError{StatusCode: resp.StatusCode, Message: tr.Error}
	}

	if resp.StatusCode != http.StatusOK || tr.AccessToken == "" {
		s.valid = false
		return &AuthError{StatusCode: resp.StatusCode, Message: "no access token in response"}
	}

	s.token = &models.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
		ExpiresIn:   tr.ExpiresIn,
		AcquiredAt:  time.Now(),
	}
	s.valid = true

	s.logger.Info().Int("expires_in", tr.ExpiresIn).Msg("FFLogs token acquired")
	return nil
}

// IsValid reports whether a token is currently held and valid.
func (s *TokenStore) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid && s.token != nil
}

// Invalidate marks the current token unusable, e.g. after a 401 response or a
// credential change.
func (s *TokenStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = false
}

// Bearer returns the bearer credential for the Authorization header. The
// second return is false when no valid token is held.
func (s *TokenStore) Bearer() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid || s.token == nil {
		return "", false
	}
	return s.token.AccessToken, true
}
