package models

import "time"

// Token is the OAuth2 bearer token for the logs API. Validity is binary and
// gates all authenticated calls.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	AcquiredAt  time.Time `json:"acquired_at"`
}

// RateLimitState tracks the account's hourly request budget. It is advisory
// telemetry only and never blocks request issuance.
type RateLimitState struct {
	LimitPerHour  int  `json:"limit_per_hour"`
	FetchAttempts int  `json:"fetch_attempts"`
	Loading       bool `json:"loading"`
}
