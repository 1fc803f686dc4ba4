package model

import "time"

// Credential is the stored OAuth token set and metadata for one Fitbit user.
type Credential struct {
	UserID       string     `json:"userId"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	TokenType    string     `json:"tokenType"`
	Scope        string     `json:"scope"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	FirstAdded   time.Time  `json:"firstAdded"`
}

// TokenGrant is a token endpoint response: a fresh token pair that has
// not yet been persisted.
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
	UserID       string `json:"user_id"`
}

// APIError is the JSON error body Fitbit returns on non-success statuses.
type APIError struct {
	Success bool             `json:"success"`
	Errors  []APIErrorDetail `json:"errors"`
}

type APIErrorDetail struct {
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
}

// ErrorType returns the machine-readable type of the first error entry,
// or "" when the body carried none.
func (e *APIError) ErrorType() string {
	if e == nil || len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].ErrorType
}

// Message returns the human-readable message of the first error entry.
func (e *APIError) Message() string {
	if e == nil || len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Message
}
