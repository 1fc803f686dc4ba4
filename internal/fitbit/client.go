// Package fitbit is the outbound client for the Fitbit Web API: one
// bearer-authenticated fetch per (user, category, date) plus the OAuth2
// token endpoint operations. The fetch classifies failures into a closed
// outcome set; retry policy belongs to the caller.
package fitbit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/fitsync/fitsync/internal/category"
	"github.com/fitsync/fitsync/internal/model"
)

// expiredTokenType is the errorType Fitbit sets on a 401 when the access
// token has aged out. It is the only failure the orchestrator recovers from.
const expiredTokenType = "expired_token"

// Outcome classifies one fetch attempt.
type Outcome int

const (
	// OutcomeOK: payload fetched and decodable.
	OutcomeOK Outcome = iota
	// OutcomeInvalid: a required identifier was missing; no call was made.
	OutcomeInvalid
	// OutcomeExpired: upstream signalled an expired access token.
	OutcomeExpired
	// OutcomeUpstream: any other non-success upstream response.
	OutcomeUpstream
	// OutcomeTransport: network-level failure or undecodable body.
	OutcomeTransport
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalid:
		return "invalid_request"
	case OutcomeExpired:
		return "expired_token"
	case OutcomeUpstream:
		return "upstream_error"
	case OutcomeTransport:
		return "transport_error"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// FetchResult is the outcome of one authenticated fetch. Payload is set
// only for OutcomeOK; StatusCode, ErrorType and Message carry upstream
// detail for the failure outcomes.
type FetchResult struct {
	Outcome    Outcome
	Payload    json.RawMessage
	StatusCode int
	ErrorType  string
	Message    string
}

// RefreshError reports a rejected refresh attempt with the raw response
// captured for diagnostics.
type RefreshError struct {
	StatusCode int
	Body       string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh rejected with status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Fitbit Web API and token endpoint using the
// application's OAuth client credentials.
type Client struct {
	http         *resty.Client
	clientID     string
	clientSecret string
	redirectURI  string
	log          zerolog.Logger
}

// New builds a Client against baseURL (https://api.fitbit.com in
// production; tests point it at a local server).
func New(baseURL, clientID, clientSecret, redirectURI string, timeout time.Duration, log zerolog.Logger) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{
		http:         c,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		log:          log,
	}
}

// FetchDayData issues one authenticated GET for the category's resource
// path. It never retries; an expired token surfaces as OutcomeExpired for
// the orchestrator to act on.
func (c *Client) FetchDayData(ctx context.Context, cred *model.Credential, cat category.Category, date string) FetchResult {
	if cred == nil || cred.AccessToken == "" || cred.UserID == "" || date == "" {
		return FetchResult{
			Outcome: OutcomeInvalid,
			Message: "missing required fields: date, user_id, or access_token",
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(cred.AccessToken).
		Get(cat.Path(cred.UserID, date))
	if err != nil {
		return FetchResult{Outcome: OutcomeTransport, Message: err.Error()}
	}

	if !resp.IsSuccess() {
		var apiErr model.APIError
		if err := json.Unmarshal(resp.Body(), &apiErr); err != nil {
			return FetchResult{
				Outcome:    OutcomeUpstream,
				StatusCode: resp.StatusCode(),
				Message:    "undecodable error body",
			}
		}
		if apiErr.ErrorType() == expiredTokenType {
			return FetchResult{
				Outcome:    OutcomeExpired,
				StatusCode: resp.StatusCode(),
				ErrorType:  apiErr.ErrorType(),
				Message:    apiErr.Message(),
			}
		}
		return FetchResult{
			Outcome:    OutcomeUpstream,
			StatusCode: resp.StatusCode(),
			ErrorType:  apiErr.ErrorType(),
			Message:    apiErr.Message(),
		}
	}

	body := resp.Body()
	if !json.Valid(body) {
		return FetchResult{Outcome: OutcomeTransport, Message: "response body is not valid JSON"}
	}
	return FetchResult{Outcome: OutcomeOK, Payload: json.RawMessage(body), StatusCode: resp.StatusCode()}
}

// Refresh exchanges the stored refresh token for a new token pair using
// the application's client credentials. The grant it returns is fresh,
// not yet persisted; the caller owns persistence, and must replace the
// stored refresh token since providers rotate it on use.
func (c *Client) Refresh(ctx context.Context, cred *model.Credential) (*model.TokenGrant, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.clientID, c.clientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": cred.RefreshToken,
		}).
		Post("/oauth2/token")
	if err != nil {
		return nil, fmt.Errorf("token refresh request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &RefreshError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	var grant model.TokenGrant
	if err := json.Unmarshal(resp.Body(), &grant); err != nil {
		return nil, fmt.Errorf("undecodable token response: %w", err)
	}
	c.log.Info().Str("user_id", grant.UserID).Msg("token refreshed")
	return &grant, nil
}

// ExchangeCode completes the PKCE authorization-code flow for a newly
// enrolling user.
func (c *Client) ExchangeCode(ctx context.Context, code, verifier string) (*model.TokenGrant, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.clientID, c.clientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"client_id":     c.clientID,
			"grant_type":    "authorization_code",
			"redirect_uri":  c.redirectURI,
			"code":          code,
			"code_verifier": verifier,
		}).
		Post("/oauth2/token")
	if err != nil {
		return nil, fmt.Errorf("code exchange request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("code exchange rejected with status %d: %s", resp.StatusCode(), resp.Body())
	}

	var grant model.TokenGrant
	if err := json.Unmarshal(resp.Body(), &grant); err != nil {
		return nil, fmt.Errorf("undecodable token response: %w", err)
	}
	return &grant, nil
}

// AuthorizeURL builds the Fitbit authorization redirect for one PKCE
// challenge and state token.
func AuthorizeURL(base, clientID, scopes, redirectURI, challenge, state string) string {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("response_type", "code")
	q.Set("scope", scopes)
	q.Set("redirect_uri", redirectURI)
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", "S256")
	q.Set("state", state)
	return base + "/oauth2/authorize?" + q.Encode()
}
