package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fitsync/fitsync/internal/auth"
	"github.com/fitsync/fitsync/internal/fitbit"
	"github.com/fitsync/fitsync/internal/model"
	"github.com/fitsync/fitsync/internal/store"
)

// CodeExchanger swaps an authorization code plus its PKCE verifier for
// a token grant.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code, verifier string) (*model.TokenGrant, error)
}

// OAuthHandler implements the browser-facing enrollment flow: /auth
// starts the authorization-code grant with PKCE, /callback completes it
// and persists the credential.
type OAuthHandler struct {
	store     store.Store
	exchanger CodeExchanger

	authorizeBase string
	clientID      string
	scopes        string
	redirectURI   string

	log zerolog.Logger
}

func NewOAuthHandler(st store.Store, exchanger CodeExchanger, authorizeBase, clientID, scopes, redirectURI string, log zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		store:         st,
		exchanger:     exchanger,
		authorizeBase: authorizeBase,
		clientID:      clientID,
		scopes:        scopes,
		redirectURI:   redirectURI,
		log:           log.With().Str("component", "oauth").Logger(),
	}
}

// Landing handles GET /. It serves a minimal enrollment page pointing
// at /auth.
func (h *OAuthHandler) Landing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>fitsync</title></head>
<body>
<h1>fitsync</h1>
<p><a href="/auth">Connect your Fitbit account</a></p>
</body>
</html>`))
}

// Authorize handles GET /auth. It mints a PKCE pair and a state token,
// stores verifier-by-state, and redirects to the Fitbit consent page.
func (h *OAuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	pkce, err := auth.GeneratePKCE()
	if err != nil {
		h.log.Error().Err(err).Msg("pkce generation failed")
		writeError(w, http.StatusInternalServerError, "could not start authorization")
		return
	}
	state := uuid.NewString()
	if err := h.store.States().Insert(r.Context(), state, pkce.Verifier); err != nil {
		h.log.Error().Err(err).Msg("persist oauth state failed")
		writeError(w, http.StatusInternalServerError, "could not start authorization")
		return
	}
	url := fitbit.AuthorizeURL(h.authorizeBase, h.clientID, h.scopes, h.redirectURI, pkce.Challenge, state)
	http.Redirect(w, r, url, http.StatusFound)
}

// Callback handles GET /callback. The state must match a pending
// authorization; it is single-use, so a replayed callback fails.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		h.log.Warn().Str("error", errParam).Msg("authorization denied upstream")
		writeError(w, http.StatusBadRequest, "authorization denied: "+errParam)
		return
	}
	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		writeError(w, http.StatusBadRequest, "missing code or state")
		return
	}

	verifier, err := h.store.States().Consume(r.Context(), state)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "unknown or expired state")
			return
		}
		h.log.Error().Err(err).Msg("consume oauth state failed")
		writeError(w, http.StatusInternalServerError, "authorization failed")
		return
	}

	grant, err := h.exchanger.ExchangeCode(r.Context(), code, verifier)
	if err != nil {
		h.log.Error().Err(err).Msg("code exchange failed")
		writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}
	if err := h.store.Credentials().Upsert(r.Context(), grant); err != nil {
		h.log.Error().Err(err).Str("user_id", grant.UserID).Msg("persist credential failed")
		writeError(w, http.StatusInternalServerError, "could not persist credential")
		return
	}
	h.log.Info().Str("user_id", grant.UserID).Str("scope", grant.Scope).Msg("user enrolled")
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "enrolled",
		"user_id": grant.UserID,
	})
}
