package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fitsync/fitsync/internal/model"
	"github.com/fitsync/fitsync/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// makeStore should return a store backed by clean, reachable storage.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()
	grant := &model.TokenGrant{
		UserID:       userID,
		AccessToken:  "tok-1",
		RefreshToken: "rt-1",
		ExpiresIn:    28800,
		Scope:        "sleep activity",
		TokenType:    "Bearer",
	}

	// Upsert then read back.
	require.NoError(t, s.Credentials().Upsert(ctx, grant))
	cred, err := s.Credentials().Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "tok-1", cred.AccessToken)
	require.Equal(t, "rt-1", cred.RefreshToken)
	require.Equal(t, "sleep activity", cred.Scope)
	require.False(t, cred.FirstAdded.IsZero(), "first_added not stamped on insert")
	require.NotNil(t, cred.ExpiresAt, "expires_at not derived")
	wantExpiry := time.Now().UTC().Add(time.Duration(grant.ExpiresIn) * time.Second)
	require.WithinDuration(t, wantExpiry, *cred.ExpiresAt, time.Minute,
		"expires_at must be derived as now + expires_in")

	// Second upsert rotates tokens but preserves enrollment time.
	grant2 := *grant
	grant2.AccessToken = "tok-2"
	grant2.RefreshToken = "rt-2"
	require.NoError(t, s.Credentials().Upsert(ctx, &grant2))
	rotated, err := s.Credentials().Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "tok-2", rotated.AccessToken)
	require.Equal(t, "rt-2", rotated.RefreshToken)
	require.True(t, rotated.FirstAdded.Equal(cred.FirstAdded), "first_added changed on upsert")

	// List includes the user.
	all, err := s.Credentials().List(ctx)
	require.NoError(t, err)
	found := false
	for _, c := range all {
		if c.UserID == userID {
			found = true
		}
	}
	require.True(t, found, "List missing %s", userID)

	// Unknown users surface ErrNotFound.
	_, err = s.Credentials().Get(ctx, "no-such-user")
	require.ErrorIs(t, err, model.ErrNotFound)

	// Transactional swap: upsert and re-read inside one transaction.
	grant3 := grant2
	grant3.AccessToken = "tok-3"
	var inTx *model.Credential
	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Credentials().Upsert(ctx, &grant3); err != nil {
			return err
		}
		inTx, err = tx.Credentials().Get(ctx, userID)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, inTx)
	require.Equal(t, "tok-3", inTx.AccessToken)

	// A failing transaction leaves the record untouched.
	boom := errors.New("boom")
	grant4 := grant3
	grant4.AccessToken = "tok-4"
	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Credentials().Upsert(ctx, &grant4); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	after, err := s.Credentials().Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "tok-3", after.AccessToken, "rolled-back upsert leaked")

	// OAuth state insert/consume is single-use.
	state := "st-" + uuid.New().String()
	require.NoError(t, s.States().Insert(ctx, state, "verifier-1"))
	verifier, err := s.States().Consume(ctx, state)
	require.NoError(t, err)
	require.Equal(t, "verifier-1", verifier)
	_, err = s.States().Consume(ctx, state)
	require.ErrorIs(t, err, model.ErrNotFound)
}
