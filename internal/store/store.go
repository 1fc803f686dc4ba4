// Package store defines the persistence operations the importer and the
// OAuth front-end require. Implementations live under
// internal/store/<driver>/ (currently postgres).
package store

import (
	"context"

	"github.com/fitsync/fitsync/internal/model"
)

// Store exposes the credential and OAuth-state gateways plus a
// transactional scope. The transaction capability exists for exactly one
// caller: the refresh protocol's credential swap.
type Store interface {
	Credentials() Credentials
	States() States

	// WithTx runs fn inside one transaction. The transaction commits when
	// fn returns nil and rolls back otherwise; the underlying resource is
	// released on both paths.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
}

// Tx exposes the credential operations bound to one open transaction.
type Tx interface {
	Credentials() Credentials
}

// Credentials reads and writes one token record per Fitbit user.
type Credentials interface {
	// Upsert persists a token grant keyed by its user id. expires_at is
	// derived as now + expires_in at this point, never trusted from
	// elsewhere; first_added is set on first insert and preserved after.
	Upsert(ctx context.Context, grant *model.TokenGrant) error

	// Get returns one user's credential, or model.ErrNotFound.
	Get(ctx context.Context, userID string) (*model.Credential, error)

	// List returns every enrolled user's credential in storage order.
	List(ctx context.Context) ([]*model.Credential, error)
}

// States stores the per-authorization PKCE verifier keyed by the OAuth
// state token.
type States interface {
	Insert(ctx context.Context, state, verifier string) error

	// Consume atomically removes a fresh state entry and returns its
	// verifier, or model.ErrNotFound when the state is unknown or stale.
	Consume(ctx context.Context, state string) (string, error)
}
