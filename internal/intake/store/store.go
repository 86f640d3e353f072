// Package store defines the persistence gateway contract for client intake
// records. Implementations are interface-driven so the coordinator stays
// testable and in-memory, Postgres or Redis persistence can be swapped
// without rewiring business code.
package store

import (
	"context"

	"intake/internal/intake/models"
	id "intake/pkg/domain"
)

// ClientStore is the opaque document store keyed by client id.
//
// Execute is the atomic read-validate-mutate primitive: implementations hold
// their exclusion mechanism (mutex, FOR UPDATE, WATCH) across both callbacks,
// bump the record's version and set UpdatedAt before persisting. A validate
// error aborts with the record unchanged.
type ClientStore interface {
	Create(ctx context.Context, record *models.ClientRecord) error
	FindByID(ctx context.Context, clientID id.ClientID) (*models.ClientRecord, error)
	Execute(ctx context.Context, clientID id.ClientID,
		validate func(*models.ClientRecord) error,
		mutate func(*models.ClientRecord)) (*models.ClientRecord, error)
	NextSequence(ctx context.Context) (int64, error)
	Health(ctx context.Context) error
}
