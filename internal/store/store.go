// Package store holds the document collection keeping observation records,
// as a small port with two adapters: durable Postgres and in-memory. The
// collection contract is insert, find-all, find-by-id, and delete-by-id,
// keyed by an opaque generated identifier whose canonical form is its
// UUID string.
package store

import (
	"context"
	"errors"

	"github.com/wildvision/observation-store-service/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the given identifier.
	ErrNotFound = errors.New("observation not found")

	// ErrInvalidID is returned when an identifier is not in canonical form.
	ErrInvalidID = errors.New("invalid observation id")
)

// Store is the document collection holding Observation records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Insert persists one observation under a freshly generated identifier
	// and returns that identifier in canonical string form. The ID field of
	// the given observation is ignored.
	Insert(ctx context.Context, obs models.Observation) (string, error)

	// FindAll returns every stored observation in the collection's stable
	// storage order.
	FindAll(ctx context.Context) ([]models.Observation, error)

	// FindByID returns the observation matching id. It returns ErrInvalidID
	// when id is not in canonical form and ErrNotFound when nothing matches.
	FindByID(ctx context.Context, id string) (models.Observation, error)

	// DeleteByID removes the observation matching id. It returns ErrNotFound
	// when zero records were removed, so deleting the same id twice fails
	// the second time.
	DeleteByID(ctx context.Context, id string) error

	// Ping reports whether the collection is reachable.
	Ping(ctx context.Context) error

	// Close releases the collection's resources.
	Close()
}
