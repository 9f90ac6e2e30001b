// Package store persists scene documents.
//
// A stored scene is a [sceneio.Document] plus bookkeeping: a UUID, a
// user-facing name, and timestamps. Two backends implement [Store]:
//
//   - [NewFileStore]: one JSON file per scene under a directory, for CLI use
//   - [NewMongoStore]: a MongoDB collection, for server deployments
//
// Both backends treat the document as opaque apart from the name index;
// round-trip fidelity is the sceneio package's responsibility.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/benchray/benchray/pkg/sceneio"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no scene exists under the given ID.
	ErrNotFound = errors.New("scene not found")

	// ErrDuplicateName is returned by Save when another scene already
	// uses the requested name.
	ErrDuplicateName = errors.New("scene name already in use")
)

// Record is a stored scene document with its bookkeeping fields.
type Record struct {
	ID        string           `json:"id" bson:"_id"`
	Name      string           `json:"name" bson:"name"`
	Document  sceneio.Document `json:"document" bson:"document"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" bson:"updated_at"`
}

// Store is the interface scene store backends implement.
type Store interface {
	// Save creates or updates a record. A record with an empty ID is
	// assigned a fresh UUID; the (possibly updated) record is returned.
	Save(ctx context.Context, rec Record) (Record, error)

	// Get retrieves a record by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (Record, error)

	// List returns all records sorted by name, documents included.
	List(ctx context.Context) ([]Record, error)

	// Delete removes a record. Deleting a missing ID returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
