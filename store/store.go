// Package store defines the aggregate persistence interface. Each
// subsystem (workflow, record) defines its own store interface; the
// composite Store composes them. Backends: Postgres, Redis, and Memory.
package store

import (
	"context"

	"github.com/hireflow/hireflow/record"
	"github.com/hireflow/hireflow/workflow"
)

// Store is the aggregate persistence interface. A single backend
// (postgres, redis, memory) implements all of it.
type Store interface {
	workflow.Store
	record.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
