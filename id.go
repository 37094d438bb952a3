package hireflow

import "github.com/hireflow/hireflow/id"

// ID is the primary identifier type for all hireflow entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
