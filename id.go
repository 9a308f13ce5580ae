package galley

import "github.com/xraph/galley/id"

// ID is the primary identifier type for all Galley entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
