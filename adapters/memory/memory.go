// Package memory provides in-memory implementations of storage ports.
// Used for tests and for running without a database.
package memory

import "github.com/artpar/billgate/ports"

// ErrNotFound is returned when an entity is not found.
var ErrNotFound = ports.ErrNotFound

// ErrDuplicate is returned when creating an entity whose ID already exists.
var ErrDuplicate = ports.ErrDuplicate
