package db

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/pfin/internal/domain"
)

// Sentinel errors for database operations.
var (
	ErrNotFound          = errors.New("db: document not found")
	ErrUnknownDatabase   = fmt.Errorf("db: unknown database: %w", domain.ErrInvalidArgument)
	ErrUnknownCollection = fmt.Errorf("db: unknown collection: %w", domain.ErrInvalidArgument)
)

// Op names used for error context.
const (
	OpPing            = "PING"
	OpListDatabases   = "LIST_DATABASES"
	OpListCollections = "LIST_COLLECTIONS"
	OpFind            = "FIND"
	OpFindOne         = "FIND_ONE"
	OpDecode          = "DECODE"
	OpScan            = "SCAN"
	OpJSONGet         = "JSON.GET"
	OpJSONSet         = "JSON.SET"
	OpSIsMember       = "SISMEMBER"
	OpSAdd            = "SADD"
	OpReplace         = "REPLACE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// UnknownNameError reports a database or collection that does not exist,
// together with the names that do.
type UnknownNameError struct {
	Kind      error // ErrUnknownDatabase or ErrUnknownCollection
	Name      string
	Available []string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("%s %q, pick one from %v", e.Kind.Error(), e.Name, e.Available)
}

func (e *UnknownNameError) Unwrap() error { return e.Kind }
