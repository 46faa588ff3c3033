package auth

import (
	"context"

	domuser "github.com/kailas-cloud/pfin/internal/domain/user"
)

// UserReader looks up a single user by email.
type UserReader interface {
	LookupOne(ctx context.Context, email string) (u domuser.User, found bool, err error)
}
