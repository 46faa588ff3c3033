package users

import (
	"context"

	"github.com/kailas-cloud/pfin/internal/domain/search/query"
	domuser "github.com/kailas-cloud/pfin/internal/domain/user"
)

// Repository lists users matching a query.
type Repository interface {
	List(ctx context.Context, q query.Query, limit int) ([]domuser.User, error)
}
