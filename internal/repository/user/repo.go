// Package user looks up user documents and maps them to typed users.
package user

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pfin/internal/db"
	"github.com/kailas-cloud/pfin/internal/domain/record"
	"github.com/kailas-cloud/pfin/internal/domain/search/query"
	domuser "github.com/kailas-cloud/pfin/internal/domain/user"
	"github.com/kailas-cloud/pfin/internal/logger"
)

// store is the consumer interface for users (ISP).
type store interface {
	Find(ctx context.Context, q query.Query, limit int) ([]db.Record, error)
	FindOne(ctx context.Context, q query.Query) (db.Record, error)
}

// Repo implements usecase/auth.UserReader and usecase/users.Repository.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// LookupOne finds a user by exact email. A missing user is reported through
// found=false, not as an error.
func (r *Repo) LookupOne(ctx context.Context, email string) (u domuser.User, found bool, err error) {
	raw, err := r.store.FindOne(ctx, query.Eq(record.UserEmail, email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return domuser.User{}, false, nil
		}
		return domuser.User{}, false, fmt.Errorf("find user: %w", err)
	}

	rec, err := record.Normalize(ctx, raw, record.UserSpec)
	if err != nil {
		return domuser.User{}, false, fmt.Errorf("normalize user: %w", err)
	}
	return domuser.FromRecord(rec), true, nil
}

// List runs q against the users collection. limit 0 means no cap.
func (r *Repo) List(ctx context.Context, q query.Query, limit int) ([]domuser.User, error) {
	raws, err := r.store.Find(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	out := make([]domuser.User, 0, len(raws))
	for _, raw := range raws {
		rec, err := record.Normalize(ctx, raw, record.UserSpec)
		if err != nil {
			logger.FromContext(ctx).Warn("user: skipping malformed document", zap.Error(err))
			continue
		}
		out = append(out, domuser.FromRecord(rec))
	}
	return out, nil
}
